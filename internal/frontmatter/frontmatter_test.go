package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	blk, err := Parse(input)
	require.NoError(t, err)
	require.False(t, blk.Had)
	require.Nil(t, blk.Fields)
	require.Equal(t, input, blk.Body)
}

func TestParse_YAMLFrontmatter_DecodesFieldsAndBody(t *testing.T) {
	input := []byte("---\nname: adder\ntags:\n  - math\n---\n# Title\n")

	blk, err := Parse(input)
	require.NoError(t, err)
	require.True(t, blk.Had)
	require.Equal(t, "adder", blk.String("name"))
	require.Equal(t, []string{"math"}, blk.Strings("tags"))
	require.Equal(t, []byte("# Title\n"), blk.Body)
}

func TestParse_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, err := Parse([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestParse_CRLF_DetectsStyle(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	blk, err := Parse(input)
	require.NoError(t, err)
	require.True(t, blk.Had)
	require.Equal(t, "\r\n", blk.Style.Newline)
	require.Equal(t, "value", blk.String("key"))
	require.Equal(t, []byte("# Title\r\n"), blk.Body)
}

func TestParse_EmptyFrontmatterBlock_YieldsEmptyFields(t *testing.T) {
	blk, err := Parse([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, blk.Had)
	require.Empty(t, blk.Fields)
	require.Equal(t, []byte("# Title\n"), blk.Body)
}

func TestBytes_RoundTrip_IsStable(t *testing.T) {
	input := []byte("---\nname: adder\nsummary: Adds numbers\n---\n# Title\n")

	blk, err := Parse(input)
	require.NoError(t, err)

	out, err := blk.Bytes()
	require.NoError(t, err)

	blk2, err := Parse(out)
	require.NoError(t, err)
	out2, err := blk2.Bytes()
	require.NoError(t, err)
	require.Equal(t, out, out2)
}

func TestSerialize_SortsKeys(t *testing.T) {
	fields := map[string]any{"zeta": "z", "alpha": "a", "mid": map[string]any{"b": 1, "a": 2}}

	out1, err := Serialize(fields, Style{})
	require.NoError(t, err)
	out2, err := Serialize(fields, Style{})
	require.NoError(t, err)

	require.Equal(t, out1, out2)
	require.Equal(t, "alpha: a\nmid:\n  a: 2\n  b: 1\nzeta: z\n", string(out1))
}

func TestSerialize_Empty_ReturnsEmptySlice(t *testing.T) {
	out, err := Serialize(nil, Style{})
	require.NoError(t, err)
	require.Empty(t, out)
}
