package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractOutline_ReturnsHeadingsInOrder(t *testing.T) {
	body := []byte("# calc\n\nIntro text.\n\n### add\n\nAdds two numbers.\n\n### sub\n")

	outline := ExtractOutline(body)

	require.Equal(t, []Heading{
		{Level: 1, Text: "calc"},
		{Level: 3, Text: "add"},
		{Level: 3, Text: "sub"},
	}, outline)
}

func TestExtractOutline_NoHeadings_Empty(t *testing.T) {
	require.Empty(t, ExtractOutline([]byte("just a paragraph\n")))
}
