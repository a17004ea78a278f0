package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashText_WhitespaceVariants_HashEqual(t *testing.T) {
	base := HashText("# Title\n\nSome text.\n")

	require.Equal(t, base, HashText("# Title\r\n\r\nSome text.\r\n"))
	require.Equal(t, base, HashText("# Title   \n\nSome text.\n\n\n"))
	require.Equal(t, base, HashText("\n\n# Title\n\n\n\nSome text."))
}

func TestHashText_ContentChange_HashDiffers(t *testing.T) {
	require.NotEqual(t, HashText("Adds two numbers"), HashText("Adds numbers together"))
}

func TestHashText_Length_Is16Hex(t *testing.T) {
	h := HashText("anything")
	require.Len(t, h, 16)
	require.Regexp(t, "^[0-9a-f]+$", h)
}

func TestAssembleParseExisting_RoundTrip(t *testing.T) {
	sections := []Section{
		{ID: "overview", Text: "# calc\n\nArithmetic helpers.", RecordedHash: HashText("# calc\n\nArithmetic helpers.")},
		{ID: "add", Text: "### add\n\nAdds two numbers", RecordedHash: HashText("### add\n\nAdds two numbers")},
	}
	fields := map[string]any{"name": "calc", "summary": "Arithmetic helpers."}

	out, err := Assemble(fields, nil, sections)
	require.NoError(t, err)

	existing, warnings, err := ParseExisting(out)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Empty(t, existing.Extras)
	require.Equal(t, "calc", existing.Fields["name"])
	require.Len(t, existing.Sections, 2)

	require.Equal(t, "overview", existing.Sections[0].ID)
	require.Equal(t, sections[0].RecordedHash, existing.Sections[0].RecordedHash)
	require.Equal(t, existing.Sections[0].RecordedHash, existing.Sections[0].Hash)

	require.Equal(t, "add", existing.Sections[1].ID)
	require.Equal(t, "### add\n\nAdds two numbers", existing.Sections[1].Text)
}

func TestAssemble_IsDeterministic(t *testing.T) {
	sections := []Section{{ID: "s1", Text: "text", RecordedHash: HashText("text")}}
	fields := map[string]any{"name": "calc", "tags": []string{"b", "a"}}

	first, err := Assemble(fields, nil, sections)
	require.NoError(t, err)
	second, err := Assemble(fields, nil, sections)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestParseExisting_ManualEditChangesTextHashOnly(t *testing.T) {
	recorded := HashText("original text")
	doc := strings.Join([]string{
		BeginMarker("s1", recorded),
		"edited by a human",
		EndMarker("s1"),
		"",
	}, "\n")

	existing, warnings, err := ParseExisting([]byte(doc))
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, existing.Sections, 1)
	require.Equal(t, recorded, existing.Sections[0].RecordedHash)
	require.NotEqual(t, existing.Sections[0].RecordedHash, existing.Sections[0].Hash)
}

func TestParseExisting_UnterminatedSection_PreservedWithWarning(t *testing.T) {
	doc := strings.Join([]string{
		BeginMarker("good", "aaaaaaaaaaaaaaaa"),
		"good text",
		EndMarker("good"),
		BeginMarker("broken", "bbbbbbbbbbbbbbbb"),
		"dangling text",
		"",
	}, "\n")

	existing, warnings, err := ParseExisting([]byte(doc))
	require.NoError(t, err)
	require.Len(t, existing.Sections, 1)
	require.Equal(t, "good", existing.Sections[0].ID)
	require.NotEmpty(t, warnings)
	require.Contains(t, strings.Join(warnings, "\n"), "broken")
	// The dangling region is preserved, not dropped.
	require.Contains(t, extrasText(existing), "dangling text")
}

func TestParseExisting_MalformedMarker_PreservedWithWarning(t *testing.T) {
	doc := "<!-- docgen:begin noHash -->\nsome text\n<!-- docgen:end noHash -->\n"

	existing, warnings, err := ParseExisting([]byte(doc))
	require.NoError(t, err)
	require.Empty(t, existing.Sections)
	require.NotEmpty(t, warnings)
	require.Contains(t, extrasText(existing), "some text")
}

func TestParseExisting_LeadingHumanText_KeptAsExtra(t *testing.T) {
	doc := "A note a human left here.\n\n" +
		BeginMarker("s1", HashText("text")) + "\ntext\n" + EndMarker("s1") + "\n"

	existing, warnings, err := ParseExisting([]byte(doc))
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, []Extra{{Text: "A note a human left here.", Index: 0}}, existing.Extras)
	require.Len(t, existing.Sections, 1)
}

func extrasText(e *Existing) string {
	parts := make([]string, len(e.Extras))
	for i, x := range e.Extras {
		parts[i] = x.Text
	}
	return strings.Join(parts, "\n")
}

func TestParseExisting_TrailingHumanText_AnchoredAfterSection(t *testing.T) {
	doc := BeginMarker("s1", HashText("text")) + "\ntext\n" + EndMarker("s1") + "\n\n" +
		"A closing note a human left here.\n"

	existing, warnings, err := ParseExisting([]byte(doc))
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, []Extra{{Text: "A closing note a human left here.", Index: 1}}, existing.Extras)
}

func TestAssemble_ExtrasKeepTheirPositions(t *testing.T) {
	sections := []Section{
		{ID: "a", Text: "first", RecordedHash: HashText("first")},
		{ID: "b", Text: "second", RecordedHash: HashText("second")},
	}
	extras := []Extra{
		{Text: "leading note", Index: 0},
		{Text: "note between", Index: 1},
		{Text: "closing note", Index: 2},
	}

	out, err := Assemble(nil, extras, sections)
	require.NoError(t, err)

	text := string(out)
	require.Less(t, strings.Index(text, "leading note"), strings.Index(text, "docgen:begin a"))
	require.Less(t, strings.Index(text, "docgen:end a"), strings.Index(text, "note between"))
	require.Less(t, strings.Index(text, "note between"), strings.Index(text, "docgen:begin b"))
	require.Less(t, strings.Index(text, "docgen:end b"), strings.Index(text, "closing note"))

	// A round trip through parse and re-assembly is byte stable.
	existing, _, err := ParseExisting(out)
	require.NoError(t, err)
	again, err := Assemble(nil, existing.Extras, existing.Sections)
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestAssembleParseExisting_TrailingBlankLinesInSection_RoundTrip(t *testing.T) {
	edited := "Computes the sum\n\n"
	sections := []Section{{ID: "add", Text: edited, RecordedHash: HashText("Adds two numbers")}}

	out, err := Assemble(nil, nil, sections)
	require.NoError(t, err)

	existing, _, err := ParseExisting(out)
	require.NoError(t, err)
	require.Len(t, existing.Sections, 1)
	require.Equal(t, edited, existing.Sections[0].Text)

	again, err := Assemble(nil, nil, existing.Sections)
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestFingerprint_ExcludesFingerprintField(t *testing.T) {
	body := []byte("body\n")
	fields := map[string]any{"name": "calc"}

	fp1, err := Fingerprint(fields, body)
	require.NoError(t, err)

	withFP, err := fingerprintFields(fields, body)
	require.NoError(t, err)
	fp2, err := Fingerprint(withFP, body)
	require.NoError(t, err)

	require.Equal(t, fp1, fp2)
}
