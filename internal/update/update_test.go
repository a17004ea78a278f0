package update

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgen/internal/document"
	"git.home.luguber.info/inful/docgen/internal/drift"
)

func newCandidate(texts map[string]string, order ...string) *document.Candidate {
	c := &document.Candidate{Fields: map[string]any{"name": "calc", "summary": "Arithmetic helpers."}}
	for _, id := range order {
		text := texts[id]
		c.Sections = append(c.Sections, document.Section{ID: id, Text: text, Hash: document.HashText(text)})
	}
	return c
}

// applyAgainstDisk runs the parse-detect-apply half of the pipeline against
// whatever document currently sits at path.
func applyAgainstDisk(t *testing.T, path string, candidate *document.Candidate, opts Options) *Result {
	t.Helper()

	var raw []byte
	var existing *document.Existing
	if data, err := os.ReadFile(path); err == nil {
		raw = data
		parsed, _, err := document.ParseExisting(data)
		require.NoError(t, err)
		existing = parsed
	}

	drifts := drift.Detect(candidate, existing)
	res, err := Apply(raw, existing, candidate, drifts, opts)
	require.NoError(t, err)
	return res
}

func TestApply_FirstRun_WritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	candidate := newCandidate(map[string]string{"add": "Adds two numbers"}, "add")

	res := applyAgainstDisk(t, path, candidate, Options{Path: path})

	require.Equal(t, StatusUpdated, res.Status)
	require.True(t, res.Written)
	require.Equal(t, drift.New, res.Sections["add"])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "docgen:begin add")
	require.Contains(t, string(raw), "Adds two numbers")
}

func TestApply_SecondRunUnchanged_NoWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	candidate := newCandidate(map[string]string{"add": "Adds two numbers"}, "add")

	applyAgainstDisk(t, path, candidate, Options{Path: path})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	res := applyAgainstDisk(t, path, candidate, Options{Path: path})

	require.Equal(t, StatusUnchanged, res.Status)
	require.False(t, res.Written)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestApply_StaleSection_Regenerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	applyAgainstDisk(t, path, newCandidate(map[string]string{"add": "Adds two numbers"}, "add"), Options{Path: path})

	res := applyAgainstDisk(t, path, newCandidate(map[string]string{"add": "Adds numbers together"}, "add"), Options{Path: path})

	require.Equal(t, StatusUpdated, res.Status)
	require.Equal(t, drift.Stale, res.Sections["add"])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "Adds numbers together")
	require.NotContains(t, string(raw), "Adds two numbers")
}

// editSectionText simulates a human editing the generated document in place.
func editSectionText(t *testing.T, path, old, edited string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), old)
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(string(raw), old, edited, 1)), 0o644))
}

func TestApply_ManuallyEdited_PreservedByteIdentical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	candidate := newCandidate(map[string]string{"add": "Adds two numbers"}, "add")
	applyAgainstDisk(t, path, candidate, Options{Path: path})

	editSectionText(t, path, "Adds two numbers", "Computes the sum of two numbers")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	res := applyAgainstDisk(t, path, candidate, Options{Path: path})

	require.Equal(t, drift.ManuallyEdited, res.Sections["add"])
	require.Empty(t, res.ConflictingSections)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(after), "Computes the sum of two numbers")
	require.Equal(t, before, after)
}

func TestApply_ManualEditWithTrailingBlankLines_PreservedByteIdentical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	candidate := newCandidate(map[string]string{"add": "Adds two numbers"}, "add")
	applyAgainstDisk(t, path, candidate, Options{Path: path})

	editSectionText(t, path, "Adds two numbers", "Computes the sum\n\n")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	res := applyAgainstDisk(t, path, candidate, Options{Path: path})

	require.Equal(t, drift.ManuallyEdited, res.Sections["add"])
	require.False(t, res.Written)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestApply_Conflict_KeepsDiskTextAndReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	applyAgainstDisk(t, path, newCandidate(map[string]string{"add": "Adds two numbers"}, "add"), Options{Path: path})

	editSectionText(t, path, "Adds two numbers", "Computes the sum of two numbers")

	res := applyAgainstDisk(t, path, newCandidate(map[string]string{"add": "Adds numbers together"}, "add"), Options{Path: path})

	require.Equal(t, StatusConflicts, res.Status)
	require.Equal(t, []string{"add"}, res.ConflictingSections)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "Computes the sum of two numbers")
	require.NotContains(t, string(raw), "Adds numbers together")
}

func TestApply_RemovedSection_DroppedWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	applyAgainstDisk(t, path, newCandidate(map[string]string{
		"add": "Adds two numbers",
		"sub": "Subtracts b from a",
	}, "add", "sub"), Options{Path: path})

	res := applyAgainstDisk(t, path, newCandidate(map[string]string{"add": "Adds two numbers"}, "add"), Options{Path: path})

	require.Equal(t, drift.Removed, res.Sections["sub"])
	require.NotEmpty(t, res.Warnings)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "Subtracts b from a")
}

func TestApply_DryRun_TouchesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	candidate := newCandidate(map[string]string{"add": "Adds two numbers"}, "add")

	res := applyAgainstDisk(t, path, candidate, Options{Path: path, DryRun: true})

	require.Equal(t, StatusUpdated, res.Status)
	require.False(t, res.Written)
	require.NoFileExists(t, path)
}

func TestApply_HumanTextAfterSections_StaysAfterSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	applyAgainstDisk(t, path, newCandidate(map[string]string{"add": "Adds two numbers"}, "add"), Options{Path: path})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(raw, []byte("\nA closing note a human left here.\n")...), 0o644))

	// A stale section forces a rewrite; the note must not move.
	res := applyAgainstDisk(t, path, newCandidate(map[string]string{"add": "Adds numbers together"}, "add"), Options{Path: path})
	require.True(t, res.Written)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	noteIdx := strings.Index(string(after), "A closing note a human left here.")
	endIdx := strings.Index(string(after), "<!-- docgen:end add -->")
	require.Greater(t, noteIdx, endIdx)

	// And the rewritten document is stable on the next run.
	res = applyAgainstDisk(t, path, newCandidate(map[string]string{"add": "Adds numbers together"}, "add"), Options{Path: path})
	require.Equal(t, StatusUnchanged, res.Status)
	require.False(t, res.Written)
}

func TestApply_HumanTextOutsideSections_Survives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "REFERENCE.md")
	candidate := newCandidate(map[string]string{"add": "Adds two numbers"}, "add")
	applyAgainstDisk(t, path, candidate, Options{Path: path})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	idx := strings.Index(string(raw), "<!-- docgen:begin")
	require.GreaterOrEqual(t, idx, 0)
	withNote := string(raw[:idx]) + "A note a human left here.\n\n" + string(raw[idx:])
	require.NoError(t, os.WriteFile(path, []byte(withNote), 0o644))

	applyAgainstDisk(t, path, candidate, Options{Path: path})

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(after), "A note a human left here.")
	require.Contains(t, string(after), "Adds two numbers")
}
