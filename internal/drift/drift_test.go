package drift

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgen/internal/document"
)

func candidateWith(id, text string) *document.Candidate {
	return &document.Candidate{Sections: []document.Section{
		{ID: id, Text: text, Hash: document.HashText(text)},
	}}
}

func existingWith(id, text, recordedFrom string) *document.Existing {
	return &document.Existing{Sections: []document.Section{
		{
			ID:           id,
			Text:         text,
			Hash:         document.HashText(text),
			RecordedHash: document.HashText(recordedFrom),
		},
	}}
}

func TestDetect_NoExistingDocument_AllNew(t *testing.T) {
	drifts := Detect(candidateWith("add", "Adds two numbers"), nil)

	require.Len(t, drifts, 1)
	require.Equal(t, New, drifts[0].Classification)
}

func TestDetect_SameEverywhere_Unchanged(t *testing.T) {
	text := "Adds two numbers"
	drifts := Detect(candidateWith("add", text), existingWith("add", text, text))

	require.Equal(t, Unchanged, drifts[0].Classification)
}

func TestDetect_SourceChangedOnly_Stale(t *testing.T) {
	old := "Adds two numbers"
	drifts := Detect(candidateWith("add", "Adds numbers together"), existingWith("add", old, old))

	require.Equal(t, Stale, drifts[0].Classification)
}

func TestDetect_HumanChangedOnly_ManuallyEdited(t *testing.T) {
	old := "Adds two numbers"
	drifts := Detect(candidateWith("add", old), existingWith("add", "Computes the sum of two numbers", old))

	require.Equal(t, ManuallyEdited, drifts[0].Classification)
}

func TestDetect_BothChanged_Conflict(t *testing.T) {
	old := "Adds two numbers"
	drifts := Detect(candidateWith("add", "Adds numbers together"), existingWith("add", "Computes the sum", old))

	require.Equal(t, Conflict, drifts[0].Classification)
}

func TestDetect_ExistingOnly_Removed(t *testing.T) {
	existing := existingWith("gone", "old text", "old text")
	drifts := Detect(&document.Candidate{}, existing)

	require.Len(t, drifts, 1)
	require.Equal(t, Removed, drifts[0].Classification)
	require.Equal(t, "gone", drifts[0].ID)
	require.Equal(t, "old text", drifts[0].Existing.Text)
}

func TestDetect_CosmeticWhitespace_NotDrift(t *testing.T) {
	old := "Adds two numbers\n"
	drifts := Detect(candidateWith("add", "Adds two numbers   \n\n"), existingWith("add", old, old))

	require.Equal(t, Unchanged, drifts[0].Classification)
}

func TestDetect_OrderIsCandidateThenRemoved(t *testing.T) {
	candidate := &document.Candidate{Sections: []document.Section{
		{ID: "overview", Text: "o", Hash: document.HashText("o")},
		{ID: "add", Text: "a", Hash: document.HashText("a")},
	}}
	existing := &document.Existing{Sections: []document.Section{
		{ID: "gone", Text: "g", Hash: document.HashText("g"), RecordedHash: document.HashText("g")},
		{ID: "overview", Text: "o", Hash: document.HashText("o"), RecordedHash: document.HashText("o")},
	}}

	drifts := Detect(candidate, existing)

	ids := make([]string, len(drifts))
	for i, d := range drifts {
		ids[i] = d.ID
	}
	require.Equal(t, []string{"overview", "add", "gone"}, ids)
}
