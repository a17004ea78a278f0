// Package drift classifies each section of a freshly rendered candidate
// against the previously generated document.
//
// The comparison is three-way: the hash recorded in the section's begin
// marker (last generation), the candidate's hash (current source), and the
// hash of the text currently on disk (current human state). Two booleans,
// "source changed" and "human changed", map onto four classifications; ids
// present on only one side are new or removed.
package drift

import (
	"git.home.luguber.info/inful/docgen/internal/document"
)

// Classification is the per-section drift verdict.
type Classification string

const (
	Unchanged      Classification = "unchanged"
	Stale          Classification = "stale"
	ManuallyEdited Classification = "manually-edited"
	Conflict       Classification = "conflict"
	New            Classification = "new"
	Removed        Classification = "removed"
)

// SectionDrift pairs a section id with its classification and the section
// records it was derived from. Candidate is zero-valued for removed sections,
// Existing for new ones.
type SectionDrift struct {
	ID             string
	Classification Classification
	Candidate      document.Section
	Existing       document.Section
}

// Detect classifies every section of the candidate against the existing
// document. A nil existing means a first run: every section is New.
//
// The result is ordered: candidate sections in candidate order, then removed
// sections in existing order.
func Detect(candidate *document.Candidate, existing *document.Existing) []SectionDrift {
	drifts := make([]SectionDrift, 0, len(candidate.Sections))

	for _, cs := range candidate.Sections {
		d := SectionDrift{ID: cs.ID, Candidate: cs}
		if existing == nil {
			d.Classification = New
			drifts = append(drifts, d)
			continue
		}

		es, ok := existing.Section(cs.ID)
		if !ok {
			d.Classification = New
			drifts = append(drifts, d)
			continue
		}

		d.Existing = es
		d.Classification = classify(
			cs.Hash != es.RecordedHash, // source changed since last generation
			es.Hash != es.RecordedHash, // human changed the on-disk text
		)
		drifts = append(drifts, d)
	}

	if existing == nil {
		return drifts
	}

	candidateIDs := map[string]bool{}
	for _, cs := range candidate.Sections {
		candidateIDs[cs.ID] = true
	}
	for _, es := range existing.Sections {
		if candidateIDs[es.ID] {
			continue
		}
		drifts = append(drifts, SectionDrift{
			ID:             es.ID,
			Classification: Removed,
			Existing:       es,
		})
	}

	return drifts
}

func classify(sourceChanged, humanChanged bool) Classification {
	switch {
	case !sourceChanged && !humanChanged:
		return Unchanged
	case sourceChanged && !humanChanged:
		return Stale
	case !sourceChanged && humanChanged:
		return ManuallyEdited
	default:
		return Conflict
	}
}
