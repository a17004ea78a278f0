// Package update applies a drift classification to produce the new on-disk
// document. The merge policy regenerates what only the source changed, keeps
// what only a human changed, and surfaces conflicts instead of resolving
// them.
package update

import (
	"bytes"
	"fmt"

	"git.home.luguber.info/inful/docgen/internal/document"
	"git.home.luguber.info/inful/docgen/internal/drift"
	derrors "git.home.luguber.info/inful/docgen/internal/errors"
)

// Status is the overall per-unit outcome.
type Status string

const (
	// StatusUnchanged means the document on disk already matches.
	StatusUnchanged Status = "unchanged"
	// StatusUpdated means the document was (or, in dry-run, would be) rewritten.
	StatusUpdated Status = "updated"
	// StatusConflicts means at least one section is in conflict. Conflicts are
	// never averaged away: this status wins over updated.
	StatusConflicts Status = "conflicts-present"
)

// Options controls how Apply writes.
type Options struct {
	// Path of the output document.
	Path string
	// DryRun computes the result without touching the filesystem.
	DryRun bool
}

// Result reports what Apply did for one document.
type Result struct {
	Path                string
	Status              Status
	Written             bool
	Sections            map[string]drift.Classification
	ConflictingSections []string
	Warnings            []string
}

// Apply merges the candidate with the existing document according to the
// drift classifications and writes the merged document if anything changed.
//
// Per classification: unchanged, stale and new take the candidate text and
// record the candidate hash in the marker; manually-edited and conflict keep
// the existing text and recorded hash byte-for-byte; removed sections are
// dropped with a warning. Content outside sections (existing.Extras) is
// re-emitted verbatim at its original position in the section sequence.
//
// existingRaw is the current on-disk document (nil on first run); the merged
// document is only written when it differs from existingRaw in something
// other than the content fingerprint, so a run that preserves every byte of
// content leaves the file untouched. Writing goes through a
// temp-file-then-rename sequence so a crash cannot corrupt the previous
// version.
func Apply(existingRaw []byte, existing *document.Existing, candidate *document.Candidate, drifts []drift.SectionDrift, opts Options) (*Result, error) {
	res := &Result{
		Path:     opts.Path,
		Status:   StatusUnchanged,
		Sections: make(map[string]drift.Classification, len(drifts)),
	}

	merged := make([]document.Section, 0, len(drifts))
	for _, d := range drifts {
		res.Sections[d.ID] = d.Classification

		switch d.Classification {
		case drift.Unchanged, drift.Stale, drift.New:
			merged = append(merged, document.Section{
				ID:           d.ID,
				Text:         d.Candidate.Text,
				RecordedHash: d.Candidate.Hash,
			})
		case drift.ManuallyEdited:
			merged = append(merged, d.Existing)
		case drift.Conflict:
			merged = append(merged, d.Existing)
			res.ConflictingSections = append(res.ConflictingSections, d.ID)
		case drift.Removed:
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"section %q no longer exists in source, dropped from document; last text was: %s",
				d.ID, truncate(d.Existing.Text, 200)))
		}
	}

	var extras []document.Extra
	if existing != nil {
		extras = existing.Extras
	}

	assembled, err := document.Assemble(candidate.Fields, extras, merged)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryDocument, "assemble document").
			WithContext("path", opts.Path).Build()
	}

	if existingRaw == nil || !bytes.Equal(document.WithoutFingerprint(assembled), document.WithoutFingerprint(existingRaw)) {
		res.Status = StatusUpdated
		if !opts.DryRun {
			if err := writeAtomic(opts.Path, assembled); err != nil {
				return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "write document").
					WithContext("path", opts.Path).Build()
			}
			res.Written = true
		}
	}

	if len(res.ConflictingSections) > 0 {
		res.Status = StatusConflicts
	}

	return res, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
