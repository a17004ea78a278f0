// Package document defines the section model of generated documents: the
// marker grammar that delimits generated-content zones, the whitespace
// normalizing section hash, and document assembly.
//
// The marker convention is a wire format. Documents written by older versions
// must keep parsing, so the grammar here never changes shape:
//
//	<!-- docgen:begin <id> <hash> -->
//	...section text...
//	<!-- docgen:end <id> -->
//
// where <hash> is the section hash recorded at last generation.
package document

// Section is a named, delimited region of a document.
//
// For candidate documents Hash is the hash of the freshly rendered text and
// RecordedHash is empty. For existing documents Hash is computed from the
// on-disk text and RecordedHash is the value read from the begin marker.
type Section struct {
	ID           string
	Text         string
	Hash         string
	RecordedHash string
}

// Candidate is the document that would be generated right now, before any
// merge with the on-disk version.
type Candidate struct {
	Fields   map[string]any // front-matter key/value pairs (fingerprint excluded)
	Sections []Section
}

// SectionIDs returns the ordered section ids of the candidate.
func (c *Candidate) SectionIDs() []string {
	ids := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Extra is content found outside well-formed sections: text a human added
// around the markers, or regions whose markers could not be parsed. Index is
// the number of sections that preceded the chunk, so re-assembly can put it
// back in the same place.
type Extra struct {
	Text  string
	Index int
}

// Existing is a previously generated document parsed back into sections.
//
// Extras holds non-empty content found outside well-formed sections; the
// updater re-emits each chunk at its original position so unknown-shaped
// content is never destroyed or relocated.
type Existing struct {
	Fields   map[string]any
	Sections []Section
	Extras   []Extra
}

// Section returns the existing section with the given id, if present.
func (e *Existing) Section(id string) (Section, bool) {
	for _, s := range e.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
