package document

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docgen/internal/frontmatter"
)

// Assemble builds the final document bytes: YAML front-matter carrying the
// metadata fields plus a content fingerprint, then the marker-wrapped
// sections in order, with preserved extra content interleaved at the
// positions recorded when the previous document was parsed.
//
// Section text is emitted verbatim, so text a human wrote inside a section
// survives byte-for-byte, trailing blank lines included. Assembly is
// deterministic: identical inputs produce identical bytes, so an unchanged
// unit re-assembles to the exact file already on disk.
func Assemble(fields map[string]any, extras []Extra, sections []Section) ([]byte, error) {
	var body strings.Builder

	writeGap := func() {
		if body.Len() > 0 {
			body.WriteString("\n")
		}
	}

	next := 0
	emitExtrasThrough := func(idx int) {
		for next < len(extras) && extras[next].Index <= idx {
			writeGap()
			body.WriteString(extras[next].Text)
			body.WriteString("\n")
			next++
		}
	}

	for i, s := range sections {
		emitExtrasThrough(i)
		writeGap()
		body.WriteString(BeginMarker(s.ID, s.RecordedHash))
		body.WriteString("\n")
		if s.Text != "" {
			body.WriteString(s.Text)
			body.WriteString("\n")
		}
		body.WriteString(EndMarker(s.ID))
		body.WriteString("\n")
	}
	for next < len(extras) {
		writeGap()
		body.WriteString(extras[next].Text)
		body.WriteString("\n")
		next++
	}

	bodyBytes := []byte(body.String())

	withFP, err := fingerprintFields(fields, bodyBytes)
	if err != nil {
		return nil, err
	}

	blk := &frontmatter.Block{
		Fields: withFP,
		Body:   bodyBytes,
		Had:    len(withFP) > 0,
	}
	return blk.Bytes()
}

// WithoutFingerprint returns the document with the front-matter fingerprint
// key removed. The fingerprint tracks content, so change comparisons must not
// count the fingerprint itself as content. Unparseable documents are returned
// as-is.
func WithoutFingerprint(doc []byte) []byte {
	blk, err := frontmatter.Parse(doc)
	if err != nil || !blk.Had {
		return doc
	}

	fields := make(map[string]any, len(blk.Fields))
	for k, v := range blk.Fields {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	out, err := (&frontmatter.Block{Fields: fields, Body: blk.Body, Had: true}).Bytes()
	if err != nil {
		return doc
	}
	return out
}

// Fingerprint computes the whole-document content fingerprint stored in
// front-matter. It is a fast "untouched since last generation" check; the
// fingerprint key itself is excluded from the hashed front-matter.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		forHash[k] = v
	}

	serialized := ""
	if len(forHash) > 0 {
		raw, err := frontmatter.Serialize(forHash, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		serialized = strings.TrimSuffix(string(raw), "\n")
	}

	return mdfp.CalculateFingerprintFromParts(serialized, string(body)), nil
}

func fingerprintFields(fields map[string]any, body []byte) (map[string]any, error) {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}

	fp, err := Fingerprint(out, body)
	if err != nil {
		return nil, err
	}
	out[mdfp.FingerprintField] = fp
	return out, nil
}
