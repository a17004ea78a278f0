package document

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/frontmatter"
)

const (
	beginPrefix = "<!-- docgen:begin "
	endPrefix   = "<!-- docgen:end "
	markerClose = " -->"
)

// BeginMarker renders the opening delimiter for a section.
func BeginMarker(id, recordedHash string) string {
	return beginPrefix + id + " " + recordedHash + markerClose
}

// EndMarker renders the closing delimiter for a section.
func EndMarker(id string) string {
	return endPrefix + id + markerClose
}

var (
	beginRe = regexp.MustCompile(`^<!-- docgen:begin ([A-Za-z0-9_-]+) ([0-9a-f]+) -->$`)
	endRe   = regexp.MustCompile(`^<!-- docgen:end ([A-Za-z0-9_-]+) -->$`)
)

// ParseExisting reads a previously generated document back into sections by
// scanning for the begin/end marker pairs the renderer embeds.
//
// Malformed marker regions are never fatal: the unreadable region is kept as
// an Extra, anchored to its position in the section sequence so it survives
// the rewrite in place, and a warning describes what was wrong. Content
// outside any section (text a human added before, between or after the
// markers) is preserved the same way, without a warning.
func ParseExisting(content []byte) (*Existing, []string, error) {
	var warnings []string

	blk, err := frontmatter.Parse(content)
	if err != nil {
		// Unparseable front-matter: treat the whole document as opaque
		// content so nothing is destroyed.
		warnings = append(warnings, fmt.Sprintf("front-matter unreadable, preserving document as-is: %v", err))
		return &Existing{Extras: []Extra{{Text: strings.TrimRight(string(content), "\n")}}}, warnings, nil
	}

	existing := &Existing{Fields: blk.Fields}

	lines := strings.Split(strings.ReplaceAll(string(blk.Body), "\r\n", "\n"), "\n")

	var outside []string
	flushOutside := func() {
		// Blank edge lines are the separators Assemble itself writes; the
		// chunk's own lines stay verbatim.
		chunk := trimBlankEdges(outside)
		if chunk != "" {
			existing.Extras = append(existing.Extras, Extra{Text: chunk, Index: len(existing.Sections)})
		}
		outside = outside[:0]
	}

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		m := beginRe.FindStringSubmatch(trimmed)
		if m == nil {
			if strings.HasPrefix(trimmed, beginPrefix) || strings.HasPrefix(trimmed, endPrefix) {
				// Marker-shaped but unparseable: conservative corruption path.
				warnings = append(warnings, fmt.Sprintf("malformed section marker preserved verbatim: %q", trimmed))
			}
			outside = append(outside, lines[i])
			continue
		}

		id, recorded := m[1], m[2]

		// Find the matching end marker.
		endIdx := -1
		for j := i + 1; j < len(lines); j++ {
			em := endRe.FindStringSubmatch(strings.TrimSpace(lines[j]))
			if em == nil {
				continue
			}
			if em[1] != id {
				warnings = append(warnings, fmt.Sprintf("section %q closed by mismatched end marker %q, region preserved verbatim", id, em[1]))
				break
			}
			endIdx = j
			break
		}

		if endIdx < 0 {
			// Unterminated or mismatched region: keep it as opaque content.
			if !hasWarningFor(warnings, id) {
				warnings = append(warnings, fmt.Sprintf("section %q has no matching end marker, region preserved verbatim", id))
			}
			outside = append(outside, lines[i])
			continue
		}

		flushOutside()

		text := strings.Join(lines[i+1:endIdx], "\n")
		existing.Sections = append(existing.Sections, Section{
			ID:           id,
			Text:         text,
			Hash:         HashText(text),
			RecordedHash: recorded,
		})
		i = endIdx
	}
	flushOutside()

	return existing, warnings, nil
}

func trimBlankEdges(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func hasWarningFor(warnings []string, id string) bool {
	needle := fmt.Sprintf("section %q", id)
	for _, w := range warnings {
		if strings.Contains(w, needle) {
			return true
		}
	}
	return false
}
