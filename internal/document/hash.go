package document

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashLength is the number of hex characters stored in begin markers.
const hashLength = 16

// HashText computes the section content hash: sha256 over the normalized
// text, truncated to 16 hex characters.
//
// Normalization makes the hash insensitive to cosmetic whitespace so that a
// re-render differing only in trailing spaces or newline style is not
// reported as drift: CRLF becomes LF, trailing whitespace is stripped per
// line, leading/trailing blank lines are dropped and interior blank runs
// collapse to one line.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])[:hashLength]
}

// NormalizeText applies the hash normalization rules. Exposed so tests and
// the drift detector can reason about equivalence directly.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	normalized := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blankRun++
			if blankRun > 1 || len(normalized) == 0 {
				continue
			}
		} else {
			blankRun = 0
		}
		normalized = append(normalized, line)
	}

	// Drop trailing blank lines.
	for len(normalized) > 0 && normalized[len(normalized)-1] == "" {
		normalized = normalized[:len(normalized)-1]
	}

	return strings.Join(normalized, "\n")
}
