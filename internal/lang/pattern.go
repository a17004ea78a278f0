package lang

import (
	"regexp"
	"strings"
)

// PatternParser is the parser of last resort: regular-expression heuristics
// over common function/class signature shapes plus the comment block directly
// above each match. Results carry ConfidenceHeuristic.
type PatternParser struct{}

// NewPatternParser returns the generic fallback parser.
func NewPatternParser() *PatternParser { return &PatternParser{} }

func (g *PatternParser) Name() string { return "pattern" }

// CanParse accepts anything; the fallback is only consulted after every
// structural candidate produced nothing.
func (g *PatternParser) CanParse(string) bool { return true }

var patternSignatures = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{KindFunction, regexp.MustCompile(`^\s*(?:export\s+)?(?:pub\s+)?(?:async\s+)?(?:func|function|fn|def|sub)\s+(\w+)\s*\(([^)]*)\)`)},
	{KindClass, regexp.MustCompile(`^\s*(?:export\s+)?(?:pub\s+)?(?:class|struct|trait|interface)\s+(\w+)`)},
}

func (g *PatternParser) Parse(path string, src []byte) ([]Declaration, error) {
	lines := strings.Split(string(src), "\n")

	var decls []Declaration
	for i, line := range lines {
		for _, sig := range patternSignatures {
			m := sig.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			decl := Declaration{
				Kind:       sig.kind,
				Name:       m[1],
				Doc:        commentAbove(lines, i),
				File:       path,
				StartLine:  i + 1,
				EndLine:    i + 1,
				Exported:   !strings.HasPrefix(m[1], "_"),
				Confidence: ConfidenceHeuristic,
			}
			if len(m) > 2 {
				decl.Params = patternParams(m[2])
			}
			decls = append(decls, decl)
			break
		}
	}
	return decls, nil
}

// commentAbove collects contiguous line comments (// or #) directly above a
// signature, nearest line last.
func commentAbove(lines []string, declLine int) string {
	var parts []string
	for i := declLine - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		var text string
		switch {
		case strings.HasPrefix(trimmed, "//"):
			text = strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
		case strings.HasPrefix(trimmed, "#"):
			text = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
		default:
			return strings.Join(parts, "\n")
		}
		parts = append([]string{text}, parts...)
	}
	return strings.Join(parts, "\n")
}

func patternParams(raw string) []Param {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var params []Param
	for _, piece := range splitTopLevel(raw, ',') {
		piece = strings.TrimSpace(piece)
		if piece == "" || piece == "self" {
			continue
		}
		// Keep only the leading identifier; type syntax varies per language.
		name := piece
		for idx, r := range piece {
			if !isIdentRune(r) {
				name = piece[:idx]
				break
			}
		}
		if name == "" {
			continue
		}
		params = append(params, Param{Name: name})
	}
	return params
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
