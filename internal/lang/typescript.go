package lang

import (
	"path/filepath"
	"regexp"
	"strings"
)

// TypeScriptParser extracts classes, functions and exported arrow constants
// from TypeScript and JavaScript using signature patterns plus the JSDoc block
// preceding each declaration.
type TypeScriptParser struct{}

// NewTypeScriptParser returns a pattern-based TypeScript/JavaScript parser.
func NewTypeScriptParser() *TypeScriptParser { return &TypeScriptParser{} }

func (t *TypeScriptParser) Name() string { return "typescript" }

func (t *TypeScriptParser) CanParse(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".js", ".jsx":
		return true
	default:
		return false
	}
}

var (
	tsFuncRe  = regexp.MustCompile(`^(export\s+)?(?:default\s+)?(?:async\s+)?function\s+(\w+)\s*\(([^)]*)\)\s*(?::\s*([^{]+))?`)
	tsArrowRe = regexp.MustCompile(`^(export\s+)?const\s+(\w+)\s*=\s*(?:async\s+)?\(([^)]*)\)\s*(?::\s*[^=]+)?=>`)
	tsClassRe = regexp.MustCompile(`^(export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+(\w+)`)
)

func (t *TypeScriptParser) Parse(path string, src []byte) ([]Declaration, error) {
	lines := strings.Split(string(src), "\n")

	var decls []Declaration
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := tsClassRe.FindStringSubmatch(trimmed); m != nil {
			decls = append(decls, Declaration{
				Kind:       KindClass,
				Name:       m[2],
				Doc:        jsDocAbove(lines, i),
				File:       path,
				StartLine:  i + 1,
				EndLine:    i + 1,
				Exported:   m[1] != "",
				Confidence: ConfidenceHeuristic,
			})
			continue
		}

		if m := tsFuncRe.FindStringSubmatch(trimmed); m != nil {
			decls = append(decls, Declaration{
				Kind:       KindFunction,
				Name:       m[2],
				Params:     tsParams(m[3]),
				Returns:    strings.TrimSpace(m[4]),
				Doc:        jsDocAbove(lines, i),
				File:       path,
				StartLine:  i + 1,
				EndLine:    i + 1,
				Exported:   m[1] != "",
				Confidence: ConfidenceHeuristic,
			})
			continue
		}

		if m := tsArrowRe.FindStringSubmatch(trimmed); m != nil {
			decls = append(decls, Declaration{
				Kind:       KindFunction,
				Name:       m[2],
				Params:     tsParams(m[3]),
				Doc:        jsDocAbove(lines, i),
				File:       path,
				StartLine:  i + 1,
				EndLine:    i + 1,
				Exported:   m[1] != "",
				Confidence: ConfidenceHeuristic,
			})
		}
	}

	return decls, nil
}

// jsDocAbove collects the /** ... */ block ending on the line directly above
// the declaration, stripping comment decoration.
func jsDocAbove(lines []string, declLine int) string {
	end := declLine - 1
	if end < 0 || !strings.HasSuffix(strings.TrimSpace(lines[end]), "*/") {
		return ""
	}

	var block []string
	for i := end; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		block = append([]string{trimmed}, block...)
		if strings.HasPrefix(trimmed, "/**") || strings.HasPrefix(trimmed, "/*") {
			break
		}
		if i == 0 {
			return ""
		}
	}

	var parts []string
	for _, line := range block {
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line == "" || strings.HasPrefix(line, "@") {
			continue
		}
		parts = append(parts, line)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func tsParams(raw string) []Param {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var params []Param
	for _, piece := range splitTopLevel(raw, ',') {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		p := Param{}
		if eq := strings.Index(piece, "="); eq >= 0 {
			p.Default = strings.TrimSpace(piece[eq+1:])
			piece = strings.TrimSpace(piece[:eq])
		}
		if colon := strings.Index(piece, ":"); colon >= 0 {
			p.Type = strings.TrimSpace(piece[colon+1:])
			piece = strings.TrimSpace(piece[:colon])
		}
		p.Name = strings.TrimSuffix(strings.TrimLeft(piece, "."), "?")
		if p.Name == "" {
			continue
		}
		params = append(params, p)
	}
	return params
}
