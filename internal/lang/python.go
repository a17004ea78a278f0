package lang

import (
	"path/filepath"
	"regexp"
	"strings"
)

// PythonParser extracts classes, functions and methods from Python source
// using indentation-aware pattern matching over def/class signatures and the
// docstrings that follow them.
type PythonParser struct{}

// NewPythonParser returns a pattern-based Python parser.
func NewPythonParser() *PythonParser { return &PythonParser{} }

func (p *PythonParser) Name() string { return "python" }

func (p *PythonParser) CanParse(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".py" || ext == ".pyi"
}

var (
	pyDefRe   = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+(\w+)\s*\((.*?)\)\s*(?:->\s*([^:]+))?:`)
	pyClassRe = regexp.MustCompile(`^class\s+(\w+)`)
)

// Parse scans line by line. A def at column zero is a function; a def indented
// under the most recent class is a method of that class.
func (p *PythonParser) Parse(path string, src []byte) ([]Declaration, error) {
	lines := strings.Split(string(src), "\n")

	var decls []Declaration
	currentClass := ""
	classIndex := -1

	for i, line := range lines {
		if m := pyClassRe.FindStringSubmatch(line); m != nil {
			currentClass = m[1]
			decls = append(decls, Declaration{
				Kind:       KindClass,
				Name:       m[1],
				Doc:        pyDocstring(lines, i+1),
				File:       path,
				StartLine:  i + 1,
				EndLine:    i + 1,
				Exported:   !strings.HasPrefix(m[1], "_"),
				Confidence: ConfidenceHeuristic,
			})
			classIndex = len(decls) - 1
			continue
		}

		m := pyDefRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent, name, rawParams, returns := m[1], m[2], m[3], strings.TrimSpace(m[4])

		decl := Declaration{
			Kind:       KindFunction,
			Name:       name,
			Params:     pyParams(rawParams),
			Returns:    returns,
			Doc:        pyDocstring(lines, i+1),
			File:       path,
			StartLine:  i + 1,
			EndLine:    i + 1,
			Exported:   !strings.HasPrefix(name, "_"),
			Confidence: ConfidenceHeuristic,
		}

		if indent != "" && currentClass != "" {
			decl.Kind = KindMethod
			decl.Receiver = currentClass
		} else if indent == "" {
			// Back at top level: subsequent defs are no longer methods.
			currentClass = ""
		} else {
			// Indented def with no enclosing class (nested function): skip.
			continue
		}

		decls = append(decls, decl)

		if classIndex >= 0 && decl.Kind == KindMethod {
			decls[classIndex].EndLine = i + 1
		}
	}

	return decls, nil
}

// pyDocstring returns the triple-quoted string immediately following a
// signature, with quote fencing and indentation stripped.
func pyDocstring(lines []string, start int) string {
	i := start
	// Signatures may span lines; skip continuation lines until the body.
	for i < len(lines) && strings.HasSuffix(strings.TrimSpace(lines[i-1]), "\\") {
		i++
	}
	if i >= len(lines) {
		return ""
	}

	first := strings.TrimSpace(lines[i])
	quote := ""
	switch {
	case strings.HasPrefix(first, `"""`):
		quote = `"""`
	case strings.HasPrefix(first, `'''`):
		quote = `'''`
	default:
		return ""
	}

	rest := strings.TrimPrefix(first, quote)
	if idx := strings.Index(rest, quote); idx >= 0 {
		return strings.TrimSpace(rest[:idx])
	}

	var parts []string
	if rest != "" {
		parts = append(parts, rest)
	}
	for j := i + 1; j < len(lines); j++ {
		line := strings.TrimSpace(lines[j])
		if idx := strings.Index(line, quote); idx >= 0 {
			if chunk := strings.TrimSpace(line[:idx]); chunk != "" {
				parts = append(parts, chunk)
			}
			break
		}
		parts = append(parts, line)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func pyParams(raw string) []Param {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var params []Param
	for _, piece := range splitTopLevel(raw, ',') {
		piece = strings.TrimSpace(piece)
		if piece == "" || piece == "self" || piece == "cls" || piece == "*" {
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
		p.Name = strings.TrimLeft(piece, "*")
		if p.Name == "" {
			continue
		}
		params = append(params, p)
	}
	return params
}

// splitTopLevel splits on sep outside brackets so defaults like f(a, b=(1, 2))
// keep their tuple intact.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[last:i])
				last = i + 1
			}
		}
	}
	out = append(out, s[last:])
	return out
}
