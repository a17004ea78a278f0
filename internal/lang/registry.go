package lang

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/logfields"
)

// Parser extracts declarations from a single source file.
//
// Parse must be a pure transform of the file contents; it never touches disk
// beyond the bytes it is handed.
type Parser interface {
	Name() string
	CanParse(path string) bool
	Parse(path string, src []byte) ([]Declaration, error)
}

// Registry holds an ordered list of parsers per file extension plus a
// fallback pattern parser tried when nothing else produces declarations.
type Registry struct {
	byExt    map[string][]Parser
	fallback Parser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string][]Parser)}
}

// Default returns a registry with all built-in parsers registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(NewGoParser(), ".go")
	r.Register(NewPythonParser(), ".py", ".pyi")
	r.Register(NewTypeScriptParser(), ".ts", ".tsx", ".js", ".jsx")
	r.RegisterFallback(NewPatternParser())
	return r
}

// Register appends a parser to the candidate list of each given extension.
// Order of registration is the order of preference.
func (r *Registry) Register(p Parser, exts ...string) {
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		r.byExt[ext] = append(r.byExt[ext], p)
	}
}

// RegisterFallback sets the parser of last resort for every extension.
func (r *Registry) RegisterFallback(p Parser) {
	r.fallback = p
}

// ParseFile reads path and tries each registered parser in order, returning
// the first non-empty result. A parser that fails (error or panic) is logged
// and skipped. When no structural parser yields declarations the fallback
// pattern parser is tried. A file no parser can handle yields an empty list
// plus warnings; it never fails the unit.
func (r *Registry) ParseFile(path string) ([]Declaration, []string) {
	var warnings []string

	src, err := os.ReadFile(path) // #nosec G304 -- path comes from the unit scanner.
	if err != nil {
		return nil, []string{fmt.Sprintf("%s: read failed: %v", path, err)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	candidates := r.byExt[ext]

	tried := 0
	for _, p := range candidates {
		if !p.CanParse(path) {
			continue
		}
		tried++
		decls, perr := safeParse(p, path, src)
		if perr != nil {
			warnings = append(warnings, fmt.Sprintf("%s: parser %s failed: %v", path, p.Name(), perr))
			slog.Debug("parser failed, trying next candidate",
				logfields.File(path), logfields.Parser(p.Name()), logfields.Error(perr))
			continue
		}
		if len(decls) > 0 {
			return decls, warnings
		}
	}

	if r.fallback != nil && r.fallback.CanParse(path) {
		decls, perr := safeParse(r.fallback, path, src)
		if perr != nil {
			warnings = append(warnings, fmt.Sprintf("%s: fallback parser failed: %v", path, perr))
		} else if len(decls) > 0 {
			if tried > 0 {
				slog.Debug("structural parsers yielded nothing, using pattern fallback",
					logfields.File(path), logfields.Parser(r.fallback.Name()))
			}
			return decls, warnings
		}
	}

	if tried == 0 && r.fallback == nil {
		warnings = append(warnings, fmt.Sprintf("%s: no parser registered for extension %q", path, ext))
	} else {
		warnings = append(warnings, fmt.Sprintf("%s: no parser produced declarations", path))
	}
	return nil, warnings
}

// safeParse isolates a panicking parser so one bad file cannot abort the batch.
func safeParse(p Parser, path string, src []byte) (decls []Declaration, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			decls = nil
			err = fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return p.Parse(path, src)
}

