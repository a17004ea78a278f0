// Package lang turns source files into language-neutral declaration records.
//
// Each language has a parser implementing the Parser interface; a Registry
// selects parsers by file extension and falls back to a pattern-based parser
// when no structural parser produces declarations. New languages are added by
// registering another implementation, never by modifying existing parsers.
package lang

import "sort"

// Kind classifies a declaration.
type Kind string

const (
	KindFunction Kind = "function"
	KindMethod   Kind = "method"
	KindClass    Kind = "class"
	KindType     Kind = "type"
	KindConstant Kind = "constant"
)

// Confidence indicates how the declaration was extracted.
//
// Structural parsers (a real grammar) produce ConfidenceExact; pattern parsers
// produce ConfidenceHeuristic. A heuristic result is only used when every
// structural parser for the extension yielded nothing.
type Confidence string

const (
	ConfidenceExact     Confidence = "exact"
	ConfidenceHeuristic Confidence = "heuristic"
)

// Param is one parameter of a function or method.
type Param struct {
	Name    string
	Type    string
	Default string
}

// Declaration is the language-neutral record of one declared symbol.
type Declaration struct {
	Kind       Kind
	Name       string
	Receiver   string // methods: owning type or class name
	Params     []Param
	Returns    string
	Doc        string // description text (docstring, doc comment, JSDoc)
	File       string
	StartLine  int
	EndLine    int
	Exported   bool
	Confidence Confidence
}

// Sort orders declarations by source file, then start line, then name.
// Rendering depends on this order being deterministic.
func Sort(decls []Declaration) {
	sort.SliceStable(decls, func(i, j int) bool {
		if decls[i].File != decls[j].File {
			return decls[i].File < decls[j].File
		}
		if decls[i].StartLine != decls[j].StartLine {
			return decls[i].StartLine < decls[j].StartLine
		}
		return decls[i].Name < decls[j].Name
	})
}
