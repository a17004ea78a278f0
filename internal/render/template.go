// Package render turns unit metadata plus parsed declarations into a
// CandidateDocument through a section template.
//
// A template is an ordered list of section specs. Scalar sections render once
// with the whole unit in scope; repeated sections render once per declaration
// and derive their section id from the declaration name, which keeps ids
// stable across re-renders as long as the declaration keeps its name.
package render

import (
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docgen/internal/errors"
)

// RepeatDeclaration marks a section spec that renders once per declaration.
const RepeatDeclaration = "declaration"

// SectionSpec describes one template section.
//
// Scalar sections (Repeat empty) require an explicit ID. Repeated sections
// derive their id from the declaration name; an explicit ID becomes an id
// prefix instead.
type SectionSpec struct {
	ID     string `yaml:"id"`
	Repeat string `yaml:"repeat"`
	Body   string `yaml:"body"`
}

// Template is an ordered list of section specs.
type Template struct {
	Sections []SectionSpec `yaml:"sections"`
}

// Load reads and validates a template definition from a YAML file.
func Load(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryTemplate, "read template").
			Fatal().WithContext("path", path).Build()
	}
	tpl, err := Parse(raw)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryTemplate, "load template").
			Fatal().WithContext("path", path).Build()
	}
	return tpl, nil
}

// Parse decodes and validates a YAML template definition.
func Parse(raw []byte) (*Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(raw, &tpl); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryTemplate, "parse template yaml").Fatal().Build()
	}
	if err := tpl.validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (t *Template) validate() error {
	if len(t.Sections) == 0 {
		return derrors.TemplateError("template defines no sections").Build()
	}
	seen := map[string]bool{}
	for i, s := range t.Sections {
		switch s.Repeat {
		case "", RepeatDeclaration:
		default:
			return derrors.TemplateError("unknown repeat mode").
				WithContext("repeat", s.Repeat).Build()
		}
		if s.Repeat == "" && s.ID == "" {
			return derrors.TemplateError("scalar section needs an id").
				WithContext("index", i).Build()
		}
		if s.Body == "" {
			return derrors.TemplateError("section has empty body").
				WithContext("id", s.ID).Build()
		}
		if s.ID != "" {
			if seen[s.ID] {
				return derrors.TemplateError("duplicate section id").
					WithContext("id", s.ID).Build()
			}
			seen[s.ID] = true
		}
	}
	return nil
}

const defaultOverviewBody = `# {{ .Meta.Name }}

{{ .Meta.Summary }}
`

const defaultDeclarationBody = `### {{ .Decl.Name }}

{{ .Decl.Doc }}
`

// Default is the built-in template used when the config names none: one
// overview section followed by one section per declaration.
func Default() *Template {
	return &Template{Sections: []SectionSpec{
		{ID: "overview", Body: defaultOverviewBody},
		{Repeat: RepeatDeclaration, Body: defaultDeclarationBody},
	}}
}
