package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/docgen/internal/document"
	derrors "git.home.luguber.info/inful/docgen/internal/errors"
	"git.home.luguber.info/inful/docgen/internal/lang"
	"git.home.luguber.info/inful/docgen/internal/metadata"
)

// scalarData is the scope for sections rendered once per unit.
type scalarData struct {
	Meta  metadata.UnitMetadata
	Decls []lang.Declaration
}

// declData is the scope for repeated sections.
type declData struct {
	Meta metadata.UnitMetadata
	Decl lang.Declaration
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"slug":      Slug,
		"join":      strings.Join,
		"trim":      strings.TrimSpace,
		"paramList": paramList,
		"signature": signature,
	}
}

func paramList(params []lang.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func signature(d lang.Declaration) string {
	return d.Name + "(" + paramList(d.Params) + ")"
}

// Render produces the candidate document for one unit.
//
// Declarations are sorted before rendering so the output does not depend on
// the order files were parsed in. Rendering the same (metadata, declarations,
// template) triple twice yields identical sections.
//
// Returned warnings cover recoverable oddities such as colliding section ids;
// an error means the template itself is unusable.
func Render(tpl *Template, meta metadata.UnitMetadata, decls []lang.Declaration) (*document.Candidate, []string, error) {
	if tpl == nil {
		tpl = Default()
	}

	sorted := make([]lang.Declaration, len(decls))
	copy(sorted, decls)
	lang.Sort(sorted)

	candidate := &document.Candidate{Fields: meta.Fields()}
	var warnings []string
	used := map[string]int{}

	// Explicit template ids are reserved so a collision suffix can never
	// shadow one declared later in the template.
	explicit := map[string]bool{}
	for _, spec := range tpl.Sections {
		if spec.Repeat == "" && spec.ID != "" {
			explicit[spec.ID] = true
		}
	}

	addSection := func(id, text string) {
		used[id]++
		if n := used[id]; n > 1 {
			base := id
			for {
				id = fmt.Sprintf("%s-%d", base, n)
				if used[id] == 0 && !explicit[id] {
					break
				}
				n++
			}
			used[id]++
			warnings = append(warnings, fmt.Sprintf("section id %q rendered %d times, disambiguating to %q", base, used[base], id))
		}
		text = strings.TrimRight(text, " \t\n")
		candidate.Sections = append(candidate.Sections, document.Section{
			ID:   id,
			Text: text,
			Hash: document.HashText(text),
		})
	}

	for i, spec := range tpl.Sections {
		body, err := compileBody(spec, i)
		if err != nil {
			return nil, nil, err
		}

		if spec.Repeat == "" {
			text, err := execBody(body, spec, scalarData{Meta: meta, Decls: sorted})
			if err != nil {
				return nil, nil, err
			}
			addSection(spec.ID, text)
			continue
		}

		for _, decl := range sorted {
			text, err := execBody(body, spec, declData{Meta: meta, Decl: decl})
			if err != nil {
				return nil, nil, err
			}
			id := Slug(decl.Name)
			if spec.ID != "" {
				id = spec.ID + "-" + id
			}
			addSection(id, text)
		}
	}

	return candidate, warnings, nil
}

func compileBody(spec SectionSpec, index int) (*template.Template, error) {
	name := spec.ID
	if name == "" {
		name = fmt.Sprintf("section-%d", index)
	}
	body, err := template.New(name).Funcs(templateFuncs()).Option("missingkey=error").Parse(spec.Body)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryTemplate, "parse section body").
			Fatal().WithContext("section", name).Build()
	}
	return body, nil
}

func execBody(body *template.Template, spec SectionSpec, data any) (string, error) {
	var buf bytes.Buffer
	if err := body.Execute(&buf, data); err != nil {
		return "", derrors.WrapError(err, derrors.CategoryTemplate, "render section body").
			Fatal().WithContext("section", spec.ID).Build()
	}
	return buf.String(), nil
}
