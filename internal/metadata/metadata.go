// Package metadata builds the UnitMetadata record for a documented unit by
// merging up to three sources in fixed precedence: explicit front-matter of
// the unit's existing document, a sibling config file in the unit directory,
// and values inferred from the directory name and parsed declarations.
//
// A key set by a higher-precedence source is never overwritten by a lower
// one. Unknown keys from any source are kept in Custom so they survive
// round-trips through regeneration.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docgen/internal/lang"
)

// configFileNames are probed in order inside the unit directory.
var configFileNames = []string{"docgen.yaml", "docgen.yml", "docgen.json"}

// knownKeys are the front-matter keys owned by UnitMetadata's named fields.
// Everything else lands in Custom.
var knownKeys = map[string]bool{
	"name":    true,
	"summary": true,
	"version": true,
	"tags":    true,
}

// UnitMetadata is the merged metadata record for one documented unit.
type UnitMetadata struct {
	Name    string
	Summary string
	Version string
	Tags    []string
	Custom  map[string]any
}

// Fields flattens the record into a front-matter field map.
func (m UnitMetadata) Fields() map[string]any {
	fields := make(map[string]any, len(m.Custom)+4)
	for k, v := range m.Custom {
		fields[k] = v
	}
	fields["name"] = m.Name
	fields["summary"] = m.Summary
	if m.Version != "" {
		fields["version"] = m.Version
	}
	if len(m.Tags) > 0 {
		fields["tags"] = m.Tags
	}
	return fields
}

// Extract merges metadata for the unit rooted at dir.
//
// existingFields are the front-matter fields of the previously generated
// document (highest precedence, nil when no document exists yet). decls are
// the unit's parsed declarations, used only to infer a summary when no
// explicit source provides one.
//
// Missing name or summary is synthesized rather than treated as an error;
// each synthesis is recorded as a warning.
func Extract(dir string, existingFields map[string]any, decls []lang.Declaration) (UnitMetadata, []string) {
	var warnings []string

	meta := UnitMetadata{Custom: map[string]any{}}
	set := map[string]bool{}

	applySource(&meta, set, withoutBookkeeping(existingFields))

	cfg, err := readConfigFile(dir)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("unit config unreadable, ignoring: %v", err))
	}
	applySource(&meta, set, cfg)

	if meta.Name == "" {
		meta.Name = filepath.Base(dir)
		warnings = append(warnings, fmt.Sprintf("no explicit name, using directory name %q", meta.Name))
	}
	if meta.Summary == "" {
		meta.Summary = inferSummary(decls)
		if meta.Summary == "" {
			meta.Summary = fmt.Sprintf("Reference documentation for %s.", meta.Name)
		}
		warnings = append(warnings, "no explicit summary, inferred one")
	}

	return meta, warnings
}

// withoutBookkeeping drops generator-owned front-matter keys so the document
// fingerprint never round-trips into metadata.
func withoutBookkeeping(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField || k == "lastmod" {
			continue
		}
		out[k] = v
	}
	return out
}

// applySource merges one field map into meta, honoring keys already set by a
// higher-precedence source.
func applySource(meta *UnitMetadata, set map[string]bool, fields map[string]any) {
	for key, val := range fields {
		if set[key] {
			continue
		}
		switch key {
		case "name":
			if s, ok := val.(string); ok && s != "" {
				meta.Name = s
				set[key] = true
			}
		case "summary":
			if s, ok := val.(string); ok && s != "" {
				meta.Summary = s
				set[key] = true
			}
		case "version":
			if s := stringish(val); s != "" {
				meta.Version = s
				set[key] = true
			}
		case "tags":
			if tags := stringSlice(val); len(tags) > 0 {
				meta.Tags = tags
				set[key] = true
			}
		default:
			if !knownKeys[key] {
				meta.Custom[key] = val
				set[key] = true
			}
		}
	}
}

// readConfigFile loads the first sibling config file present in dir.
func readConfigFile(dir string) (map[string]any, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		fields := map[string]any{}
		if strings.HasSuffix(name, ".json") {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		} else {
			if err := yaml.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		return fields, nil
	}
	return nil, nil
}

// inferSummary takes the first line of the first documented declaration.
func inferSummary(decls []lang.Declaration) string {
	for _, d := range decls {
		if d.Doc == "" {
			continue
		}
		line, _, _ := strings.Cut(strings.TrimSpace(d.Doc), "\n")
		return strings.TrimSpace(line)
	}
	return ""
}

func stringish(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case int:
		return fmt.Sprintf("%d", v)
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%v", v), ".0")
	default:
		return ""
	}
}

func stringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
