// Package scanner walks configured roots and yields documented unit
// descriptors: one unit per directory of source files that gets its own
// reference document.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	derrors "git.home.luguber.info/inful/docgen/internal/errors"
)

// DefaultExtensions are the source file extensions scanned when the config
// names none.
var DefaultExtensions = []string{".go", ".py", ".pyi", ".ts", ".tsx", ".js", ".jsx"}

// DefaultExcludeDirs are directory names skipped during the walk, in addition
// to every dot-directory.
var DefaultExcludeDirs = []string{"node_modules", "__pycache__", "vendor", "dist", "testdata"}

// Unit is one documented unit: a directory plus its member source files.
// Units are immutable per run.
type Unit struct {
	// Name is the display name, the base name of the unit directory.
	Name string
	// Dir is the absolute unit directory.
	Dir string
	// Files are the member source files, sorted, absolute.
	Files []string
}

// Options tunes the walk.
type Options struct {
	Extensions  []string
	ExcludeDirs []string
}

// Scan discovers documented units under the given roots.
//
// A root that directly contains source files is itself a unit; each immediate
// subdirectory containing source files (anywhere below it) is a unit as well.
// Per-root scan failures become warnings so one bad root does not abort the
// batch; an empty root list is a configuration error.
func Scan(roots []string, opts Options) ([]Unit, []string, error) {
	if len(roots) == 0 {
		return nil, nil, derrors.ConfigError("no roots configured").Build()
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.ExcludeDirs == nil {
		opts.ExcludeDirs = DefaultExcludeDirs
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}
	excluded := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		excluded[d] = true
	}

	var units []Unit
	var warnings []string

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			warnings = append(warnings, "root "+root+": "+err.Error())
			continue
		}

		entries, err := os.ReadDir(abs)
		if err != nil {
			warnings = append(warnings, "root "+root+": "+err.Error())
			continue
		}

		// Source files directly under the root make the root itself a unit.
		var rootFiles []string
		for _, entry := range entries {
			if !entry.IsDir() && exts[strings.ToLower(filepath.Ext(entry.Name()))] {
				rootFiles = append(rootFiles, filepath.Join(abs, entry.Name()))
			}
		}
		if len(rootFiles) > 0 {
			sort.Strings(rootFiles)
			units = append(units, Unit{Name: filepath.Base(abs), Dir: abs, Files: rootFiles})
		}

		for _, entry := range entries {
			if !entry.IsDir() || skipDir(entry.Name(), excluded) {
				continue
			}
			dir := filepath.Join(abs, entry.Name())
			files, err := collectFiles(dir, exts, excluded)
			if err != nil {
				warnings = append(warnings, "unit "+dir+": "+err.Error())
				continue
			}
			if len(files) == 0 {
				continue
			}
			units = append(units, Unit{Name: entry.Name(), Dir: dir, Files: files})
		}
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Dir < units[j].Dir })
	return units, warnings, nil
}

// collectFiles gathers matching source files anywhere below dir.
func collectFiles(dir string, exts, excluded map[string]bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name(), excluded) {
				return filepath.SkipDir
			}
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func skipDir(name string, excluded map[string]bool) bool {
	return strings.HasPrefix(name, ".") || excluded[name]
}
