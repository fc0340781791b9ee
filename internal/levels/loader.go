// Package levels provides level loading for the park simulation.
// This package depends on sim but sim does not depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/parkwalk/internal/levels/formats"
	"github.com/vovakirdan/parkwalk/internal/sim"
)

//go:embed builtin/*.yaml builtin/*.json
var builtinFS embed.FS

// Level is a parsed level definition plus its source path.
type Level struct {
	sim.LevelDescription
	FilePath string
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files under Root, then
// appends the built-in set for any ID the directory did not provide.
// Returns levels sorted by ID for deterministic ordering. Files that
// fail to parse are logged and skipped; they never abort the scan.
func (l *Loader) LoadAll() ([]Level, error) {
	var out []Level
	seen := make(map[string]bool)

	if l.Root != "" {
		err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !isSupportedExtension(ext) {
				return nil
			}
			lvl, err := l.LoadFile(path)
			if err != nil {
				log.Warn("skipping level file", "path", path, "err", err)
				return nil
			}
			if seen[lvl.ID] {
				log.Warn("duplicate level id", "path", path, "id", lvl.ID)
				return nil
			}
			seen[lvl.ID] = true
			out = append(out, lvl)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
		}
	}

	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	for _, lvl := range builtin {
		if !seen[lvl.ID] {
			seen[lvl.ID] = true
			out = append(out, lvl)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	d, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return Level{LevelDescription: d, FilePath: path}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range all {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, lvl := range all {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Builtin returns the levels shipped inside the binary, sorted by ID.
func Builtin() ([]Level, error) {
	var out []Level
	err := fs.WalkDir(builtinFS, "builtin", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return err
		}
		lvl, err := parseByExtension(data, strings.ToLower(filepath.Ext(path)))
		if err != nil {
			return fmt.Errorf("builtin level %s: %w", path, err)
		}
		out = append(out, Level{LevelDescription: lvl, FilePath: "builtin:" + path})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (sim.LevelDescription, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".json":
		return formats.ParseJSON(data)
	default:
		return sim.LevelDescription{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
