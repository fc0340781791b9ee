// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"github.com/vovakirdan/parkwalk/internal/sim"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Size      YAMLSize          `yaml:"size"`
	CellSize  float64           `yaml:"cell_size,omitempty"`
	Placeable []int             `yaml:"placeable,omitempty"`
	Blocks    []YAMLBlock       `yaml:"blocks"`
	Inventory []YAMLEntry       `yaml:"inventory,omitempty"`
	Lems      []YAMLLem         `yaml:"lems"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLBlock represents one pre-placed block.
type YAMLBlock struct {
	Kind   string   `yaml:"kind"`
	Index  int      `yaml:"index"`
	Flavor string   `yaml:"flavor,omitempty"`
	Route  []string `yaml:"route,omitempty"`
}

// YAMLEntry represents one inventory entry available to the player.
type YAMLEntry struct {
	Key      string   `yaml:"key"`
	Kind     string   `yaml:"kind"`
	Flavor   string   `yaml:"flavor,omitempty"`
	Group    string   `yaml:"group,omitempty"`
	Route    []string `yaml:"route,omitempty"`
	Count    int      `yaml:"count"`
	Pair     bool     `yaml:"pair,omitempty"`
	UnitSize int      `yaml:"unit_size,omitempty"`
}

// YAMLLem represents an agent start cell.
type YAMLLem struct {
	Index       int  `yaml:"index"`
	FacingRight bool `yaml:"facing_right"`
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (sim.LevelDescription, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return sim.LevelDescription{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return yl.toDescription()
}

func (yl YAMLLevel) toDescription() (sim.LevelDescription, error) {
	d := sim.LevelDescription{
		ID:        yl.ID,
		Name:      yl.Name,
		Width:     yl.Size.W,
		Height:    yl.Size.H,
		CellSize:  yl.CellSize,
		Placeable: yl.Placeable,
		Metadata:  yl.Metadata,
	}
	if d.ID == "" {
		return sim.LevelDescription{}, fmt.Errorf("level has no id")
	}
	for _, b := range yl.Blocks {
		kind, ok := sim.ParseBlockKind(b.Kind)
		if !ok {
			return sim.LevelDescription{}, fmt.Errorf("block at %d: unknown kind %q", b.Index, b.Kind)
		}
		d.Blocks = append(d.Blocks, sim.BlockDescriptor{
			Kind:       kind,
			Index:      b.Index,
			Flavor:     b.Flavor,
			RouteSteps: b.Route,
		})
	}
	for _, e := range yl.Inventory {
		kind, ok := sim.ParseBlockKind(e.Kind)
		if !ok {
			return sim.LevelDescription{}, fmt.Errorf("inventory entry %q: unknown kind %q", e.Key, e.Kind)
		}
		d.Inventory = append(d.Inventory, sim.InventoryEntryDesc{
			EntryKey:   e.Key,
			Kind:       kind,
			Flavor:     e.Flavor,
			GroupID:    e.Group,
			RouteSteps: e.Route,
			MaxCount:   e.Count,
			PairUnit:   e.Pair,
			UnitSize:   e.UnitSize,
		})
	}
	for _, l := range yl.Lems {
		d.Lems = append(d.Lems, sim.LemStart{Index: l.Index, FacingRight: l.FacingRight})
	}
	return d, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}
