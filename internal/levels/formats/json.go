package formats

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/vovakirdan/parkwalk/internal/sim"
)

//go:embed schema.json
var levelSchemaJSON []byte

var levelSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("level.schema.json", bytes.NewReader(levelSchemaJSON)); err != nil {
		panic(fmt.Sprintf("level schema: %v", err))
	}
	return c.MustCompile("level.schema.json")
}

// JSONLevel mirrors YAMLLevel for JSON level files.
type JSONLevel struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Size      JSONSize          `json:"size"`
	CellSize  float64           `json:"cell_size,omitempty"`
	Placeable []int             `json:"placeable,omitempty"`
	Blocks    []JSONBlock       `json:"blocks"`
	Inventory []JSONEntry       `json:"inventory,omitempty"`
	Lems      []JSONLem         `json:"lems"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// JSONSize represents grid dimensions.
type JSONSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

// JSONBlock represents one pre-placed block.
type JSONBlock struct {
	Kind   string   `json:"kind"`
	Index  int      `json:"index"`
	Flavor string   `json:"flavor,omitempty"`
	Route  []string `json:"route,omitempty"`
}

// JSONEntry represents one inventory entry.
type JSONEntry struct {
	Key      string   `json:"key"`
	Kind     string   `json:"kind"`
	Flavor   string   `json:"flavor,omitempty"`
	Group    string   `json:"group,omitempty"`
	Route    []string `json:"route,omitempty"`
	Count    int      `json:"count"`
	Pair     bool     `json:"pair,omitempty"`
	UnitSize int      `json:"unit_size,omitempty"`
}

// JSONLem represents an agent start cell.
type JSONLem struct {
	Index       int  `json:"index"`
	FacingRight bool `json:"facing_right"`
}

// ParseJSON validates a JSON level file against the embedded schema and
// parses it. Schema validation runs first so structural mistakes are
// reported with a path instead of a zero-value surprise later.
func ParseJSON(data []byte) (sim.LevelDescription, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return sim.LevelDescription{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := levelSchema.Validate(doc); err != nil {
		return sim.LevelDescription{}, fmt.Errorf("level schema: %w", err)
	}

	var jl JSONLevel
	if err := json.Unmarshal(data, &jl); err != nil {
		return sim.LevelDescription{}, fmt.Errorf("json unmarshal: %w", err)
	}
	yl := YAMLLevel{
		ID:        jl.ID,
		Name:      jl.Name,
		Size:      YAMLSize(jl.Size),
		CellSize:  jl.CellSize,
		Placeable: jl.Placeable,
		Metadata:  jl.Metadata,
	}
	for _, b := range jl.Blocks {
		yl.Blocks = append(yl.Blocks, YAMLBlock(b))
	}
	for _, e := range jl.Inventory {
		yl.Inventory = append(yl.Inventory, YAMLEntry(e))
	}
	for _, l := range jl.Lems {
		yl.Lems = append(yl.Lems, YAMLLem(l))
	}
	return yl.toDescription()
}
