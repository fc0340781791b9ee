package levels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/parkwalk/internal/levels/formats"
	"github.com/vovakirdan/parkwalk/internal/sim"
)

const yamlLevel = `
id: test-01
name: Test Level
size: { w: 6, h: 4 }
placeable: [3]
blocks:
  - { kind: walk, index: 0 }
  - { kind: walk, index: 1 }
  - { kind: walk, index: 2 }
  - { kind: crumbler, index: 4 }
  - { kind: lock, index: 8 }
inventory:
  - { key: walk, kind: walk, count: 3 }
lems:
  - { index: 0, facing_right: true }
`

const jsonLevel = `{
  "id": "test-02",
  "size": { "w": 4, "h": 4 },
  "blocks": [{ "kind": "walk", "index": 0 }],
  "lems": [{ "index": 0, "facing_right": true }]
}`

func TestParseYAML(t *testing.T) {
	d, err := formats.ParseYAML([]byte(yamlLevel))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if d.ID != "test-01" || d.Width != 6 || d.Height != 4 {
		t.Errorf("bad header: %q %dx%d", d.ID, d.Width, d.Height)
	}
	if len(d.Blocks) != 5 {
		t.Fatalf("blocks = %d, want 5", len(d.Blocks))
	}
	if d.Blocks[3].Kind != sim.KindCrumbler || d.Blocks[3].Index != 4 {
		t.Errorf("block 3 = %v@%d", d.Blocks[3].Kind, d.Blocks[3].Index)
	}
	if len(d.Inventory) != 1 || d.Inventory[0].MaxCount != 3 {
		t.Errorf("inventory not carried over: %+v", d.Inventory)
	}
	if len(d.Lems) != 1 || !d.Lems[0].FacingRight {
		t.Errorf("lems not carried over: %+v", d.Lems)
	}
}

func TestParseYAMLRejectsUnknownKind(t *testing.T) {
	bad := `
id: bad
size: { w: 4, h: 4 }
blocks:
  - { kind: escalator, index: 0 }
lems:
  - { index: 0 }
`
	if _, err := formats.ParseYAML([]byte(bad)); err == nil {
		t.Error("unknown block kind accepted")
	}
}

func TestParseYAMLRequiresID(t *testing.T) {
	bad := "size: { w: 4, h: 4 }\nlems: [{ index: 0 }]\n"
	if _, err := formats.ParseYAML([]byte(bad)); err == nil {
		t.Error("level without id accepted")
	}
}

func TestParseJSON(t *testing.T) {
	d, err := formats.ParseJSON([]byte(jsonLevel))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if d.ID != "test-02" || len(d.Blocks) != 1 {
		t.Errorf("bad level: %q blocks=%d", d.ID, len(d.Blocks))
	}
}

func TestParseJSONSchemaRejects(t *testing.T) {
	cases := map[string]string{
		"missing lems": `{"id": "x", "size": {"w": 4, "h": 4}}`,
		"zero width":   `{"id": "x", "size": {"w": 0, "h": 4}, "lems": [{"index": 0}]}`,
		"bad kind":     `{"id": "x", "size": {"w": 4, "h": 4}, "blocks": [{"kind": "ramp", "index": 0}], "lems": [{"index": 0}]}`,
		"empty id":     `{"id": "", "size": {"w": 4, "h": 4}, "lems": [{"index": 0}]}`,
		"string index": `{"id": "x", "size": {"w": 4, "h": 4}, "lems": [{"index": "zero"}]}`,
	}
	for name, doc := range cases {
		if _, err := formats.ParseJSON([]byte(doc)); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}

func TestLoaderDirectoryAndBuiltins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test-01.yaml"), []byte(yamlLevel), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "test-02.json"), []byte(jsonLevel), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(":::"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	all, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	ids := make(map[string]bool)
	for i, lvl := range all {
		ids[lvl.ID] = true
		if i > 0 && all[i-1].ID > lvl.ID {
			t.Fatalf("levels not sorted by ID: %q before %q", all[i-1].ID, lvl.ID)
		}
	}
	for _, want := range []string{"test-01", "test-02", "park-01", "park-02", "park-03", "park-04"} {
		if !ids[want] {
			t.Errorf("missing level %q", want)
		}
	}
}

func TestLoadByID(t *testing.T) {
	lvl, err := NewLoader("").LoadByID("park-01")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if lvl.Name != "First Steps" {
		t.Errorf("name = %q", lvl.Name)
	}
	if _, err := NewLoader("").LoadByID("nope"); err == nil {
		t.Error("missing ID did not error")
	}
}

// Every shipped level must come up clean: no warnings, Build mode, at
// least one agent, and a solvable win condition shape (some lock).
func TestBuiltinLevelsLoadIntoSession(t *testing.T) {
	builtin, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if len(builtin) < 4 {
		t.Fatalf("builtin levels = %d, want at least 4", len(builtin))
	}
	for _, lvl := range builtin {
		s := sim.NewSession(sim.DefaultParams())
		warnings, err := s.LoadLevel(lvl.LevelDescription)
		if err != nil {
			t.Errorf("%s: load failed: %v", lvl.ID, err)
			continue
		}
		if len(warnings) != 0 {
			t.Errorf("%s: %d load warnings", lvl.ID, len(warnings))
		}
		if len(s.Lems()) == 0 {
			t.Errorf("%s: no agents", lvl.ID)
		}
		if len(s.Grid().Locks()) == 0 {
			t.Errorf("%s: no locks, level cannot be won", lvl.ID)
		}
		if err := s.Grid().CheckConsistency(); err != nil {
			t.Errorf("%s: %v", lvl.ID, err)
		}
	}
}
