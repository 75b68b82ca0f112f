package world

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultScenario(t *testing.T) {
	m, err := DefaultScenario()
	if err != nil {
		t.Fatalf("DefaultScenario failed: %v", err)
	}

	if n := len(m.Nodes()); n != 5 {
		t.Errorf("expected 5 nodes, got %d", n)
	}

	arthur, ok := m.FindUnit("Arthur")
	if !ok {
		t.Fatal("expected Arthur in registry")
	}
	if arthur.Type() != UnitKing {
		t.Errorf("expected King, got %q", arthur.Type())
	}
	if arthur.Location().Name() != "Capital" {
		t.Errorf("expected Arthur at Capital, got %q", arthur.Location().Name())
	}

	forest, _ := m.Node("Forest")
	if !forest.IsNeighbor("Capital") || !forest.IsNeighbor("Mountain Pass") {
		t.Errorf("expected Forest neighbors Capital and Mountain Pass, got %v", forest.Neighbors())
	}

	if _, err := m.MoveUnit("Arthur", "Forest"); err != nil {
		t.Errorf("expected Arthur to move to Forest, got %v", err)
	}
}

func TestLoadScenario(t *testing.T) {
	t.Run("unplaced and dead units", func(t *testing.T) {
		doc := `
nodes:
  - name: A
    neighbors: [B]
  - name: B
units:
  - name: Ghost
    type: general
    location: B
    soldiers: 0
    faction: Shade
    status: dead
  - name: Drifter
    type: KING
    soldiers: 3
    faction: None
`
		m, err := LoadScenario(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("LoadScenario failed: %v", err)
		}

		ghost, ok := m.FindUnit("Ghost")
		if !ok {
			t.Fatal("expected Ghost in registry")
		}
		if ghost.Status() != StatusDead {
			t.Errorf("expected Dead, got %q", ghost.Status())
		}
		if ghost.Type() != UnitGeneral {
			t.Errorf("expected General, got %q", ghost.Type())
		}
		if _, ok := m.FindUnit("Drifter"); ok {
			t.Error("expected unplaced Drifter not to be registered")
		}
	})

	errorCases := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unknown neighbor",
			doc:     "nodes:\n  - name: A\n    neighbors: [Z]\n",
			wantErr: ErrNodeNotFound,
		},
		{
			name:    "duplicate node",
			doc:     "nodes:\n  - name: A\n  - name: A\n",
			wantErr: ErrDuplicateNode,
		},
		{
			name:    "bad unit type",
			doc:     "nodes:\n  - name: A\nunits:\n  - name: X\n    type: Peasant\n    location: A\n",
			wantErr: ErrInvalidUnitType,
		},
		{
			name:    "bad status",
			doc:     "nodes:\n  - name: A\nunits:\n  - name: X\n    type: King\n    location: A\n    status: asleep\n",
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "unknown location",
			doc:     "nodes:\n  - name: A\nunits:\n  - name: X\n    type: King\n    location: Q\n",
			wantErr: ErrNodeNotFound,
		},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := LoadScenario(strings.NewReader("nodes: [")); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realm.yaml")
	doc := "nodes:\n  - name: Keep\n    neighbors: [Moat]\n  - name: Moat\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("failed to write scenario: %v", err)
	}

	m, err := LoadScenarioFile(path)
	if err != nil {
		t.Fatalf("LoadScenarioFile failed: %v", err)
	}
	keep, ok := m.Node("Keep")
	if !ok || !keep.IsNeighbor("Moat") {
		t.Error("expected Keep to neighbor Moat")
	}

	if _, err := LoadScenarioFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
