package world

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	yaml "go.yaml.in/yaml/v2"
)

//go:embed default_scenario.yaml
var defaultScenario []byte

// Scenario is the YAML representation of a map and its starting units.
//
//	nodes:
//	  - name: Capital
//	    neighbors: [Forest, River]
//	units:
//	  - name: Arthur
//	    type: King
//	    location: Capital
//	    soldiers: 100
//	    faction: Camelot
//
// Edges are undirected; listing a neighbor on either side is enough.
type Scenario struct {
	Nodes []ScenarioNode `yaml:"nodes"`
	Units []ScenarioUnit `yaml:"units"`
}

// ScenarioNode declares one node and its neighbors.
type ScenarioNode struct {
	Name      string   `yaml:"name"`
	Neighbors []string `yaml:"neighbors"`
}

// ScenarioUnit declares one unit. An empty Location creates an unplaced
// unit; an empty Status means Alive.
type ScenarioUnit struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Location string `yaml:"location"`
	Soldiers int    `yaml:"soldiers"`
	Faction  string `yaml:"faction"`
	Status   string `yaml:"status"`
}

// LoadScenario parses a YAML scenario and builds the corresponding Map.
func LoadScenario(r io.Reader) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	return sc.Build()
}

// LoadScenarioFile reads a scenario from disk.
func LoadScenarioFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()

	return LoadScenario(f)
}

// DefaultScenario builds the embedded demo realm.
func DefaultScenario() (*Map, error) {
	return LoadScenario(bytes.NewReader(defaultScenario))
}

// Build creates a Map from the scenario. Nodes are created first so that
// neighbor lists may reference nodes declared later in the document.
func (sc Scenario) Build() (*Map, error) {
	m := NewMap()

	for _, n := range sc.Nodes {
		if _, err := m.AddNode(n.Name); err != nil {
			return nil, err
		}
	}
	for _, n := range sc.Nodes {
		for _, neighbor := range n.Neighbors {
			if err := m.Connect(n.Name, neighbor); err != nil {
				return nil, fmt.Errorf("node %q: %w", n.Name, err)
			}
		}
	}

	for _, su := range sc.Units {
		unitType, err := ParseUnitType(su.Type)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", su.Name, err)
		}

		var start *Node
		if su.Location != "" {
			n, ok := m.Node(su.Location)
			if !ok {
				return nil, fmt.Errorf("unit %q: %w: %q", su.Name, ErrNodeNotFound, su.Location)
			}
			start = n
		}

		u, err := m.NewUnit(su.Name, unitType, start, su.Soldiers, su.Faction)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", su.Name, err)
		}

		if su.Status != "" {
			status, err := ParseUnitStatus(su.Status)
			if err != nil {
				return nil, fmt.Errorf("unit %q: %w", su.Name, err)
			}
			if err := u.SetStatus(status); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}
