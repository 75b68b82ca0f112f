package world

import (
	"fmt"
	"sort"
	"strings"
)

// Describe renders a plain-text summary of the map for use in LLM prompts.
//
// Output lists every node with its neighbors, then every registered unit:
//
//	Nodes:
//	- Capital (neighbors: Forest, River)
//	- Forest (neighbors: Capital)
//	Units:
//	- Arthur: King of Camelot, 100 soldiers, Alive, at Capital
func Describe(m *Map) string {
	if m == nil {
		return ""
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder

	sb.WriteString("Nodes:\n")
	for _, name := range sortedKeys(m.nodes) {
		n := m.nodes[name]
		neighbors := n.neighborNames()
		if len(neighbors) == 0 {
			fmt.Fprintf(&sb, "- %s (no neighbors)\n", name)
			continue
		}
		fmt.Fprintf(&sb, "- %s (neighbors: %s)\n", name, strings.Join(neighbors, ", "))
	}

	sb.WriteString("Units:\n")
	if len(m.units) == 0 {
		sb.WriteString("- none\n")
	}
	for _, u := range m.units {
		loc := "unplaced"
		if u.location != nil {
			loc = "at " + u.location.name
		}
		fmt.Fprintf(&sb, "- %s: %s of %s, %d soldiers, %s, %s\n",
			u.name, u.unitType, u.faction, u.soldiers, u.status, loc)
	}

	return sb.String()
}

func sortedKeys(nodes map[string]*Node) []string {
	keys := make([]string, 0, len(nodes))
	for k := range nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
