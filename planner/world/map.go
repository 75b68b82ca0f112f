// Package world models the game map: named nodes joined by undirected
// edges, and the Kings and Generals that occupy them.
//
// A Map is an explicit object. Nothing in this package keeps global state;
// callers construct a Map (directly or from a scenario file) and pass it to
// whatever needs it, such as the move tool or the planner prompt builder.
//
// Example:
//
//	m := world.NewMap()
//	capital, _ := m.AddNode("Capital")
//	_, _ = m.AddNode("Forest")
//	_ = m.Connect("Capital", "Forest")
//
//	arthur, err := m.NewUnit("Arthur", world.UnitKing, capital, 100, "Camelot")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mv, err := m.MoveUnit("Arthur", "Forest")
//	// mv.From == "Capital", mv.To == "Forest", arthur.Location().Name() == "Forest"
package world

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Map owns every Node and keeps a registry of the units placed on it.
//
// Invariant: a unit in the registry appears in exactly one node's occupant
// list, the node returned by its Location.
//
// Map is safe for concurrent use.
type Map struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	units []*Unit
}

// Move describes a completed unit move.
type Move struct {
	Unit string
	From string
	To   string
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{
		nodes: make(map[string]*Node),
	}
}

// AddNode creates a node with the given name.
func (m *Map) AddNode(name string) (*Node, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidNode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.nodes[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}

	n := &Node{
		name:      name,
		owner:     m,
		neighbors: make(map[string]*Node),
	}
	m.nodes[name] = n
	return n, nil
}

// Connect adds an undirected edge between two existing nodes.
// Connecting nodes that are already neighbors is a no-op.
func (m *Map) Connect(a, b string) error {
	if a == b {
		return fmt.Errorf("%w: %q cannot neighbor itself", ErrInvalidNode, a)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	na, ok := m.nodes[a]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, a)
	}
	nb, ok := m.nodes[b]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, b)
	}

	na.neighbors[b] = nb
	nb.neighbors[a] = na
	return nil
}

// Node looks up a node by name.
func (m *Map) Node(name string) (*Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[name]
	return n, ok
}

// Nodes returns all node names in sorted order.
func (m *Map) Nodes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.nodes))
	for name := range m.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddUnit registers u in the map-wide unit registry.
//
// There is no uniqueness check and no capacity limit: registering the same
// unit twice lists it twice. AddUnit does not touch node occupant lists, so
// u must already stand on a node of this map. An unplaced unit returns
// ErrUnitNotPlaced and a unit placed on another map returns ErrForeignUnit;
// neither is registered.
//
//	u, _ := m.NewUnit("Gawain", world.UnitGeneral, nil, 40, "Camelot")
//	err := m.AddUnit(u) // errors.Is(err, world.ErrUnitNotPlaced)
func (m *Map) AddUnit(u *Unit) error {
	if u == nil {
		return fmt.Errorf("%w: nil unit", ErrUnitNotFound)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if u.location == nil {
		return fmt.Errorf("%w: %q", ErrUnitNotPlaced, u.name)
	}
	if u.owner != m || m.nodes[u.location.name] != u.location {
		return fmt.Errorf("%w: %q", ErrForeignUnit, u.name)
	}

	m.units = append(m.units, u)
	return nil
}

// Units returns a snapshot of the registry in registration order.
func (m *Map) Units() []*Unit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Unit, len(m.units))
	copy(out, m.units)
	return out
}

// FindUnit returns the first registered unit with the given name.
func (m *Map) FindUnit(name string) (*Unit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u := m.findUnit(name)
	return u, u != nil
}

// NewUnit creates a unit and, when start is non-nil, places it on start and
// registers it with the map.
//
// A nil start is permitted: the unit is returned but registered nowhere.
// The unit type must be King or General. Soldiers has no lower bound.
// start must be a node of this map.
func (m *Map) NewUnit(name string, unitType UnitType, start *Node, soldiers int, faction string) (*Unit, error) {
	if !unitType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnitType, unitType)
	}

	u := &Unit{
		name:     name,
		unitType: unitType,
		soldiers: soldiers,
		faction:  faction,
		status:   StatusAlive,
	}
	if start == nil {
		return u, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if start.owner != m || m.nodes[start.name] != start {
		return nil, fmt.Errorf("%w: %q is not part of this map", ErrNodeNotFound, start.name)
	}

	u.owner = m
	u.location = start
	start.units = append(start.units, u)
	m.units = append(m.units, u)
	return u, nil
}

// MoveUnit moves the named unit to an adjacent node.
//
// The unit must be registered, placed and alive; the destination must exist
// and neighbor the unit's current node. Both occupant lists and the unit's
// location are updated under a single lock, so observers never see the unit
// on two nodes or on none.
func (m *Map) MoveUnit(unitName, destination string) (Move, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.findUnit(unitName)
	if u == nil {
		return Move{}, fmt.Errorf("%w: %q", ErrUnitNotFound, unitName)
	}
	if u.location == nil {
		return Move{}, fmt.Errorf("%w: %q", ErrUnitNotPlaced, unitName)
	}
	if u.status == StatusDead {
		return Move{}, fmt.Errorf("%w: %q", ErrUnitDead, unitName)
	}

	to, ok := m.nodes[destination]
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrNodeNotFound, destination)
	}

	from := u.location
	if _, adjacent := from.neighbors[destination]; !adjacent {
		return Move{}, fmt.Errorf("%w: %q is not adjacent to %q", ErrNotAdjacent, destination, from.name)
	}

	from.removeUnit(u)
	to.units = append(to.units, u)
	u.location = to

	return Move{Unit: u.name, From: from.name, To: to.name}, nil
}

// findUnit requires the caller to hold the map lock.
func (m *Map) findUnit(name string) *Unit {
	for _, u := range m.units {
		if u.name == name {
			return u
		}
	}
	return nil
}
