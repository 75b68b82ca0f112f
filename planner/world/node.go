package world

import "sort"

// Node is a named location in the map graph.
//
// A node knows its neighbors (edges are undirected) and the units that
// currently occupy it. Nodes are created by (*Map).AddNode and guarded by
// the owning map's lock.
type Node struct {
	name      string
	owner     *Map
	neighbors map[string]*Node
	units     []*Unit
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Neighbors returns the names of adjacent nodes in sorted order.
func (n *Node) Neighbors() []string {
	n.owner.mu.RLock()
	defer n.owner.mu.RUnlock()
	return n.neighborNames()
}

// IsNeighbor reports whether name is adjacent to this node.
func (n *Node) IsNeighbor(name string) bool {
	n.owner.mu.RLock()
	defer n.owner.mu.RUnlock()
	_, ok := n.neighbors[name]
	return ok
}

// Units returns a snapshot of the units occupying this node, in arrival order.
func (n *Node) Units() []*Unit {
	n.owner.mu.RLock()
	defer n.owner.mu.RUnlock()
	out := make([]*Unit, len(n.units))
	copy(out, n.units)
	return out
}

// neighborNames requires the caller to hold the map lock.
func (n *Node) neighborNames() []string {
	names := make([]string, 0, len(n.neighbors))
	for name := range n.neighbors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// removeUnit requires the caller to hold the map write lock.
func (n *Node) removeUnit(u *Unit) {
	for i, occupant := range n.units {
		if occupant == u {
			n.units = append(n.units[:i], n.units[i+1:]...)
			return
		}
	}
}
