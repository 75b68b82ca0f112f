package world

import "errors"

// ErrInvalidUnitType indicates a unit type outside {King, General}.
var ErrInvalidUnitType = errors.New("invalid unit type")

// ErrInvalidStatus indicates a unit status outside {Alive, Dead}.
var ErrInvalidStatus = errors.New("invalid unit status")

// ErrInvalidNode indicates an empty node name or a self-referencing edge.
var ErrInvalidNode = errors.New("invalid node")

// ErrDuplicateNode indicates that a node with the same name already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// ErrNodeNotFound indicates that a named node does not exist on the map.
var ErrNodeNotFound = errors.New("node not found")

// ErrUnitNotFound indicates that no registered unit has the requested name.
var ErrUnitNotFound = errors.New("unit not found")

// ErrUnitNotPlaced indicates that a unit has no location and cannot move.
var ErrUnitNotPlaced = errors.New("unit is not placed on the map")

// ErrUnitDead indicates that a dead unit was asked to act.
var ErrUnitDead = errors.New("unit is dead")

// ErrNotAdjacent indicates that a move destination is not a neighbor of the
// unit's current node.
var ErrNotAdjacent = errors.New("destination is not a neighbor")

// ErrForeignUnit indicates a unit that is placed on a different map.
var ErrForeignUnit = errors.New("unit belongs to another map")
