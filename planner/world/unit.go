package world

import (
	"fmt"
	"strings"
)

// UnitType identifies what kind of game entity a Unit is.
type UnitType string

// Known unit types. The capitalized spelling is canonical; ParseUnitType
// normalizes any other casing to these values.
const (
	UnitKing    UnitType = "King"
	UnitGeneral UnitType = "General"
)

// Valid reports whether t is one of the declared unit types.
func (t UnitType) Valid() bool {
	return t == UnitKing || t == UnitGeneral
}

// ParseUnitType converts a free-form string into a UnitType.
// Matching is case-insensitive; unknown values return ErrInvalidUnitType.
func ParseUnitType(s string) (UnitType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "king":
		return UnitKing, nil
	case "general":
		return UnitGeneral, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnitType, s)
}

// UnitStatus is the life state of a Unit.
type UnitStatus string

// Known unit statuses.
const (
	StatusAlive UnitStatus = "Alive"
	StatusDead  UnitStatus = "Dead"
)

// Valid reports whether s is one of the declared statuses.
func (s UnitStatus) Valid() bool {
	return s == StatusAlive || s == StatusDead
}

// ParseUnitStatus converts a free-form string into a UnitStatus.
// "alive", "ALIVE" and "Alive" all map to StatusAlive.
func ParseUnitStatus(s string) (UnitStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alive":
		return StatusAlive, nil
	case "dead":
		return StatusDead, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Unit is a King or General placed on a Map.
//
// Units are created through (*Map).NewUnit so that registration and the
// occupant list of the starting node stay consistent. All accessors take
// the owning map's lock; a unit created without a start node has no owner
// and reports a nil Location.
type Unit struct {
	name     string
	unitType UnitType
	soldiers int
	faction  string
	status   UnitStatus
	action   string

	owner    *Map
	location *Node
}

// Name returns the unit's name. Names are not guaranteed to be unique.
func (u *Unit) Name() string { return u.name }

// Type returns the unit type.
func (u *Unit) Type() UnitType { return u.unitType }

// Faction returns the faction label.
func (u *Unit) Faction() string { return u.faction }

// Soldiers returns the unit's strength.
func (u *Unit) Soldiers() int {
	u.rlock()
	defer u.runlock()
	return u.soldiers
}

// Status returns the unit's current status.
func (u *Unit) Status() UnitStatus {
	u.rlock()
	defer u.runlock()
	return u.status
}

// SetStatus changes the unit's status. Dead units are not removed from the map.
func (u *Unit) SetStatus(s UnitStatus) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	u.lock()
	defer u.unlock()
	u.status = s
	return nil
}

// CurrentAction returns the in-progress action, or "" if the unit is idle.
func (u *Unit) CurrentAction() string {
	u.rlock()
	defer u.runlock()
	return u.action
}

// SetCurrentAction records an in-progress action. Pass "" to clear it.
func (u *Unit) SetCurrentAction(action string) {
	u.lock()
	defer u.unlock()
	u.action = action
}

// Location returns the node the unit currently occupies, or nil when the
// unit was never placed.
func (u *Unit) Location() *Node {
	u.rlock()
	defer u.runlock()
	return u.location
}

// String implements fmt.Stringer.
func (u *Unit) String() string {
	loc := "unplaced"
	if n := u.Location(); n != nil {
		loc = n.Name()
	}
	return fmt.Sprintf("%s (%s, %s, %d soldiers, %s) at %s",
		u.name, u.unitType, u.faction, u.Soldiers(), u.Status(), loc)
}

func (u *Unit) lock() {
	if u.owner != nil {
		u.owner.mu.Lock()
	}
}

func (u *Unit) unlock() {
	if u.owner != nil {
		u.owner.mu.Unlock()
	}
}

func (u *Unit) rlock() {
	if u.owner != nil {
		u.owner.mu.RLock()
	}
}

func (u *Unit) runlock() {
	if u.owner != nil {
		u.owner.mu.RUnlock()
	}
}
