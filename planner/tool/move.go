package tool

import (
	"context"
	"fmt"

	"github.com/dshills/warplan/planner/world"
)

// MoveToolID is the id plan steps use to reference the move tool.
const MoveToolID = "move_tool"

// MoveInput is the input contract of the move tool.
type MoveInput struct {
	UnitName    string `json:"unit_name" jsonschema:"description=The name of the object/unit to move."`
	Destination string `json:"destination" jsonschema:"description=The name of the destination neighbour node."`
}

// MoveMessage formats the result text of a move.
func MoveMessage(unitName, destination string) string {
	return fmt.Sprintf("Moved %s to %s.", unitName, destination)
}

// MoveTool moves a unit to a neighboring node.
//
// Without a map it only formats the result message, for any pair of
// strings. Bound to a map, it performs the move through (*world.Map).MoveUnit
// and reports world errors such as world.ErrNotAdjacent.
type MoveTool struct {
	world *world.Map
}

// NewMoveTool creates a move tool. m may be nil.
func NewMoveTool(m *world.Map) *MoveTool {
	return &MoveTool{world: m}
}

// Spec implements Tool.
func (t *MoveTool) Spec() Spec {
	return Spec{
		ID:          MoveToolID,
		Name:        "MoveTool",
		Description: "Moves a unit to a neighbor node.",
		InputSchema: SchemaFor(&MoveInput{}),
		Output: OutputSpec{
			Type:        "string",
			Description: "A string describing the result of the move.",
		},
	}
}

// Call implements Tool.
//
// The result map always carries "result". A bound tool also sets "from" to
// the node the unit left.
func (t *MoveTool) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := parseMoveInput(input)
	if err != nil {
		return nil, err
	}

	if t.world == nil {
		return map[string]interface{}{
			"result": MoveMessage(in.UnitName, in.Destination),
		}, nil
	}

	mv, err := t.world.MoveUnit(in.UnitName, in.Destination)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"result": MoveMessage(mv.Unit, mv.To),
		"from":   mv.From,
	}, nil
}

// Check implements Checker. It reports an unknown unit or destination
// without moving anything. Adjacency is not checked since earlier steps of
// a plan may move the unit first. An unbound tool accepts any input.
//
// Returns:
//   - ErrInvalidInput when unit_name or destination is not a string
//   - world.ErrUnitNotFound when no registered unit has that name
//   - world.ErrNodeNotFound when the destination does not exist
//
// Example:
//
//	mv := tool.NewMoveTool(m)
//	err := mv.Check(ctx, map[string]interface{}{
//	    "unit_name":   "Gawain",
//	    "destination": "Forest",
//	})
//	// errors.Is(err, world.ErrUnitNotFound)
func (t *MoveTool) Check(ctx context.Context, input map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := parseMoveInput(input)
	if err != nil {
		return err
	}
	if t.world == nil {
		return nil
	}

	if _, ok := t.world.FindUnit(in.UnitName); !ok {
		return fmt.Errorf("%w: %q", world.ErrUnitNotFound, in.UnitName)
	}
	if _, ok := t.world.Node(in.Destination); !ok {
		return fmt.Errorf("%w: %q", world.ErrNodeNotFound, in.Destination)
	}
	return nil
}

func parseMoveInput(input map[string]interface{}) (MoveInput, error) {
	unit, ok := input["unit_name"].(string)
	if !ok {
		return MoveInput{}, fmt.Errorf("%w: unit_name must be a string", ErrInvalidInput)
	}
	dest, ok := input["destination"].(string)
	if !ok {
		return MoveInput{}, fmt.Errorf("%w: destination must be a string", ErrInvalidInput)
	}
	return MoveInput{UnitName: unit, Destination: dest}, nil
}
