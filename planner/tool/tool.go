// Package tool defines the contract for actions a planning backend may place
// in a plan, plus a registry that describes and validates them.
package tool

import "context"

// Tool is an action that can be referenced by plan steps.
//
// Spec describes the tool to the model: its id, a human-readable name and
// description, the JSON schema of its input and the shape of its output.
// Call runs the action. Input must satisfy Spec().InputSchema; the registry
// validates it before a plan is accepted.
type Tool interface {
	Spec() Spec
	Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error)
}

// Checker is implemented by tools that can check an input against live state
// without performing the action. The planner uses it to attach warnings to a
// plan that refers to units or places that do not exist.
type Checker interface {
	Check(ctx context.Context, input map[string]interface{}) error
}

// Spec is the descriptor published for a tool.
type Spec struct {
	// ID is the stable identifier plan steps use in tool_id.
	ID string `json:"id"`

	// Name is a display name, e.g. "MoveTool".
	Name string `json:"name"`

	Description string `json:"description"`

	// InputSchema is a JSON schema object, usually produced by SchemaFor.
	InputSchema map[string]interface{} `json:"input_schema"`

	Output OutputSpec `json:"output"`
}

// OutputSpec describes what a tool returns.
type OutputSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}
