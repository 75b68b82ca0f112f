package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/dshills/warplan/planner/model"
)

// Registry holds the tools available to the planner, keyed by id.
//
// Input schemas are compiled once, when the registry is built. A Registry
// is read-only after NewRegistry returns and is safe for concurrent use.
//
// Example:
//
//	reg, err := tool.NewRegistry(tool.NewMoveTool(m))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = reg.Validate(tool.MoveToolID, map[string]interface{}{
//	    "unit_name": "Arthur",
//	})
//	// errors.Is(err, tool.ErrInvalidInput): destination is required
type Registry struct {
	order    []string
	tools    map[string]Tool
	compiled map[string]*jsonschema.Schema
}

// NewRegistry registers tools in the given order.
//
// Returns:
//   - an error when a tool has an empty id
//   - ErrDuplicateTool when two tools share an id
//   - an error when a tool's input schema does not compile
//
// A tool with a nil InputSchema accepts any JSON object.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools:    make(map[string]Tool, len(tools)),
		compiled: make(map[string]*jsonschema.Schema, len(tools)),
	}

	for _, t := range tools {
		spec := t.Spec()
		if spec.ID == "" {
			return nil, fmt.Errorf("tool %q: empty id", spec.Name)
		}
		if _, exists := r.tools[spec.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTool, spec.ID)
		}

		schema, err := compileSchema(spec.ID, spec.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", spec.ID, err)
		}

		r.order = append(r.order, spec.ID)
		r.tools[spec.ID] = t
		r.compiled[spec.ID] = schema
	}

	return r, nil
}

// Get returns the tool registered under id.
func (r *Registry) Get(id string) (Tool, bool) {
	t, ok := r.tools[id]
	return t, ok
}

// IDs returns registered ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Specs returns the descriptor of every registered tool.
func (r *Registry) Specs() []Spec {
	specs := make([]Spec, 0, len(r.order))
	for _, id := range r.order {
		specs = append(specs, r.tools[id].Spec())
	}
	return specs
}

// ModelSpecs converts the registry into provider-neutral tool declarations.
// The tool id is used as the function name.
func (r *Registry) ModelSpecs() []model.ToolSpec {
	specs := make([]model.ToolSpec, 0, len(r.order))
	for _, s := range r.Specs() {
		specs = append(specs, model.ToolSpec{
			Name:        s.ID,
			Description: s.Description,
			Schema:      s.InputSchema,
		})
	}
	return specs
}

// Validate checks input against the schema of the tool registered as id.
//
// Returns ErrUnknownTool when id is not registered and ErrInvalidInput when
// input violates the schema. A nil input is validated as an empty object.
// Validate never calls the tool.
func (r *Registry) Validate(id string, input map[string]interface{}) error {
	schema, ok := r.compiled[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	if input == nil {
		input = map[string]interface{}{}
	}

	// The validator expects values in the shape produced by its own decoder.
	inst, err := normalize(input)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w for %q: %v", ErrInvalidInput, id, err)
	}
	return nil
}

func compileSchema(id string, schema map[string]interface{}) (*jsonschema.Schema, error) {
	if schema == nil {
		schema = map[string]interface{}{"type": "object"}
	}

	doc, err := normalize(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}

	url := "mem://tools/" + id + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}
	return compiled, nil
}

func normalize(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}
