package tool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var reflector = &jsonschema.Reflector{
	ExpandedStruct: true,
	DoNotReference: true,
	Anonymous:      true,
}

// SchemaFor reflects the JSON schema of an input struct into a plain map.
//
// Fields without omitempty are required and additional properties are
// rejected. Descriptions come from `jsonschema:"description=..."` tags.
// The $schema and $id keywords are dropped so the result can be embedded
// directly in provider tool declarations.
func SchemaFor(v interface{}) map[string]interface{} {
	s := reflector.Reflect(v)

	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("tool: cannot marshal schema for %T: %v", v, err))
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("tool: cannot decode schema for %T: %v", v, err))
	}

	delete(out, "$schema")
	delete(out, "$id")
	return out
}
