package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/warplan/planner/model"
	"github.com/dshills/warplan/planner/tool"
	"github.com/dshills/warplan/planner/world"
)

const planInstructions = `You are a military planner for a turn-based strategy game.
Turn the commander's instruction into a plan that uses only the tools listed below.

Reply with a single JSON object and nothing else:
{
  "steps": [
    {
      "task": "short description of the step",
      "inputs": [{"name": "value used", "description": "where it comes from"}],
      "tool_id": "id of the tool to call, omit for steps that call no tool",
      "args": {"argument": "value"},
      "output": "what the step produces",
      "condition": "optional condition that must hold before the step runs"
    }
  ]
}

Rules:
- args must match the tool's input schema exactly.
- Units may only move between neighboring nodes; add intermediate moves when needed.
- Use names exactly as they appear in the world description.
- If the instruction cannot be carried out, return an empty steps list.`

// buildMessages assembles the system prompt and the user turn.
func buildMessages(command string, specs []tool.Spec, m *world.Map) []model.Message {
	return []model.Message{
		{Role: model.RoleSystem, Content: systemPrompt(specs, m)},
		{Role: model.RoleUser, Content: command},
	}
}

func systemPrompt(specs []tool.Spec, m *world.Map) string {
	var sb strings.Builder

	sb.WriteString(planInstructions)
	sb.WriteString("\n\nTools:\n")
	for _, s := range specs {
		schema, err := json.Marshal(s.InputSchema)
		if err != nil {
			schema = []byte("{}")
		}
		fmt.Fprintf(&sb, "- id: %s\n  name: %s\n  description: %s\n  input_schema: %s\n  output: %s (%s)\n",
			s.ID, s.Name, s.Description, schema, s.Output.Type, s.Output.Description)
	}

	if m != nil {
		sb.WriteString("\nWorld:\n")
		sb.WriteString(world.Describe(m))
	}

	return sb.String()
}
