package planner

import (
	"encoding/json"
	"time"

	"github.com/dshills/warplan/planner/model"
)

// Plan is the structured answer to a command.
//
//	{
//	  "id": "plan-8f0c...",
//	  "plan_context": {"query": "Move Arthur to the Forest", "tool_ids": ["move_tool"]},
//	  "steps": [
//	    {
//	      "task": "Move Arthur from the Capital to the Forest",
//	      "inputs": [],
//	      "tool_id": "move_tool",
//	      "args": {"unit_name": "Arthur", "destination": "Forest"},
//	      "output": "Arthur is in the Forest"
//	    }
//	  ]
//	}
type Plan struct {
	ID      string      `json:"id"`
	Context PlanContext `json:"plan_context"`
	Steps   []Step      `json:"steps"`
}

// PlanContext records what the plan was built from.
type PlanContext struct {
	Query   string   `json:"query"`
	ToolIDs []string `json:"tool_ids"`
}

// Step is one action of a plan. Steps without a ToolID are reasoning or
// bookkeeping steps and carry no arguments.
type Step struct {
	Task      string                 `json:"task"`
	Inputs    []StepInput            `json:"inputs"`
	ToolID    string                 `json:"tool_id,omitempty"`
	Args      map[string]interface{} `json:"args,omitempty"`
	Output    string                 `json:"output"`
	Condition string                 `json:"condition,omitempty"`
}

// StepInput names a value a step consumes, usually the output of an
// earlier step.
type StepInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// JSON returns the plan as two-space indented JSON.
func (p *Plan) JSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Result is returned by (*Planner).Plan.
type Result struct {
	Plan *Plan

	// Usage is the token usage reported by the backend.
	Usage model.Usage

	// CostUSD is the estimated price of the model call.
	CostUSD float64

	Duration time.Duration

	// Warnings lists steps that are well formed but refer to units or
	// places the world does not know. They never fail the request.
	Warnings []string
}
