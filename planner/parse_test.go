package planner

import (
	"errors"
	"testing"

	"github.com/dshills/warplan/planner/model"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantSteps int
		wantErr   error
	}{
		{name: "bare JSON", text: `{"steps": [{"task": "wait", "output": "time passes"}]}`, wantSteps: 1},
		{name: "fenced with info string", text: "```json\n{\"steps\": []}\n```", wantSteps: 0},
		{name: "fenced without info string", text: "```\n{\"steps\": [{\"task\": \"a\"}, {\"task\": \"b\"}]}\n```", wantSteps: 2},
		{name: "surrounded by prose", text: "Sure! {\"steps\": [{\"task\": \"a\"}]} Good luck.", wantSteps: 1},
		{name: "unterminated fence", text: "```json\n{\"steps\": []}", wantSteps: 0},
		{name: "no object", text: "no plan today", wantErr: ErrMalformedPlan},
		{name: "broken JSON", text: `{"steps": [}`, wantErr: ErrMalformedPlan},
		{name: "whitespace only", text: "  \n ", wantErr: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := parsePlan(model.ChatOut{Text: tt.text})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(plan.Steps) != tt.wantSteps {
				t.Errorf("expected %d steps, got %d", tt.wantSteps, len(plan.Steps))
			}
		})
	}
}

func TestParsePlan_PrefersText(t *testing.T) {
	out := model.ChatOut{
		Text:      `{"steps": [{"task": "from text"}]}`,
		ToolCalls: []model.ToolCall{{Name: "move_tool"}},
	}

	plan, err := parsePlan(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Steps) != 1 || plan.Steps[0].Task != "from text" {
		t.Errorf("expected step from text, got %+v", plan.Steps)
	}
}

func TestPlanFromToolCalls(t *testing.T) {
	plan := planFromToolCalls([]model.ToolCall{{Name: "move_tool"}})

	step := plan.Steps[0]
	if step.ToolID != "move_tool" {
		t.Errorf("expected tool id move_tool, got %q", step.ToolID)
	}
	if step.Args == nil || step.Inputs == nil {
		t.Error("expected args and inputs to be non-nil")
	}
	if step.Task != "Call move_tool" {
		t.Errorf("expected task %q, got %q", "Call move_tool", step.Task)
	}
}
