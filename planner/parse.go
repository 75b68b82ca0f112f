package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/warplan/planner/model"
)

// parsePlan reads the model reply into a Plan.
//
// Text is preferred. It may be wrapped in a Markdown code fence or
// surrounded by prose; the outermost JSON object is used. A reply with no
// text but with tool calls becomes one step per call.
func parsePlan(out model.ChatOut) (*Plan, error) {
	text := strings.TrimSpace(out.Text)
	if text == "" {
		if len(out.ToolCalls) == 0 {
			return nil, ErrEmptyResponse
		}
		return planFromToolCalls(out.ToolCalls), nil
	}

	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var plan Plan
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if plan.Steps == nil {
		return nil, fmt.Errorf("%w: missing steps", ErrMalformedPlan)
	}

	for i := range plan.Steps {
		normalizeStep(&plan.Steps[i])
	}
	return &plan, nil
}

// extractJSON returns the outermost {...} object of text.
func extractJSON(text string) ([]byte, error) {
	if fenced, ok := stripFence(text); ok {
		text = fenced
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedPlan)
	}
	return []byte(text[start : end+1]), nil
}

// stripFence returns the body of the first ``` fenced block in text.
func stripFence(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}
	body := text[open+3:]
	// Skip an info string such as "json".
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	closing := strings.Index(body, "```")
	if closing < 0 {
		return "", false
	}
	return body[:closing], true
}

func planFromToolCalls(calls []model.ToolCall) *Plan {
	plan := &Plan{Steps: make([]Step, 0, len(calls))}
	for _, call := range calls {
		step := Step{
			Task:   "Call " + call.Name,
			ToolID: call.Name,
			Args:   call.Input,
			Output: "Result of " + call.Name,
		}
		normalizeStep(&step)
		plan.Steps = append(plan.Steps, step)
	}
	return plan
}

func normalizeStep(s *Step) {
	if s.Inputs == nil {
		s.Inputs = []StepInput{}
	}
	if s.ToolID != "" && s.Args == nil {
		s.Args = map[string]interface{}{}
	}
}
