// Package emit provides event emission and observability for plan requests.
package emit

// Event is an observability record produced while a plan is requested.
//
// Events are emitted in order for each request:
//
//	plan_start -> model_request -> model_response -> plan_end
//
// with plan_invalid or plan_error replacing plan_end on failure.
type Event struct {
	// PlanID identifies the plan request. It is the id later stamped on
	// the returned plan.
	PlanID string

	// Stage names the part of the request that produced the event:
	// "prompt", "model", "validate" or "result".
	Stage string

	// Msg is the event name, one of the Event* constants.
	Msg string

	// Meta carries event-specific data such as token counts, latency_ms,
	// model, provider or error.
	Meta map[string]interface{}
}

// Event names.
const (
	EventPlanStart     = "plan_start"
	EventModelRequest  = "model_request"
	EventModelResponse = "model_response"
	EventPlanInvalid   = "plan_invalid"
	EventPlanEnd       = "plan_end"
	EventPlanError     = "plan_error"
)

// Stages.
const (
	StagePrompt   = "prompt"
	StageModel    = "model"
	StageValidate = "validate"
	StageResult   = "result"
)
