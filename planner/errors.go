package planner

import "errors"

var (
	// ErrEmptyResponse is returned when the model reply carries neither text
	// nor tool calls.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrMalformedPlan is returned when the model reply cannot be read as a
	// plan, or a step refers to a tool in a way the registry rejects.
	ErrMalformedPlan = errors.New("malformed plan")

	// ErrNilModel is returned by New when no chat model is supplied.
	ErrNilModel = errors.New("chat model is required")

	// ErrNilRegistry is returned by New when no tool registry is supplied.
	ErrNilRegistry = errors.New("tool registry is required")
)
