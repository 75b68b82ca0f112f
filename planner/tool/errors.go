package tool

import "errors"

var (
	// ErrDuplicateTool is returned when two tools share an id.
	ErrDuplicateTool = errors.New("duplicate tool id")

	// ErrUnknownTool is returned for an id that is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidInput is returned when input does not satisfy a tool's schema.
	ErrInvalidInput = errors.New("invalid tool input")
)
