// Package model provides a provider-neutral chat interface and the types
// exchanged with LLM backends. Provider adapters live in subpackages.
package model

import "context"

// ChatModel is implemented by every LLM backend.
//
// Implementations convert Messages to the provider format, send one
// request and translate the reply back into a ChatOut. They must respect
// context cancellation and must not retry on their own.
//
// Example:
//
//	m := google.NewChatModel(os.Getenv("GOOGLE_API_KEY"), "")
//	out, err := m.Chat(ctx, []model.Message{
//	    {Role: model.RoleSystem, Content: "Reply with a JSON plan."},
//	    {Role: model.RoleUser, Content: "Move Arthur to the Forest"},
//	}, nil)
type ChatModel interface {
	// Chat sends messages and returns the model's reply. tools may be nil.
	// The reply may carry text, tool calls or both.
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (ChatOut, error)
}

// Message is a single turn of a conversation.
type Message struct {
	// Role is one of RoleSystem, RoleUser or RoleAssistant.
	Role string

	Content string
}

// Standard roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolSpec declares a function the model may call.
type ToolSpec struct {
	// Name is the function name presented to the model.
	Name string

	Description string

	// Schema is the JSON schema of the function input.
	Schema map[string]interface{}
}

// ChatOut is the model's reply.
type ChatOut struct {
	Text string

	ToolCalls []ToolCall

	// Usage reports token counts when the provider returns them.
	Usage Usage
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	Name string

	Input map[string]interface{}
}

// Usage holds token counts for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
