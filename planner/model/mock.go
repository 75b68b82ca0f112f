package model

import (
	"context"
	"sync"
)

// MockChatModel is a ChatModel for tests.
//
// A reply is chosen in this order:
//   - Err, when set, fails every call
//   - Reply, when set, builds the reply from the request
//   - otherwise the next entry of Responses, repeating the last one
//
// Usage is reported for any reply that carries no usage of its own, so a
// test can price every call without repeating token counts.
//
//	mock := &MockChatModel{
//	    Responses: []ChatOut{{Text: `{"steps": []}`}},
//	    Usage:     Usage{InputTokens: 1000, OutputTokens: 200},
//	}
//	out, _ := mock.Chat(ctx, messages, nil)
//	// out.Usage.Total() == 1200
//	system := mock.LastCall().System()
type MockChatModel struct {
	Responses []ChatOut

	Usage Usage

	Reply func(messages []Message, tools []ToolSpec) (ChatOut, error)

	Err error

	Calls []MockChatCall

	mu   sync.Mutex
	next int
}

// MockChatCall records the request of one Chat call.
type MockChatCall struct {
	Messages []Message
	Tools    []ToolSpec
}

// System returns the joined system prompt of the call.
func (c MockChatCall) System() string {
	system, _ := SplitSystem(c.Messages)
	return system
}

// Chat implements ChatModel. A cancelled context is reported before the
// call is recorded.
func (m *MockChatModel) Chat(ctx context.Context, messages []Message, tools []ToolSpec) (ChatOut, error) {
	if err := ctx.Err(); err != nil {
		return ChatOut{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockChatCall{Messages: messages, Tools: tools})

	if m.Err != nil {
		return ChatOut{}, m.Err
	}

	out, err := m.reply(messages, tools)
	if err != nil {
		return ChatOut{}, err
	}
	if out.Usage == (Usage{}) {
		out.Usage = m.Usage
	}
	return out, nil
}

// reply requires m.mu.
func (m *MockChatModel) reply(messages []Message, tools []ToolSpec) (ChatOut, error) {
	if m.Reply != nil {
		return m.Reply(messages, tools)
	}
	if len(m.Responses) == 0 {
		return ChatOut{}, nil
	}
	out := m.Responses[min(m.next, len(m.Responses)-1)]
	if m.next < len(m.Responses) {
		m.next++
	}
	return out, nil
}

// LastCall returns the most recent call, or a zero MockChatCall when
// Chat has not been called.
func (m *MockChatModel) LastCall() MockChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Calls) == 0 {
		return MockChatCall{}
	}
	return m.Calls[len(m.Calls)-1]
}

// Reset clears the call history and rewinds Responses.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = nil
	m.next = 0
}

// CallCount returns the number of recorded calls.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Calls)
}
