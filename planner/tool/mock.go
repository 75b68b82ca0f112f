package tool

import (
	"context"
	"sync"
)

// MockTool is a Tool for tests.
//
// It returns Responses in order, repeating the last one once they run out,
// or Err when set. Every call is recorded in Calls.
//
//	mock := &MockTool{
//	    ToolSpec:  tool.Spec{ID: "scout"},
//	    Responses: []map[string]interface{}{{"seen": 3}},
//	}
type MockTool struct {
	// ToolSpec is returned by Spec(). ID must be set to register the mock.
	ToolSpec Spec

	Responses []map[string]interface{}

	Err error

	// CheckErr, if set, is returned by Check().
	CheckErr error

	Calls []MockToolCall

	mu        sync.Mutex
	callIndex int
}

// MockToolCall records a single invocation of Call().
type MockToolCall struct {
	Input map[string]interface{}
}

// Spec implements Tool.
func (m *MockTool) Spec() Spec {
	return m.ToolSpec
}

// Call implements Tool.
func (m *MockTool) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockToolCall{Input: input})

	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return map[string]interface{}{}, nil
	}

	idx := m.callIndex
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	} else {
		m.callIndex++
	}
	return m.Responses[idx], nil
}

// Check implements Checker.
func (m *MockTool) Check(ctx context.Context, _ map[string]interface{}) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return m.CheckErr
}

// Reset clears the call history and rewinds the responses.
func (m *MockTool) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = nil
	m.callIndex = 0
}

// CallCount returns the number of times Call() has been called.
func (m *MockTool) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Calls)
}
