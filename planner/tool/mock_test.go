package tool

import (
	"context"
	"errors"
	"testing"
)

func TestMockTool(t *testing.T) {
	ctx := context.Background()

	t.Run("returns responses in order and repeats the last", func(t *testing.T) {
		mock := &MockTool{
			ToolSpec: Spec{ID: "scout"},
			Responses: []map[string]interface{}{
				{"n": 1},
				{"n": 2},
			},
		}

		for i, want := range []int{1, 2, 2} {
			out, err := mock.Call(ctx, map[string]interface{}{"i": i})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out["n"] != want {
				t.Errorf("call %d: expected %d, got %v", i, want, out["n"])
			}
		}
		if mock.CallCount() != 3 {
			t.Errorf("expected 3 calls, got %d", mock.CallCount())
		}

		mock.Reset()
		if mock.CallCount() != 0 {
			t.Errorf("expected 0 calls after reset, got %d", mock.CallCount())
		}
	})

	t.Run("returns configured errors", func(t *testing.T) {
		wantErr := errors.New("boom")
		mock := &MockTool{Err: wantErr, CheckErr: wantErr}

		if _, err := mock.Call(ctx, nil); !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
		if err := mock.Check(ctx, nil); !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
		if mock.CallCount() != 1 {
			t.Errorf("expected failed call to be recorded, got %d", mock.CallCount())
		}
	})
}
