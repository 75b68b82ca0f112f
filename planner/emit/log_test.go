package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogEmitter(t *testing.T) {
	event := Event{
		PlanID: "plan-1",
		Stage:  StagePrompt,
		Msg:    EventPlanStart,
		Meta:   map[string]interface{}{"command": "Move Arthur"},
	}

	t.Run("text mode", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogEmitter(&buf, false).Emit(event)

		want := `[plan_start] planID=plan-1 stage=prompt meta={"command":"Move Arthur"}` + "\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})

	t.Run("text mode without meta", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogEmitter(&buf, false).Emit(Event{PlanID: "p", Stage: StageResult, Msg: EventPlanEnd})
		if strings.Contains(buf.String(), "meta=") {
			t.Errorf("expected no meta, got %q", buf.String())
		}
	})

	t.Run("json mode", func(t *testing.T) {
		var buf bytes.Buffer
		e := NewLogEmitter(&buf, true)
		e.Emit(event)
		e.Emit(Event{PlanID: "plan-1", Msg: EventPlanEnd})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}

		var got map[string]interface{}
		if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
			t.Fatalf("invalid JSON line: %v", err)
		}
		if got["planID"] != "plan-1" || got["msg"] != "plan_start" || got["stage"] != "prompt" {
			t.Errorf("unexpected event %v", got)
		}
		meta, _ := got["meta"].(map[string]interface{})
		if meta["command"] != "Move Arthur" {
			t.Errorf("expected meta command, got %v", got["meta"])
		}
	})
}
