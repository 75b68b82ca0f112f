package emit

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracer(t *testing.T) (*tracetest.InMemoryExporter, *OTelEmitter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, NewOTelEmitter(tp.Tracer("test"))
}

func attributeMap(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{}, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func TestOTelEmitter_Emit(t *testing.T) {
	exporter, emitter := newTestTracer(t)

	emitter.Emit(Event{
		PlanID: "plan-1",
		Stage:  StageModel,
		Msg:    EventModelResponse,
		Meta: map[string]interface{}{
			"tokens_in":  120,
			"tokens_out": 30,
			"cost_usd":   0.0001,
			"model":      "gemini-2.0-flash",
			"latency":    250 * time.Millisecond,
			"tool_ids":   []string{"move_tool"},
		},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != EventModelResponse {
		t.Errorf("expected span name %q, got %q", EventModelResponse, spans[0].Name)
	}

	attrs := attributeMap(spans[0].Attributes)
	checks := map[string]interface{}{
		"warplan.plan_id":        "plan-1",
		"warplan.stage":          StageModel,
		"warplan.llm.tokens_in":  int64(120),
		"warplan.llm.tokens_out": int64(30),
		"warplan.llm.cost_usd":   0.0001,
		"warplan.llm.model":      "gemini-2.0-flash",
		"warplan.latency":        int64(250),
	}
	for key, want := range checks {
		if got := attrs[key]; got != want {
			t.Errorf("%s = %v, want %v", key, got, want)
		}
	}
	if ids, ok := attrs["warplan.tool_ids"].([]string); !ok || len(ids) != 1 {
		t.Errorf("expected tool_ids slice, got %v", attrs["warplan.tool_ids"])
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("expected non-error status")
	}
}

func TestOTelEmitter_Error(t *testing.T) {
	exporter, emitter := newTestTracer(t)

	emitter.Emit(Event{
		PlanID: "plan-2",
		Stage:  StageModel,
		Msg:    EventPlanError,
		Meta:   map[string]interface{}{"error": "rate limited"},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}
	if spans[0].Status.Description != "rate limited" {
		t.Errorf("expected description 'rate limited', got %q", spans[0].Status.Description)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected recorded error event")
	}
}
