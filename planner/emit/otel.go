package emit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter records each event as an OpenTelemetry span.
//
// Span attributes:
//   - warplan.plan_id, warplan.stage
//   - warplan.llm.tokens_in, warplan.llm.tokens_out, warplan.llm.cost_usd,
//     warplan.llm.model for model events
//   - other Meta keys under warplan.<key>
//
// An "error" key in Meta marks the span as failed.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an emitter that starts spans with tracer.
//
// Example:
//
//	exporter, _ := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
//	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
//	defer tp.Shutdown(ctx)
//
//	emitter := emit.NewOTelEmitter(tp.Tracer("warplan"))
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit implements Emitter.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()

	span.SetAttributes(
		attribute.String("warplan.plan_id", event.PlanID),
		attribute.String("warplan.stage", event.Stage),
	)
	o.addMetadataAttributes(span, event.Meta)

	if msg, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, msg)
		span.RecordError(errors.New(msg))
	}
}

func (o *OTelEmitter) addMetadataAttributes(span trace.Span, meta map[string]interface{}) {
	for key, value := range meta {
		attrKey := "warplan." + key
		switch key {
		case "tokens_in":
			attrKey = "warplan.llm.tokens_in"
		case "tokens_out":
			attrKey = "warplan.llm.tokens_out"
		case "cost_usd":
			attrKey = "warplan.llm.cost_usd"
		case "model":
			attrKey = "warplan.llm.model"
		}

		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(attrKey, v))
		case int:
			span.SetAttributes(attribute.Int(attrKey, v))
		case int64:
			span.SetAttributes(attribute.Int64(attrKey, v))
		case float64:
			span.SetAttributes(attribute.Float64(attrKey, v))
		case bool:
			span.SetAttributes(attribute.Bool(attrKey, v))
		case []string:
			span.SetAttributes(attribute.StringSlice(attrKey, v))
		case time.Duration:
			span.SetAttributes(attribute.Int64(attrKey, int64(v/time.Millisecond)))
		default:
			span.SetAttributes(attribute.String(attrKey, fmt.Sprintf("%v", v)))
		}
	}
}
