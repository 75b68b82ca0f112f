package emit

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapEmitter logs events through a zap.Logger.
//
// plan_error is logged at error level, plan_invalid at warn and everything
// else at debug, so a logger at the default warn level only reports
// failures.
//
// Each entry carries plan_id and stage fields followed by the Meta keys in
// sorted order:
//
//	WARN  plan_invalid  {"plan_id": "plan-1", "stage": "validate", "error": "malformed plan: ..."}
//
// Example:
//
//	logger, _ := zap.NewDevelopment()
//	p, _ := planner.New(chat, reg, planner.WithEmitter(emit.NewZapEmitter(logger)))
type ZapEmitter struct {
	logger *zap.Logger
}

// NewZapEmitter creates a ZapEmitter. A nil logger discards events.
func NewZapEmitter(logger *zap.Logger) *ZapEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapEmitter{logger: logger}
}

// Emit implements Emitter.
func (z *ZapEmitter) Emit(event Event) {
	level := zapcore.DebugLevel
	switch event.Msg {
	case EventPlanError:
		level = zapcore.ErrorLevel
	case EventPlanInvalid:
		level = zapcore.WarnLevel
	}

	ce := z.logger.Check(level, event.Msg)
	if ce == nil {
		return
	}

	fields := make([]zap.Field, 0, len(event.Meta)+2)
	fields = append(fields,
		zap.String("plan_id", event.PlanID),
		zap.String("stage", event.Stage),
	)

	keys := make([]string, 0, len(event.Meta))
	for k := range event.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, event.Meta[k]))
	}

	ce.Write(fields...)
}
