// Package planner turns a natural-language command into a structured plan.
//
// A Planner holds a chat model and a tool registry. Each call to Plan
// builds a prompt describing every registered tool (and, optionally, the
// current world), makes exactly one model request, and validates the
// returned steps against the registry before handing the plan back.
//
// Example:
//
//	m, _ := world.DefaultScenario()
//	reg, _ := tool.NewRegistry(tool.NewMoveTool(m))
//	p, _ := planner.New(google.NewChatModel(apiKey, ""), reg, planner.WithWorld(m))
//
//	res, err := p.Plan(ctx, "Move Arthur to the Forest")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := res.Plan.JSON()
//	fmt.Println(string(out))
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/warplan/planner/emit"
	"github.com/dshills/warplan/planner/model"
	"github.com/dshills/warplan/planner/tool"
	"github.com/dshills/warplan/planner/world"
)

// Planner requests plans from a chat model. It is safe for concurrent use
// as long as the model, emitter and tools are.
type Planner struct {
	model    model.ChatModel
	registry *tool.Registry

	world       *world.Map
	emitter     emit.Emitter
	metrics     *Metrics
	cost        *CostTracker
	modelName   string
	provider    string
	newID       func() string
	nativeTools bool
}

// New creates a Planner.
func New(m model.ChatModel, reg *tool.Registry, opts ...Option) (*Planner, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}

	p := &Planner{
		model:    m,
		registry: reg,
		emitter:  emit.NewNullEmitter(),
		provider: "unknown",
		newID:    func() string { return "plan-" + uuid.NewString() },
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Plan asks the model for a plan that carries out command.
//
// The command is passed through as given; an empty command is not
// rejected here. The returned plan has its id and plan_context set and
// every tool step has been validated against the registry. Model errors
// are wrapped, so errors.Is and errors.As still see provider errors such
// as *model.APIError.
//
// Returns:
//   - ErrEmptyResponse when the reply has neither text nor tool calls
//   - ErrMalformedPlan when the reply is not a plan, or when a step names
//     an unknown tool (tool.ErrUnknownTool) or has bad arguments
//     (tool.ErrInvalidInput)
//   - the wrapped model error when the Chat call fails
//
// Events are emitted in order: plan_start, model_request, model_response,
// then plan_end, plan_invalid or plan_error.
//
// Example:
//
//	res, err := p.Plan(ctx, "Send Lancelot to the Castle")
//	var apiErr *model.APIError
//	switch {
//	case errors.As(err, &apiErr) && apiErr.Retryable:
//	    // rate limited or server error; the caller may try again later
//	case errors.Is(err, planner.ErrMalformedPlan):
//	    // the model answered, but not with a usable plan
//	case err == nil:
//	    for _, w := range res.Warnings {
//	        log.Println("warning:", w)
//	    }
//	}
func (p *Planner) Plan(ctx context.Context, command string) (*Result, error) {
	start := time.Now()
	planID := p.newID()

	p.emit(planID, emit.StagePrompt, emit.EventPlanStart, map[string]interface{}{
		"provider": p.provider,
		"model":    p.modelName,
		"query":    command,
	})

	messages := buildMessages(command, p.registry.Specs(), p.world)
	var tools []model.ToolSpec
	if p.nativeTools {
		tools = p.registry.ModelSpecs()
	}

	p.emit(planID, emit.StageModel, emit.EventModelRequest, map[string]interface{}{
		"messages": len(messages),
		"tools":    len(tools),
	})

	out, err := p.model.Chat(ctx, messages, tools)
	if err != nil {
		p.fail(planID, emit.EventPlanError, StatusError, start, err)
		return nil, fmt.Errorf("plan request failed: %w", err)
	}

	cost := p.recordUsage(planID, out.Usage)
	p.emit(planID, emit.StageModel, emit.EventModelResponse, map[string]interface{}{
		"tokens_in":  out.Usage.InputTokens,
		"tokens_out": out.Usage.OutputTokens,
		"cost_usd":   cost,
		"model":      p.modelName,
		"latency_ms": time.Since(start).Milliseconds(),
		"tool_calls": len(out.ToolCalls),
	})

	plan, err := parsePlan(out)
	if err != nil {
		p.fail(planID, emit.EventPlanInvalid, StatusInvalid, start, err)
		return nil, err
	}

	if err := p.validate(plan); err != nil {
		p.fail(planID, emit.EventPlanInvalid, StatusInvalid, start, err)
		return nil, err
	}
	warnings := p.check(ctx, plan)

	plan.ID = planID
	plan.Context = PlanContext{Query: command, ToolIDs: p.registry.IDs()}

	elapsed := time.Since(start)
	p.emit(planID, emit.StageResult, emit.EventPlanEnd, map[string]interface{}{
		"steps":      len(plan.Steps),
		"warnings":   len(warnings),
		"latency_ms": elapsed.Milliseconds(),
	})
	if p.metrics != nil {
		p.metrics.RecordRequest(p.provider, StatusSuccess, elapsed)
		p.metrics.RecordSteps(len(plan.Steps))
	}

	return &Result{
		Plan:     plan,
		Usage:    out.Usage,
		CostUSD:  cost,
		Duration: elapsed,
		Warnings: warnings,
	}, nil
}

// validate checks every tool step against the registry. Unknown tools and
// schema violations are wrapped in ErrMalformedPlan while keeping the
// registry sentinel reachable through errors.Is.
func (p *Planner) validate(plan *Plan) error {
	var errs []error
	for i, step := range plan.Steps {
		if step.ToolID == "" {
			continue
		}
		if err := p.registry.Validate(step.ToolID, step.Args); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrMalformedPlan, errors.Join(errs...))
}

// check runs world-level checks for tools that support them. Steps are
// checked independently, so a check never depends on earlier steps having
// run.
func (p *Planner) check(ctx context.Context, plan *Plan) []string {
	var warnings []string
	for i, step := range plan.Steps {
		if step.ToolID == "" {
			continue
		}
		t, ok := p.registry.Get(step.ToolID)
		if !ok {
			continue
		}
		checker, ok := t.(tool.Checker)
		if !ok {
			continue
		}
		if err := checker.Check(ctx, step.Args); err != nil {
			warnings = append(warnings, fmt.Sprintf("step %d (%s): %v", i+1, step.ToolID, err))
		}
	}
	return warnings
}

func (p *Planner) recordUsage(planID string, usage model.Usage) float64 {
	var cost float64
	if p.cost != nil {
		cost = p.cost.RecordLLMCall(p.modelName, usage.InputTokens, usage.OutputTokens, planID)
	} else {
		cost = estimateCost(p.modelName, usage.InputTokens, usage.OutputTokens)
	}

	if p.metrics != nil {
		p.metrics.RecordTokens(p.provider, usage.InputTokens, usage.OutputTokens)
		p.metrics.RecordCost(p.modelName, cost)
	}
	return cost
}

func (p *Planner) fail(planID, event, status string, start time.Time, err error) {
	stage := emit.StageValidate
	if event == emit.EventPlanError {
		stage = emit.StageModel
	}
	p.emit(planID, stage, event, map[string]interface{}{
		"error":      err.Error(),
		"latency_ms": time.Since(start).Milliseconds(),
	})
	if p.metrics != nil {
		p.metrics.RecordRequest(p.provider, status, time.Since(start))
	}
}

func (p *Planner) emit(planID, stage, msg string, meta map[string]interface{}) {
	p.emitter.Emit(emit.Event{
		PlanID: planID,
		Stage:  stage,
		Msg:    msg,
		Meta:   meta,
	})
}
