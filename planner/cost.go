package planner

import (
	"sync"
	"time"
)

// ModelPricing is the price of a model per one million tokens, in USD.
type ModelPricing struct {
	InputPer1M  float64
	OutputPer1M float64
}

// defaultModelPricing covers the default model of each provider plus the
// common alternatives. Prices are list prices and may drift.
var defaultModelPricing = map[string]ModelPricing{
	"gemini-2.0-flash":      {InputPer1M: 0.10, OutputPer1M: 0.40},
	"gemini-2.0-flash-lite": {InputPer1M: 0.075, OutputPer1M: 0.30},
	"gemini-1.5-flash":      {InputPer1M: 0.075, OutputPer1M: 0.30},
	"gemini-1.5-pro":        {InputPer1M: 1.25, OutputPer1M: 5.00},

	"gpt-4o":        {InputPer1M: 2.50, OutputPer1M: 10.00},
	"gpt-4o-mini":   {InputPer1M: 0.15, OutputPer1M: 0.60},
	"gpt-4-turbo":   {InputPer1M: 10.00, OutputPer1M: 30.00},
	"gpt-3.5-turbo": {InputPer1M: 0.50, OutputPer1M: 1.50},

	"claude-3-5-sonnet-20241022": {InputPer1M: 3.00, OutputPer1M: 15.00},
	"claude-3-5-haiku-20241022":  {InputPer1M: 0.80, OutputPer1M: 4.00},
	"claude-3-opus-20240229":     {InputPer1M: 15.00, OutputPer1M: 75.00},
	"claude-3-haiku-20240307":    {InputPer1M: 0.25, OutputPer1M: 1.25},
}

// LLMCall is one priced model call.
type LLMCall struct {
	Model        string
	PlanID       string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Timestamp    time.Time
}

// CostTracker accumulates estimated spend across plan requests.
// Unknown models are recorded at zero cost. CostTracker is safe for
// concurrent use.
type CostTracker struct {
	mu           sync.RWMutex
	pricing      map[string]ModelPricing
	calls        []LLMCall
	total        float64
	modelCosts   map[string]float64
	inputTokens  int64
	outputTokens int64
}

// NewCostTracker creates a tracker with the built-in pricing table.
func NewCostTracker() *CostTracker {
	pricing := make(map[string]ModelPricing, len(defaultModelPricing))
	for k, v := range defaultModelPricing {
		pricing[k] = v
	}
	return &CostTracker{
		pricing:    pricing,
		modelCosts: make(map[string]float64),
	}
}

// SetPricing overrides or adds the price of model.
func (ct *CostTracker) SetPricing(model string, p ModelPricing) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.pricing[model] = p
}

// Estimate returns the cost of a call without recording it.
func (ct *CostTracker) Estimate(model string, inputTokens, outputTokens int) float64 {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.estimate(model, inputTokens, outputTokens)
}

func (ct *CostTracker) estimate(model string, inputTokens, outputTokens int) float64 {
	p := ct.pricing[model]
	return float64(inputTokens)/1_000_000.0*p.InputPer1M +
		float64(outputTokens)/1_000_000.0*p.OutputPer1M
}

// RecordLLMCall prices and records a call, returning its cost.
func (ct *CostTracker) RecordLLMCall(model string, inputTokens, outputTokens int, planID string) float64 {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	cost := ct.estimate(model, inputTokens, outputTokens)
	ct.calls = append(ct.calls, LLMCall{
		Model:        model,
		PlanID:       planID,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostUSD:      cost,
		Timestamp:    time.Now(),
	})
	ct.total += cost
	ct.modelCosts[model] += cost
	ct.inputTokens += int64(inputTokens)
	ct.outputTokens += int64(outputTokens)
	return cost
}

// TotalCost returns the accumulated spend.
func (ct *CostTracker) TotalCost() float64 {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.total
}

// CostByModel returns accumulated spend per model.
func (ct *CostTracker) CostByModel() map[string]float64 {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	out := make(map[string]float64, len(ct.modelCosts))
	for k, v := range ct.modelCosts {
		out[k] = v
	}
	return out
}

// TokenUsage returns accumulated input and output tokens.
func (ct *CostTracker) TokenUsage() (input, output int64) {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.inputTokens, ct.outputTokens
}

// Calls returns a copy of the call history.
func (ct *CostTracker) Calls() []LLMCall {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	out := make([]LLMCall, len(ct.calls))
	copy(out, ct.calls)
	return out
}

// estimateCost prices a call with the built-in table.
func estimateCost(model string, inputTokens, outputTokens int) float64 {
	p := defaultModelPricing[model]
	return float64(inputTokens)/1_000_000.0*p.InputPer1M +
		float64(outputTokens)/1_000_000.0*p.OutputPer1M
}
