package planner

import (
	"errors"

	"github.com/dshills/warplan/planner/emit"
	"github.com/dshills/warplan/planner/world"
)

// Option configures a Planner.
//
//	p, err := planner.New(chat, reg,
//	    planner.WithWorld(m),
//	    planner.WithEmitter(emit.NewLogEmitter(os.Stderr, false)),
//	    planner.WithProvider("google"),
//	)
type Option func(*Planner) error

// WithWorld adds a summary of m to the planning prompt.
func WithWorld(m *world.Map) Option {
	return func(p *Planner) error {
		p.world = m
		return nil
	}
}

// WithEmitter sets the event sink. The default discards events.
func WithEmitter(e emit.Emitter) Option {
	return func(p *Planner) error {
		if e == nil {
			return errors.New("emitter must not be nil")
		}
		p.emitter = e
		return nil
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Planner) error {
		p.metrics = m
		return nil
	}
}

// WithCostTracker accumulates spend across requests in ct. Without a
// tracker the cost of each request is still estimated from the built-in
// pricing table.
func WithCostTracker(ct *CostTracker) Option {
	return func(p *Planner) error {
		p.cost = ct
		return nil
	}
}

// WithModelName records the model name used for pricing and events.
func WithModelName(name string) Option {
	return func(p *Planner) error {
		p.modelName = name
		return nil
	}
}

// WithProvider records the backend name used in events and metric labels.
func WithProvider(name string) Option {
	return func(p *Planner) error {
		p.provider = name
		return nil
	}
}

// WithIDGenerator replaces the plan id generator. Tests use it for stable ids.
func WithIDGenerator(fn func() string) Option {
	return func(p *Planner) error {
		if fn == nil {
			return errors.New("id generator must not be nil")
		}
		p.newID = fn
		return nil
	}
}

// WithNativeTools passes the registry to the model as callable functions
// instead of relying on the prompt alone. A reply made only of tool calls
// is then turned into plan steps.
func WithNativeTools() Option {
	return func(p *Planner) error {
		p.nativeTools = true
		return nil
	}
}
