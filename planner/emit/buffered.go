package emit

import "sync"

// BufferedEmitter keeps events in memory, grouped by plan id.
// It is intended for tests and for inspecting a request after the fact.
//
// Example:
//
//	buf := emit.NewBufferedEmitter()
//	p, _ := planner.New(chat, reg, planner.WithEmitter(buf))
//	res, _ := p.Plan(ctx, "Move Arthur to the Forest")
//
//	responses := buf.GetHistoryWithFilter(res.Plan.ID, emit.HistoryFilter{
//	    Msg: emit.EventModelResponse,
//	})
//	// responses[0].Meta["tokens_in"] holds the prompt token count
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event
}

// HistoryFilter selects events from a plan's history. Empty fields match
// everything.
type HistoryFilter struct {
	Stage string
	Msg   string
}

// NewBufferedEmitter creates an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{
		events: make(map[string][]Event),
	}
}

// Emit implements Emitter.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events[event.PlanID] = append(b.events[event.PlanID], event)
}

// GetHistory returns a copy of the events recorded for planID, in emission
// order. Unknown ids yield an empty slice.
func (b *BufferedEmitter) GetHistory(planID string) []Event {
	return b.GetHistoryWithFilter(planID, HistoryFilter{})
}

// GetHistoryWithFilter returns the events for planID that match filter.
func (b *BufferedEmitter) GetHistoryWithFilter(planID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := []Event{}
	for _, event := range b.events[planID] {
		if filter.Stage != "" && event.Stage != filter.Stage {
			continue
		}
		if filter.Msg != "" && event.Msg != filter.Msg {
			continue
		}
		result = append(result, event)
	}
	return result
}

// PlanIDs returns the ids that have recorded events.
func (b *BufferedEmitter) PlanIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.events))
	for id := range b.events {
		ids = append(ids, id)
	}
	return ids
}

// Clear removes the history of planID, or of every plan when planID is empty.
func (b *BufferedEmitter) Clear(planID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if planID == "" {
		b.events = make(map[string][]Event)
	} else {
		delete(b.events, planID)
	}
}
