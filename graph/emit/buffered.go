package emit

import (
	"context"
	"sync"
)

// BufferedEmitter keeps every event it receives in memory, indexed by run
// ID, so a caller can query or replay a run's history after the fact. It
// is the emitter the driver's `list`/`resume` reporting and the test
// suite reach for when they need to inspect what actually happened during
// a run rather than just watching it stream by.
type BufferedEmitter struct {
	mu    sync.RWMutex
	byRun map[string][]Event
}

// HistoryFilter narrows GetHistoryWithFilter's results. Zero-valued
// fields impose no constraint; set fields combine with AND.
type HistoryFilter struct {
	NodeID  string
	Msg     string
	MinStep *int
	MaxStep *int
}

// NewBufferedEmitter returns an empty, ready-to-use BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{byRun: make(map[string][]Event)}
}

// Emit appends event to its run's history.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byRun[event.RunID] = append(b.byRun[event.RunID], event)
}

// EmitBatch appends every event in order, under a single lock acquisition.
func (b *BufferedEmitter) EmitBatch(_ context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, event := range events {
		b.byRun[event.RunID] = append(b.byRun[event.RunID], event)
	}
	return nil
}

// Flush is a no-op: events are already durable in memory the moment Emit
// or EmitBatch returns. Present only to satisfy Emitter.
func (b *BufferedEmitter) Flush(_ context.Context) error {
	return nil
}

// GetHistory returns a copy of every event recorded for runID, oldest
// first, or an empty slice if none were recorded.
func (b *BufferedEmitter) GetHistory(runID string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	events := b.byRun[runID]
	result := make([]Event, len(events))
	copy(result, events)
	return result
}

// GetHistoryWithFilter is GetHistory narrowed by filter's conditions.
func (b *BufferedEmitter) GetHistoryWithFilter(runID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	events := b.byRun[runID]
	if filter == (HistoryFilter{}) {
		result := make([]Event, len(events))
		copy(result, events)
		return result
	}

	result := make([]Event, 0, len(events))
	for _, event := range events {
		if matchesHistoryFilter(event, filter) {
			result = append(result, event)
		}
	}
	return result
}

func matchesHistoryFilter(event Event, filter HistoryFilter) bool {
	if filter.NodeID != "" && event.NodeID != filter.NodeID {
		return false
	}
	if filter.Msg != "" && event.Msg != filter.Msg {
		return false
	}
	if filter.MinStep != nil && event.Step < *filter.MinStep {
		return false
	}
	if filter.MaxStep != nil && event.Step > *filter.MaxStep {
		return false
	}
	return true
}

// Clear drops the history for runID, or every run's history when runID
// is empty.
func (b *BufferedEmitter) Clear(runID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if runID == "" {
		b.byRun = make(map[string][]Event)
		return
	}
	delete(b.byRun, runID)
}
