// ABOUTME: Observer stream of state changes for UI surfaces.
// ABOUTME: Each event carries the full state after the change.
package tracker

// EventKind names what changed.
type EventKind string

const (
	EventConsumptionAdded EventKind = "consumption_added"
	EventCategoryAdded    EventKind = "category_added"
	EventCategoryDeleted  EventKind = "category_deleted"
	EventTargetsChanged   EventKind = "targets_changed"
	EventDailyReset       EventKind = "daily_reset"
	EventThresholdCrossed EventKind = "threshold_crossed"
)

// Event is published to subscribers after each state change.
type Event struct {
	Kind  EventKind `json:"kind"`
	State State     `json:"state"`
}

// Subscribe registers an observer. The channel is buffered; slow observers
// miss events rather than stall the queue. Call cancel to unsubscribe.
func (t *Tracker) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	t.subMu.Lock()
	select {
	case <-t.quit:
		t.subMu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	t.subMu.Unlock()

	cancel := func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		if c, ok := t.subs[id]; ok {
			close(c)
			delete(t.subs, id)
		}
	}
	return ch, cancel
}

// publish must run on the queue goroutine.
func (t *Tracker) publish(kind EventKind) {
	t.subMu.Lock()
	n := len(t.subs)
	t.subMu.Unlock()
	if n == 0 {
		return
	}

	ev := Event{Kind: kind, State: t.state()}
	t.subMu.Lock()
	defer t.subMu.Unlock()
	for id, ch := range t.subs {
		select {
		case ch <- ev:
		default:
			t.logger.Debug("subscriber lagging, event dropped", "subscriber", id, "kind", kind)
		}
	}
}
