// ABOUTME: Notifier that records calls instead of delivering them.
// ABOUTME: Used by tests and by callers that only need the schedule.
package notify

import (
	"context"
	"sync"
)

// Recorder keeps every scheduled notification in memory.
type Recorder struct {
	mu        sync.Mutex
	scheduled []Notification
	cancels   int
}

// Schedule records n.
func (r *Recorder) Schedule(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, n)
	return nil
}

// CancelAll forgets everything recorded so far.
func (r *Recorder) CancelAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = nil
	r.cancels++
	return nil
}

// Scheduled returns a copy of the recorded notifications.
func (r *Recorder) Scheduled() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.scheduled))
	copy(out, r.scheduled)
	return out
}

// OfKind returns the recorded notifications of kind k.
func (r *Recorder) OfKind(k Kind) []Notification {
	var out []Notification
	for _, n := range r.Scheduled() {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// Cancels reports how many times CancelAll was called.
func (r *Recorder) Cancels() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancels
}
