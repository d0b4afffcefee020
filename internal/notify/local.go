// ABOUTME: In-process notifier that fires scheduled notifications on timers.
// ABOUTME: Repeating notifications re-arm for the same clock time the next day.
package notify

import (
	"context"
	"sync"
	"time"
)

// Deliver shows a notification to the user.
type Deliver func(n Notification)

// Local schedules notifications with timers inside the running process.
type Local struct {
	mu      sync.Mutex
	deliver Deliver
	timers  map[string]*time.Timer
	now     func() time.Time
}

// NewLocal creates a Local notifier that hands due notifications to deliver.
func NewLocal(deliver Deliver) *Local {
	return &Local{
		deliver: deliver,
		timers:  make(map[string]*time.Timer),
		now:     time.Now,
	}
}

// Schedule arms a timer for n. A one-off notification that is already due
// is delivered before Schedule returns.
func (l *Local) Schedule(_ context.Context, n Notification) error {
	l.mu.Lock()
	if !n.Repeats && !n.TriggerAt.After(l.now()) {
		deliver := l.deliver
		l.mu.Unlock()
		if deliver != nil {
			deliver(n)
		}
		return nil
	}
	defer l.mu.Unlock()
	l.arm(n)
	return nil
}

// arm must be called with mu held.
func (l *Local) arm(n Notification) {
	if old, ok := l.timers[n.ID]; ok {
		old.Stop()
	}
	l.timers[n.ID] = time.AfterFunc(n.TriggerAt.Sub(l.now()), func() { l.fire(n) })
}

func (l *Local) fire(n Notification) {
	l.mu.Lock()
	if _, ok := l.timers[n.ID]; !ok {
		// cancelled after the timer fired but before we got the lock
		l.mu.Unlock()
		return
	}
	if n.Repeats {
		next := n
		next.TriggerAt = n.TriggerAt.AddDate(0, 0, 1)
		l.arm(next)
	} else {
		delete(l.timers, n.ID)
	}
	deliver := l.deliver
	l.mu.Unlock()

	if deliver != nil {
		deliver(n)
	}
}

// SetDeliver replaces the delivery function for notifications not yet fired.
func (l *Local) SetDeliver(d Deliver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deliver = d
}

// CancelAll stops every pending notification.
func (l *Local) CancelAll(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
	return nil
}

// Pending returns how many notifications are armed.
func (l *Local) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}
