// ABOUTME: Notification boundary and authorization state machine.
// ABOUTME: Center gates every scheduling call on the user's permission.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
)

// Kind distinguishes why a notification was produced.
type Kind string

const (
	KindThreshold Kind = "threshold"
	KindReminder  Kind = "reminder"
	KindSummary   Kind = "summary"
)

// Notification is a local notification request.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	TriggerAt time.Time `json:"trigger_at"`
	Repeats   bool      `json:"repeats"` // daily at the same clock time
}

// New builds a notification with a time-sortable ID.
func New(kind Kind, title, body string, at time.Time) Notification {
	return Notification{
		ID:        ulid.Make().String(),
		Kind:      kind,
		Title:     title,
		Body:      body,
		TriggerAt: at,
	}
}

// Notifier delivers local notifications at or after their trigger time.
type Notifier interface {
	Schedule(ctx context.Context, n Notification) error
	CancelAll(ctx context.Context) error
}

// Authorization is the notification permission state.
type Authorization string

const (
	NotDetermined Authorization = "not_determined"
	Granted       Authorization = "granted"
	Denied        Authorization = "denied"
)

// ParseAuthorization maps a stored value back to a state.
func ParseAuthorization(s string) Authorization {
	switch Authorization(s) {
	case Granted, Denied:
		return Authorization(s)
	default:
		return NotDetermined
	}
}

// Prompt asks the user whether notifications are allowed.
type Prompt func(ctx context.Context) (bool, error)

// Center wraps a Notifier with the authorization state machine:
// NotDetermined -> RequestAuthorization -> Granted | Denied.
type Center struct {
	mu     sync.Mutex
	sink   Notifier
	state  Authorization
	prompt Prompt
	logger *log.Logger
}

// NewCenter creates a Center starting in state.
func NewCenter(sink Notifier, state Authorization, prompt Prompt, logger *log.Logger) *Center {
	if logger == nil {
		logger = log.Default()
	}
	return &Center{sink: sink, state: state, prompt: prompt, logger: logger}
}

// Authorization returns the current permission state.
func (c *Center) Authorization() Authorization {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RequestAuthorization prompts the user once. Later calls return the
// already-determined state without prompting again.
func (c *Center) RequestAuthorization(ctx context.Context) (Authorization, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != NotDetermined {
		return c.state, nil
	}
	if c.prompt == nil {
		return c.state, fmt.Errorf("no authorization prompt configured")
	}
	ok, err := c.prompt(ctx)
	if err != nil {
		return c.state, fmt.Errorf("request authorization: %w", err)
	}
	if ok {
		c.state = Granted
	} else {
		c.state = Denied
	}
	c.logger.Info("notification authorization", "state", c.state)
	return c.state, nil
}

// Post schedules n. It is a no-op unless authorization was granted.
func (c *Center) Post(ctx context.Context, n Notification) error {
	if c.Authorization() != Granted {
		c.logger.Debug("notification dropped", "reason", "not authorized", "title", n.Title)
		return nil
	}
	return c.sink.Schedule(ctx, n)
}

// Replace cancels everything pending and schedules ns in its place.
// It is a no-op unless authorization was granted.
func (c *Center) Replace(ctx context.Context, ns []Notification) error {
	if c.Authorization() != Granted {
		return nil
	}
	if err := c.sink.CancelAll(ctx); err != nil {
		return fmt.Errorf("cancel pending notifications: %w", err)
	}
	for _, n := range ns {
		if err := c.sink.Schedule(ctx, n); err != nil {
			return fmt.Errorf("schedule %s: %w", n.Title, err)
		}
	}
	return nil
}

// CancelAll removes everything pending, whatever the authorization state.
func (c *Center) CancelAll(ctx context.Context) error {
	return c.sink.CancelAll(ctx)
}
