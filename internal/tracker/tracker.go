// ABOUTME: Coordinator owning today's totals, threshold state, and observers.
// ABOUTME: All state changes run on one goroutine fed by a work queue.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/notify"
	"github.com/harperreed/nutrition/internal/rollup"
	"github.com/harperreed/nutrition/internal/settings"
	"github.com/harperreed/nutrition/internal/storage"
)

// ErrClosed is returned by operations submitted after Close.
var ErrClosed = errors.New("tracker is closed")

// Options configures a Tracker.
type Options struct {
	Repo     storage.Repository
	Settings *settings.Store
	Notifier *notify.Center // nil disables notifications
	Logger   *log.Logger
	Clock    func() time.Time
	After    func(time.Duration) <-chan time.Time // rollover timer, defaults to time.After
}

// Tracker is the nutrition coordinator. Construct one per process with New
// and share it between the CLI, HTTP, and MCP surfaces.
type Tracker struct {
	repo     storage.Repository
	settings *settings.Store
	center   *notify.Center
	logger   *log.Logger
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time

	ops       chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// Owned by the queue goroutine.
	day        string
	totals     models.DailyTotals
	targets    models.Targets
	thresholds notify.Thresholds
	categories []*models.Category
	resetAt    time.Time // last manual reset; records created before it stop counting today

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// New loads persisted state, creates the default categories on first run,
// and starts the work queue.
func New(ctx context.Context, opts Options) (*Tracker, error) {
	if opts.Repo == nil || opts.Settings == nil {
		return nil, fmt.Errorf("tracker needs a repository and a settings store")
	}
	t := &Tracker{
		repo:     opts.Repo,
		settings: opts.Settings,
		center:   opts.Notifier,
		logger:   opts.Logger,
		now:      opts.Clock,
		after:    opts.After,
		ops:      make(chan func()),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		subs:     make(map[int]chan Event),
	}
	if t.logger == nil {
		t.logger = log.Default()
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.after == nil {
		t.after = time.After
	}

	if err := t.load(); err != nil {
		return nil, err
	}
	go t.loop()

	if err := t.EnsureDefaults(ctx); err != nil {
		_ = t.Close()
		return nil, err
	}
	return t, nil
}

// load runs before the queue starts, so it may touch owned state directly.
func (t *Tracker) load() error {
	now := t.now()
	t.day = rollup.DayKey(now)

	targets, err := t.settings.Targets()
	if err != nil {
		t.logger.Warn("load targets, using defaults", "err", err)
	}
	t.targets = targets

	th, ok, err := t.settings.Thresholds()
	if err != nil {
		t.logger.Warn("load notification thresholds", "err", err)
	}
	if ok && th.Day == t.day {
		t.thresholds = notify.Thresholds{Calories: th.Calories, Water: th.Water}
	}

	resetAt, ok, err := t.settings.ResetAt()
	if err != nil {
		t.logger.Warn("load last reset", "err", err)
	}
	if ok {
		t.resetAt = resetAt
	}

	t.totals = t.todayTotals(now)
	t.categories = t.listCategories()

	if err := t.settings.SetLastActiveDay(t.day); err != nil {
		t.logger.Warn("record last active day", "err", err)
	}
	return nil
}

func (t *Tracker) loop() {
	defer close(t.done)
	for {
		select {
		case op := <-t.ops:
			op()
		case <-t.quit:
			return
		}
	}
}

// do runs fn on the queue goroutine and waits for its result. A day change
// the rollover timer has not caught yet is applied first.
func (t *Tracker) do(ctx context.Context, fn func() error) error {
	return t.submit(ctx, func() error {
		t.catchUp()
		return fn()
	})
}

// catchUp rolls over when the wall clock has moved past the current day.
// Timers stall while the machine sleeps, so the clock is the authority.
func (t *Tracker) catchUp() {
	now := t.now()
	if rollup.DayKey(now) != t.day {
		t.logger.Info("day changed before rollover fired", "from", t.day)
		t.resetLocked(now, true)
	}
}

func (t *Tracker) submit(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	op := func() { errc <- fn() }
	select {
	case t.ops <- op:
	case <-t.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the work queue and ends every subscription. It does not close
// the repository or settings store.
func (t *Tracker) Close() error {
	t.closeOnce.Do(func() {
		close(t.quit)
		<-t.done

		t.subMu.Lock()
		for id, ch := range t.subs {
			close(ch)
			delete(t.subs, id)
		}
		t.subMu.Unlock()
	})
	return nil
}

// todayTotals sums today's records from the log, skipping those created
// before a manual reset earlier the same day. Failures degrade to zero.
func (t *Tracker) todayTotals(now time.Time) models.DailyTotals {
	start, end := rollup.DayRange(now)
	records, err := t.repo.ListConsumptions(start, end)
	if err != nil {
		t.logger.Error("load today's records", "op", "todayTotals", "err", err)
		return models.DailyTotals{}
	}
	if !t.resetAt.IsZero() && rollup.DayKey(t.resetAt.In(now.Location())) == rollup.DayKey(now) {
		kept := records[:0:0]
		for _, r := range records {
			if r.CreatedAt.After(t.resetAt) {
				kept = append(kept, r)
			}
		}
		records = kept
	}
	return rollup.Totals(records)
}

// listCategories reads categories from the store. Failures degrade to the
// cached list.
func (t *Tracker) listCategories() []*models.Category {
	cats, err := t.repo.ListCategories()
	if err != nil {
		t.logger.Error("list categories", "op", "listCategories", "err", err)
		return t.categories
	}
	return cats
}

// persistErr tags a storage failure with ErrPersistence unless it is already
// one of the domain errors.
func persistErr(op string, err error) error {
	for _, known := range []error{
		models.ErrDuplicateCategory,
		models.ErrCategoryNotFound,
		models.ErrCategoryInUse,
		models.ErrCategoryIsDefault,
		models.ErrAmbiguousRef,
	} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
}
