package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harperreed/nutrition/internal/models"
)

func grant(ctx context.Context) (bool, error) { return true, nil }
func deny(ctx context.Context) (bool, error)  { return false, nil }

func TestCenterDropsUntilGranted(t *testing.T) {
	ctx := context.Background()
	rec := &Recorder{}
	c := NewCenter(rec, NotDetermined, grant, nil)

	require.NoError(t, c.Post(ctx, New(KindThreshold, "a", "", time.Now())))
	require.Empty(t, rec.Scheduled())

	state, err := c.RequestAuthorization(ctx)
	require.NoError(t, err)
	require.Equal(t, Granted, state)

	require.NoError(t, c.Post(ctx, New(KindThreshold, "b", "", time.Now())))
	require.Len(t, rec.Scheduled(), 1)
}

func TestCenterDeniedStaysDenied(t *testing.T) {
	ctx := context.Background()
	rec := &Recorder{}
	calls := 0
	prompt := func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	}
	c := NewCenter(rec, NotDetermined, prompt, nil)

	state, err := c.RequestAuthorization(ctx)
	require.NoError(t, err)
	require.Equal(t, Denied, state)

	state, err = c.RequestAuthorization(ctx)
	require.NoError(t, err)
	require.Equal(t, Denied, state)
	require.Equal(t, 1, calls, "prompt should only be shown once")

	require.NoError(t, c.Replace(ctx, []Notification{New(KindReminder, "r", "", time.Now())}))
	require.Empty(t, rec.Scheduled())
	require.Zero(t, rec.Cancels())
}

func TestCenterPromptError(t *testing.T) {
	c := NewCenter(&Recorder{}, NotDetermined, func(context.Context) (bool, error) {
		return false, errors.New("boom")
	}, nil)
	state, err := c.RequestAuthorization(context.Background())
	require.Error(t, err)
	require.Equal(t, NotDetermined, state)
}

func TestParseAuthorization(t *testing.T) {
	require.Equal(t, Granted, ParseAuthorization("granted"))
	require.Equal(t, Denied, ParseAuthorization("denied"))
	require.Equal(t, NotDetermined, ParseAuthorization(""))
	require.Equal(t, NotDetermined, ParseAuthorization("junk"))
}

func TestCenterReplaceCancelsFirst(t *testing.T) {
	ctx := context.Background()
	rec := &Recorder{}
	c := NewCenter(rec, Granted, deny, nil)

	require.NoError(t, c.Replace(ctx, []Notification{
		New(KindReminder, "one", "", time.Now()),
		New(KindReminder, "two", "", time.Now()),
	}))
	require.NoError(t, c.Replace(ctx, []Notification{New(KindReminder, "three", "", time.Now())}))

	got := rec.Scheduled()
	require.Len(t, got, 1)
	require.Equal(t, "three", got[0].Title)
	require.Equal(t, 2, rec.Cancels())
}

func TestThresholdsAdvanceOneLevelAtATime(t *testing.T) {
	var th Thresholds

	level, ok := th.Advance(models.MetricCalories, 0.1)
	require.False(t, ok)
	require.Zero(t, level)

	// a jump past several levels only reports the lowest new one
	level, ok = th.Advance(models.MetricCalories, 0.8)
	require.True(t, ok)
	require.Equal(t, 0.25, level)

	level, ok = th.Advance(models.MetricCalories, 0.8)
	require.True(t, ok)
	require.Equal(t, 0.5, level)

	level, ok = th.Advance(models.MetricCalories, 0.8)
	require.True(t, ok)
	require.Equal(t, 0.75, level)

	_, ok = th.Advance(models.MetricCalories, 0.8)
	require.False(t, ok)

	require.Zero(t, th.Water, "water is tracked separately")
}

func TestThresholdsNeverRefireSameDay(t *testing.T) {
	var th Thresholds
	_, ok := th.Advance(models.MetricWater, 1.2)
	require.True(t, ok)
	for th.Water < 1.0 {
		_, ok = th.Advance(models.MetricWater, 1.2)
		require.True(t, ok)
	}
	_, ok = th.Advance(models.MetricWater, 3.0)
	require.False(t, ok)

	th.ResetMetric(models.MetricWater)
	level, ok := th.Advance(models.MetricWater, 0.3)
	require.True(t, ok)
	require.Equal(t, 0.25, level)
}

func TestThresholdsReset(t *testing.T) {
	th := Thresholds{Calories: 0.75, Water: 1.0}
	th.Reset()
	require.Zero(t, th.Last(models.MetricCalories))
	require.Zero(t, th.Last(models.MetricWater))
}

func TestThresholdNotificationText(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	targets := models.Targets{Calories: 2000, Water: 2.0}
	totals := models.DailyTotals{Calories: 1000, Water: 2.0}

	n := ThresholdNotification(models.MetricCalories, 0.5, totals, targets, now)
	require.Equal(t, KindThreshold, n.Kind)
	require.Equal(t, "Calorie goal 50% reached", n.Title)
	require.Equal(t, "1000 kcal of 2000 kcal today", n.Body)
	require.NotEmpty(t, n.ID)

	n = ThresholdNotification(models.MetricWater, 1.0, totals, targets, now)
	require.Equal(t, "Water goal reached", n.Title)
	require.Equal(t, "2.00 L of 2.00 L today", n.Body)
}

func TestReminderTimes(t *testing.T) {
	require.Equal(t, []int{9 * 60, 21 * 60}, ReminderTimes(2))
	require.Equal(t, []int{9 * 60, 13 * 60, 17 * 60, 21 * 60}, ReminderTimes(4))

	six := ReminderTimes(6)
	require.Len(t, six, 6)
	require.Equal(t, 9*60, six[0])
	require.Equal(t, 11*60+24, six[1])
	require.Equal(t, 21*60, six[5])

	require.Nil(t, ReminderTimes(0))
}

func TestPlanReminders(t *testing.T) {
	now := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)

	plan, err := PlanReminders(models.FrequencyMedium, "20:00", now)
	require.NoError(t, err)
	require.Len(t, plan, 5)

	for _, n := range plan {
		require.True(t, n.Repeats)
		require.False(t, n.TriggerAt.Before(now))
	}
	// 09:00 and 13:00 already passed today so they start tomorrow
	require.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), plan[0].TriggerAt)
	require.Equal(t, time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC), plan[2].TriggerAt)

	summary := plan[len(plan)-1]
	require.Equal(t, KindSummary, summary.Kind)
	require.Equal(t, time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC), summary.TriggerAt)

	plan, err = PlanReminders(models.FrequencyHigh, "08:30", now)
	require.NoError(t, err)
	require.Len(t, plan, 7)

	_, err = PlanReminders("often", "20:00", now)
	require.Error(t, err)
	_, err = PlanReminders(models.FrequencyLow, "8pm", now)
	require.Error(t, err)
}

func TestLocalFiresDueNotification(t *testing.T) {
	got := make(chan Notification, 1)
	l := NewLocal(func(n Notification) { got <- n })

	n := New(KindThreshold, "now", "", time.Now().Add(-time.Second))
	require.NoError(t, l.Schedule(context.Background(), n))

	select {
	case fired := <-got:
		require.Equal(t, n.ID, fired.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification never fired")
	}
	require.Eventually(t, func() bool { return l.Pending() == 0 }, time.Second, 10*time.Millisecond)
}

func TestLocalCancelAll(t *testing.T) {
	fired := make(chan struct{}, 1)
	l := NewLocal(func(Notification) { fired <- struct{}{} })

	ctx := context.Background()
	require.NoError(t, l.Schedule(ctx, New(KindReminder, "later", "", time.Now().Add(time.Hour))))
	r := New(KindReminder, "later2", "", time.Now().Add(time.Hour))
	r.Repeats = true
	require.NoError(t, l.Schedule(ctx, r))
	require.Equal(t, 2, l.Pending())

	require.NoError(t, l.CancelAll(ctx))
	require.Zero(t, l.Pending())

	select {
	case <-fired:
		t.Fatal("cancelled notification fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalRepeatingRearms(t *testing.T) {
	got := make(chan Notification, 1)
	l := NewLocal(func(n Notification) { got <- n })

	n := New(KindReminder, "daily", "", time.Now().Add(-time.Minute))
	n.Repeats = true
	require.NoError(t, l.Schedule(context.Background(), n))

	<-got
	require.Equal(t, 1, l.Pending())
	require.NoError(t, l.CancelAll(context.Background()))
}

func TestLocalSetDeliver(t *testing.T) {
	l := NewLocal(func(Notification) { t.Error("old deliver called") })
	got := make(chan Notification, 1)
	l.SetDeliver(func(n Notification) { got <- n })

	require.NoError(t, l.Schedule(context.Background(), New(KindSummary, "summary", "", time.Now())))
	select {
	case n := <-got:
		require.Equal(t, KindSummary, n.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("notification never fired")
	}
}

func TestConsoleDeliver(t *testing.T) {
	var buf bytes.Buffer
	deliver := Console(&buf)
	deliver(Notification{Title: "Water goal reached", Body: "2.00 L of 2.00 L today", TriggerAt: time.Now()})

	out := buf.String()
	require.True(t, strings.Contains(out, "Water goal reached"))
	require.True(t, strings.Contains(out, "2.00 L of 2.00 L today"))
}
