package toast

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/pkg/clock"
)

type harness struct {
	clk         *clock.Manual
	b           *notify.Broadcaster
	s           *Surface
	transitions []Transition
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := zerolog.Nop()
	h := &harness{clk: clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))}
	h.b = notify.New(notify.Options{Scheduler: h.clk, Logger: &log})
	h.s = NewSurface(h.b, Options{
		Scheduler:    h.clk,
		Logger:       &log,
		OnTransition: func(tr Transition) { h.transitions = append(h.transitions, tr) },
	})
	t.Cleanup(h.s.Close)
	return h
}

func (h *harness) phaseOf(id notify.ID) (Phase, bool) {
	for _, t := range h.s.Toasts() {
		if t.Notification.ID == id {
			return t.Phase, true
		}
	}
	return 0, false
}

func activeContains(b *notify.Broadcaster, id notify.ID) bool {
	for _, n := range b.Active() {
		if n.ID == id {
			return true
		}
	}
	return false
}

func TestSurface_Lifecycle_autoDismissTiming(t *testing.T) {
	h := newHarness(t)

	id, ok := h.b.Success("added to cart", 1000*time.Millisecond)
	require.True(t, ok)

	phase, ok := h.phaseOf(id)
	require.True(t, ok)
	assert.Equal(t, PhaseEntering, phase)

	h.clk.Advance(0)
	phase, _ = h.phaseOf(id)
	assert.Equal(t, PhaseVisible, phase)

	h.clk.Advance(999 * time.Millisecond)
	phase, _ = h.phaseOf(id)
	assert.Equal(t, PhaseVisible, phase)

	h.clk.Advance(time.Millisecond)
	phase, _ = h.phaseOf(id)
	assert.Equal(t, PhaseDismissing, phase, "timer fires at 1000ms")
	assert.True(t, activeContains(h.b, id))

	h.clk.Advance(299 * time.Millisecond)
	assert.True(t, activeContains(h.b, id), "still present at 1299ms")

	h.clk.Advance(time.Millisecond)
	assert.False(t, activeContains(h.b, id), "removed at 1300ms")
	assert.False(t, h.s.HasToasts())
}

func TestSurface_Lifecycle_presentUntilExitDelayElapses(t *testing.T) {
	h := newHarness(t)

	id, _ := h.b.Info("order shipped", time.Second)

	h.clk.Advance(1299 * time.Millisecond)
	assert.True(t, activeContains(h.b, id))

	h.clk.Advance(time.Millisecond)
	assert.False(t, activeContains(h.b, id))
}

func TestSurface_Lifecycle_transitionsInOrder(t *testing.T) {
	h := newHarness(t)

	id, _ := h.b.Warning("low stock", 500*time.Millisecond)
	h.clk.Advance(time.Second)

	require.Len(t, h.transitions, 3)
	assert.Equal(t, Transition{ID: id, From: PhaseEntering, To: PhaseVisible, At: h.transitions[0].At}, h.transitions[0])
	assert.Equal(t, PhaseDismissing, h.transitions[1].To)
	assert.Equal(t, PhaseRemoved, h.transitions[2].To)

	start := h.transitions[0].At
	assert.Equal(t, 500*time.Millisecond, h.transitions[1].At.Sub(start))
	assert.Equal(t, 800*time.Millisecond, h.transitions[2].At.Sub(start))
}

func TestSurface_Lifecycle_defaultDuration(t *testing.T) {
	h := newHarness(t)

	id, _ := h.b.Info("welcome back")

	h.clk.Advance(notify.DefaultDuration + DefaultExitDelay - time.Millisecond)
	assert.True(t, activeContains(h.b, id))

	h.clk.Advance(time.Millisecond)
	assert.False(t, activeContains(h.b, id))
}

func TestSurface_Dismiss_cancelsPendingTimer(t *testing.T) {
	h := newHarness(t)

	id, _ := h.b.Error("payment declined", 5*time.Second)
	h.clk.Advance(0)

	h.clk.Advance(time.Second)
	require.True(t, h.s.Dismiss(id))

	phase, _ := h.phaseOf(id)
	assert.Equal(t, PhaseDismissing, phase)

	// Only the exit-delay task is left; the dismissal timer was stopped.
	assert.Equal(t, 1, pendingSurfaceTasks(h))

	h.clk.Advance(DefaultExitDelay)
	assert.False(t, activeContains(h.b, id))

	// Running the clock past the original timer does nothing further.
	before := len(h.transitions)
	h.clk.Advance(10 * time.Second)
	assert.Len(t, h.transitions, before)
}

// pendingSurfaceTasks counts toasts holding a pending lifecycle task. Ledger
// expiries are owned by the broadcaster and not counted.
func pendingSurfaceTasks(h *harness) int {
	pending := 0
	for _, tt := range h.s.entries {
		if tt.timer != nil {
			pending++
		}
	}
	return pending
}

func TestSurface_Dismiss_onlyWhileVisible(t *testing.T) {
	h := newHarness(t)

	id, _ := h.b.Info("hello", time.Second)

	assert.False(t, h.s.Dismiss(id), "entering toasts are not interactive yet")

	h.clk.Advance(0)
	require.True(t, h.s.Dismiss(id))
	assert.False(t, h.s.Dismiss(id), "dismissing toasts accept no further input")

	assert.False(t, h.s.Dismiss(notify.ID(12345)))
}

func TestSurface_DismissNewest(t *testing.T) {
	h := newHarness(t)

	first, _ := h.b.Info("first")
	second, _ := h.b.Info("second")
	h.clk.Advance(0)

	require.True(t, h.s.DismissNewest())

	p1, _ := h.phaseOf(first)
	p2, _ := h.phaseOf(second)
	assert.Equal(t, PhaseVisible, p1)
	assert.Equal(t, PhaseDismissing, p2)

	require.True(t, h.s.DismissNewest())
	p1, _ = h.phaseOf(first)
	assert.Equal(t, PhaseDismissing, p1)

	assert.False(t, h.s.DismissNewest(), "nothing visible left")
}

func TestSurface_DismissAll(t *testing.T) {
	h := newHarness(t)

	h.b.Info("a")
	h.b.Info("b")
	h.clk.Advance(0)
	h.b.Info("c") // still entering

	assert.Equal(t, 2, h.s.DismissAll())

	h.clk.Advance(DefaultExitDelay)
	require.Len(t, h.b.Active(), 1)
	assert.Equal(t, "c", h.b.Active()[0].Message)
}

func TestSurface_IndependentLifecycles(t *testing.T) {
	h := newHarness(t)

	short, _ := h.b.Info("short", 500*time.Millisecond)
	h.clk.Advance(200 * time.Millisecond)
	long, _ := h.b.Info("long", 2*time.Second)

	h.clk.Advance(500 * time.Millisecond) // t=700ms
	pShort, _ := h.phaseOf(short)
	pLong, _ := h.phaseOf(long)
	assert.Equal(t, PhaseDismissing, pShort)
	assert.Equal(t, PhaseVisible, pLong)

	h.clk.Advance(100 * time.Millisecond) // t=800ms
	_, ok := h.phaseOf(short)
	assert.False(t, ok)
	pLong, _ = h.phaseOf(long)
	assert.Equal(t, PhaseVisible, pLong)
}

func TestSurface_RemovedElsewhere_timersAreNoops(t *testing.T) {
	h := newHarness(t)

	id, _ := h.b.Info("gone", time.Second)
	h.clk.Advance(0)

	h.b.Remove(id)
	assert.False(t, h.s.HasToasts())

	assert.NotPanics(t, func() {
		h.clk.Advance(5 * time.Second)
	})
	assert.Len(t, h.transitions, 1, "only the enter transition happened")
}

func TestSurface_RemovedDuringExitDelay(t *testing.T) {
	h := newHarness(t)

	id, _ := h.b.Info("racing", time.Second)
	h.clk.Advance(time.Second)

	phase, _ := h.phaseOf(id)
	require.Equal(t, PhaseDismissing, phase)

	h.b.Remove(id)
	h.clk.Advance(DefaultExitDelay)

	assert.Empty(t, h.b.Active())
	last := h.transitions[len(h.transitions)-1]
	assert.Equal(t, PhaseDismissing, last.To, "exit never completed for a toast removed elsewhere")
}

func TestSurface_PreservesInsertionOrder(t *testing.T) {
	h := newHarness(t)

	h.b.Success("one")
	h.b.Error("two")
	h.b.Info("three")

	toasts := h.s.Toasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, "one", toasts[0].Notification.Message)
	assert.Equal(t, "two", toasts[1].Notification.Message)
	assert.Equal(t, "three", toasts[2].Notification.Message)
}

type fakePublisher struct {
	obs     notify.Observer
	removed []notify.ID
}

func (f *fakePublisher) Subscribe(fn notify.Observer) func() {
	f.obs = fn
	return func() { f.obs = nil }
}

func (f *fakePublisher) Remove(id notify.ID) { f.removed = append(f.removed, id) }

func TestSurface_IgnoresStaleSnapshots(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	log := zerolog.Nop()
	pub := &fakePublisher{}
	s := NewSurface(pub, Options{Scheduler: clk, Logger: &log})
	defer s.Close()

	n1 := notify.Notification{ID: 1, Message: "a"}
	n2 := notify.Notification{ID: 2, Message: "b"}

	pub.obs(notify.Snapshot{Seq: 2, Items: []notify.Notification{n1, n2}})
	pub.obs(notify.Snapshot{Seq: 1, Items: []notify.Notification{n1}})

	assert.Len(t, s.Toasts(), 2)
}

func TestSurface_Close(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	log := zerolog.Nop()
	pub := &fakePublisher{}
	s := NewSurface(pub, Options{Scheduler: clk, Logger: &log})

	pub.obs(notify.Snapshot{Seq: 1, Items: []notify.Notification{{ID: 1, Duration: time.Second}}})
	clk.Advance(0)

	s.Close()
	s.Close()

	assert.Nil(t, pub.obs, "unsubscribed")
	assert.False(t, s.HasToasts())

	clk.Advance(5 * time.Second)
	assert.Empty(t, pub.removed, "timers were canceled")
}

func TestSurface_FakePublisher_removalRequested(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	log := zerolog.Nop()
	pub := &fakePublisher{}
	s := NewSurface(pub, Options{Scheduler: clk, Logger: &log, ExitDelay: 100 * time.Millisecond})
	defer s.Close()

	pub.obs(notify.Snapshot{Seq: 1, Items: []notify.Notification{{ID: 7, Duration: time.Second}}})
	clk.Advance(1100 * time.Millisecond)

	assert.Equal(t, []notify.ID{7}, pub.removed)

	toasts := s.Toasts()
	require.Len(t, toasts, 1, "stays until the publisher fans out the removal")
	assert.Equal(t, PhaseRemoved, toasts[0].Phase)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "entering", PhaseEntering.String())
	assert.Equal(t, "visible", PhaseVisible.String())
	assert.Equal(t, "dismissing", PhaseDismissing.String())
	assert.Equal(t, "removed", PhaseRemoved.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
