package tui

import (
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hay-kot/shoptoast/pkg/clock"
)

// drainCallbacksMsg tells the model to run queued timer callbacks.
type drainCallbacksMsg struct{}

// CallbackQueue is a clock.Scheduler whose callbacks run inside the Bubble
// Tea update loop. Timers fire on the underlying scheduler, but the callback
// is only queued; Drain runs it on the caller's goroutine.
type CallbackQueue struct {
	sched clock.Scheduler

	mu      sync.Mutex
	pending []*queuedTimer
	signal  chan struct{}
}

var _ clock.Scheduler = (*CallbackQueue)(nil)

// NewCallbackQueue constructs a queue on top of sched. A nil sched uses the
// wall clock.
func NewCallbackQueue(sched clock.Scheduler) *CallbackQueue {
	if sched == nil {
		sched = clock.Real{}
	}
	return &CallbackQueue{
		sched:   sched,
		pending: make([]*queuedTimer, 0),
		signal:  make(chan struct{}, 1),
	}
}

type timerState int

const (
	timerScheduled timerState = iota
	timerQueued
	timerDone
)

type queuedTimer struct {
	fn func()

	mu    sync.Mutex
	state timerState
	inner clock.Timer
}

// Stop cancels the callback whether it is still waiting on the clock or
// already queued for the next drain.
func (t *queuedTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case timerScheduled:
		t.state = timerDone
		if t.inner != nil {
			t.inner.Stop()
		}
		return true
	case timerQueued:
		t.state = timerDone
		return true
	default:
		return false
	}
}

func (q *CallbackQueue) Now() time.Time { return q.sched.Now() }

func (q *CallbackQueue) AfterFunc(d time.Duration, fn func()) clock.Timer {
	t := &queuedTimer{fn: fn}
	inner := q.sched.AfterFunc(d, func() { q.push(t) })

	t.mu.Lock()
	t.inner = inner
	t.mu.Unlock()
	return t
}

// push queues a fired timer and emits a non-blocking drain signal.
func (q *CallbackQueue) push(t *queuedTimer) {
	t.mu.Lock()
	if t.state != timerScheduled {
		t.mu.Unlock()
		return
	}
	t.state = timerQueued
	t.mu.Unlock()

	q.mu.Lock()
	q.pending = append(q.pending, t)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Drain runs every queued callback in firing order and returns how many ran.
// Callbacks queued while draining wait for the next drain.
func (q *CallbackQueue) Drain() int {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return 0
	}
	batch := make([]*queuedTimer, len(q.pending))
	copy(batch, q.pending)
	q.pending = q.pending[:0]
	q.mu.Unlock()

	ran := 0
	for _, t := range batch {
		t.mu.Lock()
		if t.state != timerQueued {
			t.mu.Unlock()
			continue
		}
		t.state = timerDone
		t.mu.Unlock()

		t.fn()
		ran++
	}
	return ran
}

// Len returns the number of callbacks waiting for a drain.
func (q *CallbackQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// WaitForSignal blocks until there are callbacks ready to drain.
func (q *CallbackQueue) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-q.signal
		return drainCallbacksMsg{}
	}
}
