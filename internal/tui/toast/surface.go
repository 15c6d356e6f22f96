// Package toast is the presentation surface for notifications. It mirrors the
// broadcaster's active list and runs an independent lifecycle for each toast:
// entering, visible with a dismissal timer, dismissing during the exit delay,
// and finally removed through the broadcaster.
package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/shoptoast/internal/core/logging"
	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/pkg/clock"
)

// DefaultExitDelay is the cosmetic time a dismissed toast stays on screen.
const DefaultExitDelay = 300 * time.Millisecond

// Publisher is the part of the broadcaster the surface depends on.
type Publisher interface {
	Subscribe(fn notify.Observer) (unsubscribe func())
	Remove(id notify.ID)
}

// Toast is a rendered notification and its lifecycle phase.
type Toast struct {
	Notification notify.Notification
	Phase        Phase
}

// Transition describes one lifecycle step, reported to Options.OnTransition.
type Transition struct {
	ID   notify.ID
	From Phase
	To   Phase
	At   time.Time
}

// Options configures a Surface. Zero values select the defaults.
type Options struct {
	Scheduler       clock.Scheduler
	ExitDelay       time.Duration
	DefaultDuration time.Duration
	// OnTransition, when set, is called after every phase change, outside the
	// surface lock.
	OnTransition func(Transition)
	Logger       *zerolog.Logger
}

type entry struct {
	n     notify.Notification
	phase Phase
	// timer is the pending task of the current phase, if any.
	timer clock.Timer
}

// Surface renders the broadcaster's active list. It never mutates that list
// except through Publisher.Remove.
type Surface struct {
	pub             Publisher
	sched           clock.Scheduler
	exitDelay       time.Duration
	defaultDuration time.Duration
	onTransition    func(Transition)
	log             zerolog.Logger

	mu          sync.Mutex
	entries     []*entry
	lastSeq     uint64
	closed      bool
	unsubscribe func()
}

// NewSurface creates a surface and subscribes it to pub.
func NewSurface(pub Publisher, opts Options) *Surface {
	if opts.Scheduler == nil {
		opts.Scheduler = clock.Real{}
	}
	if opts.ExitDelay <= 0 {
		opts.ExitDelay = DefaultExitDelay
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = notify.DefaultDuration
	}

	log := logging.ComponentOr(opts.Logger, "toast")

	s := &Surface{
		pub:             pub,
		sched:           opts.Scheduler,
		exitDelay:       opts.ExitDelay,
		defaultDuration: opts.DefaultDuration,
		onTransition:    opts.OnTransition,
		log:             log,
	}
	s.unsubscribe = pub.Subscribe(s.apply)
	return s
}

// Close unsubscribes the surface and cancels every pending timer.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.unsubscribe()

	for _, e := range s.entries {
		stopTimer(e)
	}
	s.entries = nil
}

// Toasts returns the rendered toasts in insertion order.
func (s *Surface) Toasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Toast, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, Toast{Notification: e.n, Phase: e.phase})
	}
	return out
}

// HasToasts returns true if there are any rendered toasts.
func (s *Surface) HasToasts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) > 0
}

// Dismiss starts the exit of a visible toast. It returns false when the toast
// is unknown or not currently visible.
func (s *Surface) Dismiss(id notify.ID) bool {
	return s.handle(id, eventDismissRequested)
}

// DismissNewest dismisses the most recently added visible toast.
func (s *Surface) DismissNewest() bool {
	s.mu.Lock()
	var target notify.ID
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].phase == PhaseVisible {
			target = s.entries[i].n.ID
			break
		}
	}
	s.mu.Unlock()

	if target == 0 {
		return false
	}
	return s.Dismiss(target)
}

// DismissAll dismisses every visible toast and returns how many it affected.
func (s *Surface) DismissAll() int {
	s.mu.Lock()
	ids := make([]notify.ID, 0, len(s.entries))
	for _, e := range s.entries {
		if e.phase == PhaseVisible {
			ids = append(ids, e.n.ID)
		}
	}
	s.mu.Unlock()

	n := 0
	for _, id := range ids {
		if s.Dismiss(id) {
			n++
		}
	}
	return n
}

// apply reconciles the rendered list with a broadcaster snapshot.
func (s *Surface) apply(snap notify.Snapshot) {
	s.mu.Lock()
	if s.closed || snap.Seq <= s.lastSeq {
		s.mu.Unlock()
		return
	}
	s.lastSeq = snap.Seq

	current := make(map[notify.ID]*entry, len(s.entries))
	for _, e := range s.entries {
		current[e.n.ID] = e
	}

	entries := make([]*entry, 0, len(snap.Items))
	var entered []notify.ID
	for _, n := range snap.Items {
		if e, ok := current[n.ID]; ok {
			entries = append(entries, e)
			delete(current, n.ID)
			continue
		}

		e := &entry{n: n, phase: PhaseEntering}
		id := n.ID
		// The enter transition completes at the next rendering opportunity.
		e.timer = s.sched.AfterFunc(0, func() { s.handle(id, eventEnterElapsed) })
		entries = append(entries, e)
		entered = append(entered, id)
	}

	// Anything left was removed by someone else; its timers must not fire
	// into a toast that no longer exists.
	for _, e := range current {
		stopTimer(e)
	}

	s.entries = entries
	s.mu.Unlock()

	for _, id := range entered {
		s.log.Trace().Uint64("id", uint64(id)).Msg("toast entering")
	}
}

// handle runs one lifecycle event for the toast with the given id. It returns
// false if the event does not apply to the toast's current phase.
func (s *Surface) handle(id notify.ID, ev event) bool {
	s.mu.Lock()
	idx := slices.IndexFunc(s.entries, func(e *entry) bool { return e.n.ID == id })
	if s.closed || idx < 0 {
		s.mu.Unlock()
		return false
	}

	e := s.entries[idx]
	from := e.phase
	to, ok := next(from, ev)
	if !ok {
		s.mu.Unlock()
		s.log.Trace().
			Uint64("id", uint64(id)).
			Stringer("phase", from).
			Stringer("event", ev).
			Msg("ignored toast event")
		return false
	}

	e.phase = to
	stopTimer(e)

	switch to {
	case PhaseVisible:
		d := e.n.Duration
		if d <= 0 {
			d = s.defaultDuration
		}
		e.timer = s.sched.AfterFunc(d, func() { s.handle(id, eventDurationElapsed) })
	case PhaseDismissing:
		e.timer = s.sched.AfterFunc(s.exitDelay, func() { s.handle(id, eventExitElapsed) })
	}
	at := s.sched.Now()
	s.mu.Unlock()

	s.log.Trace().
		Uint64("id", uint64(id)).
		Stringer("from", from).
		Stringer("to", to).
		Msg("toast transition")

	if s.onTransition != nil {
		s.onTransition(Transition{ID: id, From: from, To: to, At: at})
	}

	if to == PhaseRemoved {
		s.pub.Remove(id)
	}
	return true
}

func stopTimer(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
