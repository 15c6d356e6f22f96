// Package simulate runs replay scripts against a broadcaster and surface on
// a manual clock and records the resulting timeline.
package simulate

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/internal/replay"
	"github.com/hay-kot/shoptoast/internal/tui/toast"
	"github.com/hay-kot/shoptoast/pkg/clock"
)

// Kind names a timeline event.
type Kind string

const (
	KindShown      Kind = "shown"
	KindSuppressed Kind = "suppressed"
	KindPhase      Kind = "phase"
)

// Event is one entry of the simulated timeline.
type Event struct {
	Offset   time.Duration   `json:"offset_ns"`
	Kind     Kind            `json:"kind"`
	Script   string          `json:"script,omitempty"`
	ID       notify.ID       `json:"id,omitempty"`
	Category notify.Category `json:"category,omitempty"`
	Message  string          `json:"message,omitempty"`
	From     string          `json:"from,omitempty"`
	To       string          `json:"to,omitempty"`
}

// Options holds the timing values of the simulated system.
type Options struct {
	SuppressionWindow time.Duration
	LedgerExpiry      time.Duration
	DefaultDuration   time.Duration
	ExitDelay         time.Duration
	// Recorder receives broadcaster outcomes, typically metrics.
	Recorder notify.Recorder
	// OnTransition receives every toast transition in addition to the
	// timeline.
	OnTransition func(toast.Transition)
	Logger       *zerolog.Logger
}

// epoch is the simulated start time. Offsets are reported relative to it.
var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Run replays scripts concurrently from the same start and advances the clock
// task by task until nothing is pending. Events are returned in the order
// they happened.
func Run(scripts []replay.Script, opts Options) []Event {
	clk := clock.NewManual(epoch)

	var events []Event
	messages := make(map[notify.ID]notify.Notification)

	b := notify.New(notify.Options{
		Scheduler:         clk,
		SuppressionWindow: opts.SuppressionWindow,
		LedgerExpiry:      opts.LedgerExpiry,
		DefaultDuration:   opts.DefaultDuration,
		Recorder:          opts.Recorder,
		Logger:            opts.Logger,
	})

	s := toast.NewSurface(b, toast.Options{
		Scheduler:       clk,
		ExitDelay:       opts.ExitDelay,
		DefaultDuration: opts.DefaultDuration,
		Logger:          opts.Logger,
		OnTransition: func(tr toast.Transition) {
			n := messages[tr.ID]
			events = append(events, Event{
				Offset:   tr.At.Sub(epoch),
				Kind:     KindPhase,
				ID:       tr.ID,
				Category: n.Category,
				Message:  n.Message,
				From:     tr.From.String(),
				To:       tr.To.String(),
			})
			if opts.OnTransition != nil {
				opts.OnTransition(tr)
			}
		},
	})
	defer s.Close()

	record := func(r replay.Result) {
		ev := Event{
			Offset:   r.At.Sub(epoch),
			Kind:     KindSuppressed,
			Script:   r.Script,
			Category: r.Step.Category,
			Message:  r.Step.Message,
		}
		if r.Shown {
			ev.Kind = KindShown
			ev.ID = r.ID
			for _, n := range b.Active() {
				if n.ID == r.ID {
					messages[n.ID] = n
				}
			}
		}
		events = append(events, ev)
	}

	for _, script := range scripts {
		replay.Schedule(clk, b, script, record)
	}

	for {
		next, ok := clk.Next()
		if !ok {
			break
		}
		clk.Advance(next.Sub(clk.Now()))
	}

	return events
}
