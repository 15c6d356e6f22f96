package replay

import (
	"sync"
	"time"

	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/pkg/clock"
)

// Shower is the part of the broadcaster a replay drives.
type Shower interface {
	Show(message string, category notify.Category, duration ...time.Duration) (notify.ID, bool)
}

// Result describes the outcome of one replayed step.
type Result struct {
	Script string
	Step   Step
	ID     notify.ID
	Shown  bool
	At     time.Time
}

// Schedule issues every step of script at its offset on sched. onStep, when
// non-nil, receives each step's outcome. The returned function cancels the
// steps that have not run yet.
func Schedule(sched clock.Scheduler, b Shower, script Script, onStep func(Result)) (cancel func()) {
	timers := make([]clock.Timer, 0, len(script.Steps))
	for _, st := range script.Steps {
		timers = append(timers, sched.AfterFunc(st.After.Std(), func() {
			var durations []time.Duration
			if st.Duration > 0 {
				durations = append(durations, st.Duration.Std())
			}

			id, ok := b.Show(st.Message, st.Category, durations...)
			if onStep != nil {
				onStep(Result{Script: script.Name, Step: st, ID: id, Shown: ok, At: sched.Now()})
			}
		}))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, t := range timers {
				t.Stop()
			}
		})
	}
}
