package notify

import (
	"time"

	"github.com/hay-kot/shoptoast/pkg/clock"
	"github.com/hay-kot/shoptoast/pkg/kv"
)

// Key is the deduplication key of a notification.
type Key struct {
	Message  string
	Category Category
}

// Ledger records recently accepted keys. A key accepted less than the
// suppression window ago is refused. Every accepted entry removes itself after
// the expiry window, independent of the notification it admitted.
type Ledger struct {
	sched       clock.Scheduler
	suppression time.Duration
	expiry      time.Duration
	entries     *kv.Store[Key, time.Time]
}

// NewLedger creates a ledger. expiry should not be shorter than suppression,
// otherwise an entry may vanish while it is still meant to suppress.
func NewLedger(sched clock.Scheduler, suppression, expiry time.Duration) *Ledger {
	return &Ledger{
		sched:       sched,
		suppression: suppression,
		expiry:      expiry,
		entries:     kv.New[Key, time.Time](),
	}
}

// Accept records key as accepted now and returns true, or returns false when a
// live entry for key is still inside the suppression window.
func (l *Ledger) Accept(key Key) bool {
	now := l.sched.Now()

	accepted := l.entries.Compute(key, func(last time.Time, ok bool) (time.Time, bool) {
		if ok && now.Sub(last) < l.suppression {
			return last, false
		}
		return now, true
	})
	if !accepted {
		return false
	}

	// Only the expiry scheduled for this acceptance may delete it; an older
	// expiry firing later must not cut a newer window short.
	l.sched.AfterFunc(l.expiry, func() {
		l.entries.DeleteIf(key, func(last time.Time) bool { return last.Equal(now) })
	})

	return true
}

// Has reports whether key currently has a ledger entry.
func (l *Ledger) Has(key Key) bool {
	_, ok := l.entries.Get(key)
	return ok
}

// Len returns the number of live entries.
func (l *Ledger) Len() int {
	return l.entries.Len()
}
