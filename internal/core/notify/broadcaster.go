package notify

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/shoptoast/internal/core/logging"
	"github.com/hay-kot/shoptoast/pkg/clock"
)

// Reference timings.
const (
	DefaultSuppressionWindow = 2 * time.Second
	DefaultLedgerExpiry      = 5 * time.Second
	DefaultDuration          = 3 * time.Second
)

// Recorder observes broadcaster outcomes, typically for metrics.
type Recorder interface {
	Shown(c Category)
	Suppressed(c Category)
	Removed(c Category)
	Active(n int)
}

type nopRecorder struct{}

func (nopRecorder) Shown(Category)      {}
func (nopRecorder) Suppressed(Category) {}
func (nopRecorder) Removed(Category)    {}
func (nopRecorder) Active(int)          {}

// Options configures a Broadcaster. Zero values select the defaults.
type Options struct {
	Scheduler         clock.Scheduler
	SuppressionWindow time.Duration
	LedgerExpiry      time.Duration
	DefaultDuration   time.Duration
	Recorder          Recorder
	Logger            *zerolog.Logger
}

type subscription struct {
	id uint64
	fn Observer
}

// Broadcaster is the single authoritative owner of active notifications. It
// is constructed once at startup and handed to every publisher and observer.
// It is safe for concurrent use; observers are called synchronously, in
// registration order, outside the internal lock.
type Broadcaster struct {
	sched           clock.Scheduler
	ledger          *Ledger
	defaultDuration time.Duration
	rec             Recorder
	log             zerolog.Logger

	mu      sync.Mutex
	active  []Notification
	subs    []subscription
	lastID  ID
	lastSub uint64
	seq     uint64
}

// New creates a Broadcaster.
func New(opts Options) *Broadcaster {
	if opts.Scheduler == nil {
		opts.Scheduler = clock.Real{}
	}
	if opts.SuppressionWindow <= 0 {
		opts.SuppressionWindow = DefaultSuppressionWindow
	}
	if opts.LedgerExpiry <= 0 {
		opts.LedgerExpiry = DefaultLedgerExpiry
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = DefaultDuration
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	log := logging.ComponentOr(opts.Logger, "notify")

	return &Broadcaster{
		sched:           opts.Scheduler,
		ledger:          NewLedger(opts.Scheduler, opts.SuppressionWindow, opts.LedgerExpiry),
		defaultDuration: opts.DefaultDuration,
		rec:             opts.Recorder,
		log:             log,
	}
}

// Subscribe registers fn to receive a snapshot on every change. The returned
// function removes the registration and may be called more than once.
func (b *Broadcaster) Subscribe(fn Observer) (unsubscribe func()) {
	b.mu.Lock()
	b.lastSub++
	id := b.lastSub
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
		})
	}
}

// Show publishes a notification. It returns false, and does nothing else,
// when an identical message and category was accepted within the suppression
// window. An optional duration overrides the default display duration.
func (b *Broadcaster) Show(message string, category Category, duration ...time.Duration) (ID, bool) {
	key := Key{Message: message, Category: category}
	if !b.ledger.Accept(key) {
		b.rec.Suppressed(category)
		b.log.Debug().
			Str("category", string(category)).
			Str("text", message).
			Msg("duplicate notification suppressed")
		return 0, false
	}

	n := Notification{
		Message:   message,
		Category:  category,
		Duration:  b.defaultDuration,
		CreatedAt: b.sched.Now(),
	}
	if len(duration) > 0 && duration[0] > 0 {
		n.Duration = duration[0]
	}

	b.mu.Lock()
	b.lastID++
	n.ID = b.lastID
	b.active = append(b.active, n)
	snap, subs := b.snapshotLocked()
	b.mu.Unlock()

	b.rec.Shown(category)
	b.rec.Active(len(snap.Items))
	b.log.Debug().
		Uint64("id", uint64(n.ID)).
		Str("category", string(category)).
		Dur("duration", n.Duration).
		Msg("notification shown")

	b.fanOut(snap, subs)
	return n.ID, true
}

// Remove drops the notification with the given id and fans out the result.
// Unknown ids leave the list unchanged.
func (b *Broadcaster) Remove(id ID) {
	b.mu.Lock()
	idx := slices.IndexFunc(b.active, func(n Notification) bool { return n.ID == id })
	var removed *Notification
	if idx >= 0 {
		n := b.active[idx]
		removed = &n
		b.active = slices.Delete(b.active, idx, idx+1)
	}
	snap, subs := b.snapshotLocked()
	b.mu.Unlock()

	if removed != nil {
		b.rec.Removed(removed.Category)
		b.rec.Active(len(snap.Items))
		b.log.Debug().Uint64("id", uint64(id)).Msg("notification removed")
	}

	b.fanOut(snap, subs)
}

// Active returns a copy of the active list in insertion order.
func (b *Broadcaster) Active() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.active)
}

// Success publishes a success notification.
func (b *Broadcaster) Success(message string, duration ...time.Duration) (ID, bool) {
	return b.Show(message, CategorySuccess, duration...)
}

// Error publishes an error notification.
func (b *Broadcaster) Error(message string, duration ...time.Duration) (ID, bool) {
	return b.Show(message, CategoryError, duration...)
}

// Info publishes an info notification.
func (b *Broadcaster) Info(message string, duration ...time.Duration) (ID, bool) {
	return b.Show(message, CategoryInfo, duration...)
}

// Warning publishes a warning notification.
func (b *Broadcaster) Warning(message string, duration ...time.Duration) (ID, bool) {
	return b.Show(message, CategoryWarning, duration...)
}

// Successf publishes a formatted success notification.
func (b *Broadcaster) Successf(format string, args ...any) (ID, bool) {
	return b.Success(fmt.Sprintf(format, args...))
}

// Errorf publishes a formatted error notification.
func (b *Broadcaster) Errorf(format string, args ...any) (ID, bool) {
	return b.Error(fmt.Sprintf(format, args...))
}

// Infof publishes a formatted info notification.
func (b *Broadcaster) Infof(format string, args ...any) (ID, bool) {
	return b.Info(fmt.Sprintf(format, args...))
}

// Warnf publishes a formatted warning notification.
func (b *Broadcaster) Warnf(format string, args ...any) (ID, bool) {
	return b.Warning(fmt.Sprintf(format, args...))
}

// snapshotLocked copies the active list and the registry. Caller must hold mu.
func (b *Broadcaster) snapshotLocked() (Snapshot, []Observer) {
	b.seq++
	snap := Snapshot{Seq: b.seq, Items: slices.Clone(b.active)}

	subs := make([]Observer, len(b.subs))
	for i, s := range b.subs {
		subs[i] = s.fn
	}
	return snap, subs
}

func (b *Broadcaster) fanOut(snap Snapshot, subs []Observer) {
	for _, fn := range subs {
		// Each observer gets its own copy so one cannot mutate another's view.
		fn(Snapshot{Seq: snap.Seq, Items: slices.Clone(snap.Items)})
	}
}
