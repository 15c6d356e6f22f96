// Package notify implements the in-process notification core: a broadcaster
// that owns the active notification list, suppresses duplicates through a
// time-windowed ledger, and fans every change out to its observers.
package notify

import "time"

// Category classifies a notification. It keys deduplication and selects the
// presentation style; it carries no other behavior.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
	CategoryInfo    Category = "info"
	CategoryWarning Category = "warning"
)

// Categories lists every known category in display order.
var Categories = []Category{CategorySuccess, CategoryError, CategoryInfo, CategoryWarning}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategorySuccess, CategoryError, CategoryInfo, CategoryWarning:
		return true
	default:
		return false
	}
}

// ParseCategory maps s to a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.IsValid()
}

// ID identifies a notification. IDs are never reused within a process.
type ID uint64

// Notification is a single short-lived, user-facing message.
type Notification struct {
	ID       ID
	Message  string
	Category Category
	// Duration is how long the notification stays visible before it is
	// dismissed automatically. Zero selects the default.
	Duration  time.Duration
	CreatedAt time.Time
}

// Snapshot is the full active list at one point in time. Seq increases with
// every fan-out, so observers can discard a snapshot older than one they have
// already applied.
type Snapshot struct {
	Seq   uint64
	Items []Notification
}

// Contains reports whether a notification with the given id is active.
func (s Snapshot) Contains(id ID) bool {
	for _, n := range s.Items {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Observer receives a snapshot on every change to the active list.
type Observer func(Snapshot)
