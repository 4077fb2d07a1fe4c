// Package toast is the ephemeral notification queue shared by all views.
package toast

import (
	"sync"
	"time"
)

// Kind classifies a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindDanger  Kind = "danger"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultDuration applies when a producer does not choose one.
const DefaultDuration = 5 * time.Second

// Toast is a transient, auto-expiring user notification. ID is derived
// from creation time in milliseconds, bumped monotonically so two toasts in
// the same millisecond never collide.
type Toast struct {
	ID        int64
	Title     string
	Message   string
	Kind      Kind
	Timestamp string
	Duration  time.Duration
}

// Bus owns all live toasts. Consumers reference toasts by id only.
type Bus struct {
	mu     sync.Mutex
	toasts []Toast
	timers map[int64]*time.Timer
	lastID int64
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{timers: make(map[int64]*time.Timer)}
}

// Show enqueues a toast and schedules its expiry. It returns the toast id
// for manual dismissal.
func (b *Bus) Show(message string, kind Kind, duration time.Duration) int64 {
	return b.show("", message, kind, duration)
}

// ShowTitled enqueues a toast with a title line.
func (b *Bus) ShowTitled(title, message string, kind Kind, duration time.Duration) int64 {
	return b.show(title, message, kind, duration)
}

// Success enqueues a success toast with the default duration.
func (b *Bus) Success(message string) int64 {
	return b.Show(message, KindSuccess, DefaultDuration)
}

// Danger enqueues an error toast with the default duration.
func (b *Bus) Danger(message string) int64 {
	return b.Show(message, KindDanger, DefaultDuration)
}

// Warning enqueues a warning toast with the default duration.
func (b *Bus) Warning(message string) int64 {
	return b.Show(message, KindWarning, DefaultDuration)
}

// Info enqueues an informational toast with the default duration.
func (b *Bus) Info(message string) int64 {
	return b.Show(message, KindInfo, DefaultDuration)
}

// Dismiss removes a toast by id. Dismissing an absent id, or one whose
// expiry timer already fired, is a no-op.
func (b *Bus) Dismiss(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(id)
}

// Toasts returns live toasts in creation order.
func (b *Bus) Toasts() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Toast, len(b.toasts))
	copy(out, b.toasts)
	return out
}

// Close stops all pending expiry timers. Further Show calls are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, timer := range b.timers {
		timer.Stop()
		delete(b.timers, id)
	}
	b.toasts = nil
}

func (b *Bus) show(title, message string, kind Kind, duration time.Duration) int64 {
	if duration <= 0 {
		duration = DefaultDuration
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}

	now := time.Now()
	id := now.UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id

	b.toasts = append(b.toasts, Toast{
		ID:        id,
		Title:     title,
		Message:   message,
		Kind:      kind,
		Timestamp: now.Format(time.RFC3339),
		Duration:  duration,
	})
	b.timers[id] = time.AfterFunc(duration, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.removeLocked(id)
	})
	return id
}

func (b *Bus) removeLocked(id int64) {
	if timer, ok := b.timers[id]; ok {
		timer.Stop()
		delete(b.timers, id)
	}
	for i, t := range b.toasts {
		if t.ID == id {
			b.toasts = append(b.toasts[:i], b.toasts[i+1:]...)
			return
		}
	}
}
