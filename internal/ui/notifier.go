// Package ui holds the presentation-side state machines: the toast queue,
// the confirmation bridge, and the global loading overlay. Frontends
// subscribe to snapshots and render however they like.
package ui

import (
	"sync"
	"time"

	"github.com/clinova/vedika-workbench/internal/shared/metrics"
)

// ToastKind classifies a notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
	ToastWarning ToastKind = "warning"
)

const (
	defaultDuration = 4 * time.Second
	// exitLead is how long before removal a toast enters its exiting
	// phase, giving renderers time to animate it out.
	exitLead = 300 * time.Millisecond
)

// Toast is one queued notification.
type Toast struct {
	ID      int
	Kind    ToastKind
	Message string
	// Exiting flips true shortly before the toast is removed.
	Exiting bool
}

// ConfirmRequest describes a decision the user must make before a
// destructive or irreversible action proceeds.
type ConfirmRequest struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Danger       bool
}

// Notifier owns the toast queue and the confirm bridge.
type Notifier struct {
	mu          sync.Mutex
	nextID      int
	toasts      []*Toast
	timers      map[int][]*time.Timer
	nextSubID   int
	subscribers map[int]func([]Toast)
	confirm     func(ConfirmRequest) bool
	closed      bool
}

func NewNotifier() *Notifier {
	return &Notifier{
		timers:      make(map[int][]*time.Timer),
		subscribers: make(map[int]func([]Toast)),
	}
}

// Show enqueues a toast with the default lifetime and returns its id.
func (n *Notifier) Show(kind ToastKind, message string) int {
	return n.show(kind, message, defaultDuration)
}

// ShowWithDuration enqueues a toast that stays for the given duration.
// Non-positive durations fall back to the default.
func (n *Notifier) ShowWithDuration(kind ToastKind, message string, duration time.Duration) int {
	if duration <= 0 {
		duration = defaultDuration
	}
	return n.show(kind, message, duration)
}

func (n *Notifier) Success(message string) int { return n.Show(ToastSuccess, message) }
func (n *Notifier) Error(message string) int   { return n.Show(ToastError, message) }
func (n *Notifier) Info(message string) int    { return n.Show(ToastInfo, message) }
func (n *Notifier) Warning(message string) int { return n.Show(ToastWarning, message) }

func (n *Notifier) show(kind ToastKind, message string, duration time.Duration) int {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return 0
	}
	n.nextID++
	id := n.nextID
	n.toasts = append(n.toasts, &Toast{ID: id, Kind: kind, Message: message})

	exit := time.AfterFunc(duration-exitLead, func() { n.markExiting(id) })
	remove := time.AfterFunc(duration, func() { n.Dismiss(id) })
	n.timers[id] = []*time.Timer{exit, remove}
	n.mu.Unlock()

	metrics.RecordToast(string(kind))
	n.notify()
	return id
}

func (n *Notifier) markExiting(id int) {
	n.mu.Lock()
	changed := false
	for _, t := range n.toasts {
		if t.ID == id && !t.Exiting {
			t.Exiting = true
			changed = true
		}
	}
	n.mu.Unlock()
	if changed {
		n.notify()
	}
}

// Dismiss removes a toast immediately and cancels its timers. Dismissing
// an unknown id is a no-op.
func (n *Notifier) Dismiss(id int) {
	n.mu.Lock()
	idx := -1
	for i, t := range n.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return
	}
	n.toasts = append(n.toasts[:idx], n.toasts[idx+1:]...)
	for _, timer := range n.timers[id] {
		timer.Stop()
	}
	delete(n.timers, id)
	n.mu.Unlock()
	n.notify()
}

// Toasts returns the queue in display order, oldest first.
func (n *Notifier) Toasts() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshot()
}

func (n *Notifier) snapshot() []Toast {
	out := make([]Toast, len(n.toasts))
	for i, t := range n.toasts {
		out[i] = *t
	}
	return out
}

// Subscribe registers a queue observer and returns its unsubscribe func.
func (n *Notifier) Subscribe(fn func([]Toast)) func() {
	n.mu.Lock()
	id := n.nextSubID
	n.nextSubID++
	n.subscribers[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subscribers, id)
		n.mu.Unlock()
	}
}

func (n *Notifier) notify() {
	n.mu.Lock()
	toasts := n.snapshot()
	observers := make([]func([]Toast), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		observers = append(observers, fn)
	}
	n.mu.Unlock()

	for _, fn := range observers {
		fn(toasts)
	}
}

// SetConfirmHandler registers the frontend's confirmation dialog. Without
// a handler every Confirm call is denied, so destructive actions never
// proceed silently.
func (n *Notifier) SetConfirmHandler(fn func(ConfirmRequest) bool) {
	n.mu.Lock()
	n.confirm = fn
	n.mu.Unlock()
}

// Confirm blocks on the registered handler and reports the user's choice.
func (n *Notifier) Confirm(req ConfirmRequest) bool {
	n.mu.Lock()
	fn := n.confirm
	n.mu.Unlock()
	if fn == nil {
		return false
	}
	if req.Title == "" {
		req.Title = "Konfirmasi"
	}
	if req.ConfirmLabel == "" {
		req.ConfirmLabel = "Ya"
	}
	if req.CancelLabel == "" {
		req.CancelLabel = "Batal"
	}
	return fn(req)
}

// Close cancels all pending toast timers. The notifier drops further
// Show calls after Close.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for _, timers := range n.timers {
		for _, timer := range timers {
			timer.Stop()
		}
	}
	n.timers = make(map[int][]*time.Timer)
	n.toasts = nil
}
