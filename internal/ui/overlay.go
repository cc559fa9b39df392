package ui

import (
	"sync"

	"github.com/clinova/vedika-workbench/internal/shared/loading"
)

// Overlay mirrors the loading bus as a visibility flag for the full-screen
// spinner. It exists so frontends observe one UI-shaped value instead of
// the raw bus.
type Overlay struct {
	mu          sync.Mutex
	visible     bool
	nextSubID   int
	subscribers map[int]func(bool)
	unsubscribe func()
}

func NewOverlay(bus *loading.Bus) *Overlay {
	o := &Overlay{subscribers: make(map[int]func(bool))}
	o.unsubscribe = bus.Subscribe(o.set)
	return o
}

func (o *Overlay) set(active bool) {
	o.mu.Lock()
	o.visible = active
	observers := make([]func(bool), 0, len(o.subscribers))
	for _, fn := range o.subscribers {
		observers = append(observers, fn)
	}
	o.mu.Unlock()

	for _, fn := range observers {
		fn(active)
	}
}

// Visible reports whether the overlay should be shown.
func (o *Overlay) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

// Subscribe registers a visibility observer and returns its unsubscribe
// func.
func (o *Overlay) Subscribe(fn func(bool)) func() {
	o.mu.Lock()
	id := o.nextSubID
	o.nextSubID++
	o.subscribers[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subscribers, id)
		o.mu.Unlock()
	}
}

// Close detaches the overlay from the loading bus.
func (o *Overlay) Close() {
	o.unsubscribe()
}
