// Package loading provides the process-wide in-flight request counter.
//
// The HTTP client is used from plain service code as well as from UI state
// machines, so "a request is running" is tracked here instead of in any one
// component. Subscribers see exactly one true per overlapping burst of
// requests and one false once the last request of the burst finishes.
package loading

import "sync"

// Listener receives loading edge notifications.
type Listener func(isLoading bool)

// Bus is a reference-counted loading flag with an observer list.
// Construct one per application (or per test) with NewBus.
type Bus struct {
	mu        sync.Mutex
	count     int
	nextID    int
	listeners map[int]Listener
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns an unsubscribe function.
// Unsubscribing twice, or during teardown, is safe.
func (b *Bus) Subscribe(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = l

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// StartRequest increments the in-flight count, emitting true on the 0->1 edge.
func (b *Bus) StartRequest() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	if b.count == 1 {
		b.notify(true)
	}
}

// EndRequest decrements the in-flight count (floored at zero), emitting
// false on the 1->0 edge. Calling it on an idle bus is a no-op.
func (b *Bus) EndRequest() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return
	}
	b.count--
	if b.count == 0 {
		b.notify(false)
	}
}

// Acquire pairs StartRequest with a release function suitable for defer,
// so the decrement happens on success and failure paths alike. The release
// is idempotent.
func (b *Bus) Acquire() (release func()) {
	b.StartRequest()
	var once sync.Once
	return func() {
		once.Do(b.EndRequest)
	}
}

// IsLoading reports whether any request is in flight.
func (b *Bus) IsLoading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count > 0
}

// InFlight returns the current request count.
func (b *Bus) InFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// notify is called with the lock held; edges are delivered in subscription
// order and synchronously, so a listener never observes a torn count.
func (b *Bus) notify(isLoading bool) {
	for i := 0; i < b.nextID; i++ {
		if l, ok := b.listeners[i]; ok {
			l(isLoading)
		}
	}
}
