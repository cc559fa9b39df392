package detail

import (
	"context"
	"sync"

	"github.com/clinova/vedika-workbench/internal/shared/apierr"
	"github.com/clinova/vedika-workbench/internal/vedika"
)

// StateKind tags the detail view state union.
type StateKind int

const (
	StateIdle StateKind = iota
	StateLoading
	StateReady
	StateError
)

// State is the detail page's current phase.
type State struct {
	Kind     StateKind
	NoRawat  string
	Detail   *vedika.ClaimFullDetail
	Sections []Section
	Message  string
}

// View fetches the full aggregate once per episode visit. Navigating to
// another episode discards the previous aggregate; nothing is cached
// across episodes.
type View struct {
	client *vedika.Client

	mu          sync.Mutex
	state       State
	generation  uint64
	nextSubID   int
	subscribers map[int]func(State)
}

func NewView(client *vedika.Client) *View {
	return &View{
		client:      client,
		state:       State{Kind: StateIdle},
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current view state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Subscribe registers a state observer and returns its unsubscribe func.
func (v *View) Subscribe(fn func(State)) func() {
	v.mu.Lock()
	id := v.nextSubID
	v.nextSubID++
	v.subscribers[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.subscribers, id)
		v.mu.Unlock()
	}
}

func (v *View) setState(gen uint64, state State) {
	v.mu.Lock()
	if gen != v.generation {
		v.mu.Unlock()
		return
	}
	v.state = state
	observers := make([]func(State), 0, len(v.subscribers))
	for _, fn := range v.subscribers {
		observers = append(observers, fn)
	}
	v.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

// Open loads the aggregate for one episode. The fetch is all-or-nothing;
// a failure leaves a retryable error state carrying the episode key.
func (v *View) Open(ctx context.Context, noRawat string) error {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.mu.Unlock()
	v.setState(gen, State{Kind: StateLoading, NoRawat: noRawat})

	agg, err := v.client.ClaimFullDetail(ctx, noRawat)
	if err != nil {
		v.setState(gen, State{Kind: StateError, NoRawat: noRawat, Message: apierr.Message(err)})
		return err
	}

	v.setState(gen, State{
		Kind:     StateReady,
		NoRawat:  noRawat,
		Detail:   agg,
		Sections: Sections(agg),
	})
	return nil
}

// Close discards the loaded aggregate.
func (v *View) Close() {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.mu.Unlock()
	v.setState(gen, State{Kind: StateIdle})
}
