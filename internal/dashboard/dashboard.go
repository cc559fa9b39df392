// Package dashboard loads the claim summary and trend for the active
// period and exposes the result as a tagged state the frontend switches
// on directly.
package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/clinova/vedika-workbench/internal/shared/apierr"
	"github.com/clinova/vedika-workbench/internal/shared/logger"
	"github.com/clinova/vedika-workbench/internal/vedika"
)

// StateKind tags the dashboard state union.
type StateKind int

const (
	StateIdle StateKind = iota
	StateLoading
	StateReady
	// StateNoData means the period is configured but has no claims yet.
	StateNoData
	// StateSettingsMissing means no active period is configured; the view
	// shows setup guidance instead of a retry button.
	StateSettingsMissing
	// StatePermissionDenied means the user lacks dashboard access.
	StatePermissionDenied
	StateError
)

func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateNoData:
		return "no_data"
	case StateSettingsMissing:
		return "settings_missing"
	case StatePermissionDenied:
		return "permission_denied"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// State is the dashboard's current phase. Summary and Trend are only
// meaningful for StateReady and StateNoData; Message only for StateError.
type State struct {
	Kind    StateKind
	Summary *vedika.DashboardSummary
	Trend   []vedika.TrendItem
	Message string
}

// Dashboard fetches summary and trend in parallel and folds failures
// into the state union.
type Dashboard struct {
	client *vedika.Client
	log    *logger.Logger

	mu          sync.Mutex
	state       State
	generation  uint64
	nextSubID   int
	subscribers map[int]func(State)
}

func New(client *vedika.Client, log *logger.Logger) *Dashboard {
	return &Dashboard{
		client:      client,
		log:         log,
		state:       State{Kind: StateIdle},
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current dashboard state.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Subscribe registers a state observer and returns its unsubscribe func.
func (d *Dashboard) Subscribe(fn func(State)) func() {
	d.mu.Lock()
	id := d.nextSubID
	d.nextSubID++
	d.subscribers[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subscribers, id)
		d.mu.Unlock()
	}
}

func (d *Dashboard) setState(gen uint64, state State) bool {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return false
	}
	d.state = state
	observers := make([]func(State), 0, len(d.subscribers))
	for _, fn := range d.subscribers {
		observers = append(observers, fn)
	}
	d.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
	return true
}

// Refresh fetches summary and trend concurrently. Both must succeed for
// a ready state; configuration and permission failures map to their own
// states so the view can show tailored guidance.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.mu.Unlock()
	d.setState(gen, State{Kind: StateLoading})

	var (
		summary *vedika.DashboardSummary
		trend   []vedika.TrendItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = d.client.Dashboard(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		trend, err = d.client.DashboardTrend(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		d.setState(gen, classify(err))
		return err
	}

	kind := StateReady
	if isEmpty(summary) {
		kind = StateNoData
	}
	d.setState(gen, State{Kind: kind, Summary: summary, Trend: trend})
	return nil
}

func classify(err error) State {
	switch {
	case apierr.IsSettingsMissing(err):
		return State{Kind: StateSettingsMissing, Message: apierr.Message(err)}
	case apierr.IsPermissionDenied(err):
		return State{Kind: StatePermissionDenied, Message: apierr.Message(err)}
	default:
		return State{Kind: StateError, Message: apierr.Message(err)}
	}
}

func isEmpty(s *vedika.DashboardSummary) bool {
	if s == nil {
		return true
	}
	return s.Rencana.Ralan == 0 && s.Rencana.Ranap == 0 &&
		s.Pengajuan.Ralan == 0 && s.Pengajuan.Ranap == 0
}
