// Package workbench drives the claim verification listing: filter state,
// server-paginated fetch, per-row expansion, multi-select, and the
// single and batch status mutations.
package workbench

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/clinova/vedika-workbench/internal/shared/apierr"
	"github.com/clinova/vedika-workbench/internal/shared/logger"
	"github.com/clinova/vedika-workbench/internal/shared/metrics"
	"github.com/clinova/vedika-workbench/internal/ui"
	"github.com/clinova/vedika-workbench/internal/vedika"
)

// StateKind tags the listing state union.
type StateKind int

const (
	StateIdle StateKind = iota
	StateLoading
	StateSuccess
	StateError
)

func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// State is the listing's current phase. Items and Pagination are only
// meaningful for StateSuccess; Message only for StateError.
type State struct {
	Kind       StateKind
	Items      []vedika.IndexEpisode
	Pagination vedika.Pagination
	Message    string
}

const defaultPageSize = 10

// Workbench owns filter, selection, and expansion state exclusively.
// Methods are safe for concurrent use; observers fire outside the lock.
type Workbench struct {
	client   *vedika.Client
	notifier *ui.Notifier
	log      *logger.Logger

	mu     sync.Mutex
	filter vedika.IndexFilter
	state  State
	// generation tags each fetch with the filter snapshot it was issued
	// for; a response whose tag no longer matches is stale and dropped.
	generation uint64

	expanded   map[string]bool
	details    map[string]*vedika.ClaimDetail
	detailErrs map[string]string
	selection  map[string]bool

	nextSubID   int
	subscribers map[int]func(State)
}

func New(client *vedika.Client, notifier *ui.Notifier, filter vedika.IndexFilter, log *logger.Logger) *Workbench {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	return &Workbench{
		client:      client,
		notifier:    notifier,
		log:         log,
		filter:      filter,
		state:       State{Kind: StateIdle},
		expanded:    make(map[string]bool),
		details:     make(map[string]*vedika.ClaimDetail),
		detailErrs:  make(map[string]string),
		selection:   make(map[string]bool),
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current listing state.
func (w *Workbench) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Filter returns the active filter snapshot.
func (w *Workbench) Filter() vedika.IndexFilter {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filter
}

// Subscribe registers a listing observer and returns its unsubscribe func.
func (w *Workbench) Subscribe(fn func(State)) func() {
	w.mu.Lock()
	id := w.nextSubID
	w.nextSubID++
	w.subscribers[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subscribers, id)
		w.mu.Unlock()
	}
}

func (w *Workbench) notify() {
	w.mu.Lock()
	state := w.state
	observers := make([]func(State), 0, len(w.subscribers))
	for _, fn := range w.subscribers {
		observers = append(observers, fn)
	}
	w.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

// SetDateRange updates the filter dates and refetches from page 1.
func (w *Workbench) SetDateRange(ctx context.Context, from, to string) error {
	return w.applyFilter(ctx, func(f *vedika.IndexFilter) {
		f.DateFrom = from
		f.DateTo = to
	})
}

// SetStatus updates the status filter and refetches from page 1.
func (w *Workbench) SetStatus(ctx context.Context, status vedika.ClaimStatus) error {
	return w.applyFilter(ctx, func(f *vedika.IndexFilter) { f.Status = status })
}

// SetJenis updates the service-type filter and refetches from page 1.
func (w *Workbench) SetJenis(ctx context.Context, jenis vedika.JenisPelayanan) error {
	return w.applyFilter(ctx, func(f *vedika.IndexFilter) { f.Jenis = jenis })
}

// SetSearch updates the free-text search and refetches from page 1.
func (w *Workbench) SetSearch(ctx context.Context, search string) error {
	return w.applyFilter(ctx, func(f *vedika.IndexFilter) { f.Search = search })
}

// SetLimit updates the page size and refetches from page 1.
func (w *Workbench) SetLimit(ctx context.Context, limit int) error {
	return w.applyFilter(ctx, func(f *vedika.IndexFilter) { f.Limit = limit })
}

// SetPage moves to another page without resetting pagination; it is the
// one filter change that keeps its own value.
func (w *Workbench) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	w.mu.Lock()
	w.filter.Page = page
	w.mu.Unlock()
	return w.Fetch(ctx)
}

// applyFilter mutates the filter, resets to page 1, and refetches.
func (w *Workbench) applyFilter(ctx context.Context, mutate func(*vedika.IndexFilter)) error {
	w.mu.Lock()
	mutate(&w.filter)
	w.filter.Page = 1
	w.mu.Unlock()
	return w.Fetch(ctx)
}

// Fetch loads the page for the current filter. A full page replacement:
// no incremental merge. A response that arrives after the filter has
// changed again is discarded so stale data never overwrites newer state.
func (w *Workbench) Fetch(ctx context.Context) error {
	w.mu.Lock()
	w.generation++
	gen := w.generation
	filter := w.filter
	w.state = State{Kind: StateLoading}
	w.mu.Unlock()
	w.notify()

	page, err := w.client.Index(ctx, filter)

	w.mu.Lock()
	if gen != w.generation {
		w.mu.Unlock()
		return nil
	}
	if err != nil {
		// The filter is preserved so the user can retry without
		// re-entering anything.
		w.state = State{Kind: StateError, Message: apierr.Message(err)}
		w.mu.Unlock()
		w.notify()
		return err
	}

	w.state = State{
		Kind:       StateSuccess,
		Items:      page.Items,
		Pagination: page.Pagination,
	}
	w.pruneToDisplayed(page.Items)
	w.mu.Unlock()
	w.notify()
	return nil
}

// pruneToDisplayed drops selection and expansion entries that no longer
// correspond to a displayed row. Caller holds the lock.
func (w *Workbench) pruneToDisplayed(items []vedika.IndexEpisode) {
	displayed := make(map[string]bool, len(items))
	for _, item := range items {
		displayed[item.NoRawat] = true
	}
	for key := range w.selection {
		if !displayed[key] {
			delete(w.selection, key)
		}
	}
	for key := range w.expanded {
		if !displayed[key] {
			delete(w.expanded, key)
			delete(w.details, key)
			delete(w.detailErrs, key)
		}
	}
}

// ToggleExpand expands or collapses one row. Expanding fetches the row's
// diagnosis/procedure detail once; the main listing is untouched.
func (w *Workbench) ToggleExpand(ctx context.Context, noRawat string) error {
	w.mu.Lock()
	if w.expanded[noRawat] {
		delete(w.expanded, noRawat)
		w.mu.Unlock()
		w.notify()
		return nil
	}
	w.expanded[noRawat] = true
	_, cached := w.details[noRawat]
	w.mu.Unlock()
	w.notify()

	if cached {
		return nil
	}

	detail, err := w.client.ClaimDetail(ctx, noRawat)
	w.mu.Lock()
	if !w.expanded[noRawat] {
		// Collapsed again before the detail arrived.
		w.mu.Unlock()
		return nil
	}
	if err != nil {
		w.detailErrs[noRawat] = apierr.Message(err)
	} else {
		w.details[noRawat] = detail
		delete(w.detailErrs, noRawat)
	}
	w.mu.Unlock()
	w.notify()
	return err
}

// IsExpanded reports whether a row is expanded.
func (w *Workbench) IsExpanded(noRawat string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expanded[noRawat]
}

// Detail returns the cached row detail and any fetch error message.
func (w *Workbench) Detail(noRawat string) (*vedika.ClaimDetail, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.details[noRawat], w.detailErrs[noRawat]
}

// ToggleSelect flips one row's selection. Only displayed rows may be
// selected.
func (w *Workbench) ToggleSelect(noRawat string) {
	w.mu.Lock()
	if w.selection[noRawat] {
		delete(w.selection, noRawat)
	} else if w.isDisplayed(noRawat) {
		w.selection[noRawat] = true
	}
	w.mu.Unlock()
	w.notify()
}

// isDisplayed reports whether a key is on the current page. Caller holds
// the lock.
func (w *Workbench) isDisplayed(noRawat string) bool {
	for _, item := range w.state.Items {
		if item.NoRawat == noRawat {
			return true
		}
	}
	return false
}

// SelectAll selects exactly the rows on the current page, not across
// pages.
func (w *Workbench) SelectAll() {
	w.mu.Lock()
	w.selection = make(map[string]bool, len(w.state.Items))
	for _, item := range w.state.Items {
		w.selection[item.NoRawat] = true
	}
	w.mu.Unlock()
	w.notify()
}

// ClearSelection empties the selection set.
func (w *Workbench) ClearSelection() {
	w.mu.Lock()
	w.selection = make(map[string]bool)
	w.mu.Unlock()
	w.notify()
}

// Selection returns the selected keys in stable order.
func (w *Workbench) Selection() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make([]string, 0, len(w.selection))
	for key := range w.selection {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// UpdateStatus moves one claim to a new stage after user confirmation.
// The listing is refetched only after the server confirms the write, so
// a rejected status never shows as truth.
func (w *Workbench) UpdateStatus(ctx context.Context, noRawat string, status vedika.ClaimStatus, catatan string) error {
	from := w.currentStatus(noRawat)
	cfg := vedika.DisplayConfig(string(status))
	if !w.notifier.Confirm(ui.ConfirmRequest{
		Title:   "Ubah status klaim?",
		Message: fmt.Sprintf("Klaim %s akan diubah ke status %s.", noRawat, cfg.Label),
	}) {
		return nil
	}

	err := w.client.UpdateStatus(ctx, noRawat, vedika.StatusUpdateRequest{
		Status:  status,
		Catatan: catatan,
	})
	if err != nil {
		w.notifier.Error(apierr.Message(err))
		return err
	}

	metrics.RecordStatusChange(string(from), string(status))
	w.notifier.Success(fmt.Sprintf("Status klaim %s menjadi %s", noRawat, cfg.Label))
	return w.Fetch(ctx)
}

func (w *Workbench) currentStatus(noRawat string) vedika.ClaimStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, item := range w.state.Items {
		if item.NoRawat == noRawat {
			return item.Status
		}
	}
	return ""
}

// BatchUpdateStatus moves the whole selection in one call. The server
// reports per-item counts; a partial failure is a valid outcome and both
// counts are surfaced rather than collapsing to pass/fail.
func (w *Workbench) BatchUpdateStatus(ctx context.Context, status vedika.ClaimStatus, catatan string) (*vedika.BatchUpdateResult, error) {
	keys := w.Selection()
	if len(keys) == 0 {
		return nil, fmt.Errorf("no claims selected")
	}

	cfg := vedika.DisplayConfig(string(status))
	if !w.notifier.Confirm(ui.ConfirmRequest{
		Title:   "Ubah status beberapa klaim?",
		Message: fmt.Sprintf("%d klaim akan diubah ke status %s.", len(keys), cfg.Label),
		Danger:  true,
	}) {
		return nil, nil
	}

	result, err := w.client.BatchUpdateStatus(ctx, vedika.BatchStatusUpdateRequest{
		NoRawatList: keys,
		Status:      status,
		Catatan:     catatan,
	})
	if err != nil {
		w.notifier.Error(apierr.Message(err))
		return nil, err
	}

	if result.Failed > 0 {
		w.notifier.Warning(fmt.Sprintf("%d klaim diperbarui, %d gagal", result.Updated, result.Failed))
	} else {
		w.notifier.Success(fmt.Sprintf("%d klaim diperbarui", result.Updated))
	}
	w.log.WithField("updated", result.Updated).WithField("failed", result.Failed).Info("batch status update")

	w.ClearSelection()
	if err := w.Fetch(ctx); err != nil {
		return result, err
	}
	return result, nil
}
