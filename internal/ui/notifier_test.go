package ui

import (
	"sync"
	"testing"
	"time"

	"github.com/clinova/vedika-workbench/internal/shared/loading"
)

func TestToastQueueKeepsArrivalOrder(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	first := n.Success("claim status updated")
	second := n.Error("failed to load claim detail")
	third := n.Info("3 claims selected")

	toasts := n.Toasts()
	if len(toasts) != 3 {
		t.Fatalf("queue length = %d, want 3", len(toasts))
	}
	if toasts[0].ID != first || toasts[1].ID != second || toasts[2].ID != third {
		t.Errorf("queue order = %v, want arrival order", []int{toasts[0].ID, toasts[1].ID, toasts[2].ID})
	}
	if toasts[1].Kind != ToastError {
		t.Errorf("kind = %q, want error", toasts[1].Kind)
	}
}

func TestToastEntersExitingPhaseBeforeRemoval(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	type event struct {
		count   int
		exiting bool
	}
	var mu sync.Mutex
	var events []event
	n.Subscribe(func(toasts []Toast) {
		mu.Lock()
		defer mu.Unlock()
		e := event{count: len(toasts)}
		if len(toasts) == 1 {
			e.exiting = toasts[0].Exiting
		}
		events = append(events, e)
	})

	n.ShowWithDuration(ToastSuccess, "saved", 400*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		done := len(events) >= 3
		mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for toast lifecycle")
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if events[0].count != 1 || events[0].exiting {
		t.Errorf("first event = %+v, want visible toast not yet exiting", events[0])
	}
	if events[1].count != 1 || !events[1].exiting {
		t.Errorf("second event = %+v, want toast in exiting phase", events[1])
	}
	if events[len(events)-1].count != 0 {
		t.Errorf("final event = %+v, want empty queue", events[len(events)-1])
	}
}

func TestDismissCancelsTimers(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	id := n.ShowWithDuration(ToastInfo, "loading", 200*time.Millisecond)
	n.Dismiss(id)

	if got := len(n.Toasts()); got != 0 {
		t.Fatalf("queue length after dismiss = %d, want 0", got)
	}

	// The cancelled timers must not resurrect or re-notify.
	var mu sync.Mutex
	fired := 0
	n.Subscribe(func([]Toast) {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Errorf("observer fired %d times after dismiss, want 0", fired)
	}
}

func TestDismissUnknownIDIsNoOp(t *testing.T) {
	n := NewNotifier()
	defer n.Close()
	n.Dismiss(42)
}

func TestConfirmWithoutHandlerDenies(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	if n.Confirm(ConfirmRequest{Title: "Hapus dokumen?"}) {
		t.Error("confirm without handler must deny")
	}
}

func TestConfirmDelegatesToHandler(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	var seen ConfirmRequest
	n.SetConfirmHandler(func(req ConfirmRequest) bool {
		seen = req
		return true
	})

	ok := n.Confirm(ConfirmRequest{
		Title:   "Ubah status klaim?",
		Message: "5 klaim akan diajukan",
		Danger:  true,
	})
	if !ok {
		t.Fatal("handler approved but Confirm returned false")
	}
	if seen.ConfirmLabel != "Ya" || seen.CancelLabel != "Batal" {
		t.Errorf("labels = %q/%q, want defaults applied", seen.ConfirmLabel, seen.CancelLabel)
	}
	if !seen.Danger {
		t.Error("danger flag not forwarded")
	}
}

func TestShowWithDurationFallsBackToDefault(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	id := n.ShowWithDuration(ToastWarning, "sebagian gagal", 0)
	if id == 0 {
		t.Fatal("expected a toast id")
	}
	if got := len(n.Toasts()); got != 1 {
		t.Errorf("queue length = %d, want 1", got)
	}
}

func TestCloseStopsPendingToasts(t *testing.T) {
	n := NewNotifier()
	n.ShowWithDuration(ToastSuccess, "a", time.Hour)
	n.ShowWithDuration(ToastSuccess, "b", time.Hour)
	n.Close()

	if got := len(n.Toasts()); got != 0 {
		t.Errorf("queue length after close = %d, want 0", got)
	}
	if id := n.Success("after close"); id != 0 {
		t.Errorf("Show after Close returned id %d, want 0", id)
	}
}

func TestOverlayTracksLoadingBus(t *testing.T) {
	bus := loading.NewBus()
	overlay := NewOverlay(bus)
	defer overlay.Close()

	var mu sync.Mutex
	var edges []bool
	overlay.Subscribe(func(v bool) {
		mu.Lock()
		edges = append(edges, v)
		mu.Unlock()
	})

	releaseA := bus.Acquire()
	releaseB := bus.Acquire()
	if !overlay.Visible() {
		t.Fatal("overlay should be visible while requests are in flight")
	}
	releaseB()
	if !overlay.Visible() {
		t.Fatal("overlay hid while a request was still in flight")
	}
	releaseA()
	if overlay.Visible() {
		t.Fatal("overlay still visible after all requests finished")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(edges) != 2 || !edges[0] || edges[1] {
		t.Errorf("edges = %v, want [true false]", edges)
	}
}
