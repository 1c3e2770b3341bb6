package widget

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestInitialize_FirstCallSuccessRendersEveryItem(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		rig := newRig(t, Options{Count: n})
		ids := make([]string, 0, n)
		for i := 0; i < n; i++ {
			ids = append(ids, string(rune('a'+i)))
		}
		rig.provider.push(recs(ids...), nil)

		drain(t, rig.ctrl, rig.ctrl.Start())

		if got := rig.ctrl.Phase(); got != PhaseLoaded {
			t.Fatalf("n=%d: expected loaded, got %s", n, got)
		}
		if diff := cmp.Diff(ids, rig.surface.ids()); diff != "" {
			t.Fatalf("n=%d: unexpected slots (-want +got):\n%s", n, diff)
		}
		if len(rig.delays.delays) != 0 {
			t.Fatalf("n=%d: expected no retry to be scheduled, got %v", n, rig.delays.delays)
		}
		if rig.provider.calls() != 1 || rig.provider.counts[0] != n {
			t.Fatalf("n=%d: unexpected provider calls %v", n, rig.provider.counts)
		}
		if rig.surface.loading {
			t.Fatalf("n=%d: loading region should be hidden", n)
		}
	}
}

func TestInitialize_EmptyResultsRetryUntilLoaded(t *testing.T) {
	for k := 0; k <= DefaultMaxRetries; k++ {
		rig := newRig(t, Options{Count: 2})
		rig.provider.pushEmpty(k).push(recs("a", "b"), nil)

		drain(t, rig.ctrl, rig.ctrl.Start())

		state := rig.ctrl.State()
		if state.Phase != PhaseLoaded {
			t.Fatalf("k=%d: expected loaded, got %s", k, state.Phase)
		}
		if rig.provider.calls() != k+1 {
			t.Fatalf("k=%d: expected %d provider calls, got %d", k, k+1, rig.provider.calls())
		}
		if state.RetryCount != k {
			t.Fatalf("k=%d: unexpected retry count %d", k, state.RetryCount)
		}
		if len(rig.delays.delays) != k {
			t.Fatalf("k=%d: expected %d delays, got %v", k, k, rig.delays.delays)
		}
		for _, d := range rig.delays.delays {
			if d != DefaultRetryDelay {
				t.Fatalf("k=%d: unexpected retry delay %s", k, d)
			}
		}
	}
}

func TestInitialize_EmptyAfterMaxRetriesStopsCalling(t *testing.T) {
	rig := newRig(t, Options{Count: 4})
	rig.provider.pushEmpty(DefaultMaxRetries + 1)

	drain(t, rig.ctrl, rig.ctrl.Start())

	state := rig.ctrl.State()
	if state.Phase != PhaseEmpty {
		t.Fatalf("expected empty phase, got %s", state.Phase)
	}
	if !errors.Is(state.Err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", state.Err)
	}
	if rig.provider.calls() != DefaultMaxRetries+1 {
		t.Fatalf("expected %d calls, got %d", DefaultMaxRetries+1, rig.provider.calls())
	}
	if !rig.surface.emptyVisible || rig.surface.emptyMsg != emptyMessage {
		t.Fatalf("expected empty state to be shown, got %+v", rig.surface)
	}
	if rig.surface.loading {
		t.Fatal("loading should be hidden once the empty state shows")
	}

	// Nothing else happens until the user asks.
	if cmd, _ := rig.ctrl.Update(loadRetryMsg{generation: rig.ctrl.generation - 1, count: 4}); cmd != nil {
		t.Fatal("stale retry tick must not trigger a load")
	}
	if rig.provider.calls() != DefaultMaxRetries+1 {
		t.Fatal("provider called without a manual retry")
	}

	rig.provider.push(recs("x"), nil)
	drain(t, rig.ctrl, rig.ctrl.Retry())
	state = rig.ctrl.State()
	if state.Phase != PhaseLoaded || state.RetryCount != 0 {
		t.Fatalf("manual retry should reload with a reset counter, got %+v", state)
	}
	if rig.surface.emptyVisible {
		t.Fatal("empty state should be cleared by the retry")
	}
}

func TestInitialize_TransportFailureIsNotAutoRetried(t *testing.T) {
	rig := newRig(t, Options{Count: 3})
	rig.provider.push(nil, errors.New("connection refused"))

	drain(t, rig.ctrl, rig.ctrl.Start())

	state := rig.ctrl.State()
	if state.Phase != PhaseError {
		t.Fatalf("expected error phase, got %s", state.Phase)
	}
	var transport *TransportError
	if !errors.As(state.Err, &transport) {
		t.Fatalf("expected TransportError, got %T", state.Err)
	}
	if rig.provider.calls() != 1 || len(rig.delays.delays) != 0 {
		t.Fatalf("transport failure must not be retried: calls=%d delays=%v", rig.provider.calls(), rig.delays.delays)
	}
	if !rig.surface.errorVisible || rig.surface.errorMsg != errorMessage {
		t.Fatalf("expected error region, got %+v", rig.surface)
	}

	rig.provider.push(recs("a"), nil)
	drain(t, rig.ctrl, rig.ctrl.Retry())
	if rig.ctrl.Phase() != PhaseLoaded {
		t.Fatalf("expected loaded after retry, got %s", rig.ctrl.Phase())
	}
	if rig.surface.errorVisible {
		t.Fatal("error region should be hidden after a fresh initialize")
	}
}

func TestRetry_IgnoredWhileLoadingOrLoaded(t *testing.T) {
	rig := newRig(t, Options{Count: 1})
	if cmd := rig.ctrl.Retry(); cmd != nil {
		t.Fatal("retry should be a no-op while idle")
	}
	rig.provider.push(recs("a"), nil)
	drain(t, rig.ctrl, rig.ctrl.Start())
	if cmd := rig.ctrl.Retry(); cmd != nil {
		t.Fatal("retry should be a no-op once loaded")
	}
}

func TestInitialize_SupersededLoadIsDiscarded(t *testing.T) {
	rig := newRig(t, Options{Count: 1})
	rig.provider.push(recs("old"), nil).push(recs("new"), nil)

	first := rig.ctrl.Initialize(1, false)
	firstMsg := first()
	second := rig.ctrl.Initialize(1, false)
	drain(t, rig.ctrl, second)

	if _, handled := rig.ctrl.Update(firstMsg); !handled {
		t.Fatal("expected load result to be handled")
	}
	if diff := cmp.Diff([]string{"new"}, rig.surface.ids()); diff != "" {
		t.Fatalf("late result overwrote newer load (-want +got):\n%s", diff)
	}
}

func TestInitialize_RegionsCreatedOnce(t *testing.T) {
	rig := newRig(t, Options{Count: 1, MaxRetries: 1})
	rig.provider.pushEmpty(2).push(recs("a"), nil)

	drain(t, rig.ctrl, rig.ctrl.Start())
	drain(t, rig.ctrl, rig.ctrl.Retry())

	if rig.surface.ensured != 1 {
		t.Fatalf("expected regions to be created once, got %d", rig.surface.ensured)
	}
	if rig.surface.mode != ModeDesktop {
		t.Fatalf("without a responsive behavior regions default to desktop, got %s", rig.surface.mode)
	}
}

func TestInitialize_LoadingStaysVisibleDuringEmptyRetries(t *testing.T) {
	rig := newRig(t, Options{Count: 1})
	rig.provider.pushEmpty(1)

	msg := rig.ctrl.Start()()
	retryCmd, _ := rig.ctrl.Update(msg)
	if retryCmd == nil {
		t.Fatal("expected a scheduled continuation")
	}
	if !rig.surface.loading || rig.ctrl.Phase() != PhaseLoading {
		t.Fatalf("expected loading to remain visible, phase=%s", rig.ctrl.Phase())
	}
	if len(rig.surface.slots) != 0 {
		t.Fatal("nothing should render on the empty-retry path")
	}
}

func TestNewController_RequiresReplacementBound(t *testing.T) {
	_, err := NewController(&scriptedProvider{}, &fakeSurface{}, nil, Options{})
	if err == nil {
		t.Fatal("expected an error without a replacement attempt bound")
	}
}

func TestOpen_UsesNavigatorWithDestination(t *testing.T) {
	rig := newRig(t, Options{Count: 2})
	rig.provider.push(recs("a", "b"), nil)
	drain(t, rig.ctrl, rig.ctrl.Start())

	drain(t, rig.ctrl, rig.ctrl.Open(1))
	if diff := cmp.Diff([]string{"https://example.com/b"}, rig.nav.opened); diff != "" {
		t.Fatalf("unexpected navigation (-want +got):\n%s", diff)
	}
	if rig.ctrl.Notice() != "Opened recommendation in browser" {
		t.Fatalf("unexpected notice: %q", rig.ctrl.Notice())
	}

	if cmd := rig.ctrl.Open(2); cmd != nil {
		t.Fatal("opening an unknown slot should do nothing")
	}

	rig.nav.err = errors.New("no browser")
	drain(t, rig.ctrl, rig.ctrl.Open(0))
	if rig.ctrl.Notice() != "Could not open recommendation: no browser" {
		t.Fatalf("unexpected notice: %q", rig.ctrl.Notice())
	}
}

func TestRerender_RestoresCurrentPhase(t *testing.T) {
	rig := newRig(t, Options{Count: 2, RetryDelay: time.Millisecond})
	rig.provider.push(recs("a", "b"), nil)
	drain(t, rig.ctrl, rig.ctrl.Start())

	rig.surface.Rebuild(ModeMobile)
	rig.ctrl.Rerender()
	if diff := cmp.Diff([]string{"a", "b"}, rig.surface.ids()); diff != "" {
		t.Fatalf("rerender lost items (-want +got):\n%s", diff)
	}
	if rig.surface.loading {
		t.Fatal("rerender of loaded state should hide loading")
	}
}
