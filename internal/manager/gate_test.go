package manager

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestGateReadyIsPermanent(t *testing.T) {
	rt := &fakeRuntime{activateOK: true}
	g := newReadinessGate(rt, "cpu", zerolog.Nop())
	ctx := context.Background()
	if err := g.EnsureReady(ctx); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := g.EnsureReady(ctx); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if _, awaits := rt.counts(); awaits != 1 {
		t.Fatalf("expected 1 await, got %d", awaits)
	}
	if g.state() != gateReady {
		t.Fatalf("state=%s", g.state())
	}
}

func TestGateActivationFailureIsNonFatal(t *testing.T) {
	rt := &fakeRuntime{activateOK: false}
	g := newReadinessGate(rt, "webgl", zerolog.Nop())
	if err := g.EnsureReady(context.Background()); err != nil {
		t.Fatalf("activation failure must not fail initialization: %v", err)
	}
}

func TestGateActivationPanicIsNonFatal(t *testing.T) {
	rt := &fakeRuntime{activatePanic: true}
	g := newReadinessGate(rt, "webgl", zerolog.Nop())
	if err := g.EnsureReady(context.Background()); err != nil {
		t.Fatalf("activation panic must not fail initialization: %v", err)
	}
}

func TestGateFailureAllowsRetry(t *testing.T) {
	rt := &fakeRuntime{activateOK: true, readyErr: errors.New("runtime boot failed")}
	g := newReadinessGate(rt, "cpu", zerolog.Nop())
	if err := g.EnsureReady(context.Background()); err == nil {
		t.Fatalf("expected initialization error")
	}
	if g.state() != gateUninitialized {
		t.Fatalf("failed init must clear memo, state=%s", g.state())
	}
	// Next call retries from scratch and can succeed.
	rt.mu.Lock()
	rt.readyErr = nil
	rt.mu.Unlock()
	if err := g.EnsureReady(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if _, awaits := rt.counts(); awaits != 2 {
		t.Fatalf("expected 2 awaits, got %d", awaits)
	}
}

func TestGateConcurrentCallersShareOneInit(t *testing.T) {
	rt := &fakeRuntime{activateOK: true}
	g := newReadinessGate(rt, "cpu", zerolog.Nop())

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.EnsureReady(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if activations, _ := rt.counts(); activations != 1 {
		t.Fatalf("expected single backend activation, got %d", activations)
	}
}
