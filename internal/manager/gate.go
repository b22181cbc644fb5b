package manager

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"classifid/internal/infer"
)

// Gate states reported via Status.
const (
	gateUninitialized = "uninitialized"
	gateInitializing  = "initializing"
	gateReady         = "ready"
)

// initRound is one initialization attempt shared by every caller that
// arrives while it is in flight. done is closed exactly once with err set
// beforehand, so all waiters observe the same outcome.
type initRound struct {
	done chan struct{}
	err  error
}

// readinessGate memoizes inference-runtime initialization. Success is
// permanent for the process lifetime; failure clears the memo so the next
// caller retries from scratch.
type readinessGate struct {
	mu      sync.Mutex
	ready   bool
	pending *initRound

	runtime infer.Runtime
	backend string
	logger  zerolog.Logger
}

func newReadinessGate(rt infer.Runtime, backend string, logger zerolog.Logger) *readinessGate {
	return &readinessGate{runtime: rt, backend: backend, logger: logger}
}

// EnsureReady initializes the runtime exactly once per outcome. Callable
// concurrently and repeatedly; concurrent callers attach to the same
// in-flight round rather than re-invoking initialization.
func (g *readinessGate) EnsureReady(ctx context.Context) error {
	g.mu.Lock()
	if g.ready {
		g.mu.Unlock()
		return nil
	}
	if r := g.pending; r != nil {
		g.mu.Unlock()
		select {
		case <-r.done:
			return r.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	round := &initRound{done: make(chan struct{})}
	g.pending = round
	g.mu.Unlock()

	// Backend selection failure is non-fatal: without a working backend the
	// runtime surfaces failures later, at inference time.
	if !activateBackend(g.runtime, g.backend) {
		g.logger.Warn().Str("backend", g.backend).Msg("backend activation failed, continuing")
	}
	err := g.runtime.AwaitReady(ctx)

	g.mu.Lock()
	g.ready = err == nil
	g.pending = nil
	g.mu.Unlock()
	round.err = err
	close(round.done)
	return err
}

// state returns the gate state for status reporting.
func (g *readinessGate) state() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.ready:
		return gateReady
	case g.pending != nil:
		return gateInitializing
	default:
		return gateUninitialized
	}
}

// activateBackend shields the gate from a panicking runtime; a backend
// that blows up during activation counts as activation failure, nothing
// more.
func activateBackend(rt infer.Runtime, name string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return rt.ActivateBackend(name)
}
