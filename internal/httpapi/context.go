package httpapi

import "context"

// serverBaseCtx is canceled when the daemon begins shutting down, so
// handlers blocked on the task queue stop waiting. Background until main
// installs a real one.
var serverBaseCtx = context.Background()

// SetBaseContext installs the process-level context handlers derive from.
// Passing nil resets to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context that ends as soon as either parent does:
// the request context (client went away) or the server base context
// (shutdown). The cancel func must be called when the handler returns, or
// the watcher goroutine leaks.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	joined, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		select {
		case <-a.Done():
		case <-b.Done():
		case <-joined.Done():
		}
	}()
	return joined, cancel
}
