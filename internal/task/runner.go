package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"classifid/pkg/types"
)

// Defaults applied when corresponding RunnerConfig fields are unset.
const (
	defaultQueueSize     = 64
	defaultSubmitTimeout = 30 * time.Second
)

// RunnerConfig holds tunables for the runner queue.
type RunnerConfig struct {
	// QueueSize bounds how many requests may wait for the worker.
	QueueSize int
	// SubmitTimeout bounds how long Submit blocks on a full queue before
	// reporting backpressure.
	SubmitTimeout time.Duration
}

// submission pairs one request with its reply channel. The reply channel
// is buffered so the worker never blocks on an abandoned caller.
type submission struct {
	req   types.TaskRequest
	reply chan types.TaskResponse
}

// Runner hosts the single logical worker that owns all executor state
// mutation. Requests are drained from one queue in order; once a request
// is dispatched it runs to completion and emits exactly one response.
// There is no cancellation message in the protocol.
type Runner struct {
	handler *Handler
	queue   chan submission
	timeout time.Duration
	logger  zerolog.Logger

	// stopMu serializes enqueueing against closing the queue, so a Submit
	// racing Stop gets a clean error instead of a send on a closed channel.
	stopMu  sync.RWMutex
	stopped bool

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewRunner(h *Handler, cfg RunnerConfig, logger zerolog.Logger) *Runner {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = defaultSubmitTimeout
	}
	return &Runner{
		handler: h,
		queue:   make(chan submission, cfg.QueueSize),
		timeout: cfg.SubmitTimeout,
		logger:  logger,
	}
}

// Start launches the worker goroutine.
func (r *Runner) Start() {
	r.wg.Add(1)
	go r.worker()
}

// Stop closes the queue and waits for the worker to drain it. Already
// queued requests still receive their responses; later Submit calls fail
// with a stopped error.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.stopMu.Lock()
		r.stopped = true
		close(r.queue)
		r.stopMu.Unlock()
	})
	r.wg.Wait()
}

// Submit enqueues a request and waits for its response. The submit context
// only governs enqueueing and waiting; the dispatched task itself is not
// preemptible.
func (r *Runner) Submit(ctx context.Context, req types.TaskRequest) (types.TaskResponse, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	sub := submission{req: req, reply: make(chan types.TaskResponse, 1)}

	// Hold the read side while enqueueing; Stop cannot close the queue
	// until every in-flight send has finished. The worker keeps draining
	// throughout, so a full queue still makes progress.
	r.stopMu.RLock()
	if r.stopped {
		r.stopMu.RUnlock()
		return types.TaskResponse{}, stoppedError{}
	}
	queueDepth.Inc()
	select {
	case r.queue <- sub:
		r.stopMu.RUnlock()
	case <-ctx.Done():
		r.stopMu.RUnlock()
		queueDepth.Dec()
		return types.TaskResponse{}, ctx.Err()
	case <-time.After(r.timeout):
		r.stopMu.RUnlock()
		queueDepth.Dec()
		return types.TaskResponse{}, tooBusyError{}
	}

	select {
	case resp := <-sub.reply:
		return resp, nil
	case <-ctx.Done():
		// The worker still completes the task and drops the buffered reply.
		return types.TaskResponse{}, ctx.Err()
	}
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for sub := range r.queue {
		queueDepth.Dec()
		start := time.Now()
		// Detached context: a dispatched request runs to completion even if
		// the submitter went away.
		resp := r.handler.Handle(context.Background(), sub.req)
		r.logger.Debug().
			Str("task_id", sub.req.ID).
			Str("type", string(sub.req.Type)).
			Bool("ok", resp.Error == "").
			Dur("dur", time.Since(start)).
			Msg("task done")
		sub.reply <- resp
	}
}
