package task

// tooBusyError signals queue overflow/timeout for 429 mapping.
type tooBusyError struct{}

func (tooBusyError) Error() string { return "task queue is full, try again later" }

// ErrQueueFull is the backpressure error returned by Submit when the
// queue stays full past the submit timeout.
var ErrQueueFull error = tooBusyError{}

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	_, ok := err.(tooBusyError)
	return ok
}

// stoppedError signals a Submit after Stop.
type stoppedError struct{}

func (stoppedError) Error() string { return "task runner is stopped" }

// IsStopped reports whether err indicates the runner no longer accepts
// submissions.
func IsStopped(err error) bool {
	_, ok := err.(stoppedError)
	return ok
}
