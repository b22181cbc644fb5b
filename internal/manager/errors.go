package manager

import (
	"errors"

	"classifid/internal/imaging"
)

// notLoadedError is the predict precondition failure. The message is part
// of the protocol contract and must stay caller-distinguishable from
// pipeline failures.
type notLoadedError struct{}

func (notLoadedError) Error() string { return "Model is not loaded" }

// IsModelNotLoaded reports whether err is the missing-resident-model
// precondition failure.
func IsModelNotLoaded(err error) bool {
	var e notLoadedError
	return errors.As(err, &e)
}

// modelNotFoundError indicates a requested name absent from the catalog.
type modelNotFoundError struct{ name string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.name }

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(name string) error { return modelNotFoundError{name: name} }

// IsModelNotFound reports whether the error indicates a missing model name.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// constructionError wraps a canonical-construction failure; it is fatal to
// the load request that triggered it.
type constructionError struct {
	name  string
	cause error
}

func (e constructionError) Error() string { return "construct model " + e.name + ": " + e.cause.Error() }
func (e constructionError) Unwrap() error { return e.cause }

// IsConstruction reports whether err originated in canonical model
// construction.
func IsConstruction(err error) bool {
	var e constructionError
	return errors.As(err, &e)
}

// IsSurfaceUnavailable reports whether err is the drawing-surface
// environment limitation.
func IsSurfaceUnavailable(err error) bool {
	return errors.Is(err, imaging.ErrSurfaceUnavailable)
}
