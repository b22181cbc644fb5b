package infer

import (
	"context"

	"classifid/internal/imaging"
	"classifid/pkg/types"
)

// Runtime abstracts the numerical inference engine. The manager only needs
// backend activation and a readiness barrier; everything else is opaque.
type Runtime interface {
	// ActivateBackend attempts to select the named execution backend.
	// Returning false (or failing internally) is non-fatal: a runtime with
	// no working backend surfaces failures later, at inference time.
	ActivateBackend(name string) bool
	// AwaitReady blocks until the runtime is usable or the context ends.
	AwaitReady(ctx context.Context) error
}

// ModelHandle is a constructed model resident in memory.
type ModelHandle interface {
	// Name returns the model name the handle was constructed for.
	Name() string
	// Classify runs the model on a raw pixel buffer.
	Classify(ctx context.Context, px *imaging.PixelBuffer) ([]types.Prediction, error)
	// Serialize renders the model into bytes suitable for the persistent cache.
	Serialize() ([]byte, error)
}

// Loader constructs model handles, either canonically (by name, resolved
// against the full catalog) or from previously serialized cache bytes.
type Loader interface {
	Construct(ctx context.Context, name string, catalog []types.Model) (ModelHandle, error)
	Restore(ctx context.Context, blob []byte) (ModelHandle, error)
}
