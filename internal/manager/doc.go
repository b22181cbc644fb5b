// Package manager owns the background executor state: the inference
// runtime readiness gate, the resident model, and the two-tier model
// acquisition path. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: internal state types (residentModel, Snapshot).
//   - errors.go: error types and helpers (IsModelNotFound, IsModelNotLoaded).
//   - gate.go: memoized, retryable runtime readiness gate.
//   - acquire.go: cache-first model acquisition with canonical fallback.
//   - load.go: LoadModel lifecycle and resident-model swap.
//   - predict.go: classification pipeline with guaranteed bitmap release.
//   - events.go / eventpub_memory.go: lifecycle event publishing.
//   - status.go: Status/Snapshot reporting helpers.
//
// External packages should treat this package as the orchestration layer
// and use public methods only (NewWithConfig, LoadModel, Predict, Ready,
// ListModels, Status). Internal types are subject to change.
package manager
