package types

// TaskType selects the operation carried by a TaskRequest.
type TaskType string

const (
	TaskLoad    TaskType = "load"
	TaskPredict TaskType = "predict"
)

// TaskRequest is one message submitted to the background executor.
// Exactly one operation is encoded per request.
type TaskRequest struct {
	// Request identifier; assigned by the runner when empty.
	// example: 6f1c0f5e-0b0a-4f6a-9b1a-2d7c8e9f0a1b
	ID string `json:"id,omitempty" example:"6f1c0f5e-0b0a-4f6a-9b1a-2d7c8e9f0a1b"`
	// Operation selector: "load" or "predict".
	// example: load
	Type TaskType `json:"type" example:"load"`
	// Model name; required for "load".
	// example: MobileNetV2
	ModelName string `json:"modelName,omitempty" example:"MobileNetV2"`
	// Encoded image bytes; required for "predict".
	File []byte `json:"file,omitempty"`
}

// TaskResponse is the single reply emitted for a TaskRequest. Exactly one
// of ModelLoaded or Predictions is populated; Error accompanies any
// failure (and co-occurs with ModelLoaded=false on failed loads).
type TaskResponse struct {
	// Echo of the request identifier.
	ID string `json:"id,omitempty"`
	// Present only for load responses.
	ModelLoaded *bool `json:"modelLoaded,omitempty"`
	// Present only on predict success.
	Predictions []Prediction `json:"predictions,omitempty"`
	// Human-readable failure message; present on any failure.
	Error string `json:"error,omitempty"`
}

// ModelsResponse wraps the catalog returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall executor state (e.g., idle, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Inference runtime gate state (uninitialized, initializing, ready).
	// example: ready
	RuntimeState string `json:"runtime_state" example:"ready"`
	// Name of the resident model, empty when none is loaded.
	// example: MobileNetV2
	ResidentModel string `json:"resident_model,omitempty" example:"MobileNetV2"`
	// Last error observed by the manager (if any).
	LastError string `json:"last_error,omitempty"`
	// Total successful model loads (including fast-path no-ops).
	// example: 3
	LoadsTotal uint64 `json:"loads_total" example:"3"`
	// Total predictions served.
	// example: 120
	PredictionsTotal uint64 `json:"predictions_total" example:"120"`
	// Total cache hits during model acquisition.
	// example: 2
	CacheHitsTotal uint64 `json:"cache_hits_total" example:"2"`
	// Total cache misses (including corrupt entries) during acquisition.
	// example: 1
	CacheMissesTotal uint64 `json:"cache_misses_total" example:"1"`
	// Uptime of the daemon in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
