package manager

import (
	"time"

	"classifid/internal/infer"
)

// residentModel is the single model currently loaded in memory. It is
// replaced wholesale under the manager lock, never partially mutated.
type residentModel struct {
	name     string
	handle   infer.ModelHandle
	loadedAt time.Time
	lastUsed time.Time
}

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	RuntimeState  string
	ResidentModel string
	Err           string
}
