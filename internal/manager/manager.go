package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"classifid/internal/imaging"
	"classifid/internal/infer"
	"classifid/pkg/types"
)

// Manager hosts all executor state: the runtime readiness gate and the
// resident model. It is an explicit, injectable instance rather than
// package globals so tests can run independent managers side by side.
type Manager struct {
	mu       sync.RWMutex
	resident *residentModel
	lastErr  string

	gate         *readinessGate
	catalog      []types.Model
	loader       infer.Loader
	cache        ModelCache
	defaultModel string

	publisher  EventPublisher
	logger     zerolog.Logger
	decode     func(blob []byte) (*imaging.Bitmap, error)
	newSurface func(w, h int) (*imaging.Surface, error)

	startTime time.Time

	loadsTotal       atomic.Uint64
	predictionsTotal atomic.Uint64
	cacheHitsTotal   atomic.Uint64
	cacheMissesTotal atomic.Uint64
}

// New constructs a Manager with the given catalog and collaborators using
// package defaults. Delegates to NewWithConfig to centralize defaults.
func New(catalog []types.Model, rt infer.Runtime, loader infer.Loader, cache ModelCache) *Manager {
	return NewWithConfig(ManagerConfig{
		Catalog: catalog,
		Runtime: rt,
		Loader:  loader,
		Cache:   cache,
	})
}

// Ready reports whether a model is resident and the runtime gate is ready.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resident != nil && m.gate.state() == gateReady
}

// ResidentModelName returns the name of the resident model, or "".
func (m *Manager) ResidentModelName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.resident == nil {
		return ""
	}
	return m.resident.name
}

// ListModels returns a copy of the catalog to avoid external mutation.
func (m *Manager) ListModels() []types.Model {
	out := make([]types.Model, len(m.catalog))
	copy(out, m.catalog)
	return out
}
