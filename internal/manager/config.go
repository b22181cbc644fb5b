package manager

import (
	"time"

	"github.com/rs/zerolog"

	"classifid/internal/imaging"
	"classifid/internal/infer"
	"classifid/pkg/types"
)

// defaultBackend is tried first when no preferred backend is configured.
const defaultBackend = infer.BackendCPU

// ModelCache is the persistent cache consumed by the acquisition path.
// *modelcache.Store satisfies it; tests supply counting fakes.
type ModelCache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, blob []byte) error
	Delete(key string) error
}

// ManagerConfig encapsulates all tunables and collaborators for Manager
// construction. Runtime and Loader are required; everything else has
// defaults.
type ManagerConfig struct {
	Catalog          []types.Model
	Runtime          infer.Runtime
	Loader           infer.Loader
	Cache            ModelCache // nil disables the cache tier (every acquire constructs)
	PreferredBackend string
	DefaultModel     string
	Publisher        EventPublisher
	Logger           zerolog.Logger
	// Decode and NewSurface default to the imaging package; tests override
	// them to observe transient resources.
	Decode     func(blob []byte) (*imaging.Bitmap, error)
	NewSurface func(w, h int) (*imaging.Surface, error)
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		catalog:      cfg.Catalog,
		loader:       cfg.Loader,
		cache:        cfg.Cache,
		defaultModel: cfg.DefaultModel,
		publisher:    cfg.Publisher,
		logger:       cfg.Logger,
		decode:       cfg.Decode,
		newSurface:   cfg.NewSurface,
		startTime:    time.Now(),
	}
	backend := cfg.PreferredBackend
	if backend == "" {
		backend = defaultBackend
	}
	m.gate = newReadinessGate(cfg.Runtime, backend, cfg.Logger)
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if m.decode == nil {
		m.decode = imaging.Decode
	}
	if m.newSurface == nil {
		m.newSurface = imaging.NewSurface
	}
	return m
}
