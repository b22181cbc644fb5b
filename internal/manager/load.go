package manager

import (
	"context"
	"time"

	"classifid/internal/catalog"
)

// LoadModel makes name the resident model. Loading the already-resident
// model is a no-op success and never touches the acquisition path; a
// failed load leaves the previous resident model untouched.
func (m *Manager) LoadModel(ctx context.Context, name string) error {
	startTs := time.Now()
	if name == "" {
		name = m.defaultModel
		if name == "" {
			return ErrModelNotFound("(unspecified)")
		}
	}

	m.mu.RLock()
	res := m.resident
	m.mu.RUnlock()
	if res != nil && res.name == name {
		m.mu.Lock()
		if res2 := m.resident; res2 != nil && res2.name == name {
			res2.lastUsed = time.Now()
			m.mu.Unlock()
			m.loadsTotal.Add(1)
			m.publisher.Publish(Event{Name: "load_noop", ModelName: name, Fields: map[string]any{}})
			return nil
		}
		m.mu.Unlock()
		// Resident changed in between; continue with the full load path.
	}

	m.logger.Info().Str("model", name).Msg("load start")
	m.publisher.Publish(Event{Name: "load_start", ModelName: name, Fields: map[string]any{}})

	if err := m.gate.EnsureReady(ctx); err != nil {
		m.setLastErr(err)
		m.publisher.Publish(Event{Name: "load_runtime_error", ModelName: name, Fields: map[string]any{"error": err.Error()}})
		return err
	}

	if _, ok := catalog.ByName(m.catalog, name); !ok {
		m.publisher.Publish(Event{Name: "load_model_not_found", ModelName: name, Fields: map[string]any{}})
		return ErrModelNotFound(name)
	}

	h, err := m.acquire(ctx, name)
	if err != nil {
		m.setLastErr(err)
		m.logger.Error().Err(err).Str("model", name).Msg("load failed")
		m.publisher.Publish(Event{Name: "load_error", ModelName: name, Fields: map[string]any{"error": err.Error()}})
		return err
	}

	// Swap the resident model wholesale; concurrent predicts observe either
	// the old or the new handle, never a partial update.
	now := time.Now()
	m.mu.Lock()
	m.resident = &residentModel{name: name, handle: h, loadedAt: now, lastUsed: now}
	m.lastErr = ""
	m.mu.Unlock()

	m.loadsTotal.Add(1)
	m.logger.Info().Str("model", name).Dur("dur", time.Since(startTs)).Msg("load ready")
	m.publisher.Publish(Event{Name: "load_ready", ModelName: name, Fields: map[string]any{"dur_ms": int(time.Since(startTs) / time.Millisecond)}})
	return nil
}

func (m *Manager) setLastErr(err error) {
	m.mu.Lock()
	m.lastErr = err.Error()
	m.mu.Unlock()
}
