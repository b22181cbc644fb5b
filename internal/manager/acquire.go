package manager

import (
	"context"

	"classifid/internal/infer"
	"classifid/internal/modelcache"
)

// acquire materializes a model handle for name: persistent cache first,
// canonical construction on any cache failure, best-effort write-back on
// construction success.
func (m *Manager) acquire(ctx context.Context, name string) (infer.ModelHandle, error) {
	key := modelcache.Key(name)

	if h, ok := m.tryRestoreFromCache(ctx, key); ok {
		m.cacheHitsTotal.Add(1)
		m.publisher.Publish(Event{Name: "cache_hit", ModelName: name, Fields: map[string]any{"key": key}})
		m.logger.Debug().Str("model", name).Str("key", key).Msg("model restored from cache")
		return h, nil
	}
	m.cacheMissesTotal.Add(1)
	m.publisher.Publish(Event{Name: "cache_miss", ModelName: name, Fields: map[string]any{"key": key}})

	// Canonical path resolves architecture by name, so it gets the full
	// catalog of definitions.
	h, err := m.loader.Construct(ctx, name, m.catalog)
	if err != nil {
		return nil, constructionError{name: name, cause: err}
	}
	m.writeBack(key, name, h)
	return h, nil
}

// tryRestoreFromCache returns (handle, true) only for a present,
// structurally valid entry. Misses, read errors, and corrupt entries all
// report false; a corrupt entry is deleted so the rebuilt artifact
// replaces it instead of masking a recurring corruption across runs.
func (m *Manager) tryRestoreFromCache(ctx context.Context, key string) (infer.ModelHandle, bool) {
	if m.cache == nil {
		return nil, false
	}
	blob, ok, err := m.cache.Get(key)
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	h, err := m.loader.Restore(ctx, blob)
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("corrupt cache entry, dropping")
		m.publisher.Publish(Event{Name: "cache_corrupt", Fields: map[string]any{"key": key}})
		_ = m.cache.Delete(key)
		return nil, false
	}
	return h, true
}

// writeBack caches the freshly constructed model. A write failure loses
// only the caching benefit for next time, never the load itself.
func (m *Manager) writeBack(key, name string, h infer.ModelHandle) {
	if m.cache == nil {
		return
	}
	blob, err := h.Serialize()
	if err != nil {
		m.logger.Warn().Err(err).Str("model", name).Msg("model serialize failed, skipping cache write")
		m.publisher.Publish(Event{Name: "cache_write_error", ModelName: name, Fields: map[string]any{"error": err.Error()}})
		return
	}
	if err := m.cache.Put(key, blob); err != nil {
		m.logger.Warn().Err(err).Str("model", name).Str("key", key).Msg("cache write failed")
		m.publisher.Publish(Event{Name: "cache_write_error", ModelName: name, Fields: map[string]any{"error": err.Error()}})
	}
}
