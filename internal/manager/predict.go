package manager

import (
	"context"
	"time"

	"classifid/pkg/types"
)

// Predict runs the classification pipeline on an encoded image blob:
// decode, render onto a transient surface, classify with the resident
// model. The decoded bitmap is released exactly once on every exit path.
func (m *Manager) Predict(ctx context.Context, blob []byte) ([]types.Prediction, error) {
	m.mu.RLock()
	res := m.resident
	m.mu.RUnlock()
	if res == nil {
		// Precondition failure: no decode work is attempted.
		return nil, notLoadedError{}
	}

	bmp, err := m.decode(blob)
	if err != nil {
		return nil, err
	}
	defer func() { _ = bmp.Release() }()

	surf, err := m.newSurface(bmp.Width(), bmp.Height())
	if err != nil {
		return nil, err
	}
	px, err := surf.Render(bmp)
	if err != nil {
		return nil, err
	}

	preds, err := res.handle.Classify(ctx, px)
	if err != nil {
		m.publisher.Publish(Event{Name: "predict_error", ModelName: res.name, Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}

	m.mu.Lock()
	if res2 := m.resident; res2 != nil {
		res2.lastUsed = time.Now()
	}
	m.mu.Unlock()
	m.predictionsTotal.Add(1)
	m.publisher.Publish(Event{Name: "predict_done", ModelName: res.name, Fields: map[string]any{"classes": len(preds)}})
	return preds, nil
}
