package manager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"classifid/internal/catalog"
	"classifid/internal/imaging"
	"classifid/internal/infer"
	"classifid/pkg/types"
)

// fakeRuntime scripts backend activation and readiness outcomes.
type fakeRuntime struct {
	mu            sync.Mutex
	activateOK    bool
	activatePanic bool
	readyErr      error
	activations   int
	awaits        int
}

func (r *fakeRuntime) ActivateBackend(name string) bool {
	r.mu.Lock()
	r.activations++
	panicNow := r.activatePanic
	ok := r.activateOK
	r.mu.Unlock()
	if panicNow {
		panic("backend exploded")
	}
	return ok
}

func (r *fakeRuntime) AwaitReady(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.awaits++
	return r.readyErr
}

func (r *fakeRuntime) counts() (activations, awaits int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activations, r.awaits
}

// fakeHandle is a minimal model handle with scriptable failures.
type fakeHandle struct {
	name         string
	serializeErr error
	classifyErr  error
	preds        []types.Prediction
}

func (h *fakeHandle) Name() string { return h.name }

func (h *fakeHandle) Serialize() ([]byte, error) {
	if h.serializeErr != nil {
		return nil, h.serializeErr
	}
	return []byte("artifact:" + h.name), nil
}

func (h *fakeHandle) Classify(ctx context.Context, px *imaging.PixelBuffer) ([]types.Prediction, error) {
	if h.classifyErr != nil {
		return nil, h.classifyErr
	}
	return h.preds, nil
}

// countingLoader counts canonical constructions and cache restores.
type countingLoader struct {
	mu           sync.Mutex
	constructs   int
	restores     int
	constructErr error
	classifyErr  error
}

func (l *countingLoader) Construct(ctx context.Context, name string, cat []types.Model) (infer.ModelHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.constructs++
	if l.constructErr != nil {
		return nil, l.constructErr
	}
	if _, ok := catalog.ByName(cat, name); !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return &fakeHandle{name: name, classifyErr: l.classifyErr, preds: []types.Prediction{{ClassName: "tabby cat", Probability: 1}}}, nil
}

func (l *countingLoader) Restore(ctx context.Context, blob []byte) (infer.ModelHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.restores++
	name, ok := bytes.CutPrefix(blob, []byte("artifact:"))
	if !ok {
		return nil, errors.New("unrecognized artifact")
	}
	return &fakeHandle{name: string(name), classifyErr: l.classifyErr, preds: []types.Prediction{{ClassName: "tabby cat", Probability: 1}}}, nil
}

func (l *countingLoader) constructCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.constructs
}

// memCache is an in-memory ModelCache with scriptable failures.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	putErr  error
	puts    int
	deletes int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.data[key]
	return b, ok, nil
}

func (c *memCache) Put(key string, blob []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.data[key] = blob
	return nil
}

func (c *memCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	delete(c.data, key)
	return nil
}

// newTestManager wires a manager with fakes and an event recorder.
func newTestManager(t *testing.T, mutate func(*ManagerConfig)) (*Manager, *countingLoader, *memCache, *MemoryPublisher) {
	t.Helper()
	loader := &countingLoader{}
	cache := newMemCache()
	pub := NewMemoryPublisher()
	cfg := ManagerConfig{
		Catalog:   catalog.BuiltIn(),
		Runtime:   &fakeRuntime{activateOK: true},
		Loader:    loader,
		Cache:     cache,
		Publisher: pub,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewWithConfig(cfg), loader, cache, pub
}

// pngBlob encodes a small solid-color PNG for pipeline tests.
func pngBlob(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
