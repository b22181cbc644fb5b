package task

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"classifid/pkg/types"
)

// fakeService scripts executor outcomes.
type fakeService struct {
	loadErr    error
	predictErr error
	preds      []types.Prediction
	loads      []string
	predicts   int
}

func (s *fakeService) LoadModel(ctx context.Context, name string) error {
	s.loads = append(s.loads, name)
	return s.loadErr
}

func (s *fakeService) Predict(ctx context.Context, blob []byte) ([]types.Prediction, error) {
	s.predicts++
	if s.predictErr != nil {
		return nil, s.predictErr
	}
	return s.preds, nil
}

// checkExclusive asserts exactly one semantic outcome field is populated.
func checkExclusive(t *testing.T, resp types.TaskResponse) {
	t.Helper()
	if resp.ModelLoaded != nil && resp.Predictions != nil {
		t.Fatalf("both outcome fields populated: %+v", resp)
	}
	if resp.ModelLoaded == nil && resp.Predictions == nil && resp.Error == "" {
		t.Fatalf("empty response: %+v", resp)
	}
}

func TestHandleLoadSuccess(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, zerolog.Nop())
	resp := h.Handle(context.Background(), types.TaskRequest{ID: "r1", Type: types.TaskLoad, ModelName: "MobileNetV2"})
	checkExclusive(t, resp)
	if resp.ID != "r1" {
		t.Fatalf("id=%q", resp.ID)
	}
	if resp.ModelLoaded == nil || !*resp.ModelLoaded || resp.Error != "" {
		t.Fatalf("resp=%+v", resp)
	}
	if len(svc.loads) != 1 || svc.loads[0] != "MobileNetV2" {
		t.Fatalf("loads=%v", svc.loads)
	}
}

func TestHandleLoadFailure(t *testing.T) {
	svc := &fakeService{loadErr: errors.New("construct model MobileNetV2: weights unreachable")}
	h := NewHandler(svc, zerolog.Nop())
	resp := h.Handle(context.Background(), types.TaskRequest{Type: types.TaskLoad, ModelName: "MobileNetV2"})
	checkExclusive(t, resp)
	if resp.ModelLoaded == nil || *resp.ModelLoaded {
		t.Fatalf("resp=%+v", resp)
	}
	if resp.Error != "construct model MobileNetV2: weights unreachable" {
		t.Fatalf("error=%q", resp.Error)
	}
}

func TestHandleLoadEmptyNameUsesDefault(t *testing.T) {
	// The executor owns default-model resolution, so an omitted name still
	// reaches the service.
	svc := &fakeService{}
	h := NewHandler(svc, zerolog.Nop())
	resp := h.Handle(context.Background(), types.TaskRequest{Type: types.TaskLoad})
	checkExclusive(t, resp)
	if resp.ModelLoaded == nil || !*resp.ModelLoaded || resp.Error != "" {
		t.Fatalf("resp=%+v", resp)
	}
	if len(svc.loads) != 1 || svc.loads[0] != "" {
		t.Fatalf("loads=%v, want one call with the empty name", svc.loads)
	}
}

func TestHandleLoadEmptyNameWithoutDefault(t *testing.T) {
	svc := &fakeService{loadErr: errors.New("model not found: (unspecified)")}
	h := NewHandler(svc, zerolog.Nop())
	resp := h.Handle(context.Background(), types.TaskRequest{Type: types.TaskLoad})
	checkExclusive(t, resp)
	if resp.ModelLoaded == nil || *resp.ModelLoaded {
		t.Fatalf("resp=%+v", resp)
	}
	if resp.Error != "model not found: (unspecified)" {
		t.Fatalf("error=%q", resp.Error)
	}
}

func TestHandlePredictSuccess(t *testing.T) {
	svc := &fakeService{preds: []types.Prediction{{ClassName: "tabby cat", Probability: 0.8}, {ClassName: "red fox", Probability: 0.2}}}
	h := NewHandler(svc, zerolog.Nop())
	resp := h.Handle(context.Background(), types.TaskRequest{Type: types.TaskPredict, File: []byte{1, 2, 3}})
	checkExclusive(t, resp)
	if len(resp.Predictions) != 2 || resp.Error != "" {
		t.Fatalf("resp=%+v", resp)
	}
	if resp.ModelLoaded != nil {
		t.Fatalf("predict response must not carry modelLoaded")
	}
}

func TestHandlePredictNotLoaded(t *testing.T) {
	svc := &fakeService{predictErr: errors.New("Model is not loaded")}
	h := NewHandler(svc, zerolog.Nop())
	resp := h.Handle(context.Background(), types.TaskRequest{Type: types.TaskPredict, File: []byte{1}})
	checkExclusive(t, resp)
	if resp.Error != "Model is not loaded" {
		t.Fatalf("error=%q", resp.Error)
	}
	if resp.Predictions != nil || resp.ModelLoaded != nil {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestHandlePredictMissingFile(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, zerolog.Nop())
	resp := h.Handle(context.Background(), types.TaskRequest{Type: types.TaskPredict})
	if resp.Error == "" {
		t.Fatalf("resp=%+v", resp)
	}
	if svc.predicts != 0 {
		t.Fatalf("service must not be called without a file")
	}
}

func TestHandleUnknownType(t *testing.T) {
	h := NewHandler(&fakeService{}, zerolog.Nop())
	resp := h.Handle(context.Background(), types.TaskRequest{Type: "train"})
	if resp.Error == "" || resp.ModelLoaded != nil || resp.Predictions != nil {
		t.Fatalf("resp=%+v", resp)
	}
}
