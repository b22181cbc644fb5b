// Package task implements the message protocol between callers and the
// background executor: typed requests in, exactly one typed response out,
// with every failure normalized to a plain message string.
package task

import (
	"context"

	"github.com/rs/zerolog"

	"classifid/pkg/types"
)

// Service is the executor surface the protocol dispatches to.
// *manager.Manager satisfies it.
type Service interface {
	LoadModel(ctx context.Context, name string) error
	Predict(ctx context.Context, blob []byte) ([]types.Prediction, error)
}

// Handler converts task requests into task responses. No error object
// crosses this boundary; callers only ever see message strings.
type Handler struct {
	svc    Service
	logger zerolog.Logger
}

func NewHandler(svc Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Handle processes one request and emits exactly one response. Responses
// carry exactly one semantic outcome field: ModelLoaded for loads,
// Predictions for successful predicts; Error accompanies any failure.
func (h *Handler) Handle(ctx context.Context, req types.TaskRequest) types.TaskResponse {
	resp := types.TaskResponse{ID: req.ID}
	switch req.Type {
	case types.TaskLoad:
		loaded := false
		// An empty name is forwarded as-is: the executor resolves it to its
		// configured default model, or reports not-found when there is none.
		if err := h.svc.LoadModel(ctx, req.ModelName); err != nil {
			h.logger.Error().Err(err).Str("model", req.ModelName).Msg("load task failed")
			resp.Error = err.Error()
		} else {
			loaded = true
		}
		resp.ModelLoaded = &loaded
		observeTask(string(types.TaskLoad), resp.Error == "")

	case types.TaskPredict:
		if len(req.File) == 0 {
			resp.Error = "file is required"
		} else if preds, err := h.svc.Predict(ctx, req.File); err != nil {
			h.logger.Error().Err(err).Msg("predict task failed")
			resp.Error = err.Error()
		} else {
			resp.Predictions = preds
		}
		observeTask(string(types.TaskPredict), resp.Error == "")

	default:
		resp.Error = "unknown task type: " + string(req.Type)
		observeTask("unknown", false)
	}
	return resp
}
