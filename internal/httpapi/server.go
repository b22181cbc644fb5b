package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classifid/internal/task"
	"classifid/pkg/types"
)

// Service defines the methods required by the HTTP API layer. The task
// runner plus the manager together satisfy it.
type Service interface {
	Submit(ctx context.Context, req types.TaskRequest) (types.TaskResponse, error)
	ListModels() []types.Model
	Status() types.StatusResponse
	Ready() bool
}

// NewMux builds the HTTP router. The HTTP layer is a thin carrier for the
// task protocol: protocol-level failures travel inside TaskResponse with
// status 200; only transport failures (bad payload, backpressure,
// shutdown) map to HTTP error codes.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/task", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.TaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		submitTask(w, r, svc, req)
	})

	r.Post("/models/{name}/load", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			writeJSONError(w, http.StatusBadRequest, "model name is required")
			return
		}
		submitTask(w, r, svc, types.TaskRequest{Type: types.TaskLoad, ModelName: name})
	})

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		blob, err := readAll(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		if len(blob) == 0 {
			writeJSONError(w, http.StatusBadRequest, "image body is required")
			return
		}
		submitTask(w, r, svc, types.TaskRequest{Type: types.TaskPredict, File: blob})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: svc.ListModels()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// submitTask routes one protocol request through the runner and writes the
// single response.
func submitTask(w http.ResponseWriter, r *http.Request, svc Service, req types.TaskRequest) {
	start := time.Now()
	lvl := requestLogLevel(r)
	if lvl >= LevelInfo && zlog != nil {
		z := zlog.Info().Str("path", r.URL.Path).Str("type", string(req.Type)).Str("model", req.ModelName)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("task start")
	}

	// Join server base context with request context so shutdown stops the wait.
	joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	resp, err := svc.Submit(joinedCtx, req)
	if err != nil {
		// Client disconnected or the server is shutting down.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		if task.IsTooBusy(err) {
			IncrementBackpressure("queue_full")
			writeJSONError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil && lvl >= LevelError && zlog != nil {
		zlog.Error().Err(encErr).Msg("failed to encode task response")
	}
	if lvl >= LevelInfo && zlog != nil {
		z := zlog.Info().Str("type", string(req.Type)).Bool("ok", resp.Error == "").Dur("dur", time.Since(start))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("task end")
	}
}

func readAll(r *http.Request) ([]byte, error) {
	defer func() { _ = r.Body.Close() }()
	return io.ReadAll(r.Body)
}
