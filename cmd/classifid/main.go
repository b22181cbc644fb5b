package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"classifid/internal/catalog"
	"classifid/internal/config"
	"classifid/internal/httpapi"
	"classifid/internal/infer"
	"classifid/internal/manager"
	"classifid/internal/modelcache"
	"classifid/internal/task"
)

// service joins the task runner and the manager into the httpapi.Service
// surface.
type service struct {
	*task.Runner
	*manager.Manager
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	var (
		addr         string
		configPath   string
		cachePath    string
		defaultModel string
		backend      string
		logLevel     string
	)

	root := &cobra.Command{
		Use:           "classifid",
		Short:         "Background image-classification task daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, configPath, cachePath, defaultModel, backend, logLevel)
		},
	}
	root.Flags().StringVar(&addr, "addr", envOr("CLASSIFID_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	root.Flags().StringVar(&configPath, "config", os.Getenv("CLASSIFID_CONFIG"), "Optional config file (.toml/.yaml/.json)")
	root.Flags().StringVar(&cachePath, "cache-path", envOr("CLASSIFID_CACHE", "classifid-cache.db"), "Path to the persistent model cache database")
	root.Flags().StringVar(&defaultModel, "default-model", "", "Default model name when a load request omits one")
	root.Flags().StringVar(&backend, "backend", infer.BackendCPU, "Preferred inference backend")
	root.Flags().StringVar(&logLevel, "log-level", envOr("CLASSIFID_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")

	if err := root.Execute(); err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Error().Err(err).Msg("classifid exited")
		os.Exit(1)
	}
}

func run(addr, configPath, cachePath, defaultModel, backend, logLevel string) error {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.Addr != "" {
			addr = cfg.Addr
		}
		if cfg.CachePath != "" {
			cachePath = cfg.CachePath
		}
		if cfg.DefaultModel != "" {
			defaultModel = cfg.DefaultModel
		}
		if cfg.PreferredBackend != "" {
			backend = cfg.PreferredBackend
		}
		if cfg.MaxBodyBytes > 0 {
			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
		}
		httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
	}

	// A cache that fails to open degrades the daemon to construct-only
	// loads; it never prevents startup.
	var cache manager.ModelCache
	store, err := modelcache.Open(cachePath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cachePath).Msg("model cache unavailable, loads will not be cached")
	} else {
		cache = store
		defer func() { _ = store.Close() }()
	}

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Catalog:          catalog.BuiltIn(),
		Runtime:          infer.NewCPURuntime(),
		Loader:           infer.NewCPULoader(),
		Cache:            cache,
		PreferredBackend: backend,
		DefaultModel:     defaultModel,
		Logger:           logger.With().Str("component", "manager").Logger(),
	})

	runner := task.NewRunner(
		task.NewHandler(mgr, logger.With().Str("component", "handler").Logger()),
		task.RunnerConfig{},
		logger.With().Str("component", "runner").Logger(),
	)
	runner.Start()
	defer runner.Stop()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger.With().Str("component", "http").Logger())

	mux := httpapi.NewMux(service{Runner: runner, Manager: mgr})
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Str("cache", cachePath).Msg("classifid listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
