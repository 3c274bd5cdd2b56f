package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/config"
	"github.com/JonMunkholm/costdraft/internal/core"
	"github.com/JonMunkholm/costdraft/internal/logging"
	"github.com/JonMunkholm/costdraft/internal/preset"
	"github.com/JonMunkholm/costdraft/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to open preset store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	presets := preset.NewService(store, preset.Policy{MaxPerOwner: cfg.Presets.MaxPerOwner})
	defer presets.Close()

	var defaultCosts []byte
	if cfg.Catalog.DefaultCostsPath != "" {
		defaultCosts, err = os.ReadFile(cfg.Catalog.DefaultCostsPath)
		if err != nil {
			slog.Error("failed to read default cost table", "path", cfg.Catalog.DefaultCostsPath, "error", err)
			os.Exit(1)
		}
	}

	service := core.NewService(core.Options{
		Source:         catalogSource(cfg.Catalog),
		Presets:        presets,
		Limiter:        core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		FetchTimeout:   cfg.Catalog.FetchTimeout,
		MaxImportBytes: cfg.Import.MaxFileSize,
		Breakpoint:     cfg.Draft.Breakpoint,
		DefaultCosts:   defaultCosts,
	})

	// The first catalog load must succeed; later failures keep the last one.
	if _, err := service.RefreshCatalog(ctx); err != nil {
		slog.Error("initial catalog load failed", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartCatalogRefresher(jobCtx, cfg.Catalog.RefreshInterval)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		limiter := service.Limiter()
		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		cancelJobs()
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}

// openStore opens the configured preset store.
func openStore(ctx context.Context, sc config.StoreConfig) (preset.Store, error) {
	switch sc.Driver {
	case config.DriverPostgres:
		s, err := preset.OpenPostgres(ctx, sc.URL, preset.PostgresPoolConfig{
			MaxConns:        int32(sc.MaxConns),
			MinConns:        int32(sc.MinConns),
			MaxConnLifetime: sc.MaxConnLifetime,
			MaxConnIdleTime: sc.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("connected to postgres preset store")
		return s, nil
	case config.DriverSQLite:
		s, err := preset.OpenSQLite(sc.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("opened sqlite preset store", "path", sc.SQLitePath)
		return s, nil
	case config.DriverMemory, "":
		slog.Warn("using in-memory preset store; presets are lost on restart")
		return preset.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}

// catalogSource picks the file source when a path is configured, else HTTP.
func catalogSource(cc config.CatalogConfig) catalog.Source {
	if cc.Path != "" {
		return catalog.FileSource{Path: cc.Path}
	}
	return catalog.HTTPSource{
		URL:     cc.URL,
		Client:  &http.Client{Timeout: cc.FetchTimeout},
		Timeout: cc.FetchTimeout,
	}
}
