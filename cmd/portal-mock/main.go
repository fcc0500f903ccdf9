package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	memory "github.com/alorle/iptv-portal-mock/internal/adapter/driven"
	"github.com/alorle/iptv-portal-mock/internal/adapter/driver"
	"github.com/alorle/iptv-portal-mock/internal/application"
	"github.com/alorle/iptv-portal-mock/internal/config"
	"github.com/alorle/iptv-portal-mock/internal/generator"
	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Create structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	stalkerTable, err := cfg.StalkerScenarios()
	if err != nil {
		log.Fatalf("invalid stalker scenarios: %v", err)
	}
	xtreamTable, err := cfg.XtreamScenarios()
	if err != nil {
		log.Fatalf("invalid xtream scenarios: %v", err)
	}

	var servers []*http.Server

	if cfg.Stalker.Enabled {
		service := application.NewPortalService("stalker",
			scenario.NewStalkerResolver(stalkerTable),
			generator.New(generator.Stalker()),
			memory.NewCatalogMemoryStore(),
			logger)

		handler := driver.NewStalkerMux(
			driver.NewStalkerHTTPHandler(service, logger),
			driver.NewStalkerMaintenanceHandler(service, logger),
			logger)

		servers = append(servers, newServer(cfg.Stalker.Addr(), handler))
		logBanner(logger, "stalker", "http://"+cfg.Stalker.Addr()+"/portal.php", "MAC", service.NamedScenarios())
	}

	if cfg.Xtream.Enabled {
		service := application.NewPortalService("xtream",
			scenario.NewXtreamResolver(xtreamTable),
			generator.New(generator.Xtream()),
			memory.NewCatalogMemoryStore(),
			logger)

		api := driver.NewXtreamHTTPHandler(service, driver.XtreamServerInfo{
			PublicURL:     cfg.XtreamPublicURL(),
			Port:          cfg.Xtream.Port,
			StreamStubURL: cfg.Xtream.StreamStubURL,
		}, logger)
		handler := driver.NewXtreamMux(api,
			driver.NewXtreamMaintenanceHandler(service, cfg.Xtream.Port, logger),
			logger)

		servers = append(servers, newServer(cfg.Xtream.Addr(), handler))
		logBanner(logger, "xtream", cfg.XtreamPublicURL()+"/player_api.php", "credentials", service.NamedScenarios())
	}

	if len(servers) == 0 {
		log.Fatal("no server enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, server := range servers {
		g.Go(func() error {
			logger.Info("http server listening", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", server.Addr, err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received, shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, server := range servers {
			if err := server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", server.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("servers stopped")
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// logBanner lists the predefined scenarios so testers know which identities
// to use against each server.
func logBanner(logger *slog.Logger, protocol, endpoint, keyKind string, named []scenario.Named) {
	logger.Info("mock portal ready", "protocol", protocol, "endpoint", endpoint, "scenarios", len(named))
	for _, n := range named {
		logger.Info("scenario available",
			"protocol", protocol,
			strings.ToLower(keyKind), n.Lookup,
			"scenario", n.Scenario.Name,
			"description", n.Scenario.Description)
	}
}
