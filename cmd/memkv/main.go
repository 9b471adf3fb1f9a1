// Command memkv runs the cache engine behind an HTTP/JSON API, following
// the config-load -> logger-init -> router-build -> serve-with-graceful-
// shutdown shape of smcdaniel54-LlamaGate/cmd/llamagate/main.go.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/watt-toolkit/memkv/internal/config"
	"github.com/watt-toolkit/memkv/internal/httpapi"
	"github.com/watt-toolkit/memkv/internal/logger"
	"github.com/watt-toolkit/memkv/pkg/memkv"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.LogFile)
	log.Info().
		Uint64("memory_limit", cfg.MemoryLimit).
		Dur("gc_interval", cfg.GCInterval).
		Str("addr", cfg.Addr).
		Bool("debug", cfg.Debug).
		Bool("metrics_disabled", cfg.MetricsDisabled).
		Msg("starting memkv")

	if err := checkAddrAvailability(cfg.Addr); err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("bind address is unavailable")
		fmt.Fprintf(os.Stderr, "bind address is unavailable: %v\n", err)
		logger.Close()
		os.Exit(1)
	}

	engine := memkv.New(memkv.Config{Limit: cfg.MemoryLimit})
	sweeper := memkv.NewSweeper(engine, cfg.GCInterval)

	router := httpapi.NewRouter(engine, httpapi.Options{
		Debug:           cfg.Debug,
		MetricsDisabled: cfg.MetricsDisabled,
		MaxWorkers:      cfg.Workers,
	})
	handler, err := httpapi.Wrap(router)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build HTTP handler")
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		err := sweeper.Run(gctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	group.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("memkv exited with error")
		fmt.Fprintf(os.Stderr, "memkv exited with error: %v\n", err)
		logger.Close()
		os.Exit(1)
	}

	log.Info().Msg("memkv exited gracefully")
	logger.Close()
}

// checkAddrAvailability mirrors LlamaGate's checkPortAvailability: bind and
// immediately release, so a busy address fails fast with a clear
// diagnostic instead of inside the server goroutine.
func checkAddrAvailability(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s is already in use", addr)
	}
	_ = ln.Close()
	return nil
}
