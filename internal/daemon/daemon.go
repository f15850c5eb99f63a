package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/millrun-io/millrun/internal/api"
	"github.com/millrun-io/millrun/internal/infra/store"
	"github.com/millrun-io/millrun/internal/solver"

	_ "github.com/millrun-io/millrun/internal/infra/metrics" // Register Prometheus metrics
)

// Daemon is the Millrun server runtime. It wires the solver, run history,
// and HTTP API together.
type Daemon struct {
	Config  Config
	History *store.DB
	Server  *api.Server
	cancel  context.CancelFunc
}

// New creates a Daemon from the on-disk configuration.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	opts := solver.DefaultOptions()
	opts.TimeBudget = cfg.Solver.Budget()
	if cfg.Solver.Workers > 0 {
		opts.Workers = cfg.Solver.Workers
	}
	if cfg.Solver.ViolationWeight > 0 {
		opts.ViolationWeight = cfg.Solver.ViolationWeight
	}
	if cfg.Solver.HorizonFactor > 0 {
		opts.HorizonFactor = cfg.Solver.HorizonFactor
	}

	srv := api.NewServer(opts, version)

	d := &Daemon{Config: cfg, Server: srv}

	if cfg.Storage.History {
		db, err := store.Open(cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("open run history: %w", err)
		}
		d.History = db
		srv.SetHistory(db)
	}

	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Solves can run up to the search budget
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[daemon] shutdown: %v", err)
		}
		if d.History != nil {
			_ = d.History.Close()
		}
	}()

	fmt.Printf("Millrun serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.History != nil {
		_ = d.History.Close()
	}
}
