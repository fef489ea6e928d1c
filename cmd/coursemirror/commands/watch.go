package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/coursemirror/internal/config"
	"git.home.luguber.info/inful/coursemirror/internal/events"
	"git.home.luguber.info/inful/coursemirror/internal/logfields"
	"git.home.luguber.info/inful/coursemirror/internal/metrics"
	"git.home.luguber.info/inful/coursemirror/internal/mirror"
	"git.home.luguber.info/inful/coursemirror/internal/runlog"
	"git.home.luguber.info/inful/coursemirror/internal/watch"
)

// WatchCmd implements the 'watch' command: continuous full re-mirroring
// triggered by source changes and, optionally, a fixed schedule.
type WatchCmd struct {
	Source string `short:"s" help:"Course repository root (overrides config)"`
	Output string `short:"o" help:"Site content root (overrides config)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	source, output := ResolvePaths(w.Source, w.Output, cfg)
	return RunWatch(cfg, source, output)
}

func RunWatch(cfg *config.Config, source, output string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder, metricsSrv := setupMetrics(cfg)
	if metricsSrv != nil {
		defer shutdownMetrics(metricsSrv)
	}

	publisher, err := setupPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	m := NewMirrorer(source, output, cfg, mirror.WithRecorder(recorder))

	watcher, err := watch.NewWatcher(source, cfg.Source.ModulePrefix, cfg.Mirror.Exclude, cfg.Watch.DebounceDuration())
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	scheduled := make(chan struct{}, 1)
	if interval := cfg.Watch.IntervalDuration(); interval > 0 {
		scheduler, err := watch.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		if _, err := scheduler.ScheduleMirror(interval, func() {
			select {
			case scheduled <- struct{}{}:
			default:
			}
		}); err != nil {
			return fmt.Errorf("schedule mirror: %w", err)
		}
		scheduler.Start(ctx)
		defer func() {
			if err := scheduler.Stop(context.Background()); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	// Initial run so the destination reflects the current source immediately.
	runOnce(ctx, cfg, m, publisher)

	slog.Info("Watch mode running, waiting for changes")
	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutdown signal received, stopping watch mode")
			return nil
		case <-watcher.Triggers():
			runOnce(ctx, cfg, m, publisher)
			if err := watcher.Refresh(); err != nil {
				slog.Warn("Failed to refresh watches", logfields.Error(err))
			}
		case <-scheduled:
			runOnce(ctx, cfg, m, publisher)
		}
	}
}

// runOnce performs one full mirror run, records it, and publishes the result.
// Watch mode keeps running on failed runs; the next trigger retries from scratch.
func runOnce(ctx context.Context, cfg *config.Config, m *mirror.Mirrorer, publisher events.Publisher) {
	report, runErr := m.Run(ctx)

	status := runlog.StatusSuccess
	if runErr != nil {
		status = runlog.StatusFailed
		if errors.Is(runErr, context.Canceled) {
			return
		}
		slog.Error("Mirror run failed", logfields.Error(runErr))
	}

	if cfg.History.Enabled {
		if err := appendRunLog(ctx, cfg, m, report, runErr); err != nil {
			slog.Warn("Failed to record run in history", logfields.Error(err))
		}
	}

	publishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.Publish(publishCtx, events.RunCompleted{
		RunID:     report.RunID,
		Revision:  report.Revision,
		StartedAt: report.StartedAt,
		Duration:  report.Duration.String(),
		Modules:   report.ModuleNames(),
		Files:     report.Files,
		Bytes:     report.Bytes,
		TreeHash:  report.TreeHash,
		Status:    status,
	}); err != nil {
		slog.Warn("Failed to publish run event", logfields.Error(err))
	}
}

// setupMetrics wires the Prometheus recorder and exposition endpoint when configured.
func setupMetrics(cfg *config.Config) (metrics.Recorder, *http.Server) {
	if cfg.Watch.MetricsAddr == "" {
		return metrics.NoopRecorder{}, nil
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	srv := &http.Server{
		Addr:              cfg.Watch.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("Serving metrics", slog.String("addr", cfg.Watch.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()

	return recorder, srv
}

func shutdownMetrics(srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Failed to shut down metrics server", logfields.Error(err))
	}
}

// setupPublisher wires the NATS publisher when events are enabled.
func setupPublisher(cfg *config.Config) (events.Publisher, error) {
	if !cfg.Events.Enabled {
		return events.NoopPublisher{}, nil
	}
	publisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
	if err != nil {
		return nil, fmt.Errorf("connect event publisher: %w", err)
	}
	return publisher, nil
}
