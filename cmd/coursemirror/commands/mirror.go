package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/coursemirror/internal/config"
	"git.home.luguber.info/inful/coursemirror/internal/logfields"
	"git.home.luguber.info/inful/coursemirror/internal/manifest"
	"git.home.luguber.info/inful/coursemirror/internal/mirror"
	"git.home.luguber.info/inful/coursemirror/internal/runlog"
)

// MirrorCmd implements the 'mirror' command.
type MirrorCmd struct {
	Source string `short:"s" help:"Course repository root (overrides config)"`
	Output string `short:"o" help:"Site content root receiving the mirrored modules (overrides config)"`
}

func (m *MirrorCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	source, output := ResolvePaths(m.Source, m.Output, cfg)
	return RunMirror(context.Background(), cfg, source, output)
}

// RunMirror executes one full mirror run and records it in the run log.
func RunMirror(ctx context.Context, cfg *config.Config, source, output string) error {
	// Provide friendly user-facing messages on stdout for CLI integration tests.
	fmt.Println("Starting course content mirror")

	m := NewMirrorer(source, output, cfg)

	report, runErr := m.Run(ctx)

	// Record the run even on failure so history shows the abort.
	if cfg.History.Enabled {
		if err := appendRunLog(ctx, cfg, m, report, runErr); err != nil {
			slog.Warn("Failed to record run in history", logfields.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("Mirrored %d modules (%d files, %d bytes) into %s\n",
		len(report.Modules), report.Files, report.Bytes, output)
	return nil
}

// appendRunLog computes the destination tree hash and persists the run record.
func appendRunLog(ctx context.Context, cfg *config.Config, m *mirror.Mirrorer, report *mirror.Report, runErr error) error {
	status := runlog.StatusSuccess
	if runErr != nil {
		status = runlog.StatusFailed
	} else {
		if tree, err := manifest.BuildTree(m.ContentDir(), m.Policy()); err == nil {
			report.TreeHash = tree.Hash
		} else {
			slog.Debug("Skipping tree hash for run record", logfields.Error(err))
		}
	}

	store, err := runlog.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	return store.Append(ctx, runlog.Run{
		RunID:     report.RunID,
		StartedAt: report.StartedAt,
		Duration:  report.Duration,
		Revision:  report.Revision,
		Modules:   report.ModuleNames(),
		Files:     report.Files,
		Bytes:     report.Bytes,
		TreeHash:  report.TreeHash,
		Status:    status,
	})
}
