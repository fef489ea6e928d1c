// Package mirror implements the content mirror: it replaces each module's
// destination entry and recreates it as a faithful recursive copy of the
// source module directory, excluding denylisted names and symbolic links.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/coursemirror/internal/logfields"
	"git.home.luguber.info/inful/coursemirror/internal/metrics"
	"git.home.luguber.info/inful/coursemirror/internal/modules"
)

// Mirrorer performs full mirror runs from a source root into a destination
// content root. Runs are strictly sequential: modules one at a time, entries
// one at a time. A run interrupted mid-way leaves partial state that the
// next run removes and recopies.
type Mirrorer struct {
	sourceRoot   string
	contentDir   string
	modulePrefix string
	policy       *Policy
	recorder     metrics.Recorder
	revision     func() string
}

// Option configures a Mirrorer.
type Option func(*Mirrorer)

// WithRecorder injects a metrics recorder (defaults to NoopRecorder).
func WithRecorder(r metrics.Recorder) Option {
	return func(m *Mirrorer) { m.recorder = r }
}

// WithRevisionFunc injects a provenance resolver whose result is attached to
// run reports. An empty result means no provenance.
func WithRevisionFunc(f func() string) Option {
	return func(m *Mirrorer) { m.revision = f }
}

// New creates a Mirrorer for the given source root, destination content
// directory, module name prefix, and exclusion denylist.
func New(sourceRoot, contentDir, modulePrefix string, exclude []string, opts ...Option) *Mirrorer {
	m := &Mirrorer{
		sourceRoot:   sourceRoot,
		contentDir:   contentDir,
		modulePrefix: modulePrefix,
		policy:       NewPolicy(exclude),
		recorder:     metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy exposes the exclusion policy so manifest building can share it.
func (m *Mirrorer) Policy() *Policy {
	return m.policy
}

// ContentDir returns the destination content root.
func (m *Mirrorer) ContentDir() string {
	return m.contentDir
}

// Run executes one full mirror: discovery, then per module stale removal and
// recursive copy, in sorted module order. Every stage propagates errors
// immediately; a failed run aborts and the caller is expected to rerun after
// fixing the environment.
func (m *Mirrorer) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	if m.revision != nil {
		report.Revision = m.revision()
	}

	slog.Info("Starting mirror run",
		logfields.RunID(report.RunID),
		logfields.Source(m.sourceRoot),
		logfields.Dest(m.contentDir))

	mods, err := modules.Discover(m.sourceRoot, m.modulePrefix)
	if err != nil {
		m.finish(report, metrics.OutcomeFailed)
		return report, err
	}

	for _, mod := range mods {
		select {
		case <-ctx.Done():
			m.finish(report, metrics.OutcomeCanceled)
			return report, ctx.Err()
		default:
		}

		result, err := m.mirrorModule(ctx, mod)
		if err != nil {
			outcome := metrics.OutcomeFailed
			if ctx.Err() != nil {
				outcome = metrics.OutcomeCanceled
			}
			m.finish(report, outcome)
			return report, fmt.Errorf("mirror module %s: %w", mod.Name, err)
		}

		report.Modules = append(report.Modules, result)
		report.Files += result.Files
		report.Bytes += result.Bytes

		m.recorder.ObserveModuleDuration(mod.Name, result.Duration)
		m.recorder.AddFilesCopied(result.Files)
		m.recorder.AddBytesCopied(result.Bytes)
	}

	m.finish(report, metrics.OutcomeSuccess)

	slog.Info("Mirror run completed",
		logfields.RunID(report.RunID),
		slog.Int("modules", len(report.Modules)),
		logfields.Files(report.Files),
		logfields.Bytes(report.Bytes),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	return report, nil
}

// mirrorModule replaces one module's destination entry with a fresh copy.
func (m *Mirrorer) mirrorModule(ctx context.Context, mod modules.Module) (ModuleResult, error) {
	start := time.Now()
	dest := filepath.Join(m.contentDir, mod.Name)

	if err := RemoveStale(dest); err != nil {
		return ModuleResult{Name: mod.Name}, err
	}

	stats, err := CopyTree(ctx, m.policy, mod.Path, dest)
	if err != nil {
		return ModuleResult{Name: mod.Name}, err
	}

	result := ModuleResult{
		Name:     mod.Name,
		Files:    stats.Files,
		Bytes:    stats.Bytes,
		Duration: time.Since(start),
	}

	slog.Debug("Mirrored module",
		logfields.Module(mod.Name),
		logfields.Files(result.Files),
		logfields.Bytes(result.Bytes))

	return result, nil
}

func (m *Mirrorer) finish(report *Report, outcome metrics.OutcomeLabel) {
	report.Duration = time.Since(report.StartedAt)
	m.recorder.ObserveRunDuration(report.Duration)
	m.recorder.IncRunOutcome(outcome)
}
