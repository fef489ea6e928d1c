package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/coursemirror/internal/config"
	"git.home.luguber.info/inful/coursemirror/internal/gitinfo"
	"git.home.luguber.info/inful/coursemirror/internal/mirror"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"coursemirror.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Mirror   MirrorCmd   `cmd:"" help:"Mirror course module directories into the site content root"`
	Discover DiscoverCmd `cmd:"" help:"List course modules without mirroring"`
	Verify   VerifyCmd   `cmd:"" help:"Verify the mirrored content matches the source modules"`
	History  HistoryCmd  `cmd:"" help:"Show recent mirror runs from the run log"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Continuously re-mirror on source changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel resolves the log level from the verbose flag and the
// COURSEMIRROR_LOG_LEVEL environment variable. The flag wins.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("COURSEMIRROR_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ResolvePaths determines source root and content dir with CLI flags taking
// precedence over config values.
func ResolvePaths(cliSource, cliOutput string, cfg *config.Config) (string, string) {
	source := cfg.Source.Root
	if cliSource != "" {
		source = cliSource
	}
	output := cfg.Output.ContentDir
	if cliOutput != "" {
		output = cliOutput
	}
	return source, output
}

// NewMirrorer builds a Mirrorer from resolved paths and config, wiring
// best-effort git provenance.
func NewMirrorer(source, output string, cfg *config.Config, opts ...mirror.Option) *mirror.Mirrorer {
	opts = append(opts, mirror.WithRevisionFunc(func() string {
		rev, err := gitinfo.HeadRevision(source)
		if err != nil {
			slog.Debug("No git provenance for source root", "error", err)
			return ""
		}
		return rev
	}))
	return mirror.New(source, output, cfg.Source.ModulePrefix, cfg.Mirror.Exclude, opts...)
}
