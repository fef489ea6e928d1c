package commands

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/coursemirror/internal/config"
	"git.home.luguber.info/inful/coursemirror/internal/runlog"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("run history is disabled in configuration")
	}

	store, err := runlog.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	runs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return fmt.Errorf("read run log: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No mirror runs recorded yet")
		return nil
	}

	for _, r := range runs {
		rev := r.Revision
		if len(rev) > 8 {
			rev = rev[:8]
		}
		if rev == "" {
			rev = "-"
		}
		fmt.Printf("%s  %-7s  rev=%-8s  modules=%d files=%d bytes=%d  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Status,
			rev,
			len(r.Modules),
			r.Files,
			r.Bytes,
			r.Duration)
		if len(r.Modules) > 0 {
			fmt.Printf("    %s\n", strings.Join(r.Modules, ", "))
		}
	}
	return nil
}
