package commands

import (
	"fmt"

	"git.home.luguber.info/inful/coursemirror/internal/config"
	"git.home.luguber.info/inful/coursemirror/internal/modules"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Source string `short:"s" help:"Course repository root (overrides config)"`
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	source, _ := ResolvePaths(d.Source, "", cfg)

	mods, err := modules.Discover(source, cfg.Source.ModulePrefix)
	if err != nil {
		return err
	}

	fmt.Printf("Discovered %d course modules under %s\n", len(mods), source)
	for _, m := range mods {
		fmt.Printf("  %s\n", m.Name)
	}
	return nil
}
