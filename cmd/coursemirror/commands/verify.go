package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/coursemirror/internal/config"
	"git.home.luguber.info/inful/coursemirror/internal/manifest"
	"git.home.luguber.info/inful/coursemirror/internal/mirror"
	"git.home.luguber.info/inful/coursemirror/internal/modules"
)

// VerifyCmd implements the 'verify' command: it compares every source module
// tree with its mirrored counterpart and reports drift.
type VerifyCmd struct {
	Source string `short:"s" help:"Course repository root (overrides config)"`
	Output string `short:"o" help:"Site content root (overrides config)"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	source, output := ResolvePaths(v.Source, v.Output, cfg)
	return RunVerify(cfg, source, output)
}

func RunVerify(cfg *config.Config, source, output string) error {
	mods, err := modules.Discover(source, cfg.Source.ModulePrefix)
	if err != nil {
		return err
	}
	policy := mirror.NewPolicy(cfg.Mirror.Exclude)

	drifted := 0
	for _, mod := range mods {
		srcManifest, err := manifest.BuildTree(mod.Path, policy)
		if err != nil {
			return fmt.Errorf("manifest source %s: %w", mod.Name, err)
		}
		dstManifest, err := manifest.BuildTree(filepath.Join(output, mod.Name), policy)
		if err != nil {
			fmt.Printf("DRIFT %s: destination missing or unreadable (%v)\n", mod.Name, err)
			drifted++
			continue
		}

		if srcManifest.Hash == dstManifest.Hash {
			fmt.Printf("OK    %s (%d files)\n", mod.Name, srcManifest.FileCount())
			continue
		}

		drifted++
		fmt.Printf("DRIFT %s:\n", mod.Name)
		for _, rel := range manifest.Diff(srcManifest, dstManifest) {
			fmt.Printf("        %s\n", rel)
		}
	}

	if drifted > 0 {
		return fmt.Errorf("%d of %d modules out of sync; run 'coursemirror mirror'", drifted, len(mods))
	}
	fmt.Printf("All %d modules in sync\n", len(mods))
	return nil
}
