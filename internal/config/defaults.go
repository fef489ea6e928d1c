package config

// Fixed defaults matching the documented contract: modules are named
// "Module-NN-Name" at the repository root and only authored content is
// mirrored into the site tree.
const (
	DefaultModulePrefix = "Module-"
	DefaultContentDir   = "website/content/docs"
	DefaultHistoryPath  = ".coursemirror/runs.db"
	DefaultEventSubject = "coursemirror.runs"
)

// DefaultExclude is the baseline denylist: dependency caches and
// version-control metadata. Kept deliberately small; additional
// non-content directories must be listed explicitly in the config.
func DefaultExclude() []string {
	return []string{"node_modules", ".git"}
}

func (c *Config) applyDefaults() {
	if c.Source.Root == "" {
		c.Source.Root = "."
	}
	if c.Source.ModulePrefix == "" {
		c.Source.ModulePrefix = DefaultModulePrefix
	}
	if c.Output.ContentDir == "" {
		c.Output.ContentDir = DefaultContentDir
	}
	if len(c.Mirror.Exclude) == 0 {
		c.Mirror.Exclude = DefaultExclude()
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "2s"
	}
	if c.Events.NATSURL == "" {
		c.Events.NATSURL = "nats://127.0.0.1:4222"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = DefaultEventSubject
	}
}
