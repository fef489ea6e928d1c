package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	History HistoryConfig `yaml:"history"`
	Watch   WatchConfig   `yaml:"watch"`
	Events  EventsConfig  `yaml:"events"`
}

// SourceConfig describes where course modules live and how they are named.
type SourceConfig struct {
	Root         string `yaml:"root"`
	ModulePrefix string `yaml:"module_prefix"`
}

// OutputConfig describes the documentation site content root that receives
// the mirrored module trees.
type OutputConfig struct {
	ContentDir string `yaml:"content_dir"`
}

// MirrorConfig holds the exclusion denylist applied during the recursive copy.
// Entries are matched by base name at any depth.
type MirrorConfig struct {
	Exclude []string `yaml:"exclude"`
}

// HistoryConfig controls the sqlite run log.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// WatchConfig controls continuous mode. Durations are strings in the YAML
// ("2s", "5m") and parsed on access.
type WatchConfig struct {
	Debounce    string `yaml:"debounce"`
	Interval    string `yaml:"interval"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// DebounceDuration parses the debounce window, falling back to the default
// on empty or invalid values.
func (w WatchConfig) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(w.Debounce); err == nil && d > 0 {
		return d
	}
	return 2 * time.Second
}

// IntervalDuration parses the scheduled re-mirror interval. Zero means
// no scheduled runs.
func (w WatchConfig) IntervalDuration() time.Duration {
	if d, err := time.ParseDuration(w.Interval); err == nil && d > 0 {
		return d
	}
	return 0
}

// EventsConfig controls NATS run-completed event publishing in watch mode.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

const exampleConfig = `# coursemirror configuration
source:
  # Repository root containing the Module-NN-Name directories.
  root: .
  module_prefix: Module-

output:
  # Content root of the documentation site (consumed by the static-site generator).
  content_dir: website/content/docs

mirror:
  # Directory names excluded from the mirrored output, matched at any depth.
  # Extend this list when new non-content directories appear in the course tree.
  exclude:
    - node_modules
    - .git

history:
  enabled: true
  path: .coursemirror/runs.db

watch:
  debounce: 2s
  # Set to a positive duration to also re-mirror on a fixed schedule.
  interval: 0s
  # Set to e.g. ":9090" to expose Prometheus metrics in watch mode.
  metrics_addr: ""

events:
  enabled: false
  nats_url: nats://127.0.0.1:4222
  subject: coursemirror.runs
`
