package mirror

import "time"

// ModuleResult records the outcome of mirroring a single module.
type ModuleResult struct {
	Name     string        `json:"name"`
	Files    int           `json:"files"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration"`
}

// Report summarizes one full mirror run.
type Report struct {
	RunID     string         `json:"run_id"`
	Revision  string         `json:"revision,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
	Modules   []ModuleResult `json:"modules"`
	Files     int            `json:"files"`
	Bytes     int64          `json:"bytes"`
	TreeHash  string         `json:"tree_hash,omitempty"`
}

// ModuleNames returns the mirrored module names in run order.
func (r *Report) ModuleNames() []string {
	names := make([]string, 0, len(r.Modules))
	for _, m := range r.Modules {
		names = append(names, m.Name)
	}
	return names
}
