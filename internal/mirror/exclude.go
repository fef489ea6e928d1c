package mirror

import "io/fs"

// Decision is the outcome of the exclusion policy for a single directory entry.
type Decision int

const (
	// DecisionSkip excludes the entry entirely: no placeholder, no recursion.
	DecisionSkip Decision = iota
	// DecisionRecurse descends into a directory.
	DecisionRecurse
	// DecisionCopy copies a regular file's bytes.
	DecisionCopy
)

func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionRecurse:
		return "recurse"
	case DecisionCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Policy decides which entries of a source tree are mirrored. Names in the
// denylist are matched by base name at any depth. Symbolic links are never
// mirrored: following them could leak host-specific or circular paths into
// the output, and recreating them would break the "destination contains only
// real files and directories" invariant.
type Policy struct {
	exclude map[string]struct{}
}

// NewPolicy creates a Policy from a denylist of entry names.
func NewPolicy(exclude []string) *Policy {
	set := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		set[name] = struct{}{}
	}
	return &Policy{exclude: set}
}

// Decide returns the mirroring decision for one directory entry.
// Entries that are neither regular files, directories, nor symlinks
// (device nodes etc.) are skipped: skipping is the only decision that
// cannot corrupt the destination.
func (p *Policy) Decide(entry fs.DirEntry) Decision {
	if _, excluded := p.exclude[entry.Name()]; excluded {
		return DecisionSkip
	}
	if entry.Type()&fs.ModeSymlink != 0 {
		return DecisionSkip
	}
	if entry.IsDir() {
		return DecisionRecurse
	}
	if entry.Type().IsRegular() {
		return DecisionCopy
	}
	return DecisionSkip
}

// Excluded reports whether a bare name is on the denylist. Used by the
// manifest walker so verify applies the same policy as the copy.
func (p *Policy) Excluded(name string) bool {
	_, ok := p.exclude[name]
	return ok
}
