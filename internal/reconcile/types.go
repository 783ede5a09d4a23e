package reconcile

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/pathlist"
)

// DefaultTrigger is the first argument that marks an invocation as mutating.
const DefaultTrigger = "install"

// DefaultTracked lists the variables reconciled when none are configured.
var DefaultTracked = []string{"PATH", "PSModulePath"}

// Phase tells whether a snapshot was taken before or after the command.
type Phase string

const (
	// PhaseBefore is captured before the wrapped command runs.
	PhaseBefore Phase = "before"
	// PhaseAfter is captured after the wrapped command exits successfully.
	PhaseAfter Phase = "after"
)

// Source tells where a snapshot's value came from.
type Source string

const (
	// SourcePersisted is read from the persisted store across scopes.
	SourcePersisted Source = "persisted"
	// SourceLive is read from the running process's environment.
	SourceLive Source = "live"
)

// Snapshot is the value of one variable captured at one instant.
type Snapshot struct {
	Name   string
	Phase  Phase
	Source Source
	Raw    string
}

// Entries splits the snapshot on delim.
func (s Snapshot) Entries(delim string) pathlist.List {
	return pathlist.Split(s.Raw, delim)
}

// Change records the entries appended to one live variable.
type Change struct {
	Name     string
	Added    pathlist.List
	OldValue string
	NewValue string
}

// Result summarizes a wrapped invocation.
type Result struct {
	// Mutating is true when the first argument matched the trigger.
	Mutating bool
	// Changes lists the live variables that were widened, in tracked order.
	Changes []Change
	// ReconcileErr holds a suppressed reconciliation failure, if any.
	ReconcileErr error
}

// Changed reports whether any live variable was modified.
func (r *Result) Changed() bool {
	return r != nil && len(r.Changes) > 0
}

// CommandError reports a wrapped command that failed to start or exited
// non-zero.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int // -1 when the command did not run to completion
	Err      error
}

func (e *CommandError) Error() string {
	cmdline := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: exit status %d", cmdline, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", cmdline, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
