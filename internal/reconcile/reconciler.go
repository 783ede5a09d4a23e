package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/envscope"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/pathlist"
)

// Reader is the subset of envscope.Reader used for persisted snapshots.
type Reader interface {
	ReadCombined(name string, scopes []envscope.Scope) string
	Delimiter() string
}

// Config holds the dependencies of a Reconciler.
type Config struct {
	// Reader reads persisted values (required).
	Reader Reader
	// Live is the in-memory environment to widen (required).
	Live envscope.LiveEnv
	// Runner executes the wrapped command (required).
	Runner CommandRunner
	// Trigger is the first argument that marks a mutating call.
	// Defaults to DefaultTrigger.
	Trigger string
	// Tracked lists the variables to reconcile. Defaults to DefaultTracked.
	Tracked []string
	// Scopes is the persisted read order. Defaults to envscope.DefaultScopes.
	Scopes []envscope.Scope
	// Logger receives debug and warning messages. Nil discards them.
	Logger *slog.Logger
}

// Reconciler runs wrapped commands and propagates persisted PATH-like
// changes into the live environment.
type Reconciler struct {
	reader  Reader
	live    envscope.LiveEnv
	runner  CommandRunner
	trigger string
	tracked []string
	scopes  []envscope.Scope
	logger  *slog.Logger
}

// New creates a Reconciler.
func New(cfg Config) (*Reconciler, error) {
	if cfg.Reader == nil {
		return nil, fmt.Errorf("Reader is required")
	}
	if cfg.Live == nil {
		return nil, fmt.Errorf("Live is required")
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("Runner is required")
	}

	r := &Reconciler{
		reader:  cfg.Reader,
		live:    cfg.Live,
		runner:  cfg.Runner,
		trigger: cfg.Trigger,
		tracked: append([]string(nil), cfg.Tracked...),
		scopes:  append([]envscope.Scope(nil), cfg.Scopes...),
		logger:  cfg.Logger,
	}
	if r.trigger == "" {
		r.trigger = DefaultTrigger
	}
	if len(r.tracked) == 0 {
		r.tracked = append(r.tracked, DefaultTracked...)
	}
	if len(r.scopes) == 0 {
		r.scopes = append(r.scopes, envscope.DefaultScopes...)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r, nil
}

// Delimiter returns the list separator of the tracked variables.
func (r *Reconciler) Delimiter() string {
	return r.reader.Delimiter()
}

// IsMutating reports whether args start with the trigger.
// The match is exact: "Install" or "install-deps" do not count.
func (r *Reconciler) IsMutating(args []string) bool {
	return len(args) > 0 && args[0] == r.trigger
}

// RunWrapped runs command with args, passed through unmodified.
//
// If the command fails, its error is returned and nothing is reconciled.
// If it succeeds and was a mutating call, newly persisted entries of every
// tracked variable are appended to the live environment. Reconciliation
// failures never fail the call; they are reported in Result.ReconcileErr.
func (r *Reconciler) RunWrapped(ctx context.Context, command string, args []string) (*Result, error) {
	result := &Result{Mutating: r.IsMutating(args)}

	var before []Snapshot
	if result.Mutating {
		before = r.capture(PhaseBefore)
		r.logger.Debug("captured persisted snapshot", "phase", PhaseBefore, "vars", len(before))
	}

	r.logger.Debug("running wrapped command", "command", command, "args", args)
	if err := r.runner.Run(ctx, command, args); err != nil {
		return result, err
	}

	if len(before) == 0 {
		return result, nil
	}

	changes, err := r.reconcile(before)
	if err != nil {
		r.logger.Warn("environment reconciliation skipped", "error", err)
		result.ReconcileErr = err
		return result, nil
	}
	result.Changes = changes
	for _, c := range changes {
		r.logger.Info("added entries to live environment", "var", c.Name, "entries", []string(c.Added))
	}
	return result, nil
}

// Pending returns, for every tracked variable, the persisted entries absent
// from the live environment. Nothing is run and nothing is applied; the
// result describes what a fresh shell would see that this process does not.
func (r *Reconciler) Pending() []Change {
	delim := r.reader.Delimiter()
	var pending []Change
	for _, s := range r.capture(PhaseAfter) {
		live := r.live.Get(s.Name)
		added := pathlist.Additions(s.Entries(delim), nil, pathlist.Split(live, delim))
		if len(added) == 0 {
			continue
		}
		pending = append(pending, Change{
			Name:     s.Name,
			Added:    added,
			OldValue: live,
			NewValue: pathlist.Append(live, added, delim),
		})
	}
	return pending
}

// capture reads the persisted value of every tracked variable.
func (r *Reconciler) capture(phase Phase) []Snapshot {
	snaps := make([]Snapshot, 0, len(r.tracked))
	for _, name := range r.tracked {
		snaps = append(snaps, Snapshot{
			Name:   name,
			Phase:  phase,
			Source: SourcePersisted,
			Raw:    r.reader.ReadCombined(name, r.scopes),
		})
	}
	return snaps
}

// reconcile computes every merged value first and only then applies them, so
// a failure during computation leaves the live environment untouched. A
// failure or panic while applying restores the variables already set.
func (r *Reconciler) reconcile(before []Snapshot) (changes []Change, err error) {
	var applied []Change
	defer func() {
		if p := recover(); p != nil {
			r.rollback(applied)
			changes = nil
			err = fmt.Errorf("reconcile panicked: %v", p)
		}
	}()

	delim := r.reader.Delimiter()
	after := r.capture(PhaseAfter)

	var planned []Change
	for i, b := range before {
		live := Snapshot{Name: b.Name, Phase: PhaseAfter, Source: SourceLive, Raw: r.live.Get(b.Name)}
		added := pathlist.Additions(after[i].Entries(delim), b.Entries(delim), live.Entries(delim))
		if len(added) == 0 {
			continue
		}
		planned = append(planned, Change{
			Name:     b.Name,
			Added:    added,
			OldValue: live.Raw,
			NewValue: pathlist.Append(live.Raw, added, delim),
		})
	}

	for i, c := range planned {
		if err := r.live.Set(c.Name, c.NewValue); err != nil {
			r.rollback(applied)
			return nil, fmt.Errorf("set %s: %w", c.Name, err)
		}
		applied = planned[:i+1]
	}
	return planned, nil
}

// rollback restores the live values replaced by applied, best effort.
func (r *Reconciler) rollback(applied []Change) {
	for i := len(applied) - 1; i >= 0; i-- {
		if err := r.restore(applied[i]); err != nil {
			r.logger.Warn("restore live variable failed", "var", applied[i].Name, "error", err)
		}
	}
}

// restore resets one variable, reporting a panicking LiveEnv as an error.
func (r *Reconciler) restore(c Change) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return r.live.Set(c.Name, c.OldValue)
}
