// Package bootstrap runs the end-to-end installer bootstrap: lock, check
// prerequisites, shallow-clone the installer repository, run its entry point
// and clean up.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/config"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/git"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/lock"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/platform"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/prereq"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/reconcile"
)

var ErrDestNotEmpty = errors.New("destination exists and is not empty")

// PrereqChecker ensures requirements are met. *prereq.Checker implements it.
type PrereqChecker interface {
	Ensure(ctx context.Context, reqs []config.Requirement) ([]prereq.Status, error)
}

// Options are the per-run settings from the command line.
type Options struct {
	// Branch overrides the configured branch when set.
	Branch string
	// Dest is the clone directory. Empty means a fresh directory under the
	// cache directory.
	Dest string
	// Keep leaves the clone in place after the run.
	Keep bool
}

// Report summarizes a finished run.
type Report struct {
	Dest   string
	Branch string
	Commit string
	Kept   bool
}

// Runner holds the dependencies of a bootstrap run.
type Runner struct {
	Config   *config.Config
	Platform *platform.Info
	Checker  PrereqChecker
	// NewGit returns the git client for a clone directory.
	NewGit func(path string) git.Git
	// NewExec returns the runner that starts the installer in dir.
	NewExec  func(dir string) reconcile.CommandRunner
	StateDir string
	CacheDir string
	// Out receives progress lines. Nil discards them.
	Out    io.Writer
	Logger *slog.Logger
}

// Run performs the bootstrap. The lock is always released and the clone is
// removed unless opts.Keep is set, whether or not the run succeeds.
func (r *Runner) Run(ctx context.Context, opts Options) (report *Report, err error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := prereq.CheckPlatform(r.Platform); err != nil {
		return nil, err
	}

	l, err := lock.Acquire(ctx, r.StateDir)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	defer func() {
		if relErr := l.Release(); relErr != nil {
			logger.Warn("release lock failed", "path", l.Path(), "error", relErr)
		}
	}()

	if _, err := r.Checker.Ensure(ctx, r.Config.Requires); err != nil {
		return nil, fmt.Errorf("prerequisites: %w", err)
	}
	fmt.Fprintln(out, "✓ Prerequisites satisfied")

	dest, preexisting, err := r.prepareDest(opts.Dest)
	if err != nil {
		return nil, err
	}
	report = &Report{Dest: dest, Kept: opts.Keep}
	defer func() {
		if opts.Keep {
			fmt.Fprintf(out, "  Clone kept at %s\n", dest)
			return
		}
		if rmErr := removeClone(dest, preexisting); rmErr != nil {
			logger.Warn("remove clone failed", "path", dest, "error", rmErr)
			if err == nil {
				err = fmt.Errorf("remove clone: %w", rmErr)
			}
		}
	}()

	report.Branch = r.Config.Repository.Branch
	if opts.Branch != "" {
		report.Branch = opts.Branch
	}

	repo := r.NewGit(dest)
	logger.Debug("cloning installer", "url", r.Config.Repository.URL, "branch", report.Branch, "dest", dest)
	if err := repo.ShallowClone(ctx, r.Config.Repository.URL, report.Branch); err != nil {
		return report, err
	}
	if commit, err := repo.GetHeadCommit(ctx); err == nil {
		report.Commit = commit
	}
	fmt.Fprintf(out, "✓ Cloned %s (%s) %s\n", r.Config.Repository.URL, report.Branch, shortHash(report.Commit))

	script := filepath.Join(dest, filepath.FromSlash(r.Config.Installer.Script))
	if _, err := os.Stat(script); err != nil {
		return report, fmt.Errorf("installer script %s: %w", r.Config.Installer.Script, err)
	}

	name, args := r.Config.Installer.Command()
	logger.Debug("running installer", "command", name, "args", args, "dir", dest)
	if err := r.NewExec(dest).Run(ctx, name, args); err != nil {
		return report, fmt.Errorf("installer: %w", err)
	}
	fmt.Fprintln(out, "✓ Installer finished")

	return report, nil
}

// prepareDest returns the clone directory and whether it existed before.
func (r *Runner) prepareDest(dest string) (string, bool, error) {
	if dest == "" {
		if err := os.MkdirAll(r.CacheDir, 0o755); err != nil {
			return "", false, fmt.Errorf("create cache directory: %w", err)
		}
		dir, err := os.MkdirTemp(r.CacheDir, "installer-")
		if err != nil {
			return "", false, fmt.Errorf("create clone directory: %w", err)
		}
		return dir, false, nil
	}

	entries, err := os.ReadDir(dest)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return "", false, fmt.Errorf("create clone directory: %w", err)
		}
		return dest, false, nil
	case err != nil:
		return "", false, fmt.Errorf("inspect destination: %w", err)
	case len(entries) > 0:
		return "", false, fmt.Errorf("%w: %s", ErrDestNotEmpty, dest)
	}
	return dest, true, nil
}

// removeClone deletes the clone. A directory the user supplied is emptied
// rather than removed.
func removeClone(dest string, preexisting bool) error {
	if !preexisting {
		return os.RemoveAll(dest)
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dest, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
