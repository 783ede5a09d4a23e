// Package prereq verifies that the tools the installer needs are on PATH at
// a sufficient version, installing missing ones through the wrapped package
// manager.
package prereq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/config"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/platform"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/reconcile"
	version "github.com/hashicorp/go-version"
)

var (
	ErrNotFound            = errors.New("not found on PATH")
	ErrNoVersion           = errors.New("no version in --version output")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)+`)

// ExtractVersion returns the first dotted version number in s, or "".
func ExtractVersion(s string) string {
	return versionPattern.FindString(s)
}

// Status is the outcome of checking one requirement.
type Status struct {
	Requirement config.Requirement
	Path        string
	Version     string
	Satisfied   bool
	Err         error
}

// Reason describes why the requirement is unmet.
func (s Status) Reason() string {
	switch {
	case s.Satisfied:
		return "ok"
	case s.Err != nil:
		return s.Err.Error()
	default:
		return fmt.Sprintf("version %s < %s", s.Version, s.Requirement.MinVersion)
	}
}

// UnmetError lists the requirements still unsatisfied after Ensure.
type UnmetError struct {
	Statuses []Status
}

func (e *UnmetError) Error() string {
	parts := make([]string, len(e.Statuses))
	for i, s := range e.Statuses {
		parts[i] = fmt.Sprintf("%s (%s)", s.Requirement.Tool, s.Reason())
	}
	return "unmet prerequisites: " + strings.Join(parts, ", ")
}

// Installer runs a package-manager command and reconciles the environment
// afterwards. *reconcile.Reconciler implements it.
type Installer interface {
	RunWrapped(ctx context.Context, command string, args []string) (*reconcile.Result, error)
}

// Checker checks and installs requirements.
type Checker struct {
	pm        config.PackageManager
	installer Installer
	lookPath  func(file string) (string, error)
	output    func(ctx context.Context, name string, args ...string) ([]byte, error)
	logger    *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(c *Checker) { c.lookPath = fn }
}

// WithOutput replaces the function that runs "<tool> --version".
func WithOutput(fn func(ctx context.Context, name string, args ...string) ([]byte, error)) Option {
	return func(c *Checker) { c.output = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChecker returns a Checker that installs through installer using pm.
// installer may be nil, in which case Ensure only checks.
func NewChecker(pm config.PackageManager, installer Installer, opts ...Option) *Checker {
	c := &Checker{
		pm:        pm,
		installer: installer,
		lookPath:  exec.LookPath,
		output:    combinedOutput,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func combinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Check inspects one requirement. Without a minimum version, presence on
// PATH is enough and the tool is not executed.
func (c *Checker) Check(ctx context.Context, req config.Requirement) Status {
	st := Status{Requirement: req}

	path, err := c.lookPath(req.Tool)
	if err != nil {
		st.Err = ErrNotFound
		return st
	}
	st.Path = path

	if req.MinVersion == "" {
		st.Satisfied = true
		return st
	}

	want, err := version.NewVersion(req.MinVersion)
	if err != nil {
		st.Err = fmt.Errorf("invalid min_version %q: %w", req.MinVersion, err)
		return st
	}

	out, err := c.output(ctx, path, "--version")
	if err != nil {
		st.Err = fmt.Errorf("%s --version: %w", req.Tool, err)
		return st
	}

	st.Version = ExtractVersion(string(out))
	if st.Version == "" {
		st.Err = ErrNoVersion
		return st
	}

	have, err := version.NewVersion(st.Version)
	if err != nil {
		st.Err = fmt.Errorf("parse version %q: %w", st.Version, err)
		return st
	}
	st.Satisfied = have.GreaterThanOrEqual(want)
	return st
}

// Ensure checks every requirement, installs the unsatisfied ones that name
// a package, and checks them again. It returns the final statuses and an
// *UnmetError when any requirement is still unsatisfied.
func (c *Checker) Ensure(ctx context.Context, reqs []config.Requirement) ([]Status, error) {
	statuses := make([]Status, 0, len(reqs))
	var unmet []Status

	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return statuses, err
		}

		st := c.Check(ctx, req)
		if !st.Satisfied && req.Package != "" && c.installer != nil {
			st = c.install(ctx, req, st)
		}

		if st.Satisfied {
			c.logger.Debug("prerequisite satisfied", "tool", req.Tool, "path", st.Path, "version", st.Version)
		} else {
			unmet = append(unmet, st)
		}
		statuses = append(statuses, st)
	}

	if len(unmet) > 0 {
		return statuses, &UnmetError{Statuses: unmet}
	}
	return statuses, nil
}

func (c *Checker) install(ctx context.Context, req config.Requirement, st Status) Status {
	args := c.pm.InstallCommand(req.Package)
	c.logger.Info("installing prerequisite", "tool", req.Tool, "package", req.Package, "reason", st.Reason())

	res, err := c.installer.RunWrapped(ctx, c.pm.Command, args)
	if err != nil {
		st.Err = fmt.Errorf("install %s: %w", req.Package, err)
		return st
	}
	if res != nil && res.Changed() {
		for _, ch := range res.Changes {
			c.logger.Debug("environment updated", "var", ch.Name, "added", ch.Added)
		}
	}

	return c.Check(ctx, req)
}

// CheckPlatform rejects hosts the installer has no payload for.
func CheckPlatform(info *platform.Info) error {
	if info == nil {
		return fmt.Errorf("%w: no platform information", ErrUnsupportedPlatform)
	}
	switch info.OS {
	case "linux", "darwin", "windows":
	default:
		return fmt.Errorf("%w: operating system %q", ErrUnsupportedPlatform, info.OS)
	}
	switch info.Arch {
	case "amd64", "arm64":
	default:
		return fmt.Errorf("%w: architecture %q", ErrUnsupportedPlatform, info.Arch)
	}
	return nil
}
