package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/envscope"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/platform"
	version "github.com/hashicorp/go-version"
)

// Config is the complete bootstrap configuration.
type Config struct {
	Repository     Repository     `json:"repository"`
	Installer      Installer      `json:"installer"`
	PackageManager PackageManager `json:"package_manager"`
	Requires       []Requirement  `json:"requires,omitempty"`
}

// Repository identifies the installer repository to clone.
type Repository struct {
	URL    string `json:"url"`
	Branch string `json:"branch,omitempty"`
}

// Installer describes how the cloned installer is started:
// interpreter... script args...
type Installer struct {
	Interpreter []string `json:"interpreter"`
	Script      string   `json:"script"`
	Args        []string `json:"args,omitempty"`
}

// Command returns the argv that runs the installer from the clone root.
func (i Installer) Command() (name string, args []string) {
	argv := make([]string, 0, len(i.Interpreter)+1+len(i.Args))
	argv = append(argv, i.Interpreter...)
	argv = append(argv, i.Script)
	argv = append(argv, i.Args...)
	return argv[0], argv[1:]
}

// PackageManager configures the wrapped package-management command.
type PackageManager struct {
	Command     string   `json:"command"`
	Trigger     string   `json:"trigger"`
	InstallArgs []string `json:"install_args,omitempty"`
	Track       []string `json:"track"`
	Scopes      []string `json:"scopes"`
}

// ParsedScopes converts the configured scope names.
func (p PackageManager) ParsedScopes() ([]envscope.Scope, error) {
	scopes := make([]envscope.Scope, 0, len(p.Scopes))
	for _, name := range p.Scopes {
		s, err := envscope.ParseScope(name)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}

// InstallCommand returns the args that install pkg: trigger, install args,
// then the package.
func (p PackageManager) InstallCommand(pkg string) []string {
	args := make([]string, 0, len(p.InstallArgs)+2)
	args = append(args, p.Trigger)
	args = append(args, p.InstallArgs...)
	return append(args, pkg)
}

// Requirement is a tool the installer needs on PATH.
type Requirement struct {
	Tool       string `json:"tool"`
	MinVersion string `json:"min_version,omitempty"`
	Package    string `json:"package,omitempty"`
}

// Default returns the built-in configuration for the given host.
func Default(info *platform.Info) *Config {
	pm := info.PackageManager()

	gitPackage := "git"
	if info.IsWindows() {
		gitPackage = "Git.Git"
	}

	return &Config{
		Repository: Repository{
			URL:    DefaultRepositoryURL,
			Branch: DefaultBranch,
		},
		Installer: Installer{
			Interpreter: info.Interpreter(),
			Script:      info.InstallerScript(),
		},
		PackageManager: PackageManager{
			Command:     pm,
			Trigger:     "install",
			InstallArgs: defaultInstallArgs(pm),
			Track:       info.TrackedVariables(),
			Scopes:      []string{envscope.ScopeMachine.String(), envscope.ScopeUser.String()},
		},
		Requires: []Requirement{
			{Tool: "git", MinVersion: "2.30", Package: gitPackage},
		},
	}
}

func defaultInstallArgs(pm string) []string {
	switch pm {
	case "winget":
		return []string{"--exact", "--silent", "--accept-package-agreements", "--accept-source-agreements", "--id"}
	case "apt-get", "dnf", "zypper":
		return []string{"-y"}
	case "pacman":
		return []string{"--noconfirm"}
	}
	return nil
}

// ApplyEnv applies environment overrides using lookup (os.LookupEnv in
// production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if branch, ok := lookup(EnvBranch); ok && branch != "" {
		c.Repository.Branch = branch
	}
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if err := validateRepositoryURL(c.Repository.URL); err != nil {
		return &ValidationError{Field: "repository.url", Message: err.Error()}
	}
	if strings.ContainsAny(c.Repository.Branch, " \t\n") {
		return &ValidationError{Field: "repository.branch", Message: fmt.Sprintf("invalid branch name %q", c.Repository.Branch)}
	}

	if len(c.Installer.Interpreter) == 0 || c.Installer.Interpreter[0] == "" {
		return &ValidationError{Field: "installer.interpreter", Message: "interpreter cannot be empty"}
	}
	if err := validateScriptPath(c.Installer.Script); err != nil {
		return &ValidationError{Field: "installer.script", Message: err.Error()}
	}

	pm := c.PackageManager
	if pm.Command == "" {
		return &ValidationError{Field: "package_manager.command", Message: "command cannot be empty"}
	}
	if pm.Trigger == "" {
		return &ValidationError{Field: "package_manager.trigger", Message: "trigger cannot be empty"}
	}
	for i, name := range pm.Track {
		if name == "" || strings.ContainsAny(name, "= \t") {
			return &ValidationError{Field: fmt.Sprintf("package_manager.track[%d]", i), Message: fmt.Sprintf("invalid variable name %q", name)}
		}
	}
	if _, err := pm.ParsedScopes(); err != nil {
		return &ValidationError{Field: "package_manager.scopes", Message: err.Error()}
	}

	if len(c.Requires) > MaxRequirements {
		return &ValidationError{
			Field:   "requires",
			Message: fmt.Sprintf("too many requirements (%d), maximum is %d", len(c.Requires), MaxRequirements),
		}
	}
	for i, req := range c.Requires {
		if req.Tool == "" {
			return &ValidationError{Field: fmt.Sprintf("requires[%d].tool", i), Message: "tool cannot be empty"}
		}
		if req.MinVersion == "" {
			continue
		}
		if _, err := version.NewVersion(req.MinVersion); err != nil {
			return &ValidationError{Field: fmt.Sprintf("requires[%d].min_version", i), Message: err.Error()}
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// validateRepositoryURL accepts https, http, ssh and file URLs plus the
// scp-like SSH form git@host:path.
func validateRepositoryURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("repository URL cannot be empty")
	}

	if strings.HasPrefix(raw, "git@") {
		parts := strings.Split(raw, ":")
		if len(parts) != 2 || parts[1] == "" {
			return fmt.Errorf("invalid SSH git URL format")
		}
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid git URL: %w", err)
	}

	switch u.Scheme {
	case "https", "http", "ssh", "file":
		return nil
	default:
		return fmt.Errorf("git URL must use https, http, ssh or file scheme (got: %q)", u.Scheme)
	}
}

// validateScriptPath requires a relative path that stays inside the clone.
func validateScriptPath(script string) error {
	if script == "" {
		return fmt.Errorf("script cannot be empty")
	}
	if filepath.IsAbs(script) || strings.HasPrefix(script, "/") || strings.HasPrefix(script, `\`) {
		return fmt.Errorf("script must be relative to the repository root: %s", script)
	}
	cleaned := filepath.ToSlash(filepath.Clean(script))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("path traversal not allowed: %s", script)
	}
	return nil
}
