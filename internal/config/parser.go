package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   *slog.Logger
}

// NewParser creates a new config parser with the given platform detector.
// With a nil detector no platform table is injected and unset fields stay
// empty instead of taking platform defaults.
func NewParser(detector platform.Detector, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{detector: detector, logger: logger}
}

// ParseFile reads and parses the config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := p.ParseString(ctx, string(data))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("config loaded", "path", path, "repository", cfg.Repository.URL)
	return cfg, nil
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	base := &Config{}
	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		platform.InjectPlatformTable(L, info)
		base = Default(info)
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L, base)
}

// Default returns the platform default configuration, or an error when the
// platform cannot be detected.
func (p *Parser) Default(ctx context.Context) (*Config, error) {
	if p.detector == nil {
		return nil, errors.New("no platform detector configured")
	}
	info, err := p.detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	return Default(info), nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig overlays the global "bootstrap" table onto base.
func extractConfig(L *lua.LState, base *Config) (*Config, error) {
	root := L.GetGlobal(luaGlobalBootstrap)
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'bootstrap' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	cfg := *base
	table := root.(*lua.LTable)

	if t, ok := table.RawGetString(luaFieldRepository).(*lua.LTable); ok {
		setString(t, luaFieldURL, &cfg.Repository.URL)
		setString(t, luaFieldBranch, &cfg.Repository.Branch)
	}

	if t, ok := table.RawGetString(luaFieldInstaller).(*lua.LTable); ok {
		switch v := t.RawGetString(luaFieldInterpreter).(type) {
		case lua.LString:
			cfg.Installer.Interpreter = []string{string(v)}
		case *lua.LTable:
			cfg.Installer.Interpreter = stringList(v)
		}
		setString(t, luaFieldScript, &cfg.Installer.Script)
		setStringList(t, luaFieldArgs, &cfg.Installer.Args)
	}

	if t, ok := table.RawGetString(luaFieldPackageMgr).(*lua.LTable); ok {
		setString(t, luaFieldCommand, &cfg.PackageManager.Command)
		setString(t, luaFieldTrigger, &cfg.PackageManager.Trigger)
		setStringList(t, luaFieldInstallArgs, &cfg.PackageManager.InstallArgs)
		setStringList(t, luaFieldTrack, &cfg.PackageManager.Track)
		setStringList(t, luaFieldScopes, &cfg.PackageManager.Scopes)
	}

	if t, ok := table.RawGetString(luaFieldRequires).(*lua.LTable); ok {
		cfg.Requires = extractRequires(t)
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return &cfg, nil
}

func setString(t *lua.LTable, field string, dst *string) {
	if v, ok := t.RawGetString(field).(lua.LString); ok {
		*dst = string(v)
	}
}

func setStringList(t *lua.LTable, field string, dst *[]string) {
	if v, ok := t.RawGetString(field).(*lua.LTable); ok {
		*dst = stringList(v)
	}
}

// stringList collects the string elements of t in order. Nil holes left by
// platform conditionals and non-string values are skipped.
func stringList(t *lua.LTable) []string {
	out := []string{}
	t.ForEach(func(_, value lua.LValue) {
		if s, ok := value.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// extractRequires accepts plain tool names and {tool, min_version, package}
// tables.
func extractRequires(t *lua.LTable) []Requirement {
	var reqs []Requirement
	t.ForEach(func(_, value lua.LValue) {
		switch v := value.(type) {
		case lua.LString:
			reqs = append(reqs, Requirement{Tool: string(v)})
		case *lua.LTable:
			var req Requirement
			setString(v, luaFieldTool, &req.Tool)
			setString(v, luaFieldMinVersion, &req.MinVersion)
			setString(v, luaFieldPackage, &req.Package)
			reqs = append(reqs, req)
		}
	})
	return reqs
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}
