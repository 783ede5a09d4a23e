package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/config"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/envscope"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/platform"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/reconcile"
	"github.com/adrg/xdg"
)

const appName = "zerb-bootstrap"

// stateDir holds the lock file.
func stateDir() string {
	if dir := os.Getenv("ZERB_BOOTSTRAP_STATE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, appName)
}

// cacheDir holds temporary clones.
func cacheDir() string {
	if dir := os.Getenv("ZERB_BOOTSTRAP_CACHE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.CacheHome, appName)
}

// configPath returns the config file location and whether it was chosen
// explicitly (flag or environment) rather than defaulted.
func configPath(flagValue string) (string, bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if p := os.Getenv(config.EnvConfigPath); p != "" {
		return p, true
	}
	return filepath.Join(xdg.ConfigHome, appName, "bootstrap.lua"), false
}

// loadConfig detects the platform and loads the config. A missing default
// config file falls back to the built-in defaults; a missing explicit one
// is an error.
func loadConfig(ctx context.Context, flagValue string, logger *slog.Logger) (*config.Config, *platform.Info, error) {
	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("detect platform: %w", err)
	}
	logger.Debug("platform detected", "os", info.OS, "arch", info.Arch, "distro", info.Distro)

	parser := config.NewParser(platform.StaticDetector{Info: info}, logger)
	path, explicit := configPath(flagValue)

	cfg, err := parser.ParseFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		logger.Debug("no config file, using defaults", "path", path)
		if cfg, err = parser.Default(ctx); err == nil {
			err = cfg.Validate()
		}
	}
	if err != nil {
		return nil, nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, info, nil
}

// newReconciler wires the package-manager wrapper to the host's persisted
// environment and this process's live environment.
func newReconciler(cfg *config.Config, logger *slog.Logger) (*reconcile.Reconciler, error) {
	scopes, err := cfg.PackageManager.ParsedScopes()
	if err != nil {
		return nil, err
	}
	return reconcile.New(reconcile.Config{
		Reader:  envscope.NewReader(envscope.NewDefaultStore(), envscope.WithLogger(logger)),
		Live:    envscope.OSEnv{},
		Runner:  reconcile.NewExecRunner(),
		Trigger: cfg.PackageManager.Trigger,
		Tracked: cfg.PackageManager.Track,
		Scopes:  scopes,
		Logger:  logger,
	})
}
