package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/config"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/platform"
	"github.com/spf13/pflag"
)

// runConfig handles `zerb-bootstrap config <init|show>`.
func runConfig(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("config subcommand requires an action: init or show")
	}

	switch args[0] {
	case "init":
		return runConfigInit(args[1:], stdout)
	case "show":
		return runConfigShow(args[1:], stdout, stderr)
	default:
		return fmt.Errorf("unknown config action: %s", args[0])
	}
}

// runConfigInit writes the platform defaults as a config file.
func runConfigInit(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("config init", pflag.ContinueOnError)
	fs.SetOutput(stdout)
	force := fs.BoolP("force", "f", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	path, _ := configPath(fs.Arg(0))

	info, err := platform.NewDetector().Detect(context.Background())
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}
	return writeDefaultConfig(stdout, path, info, *force)
}

func writeDefaultConfig(stdout io.Writer, path string, info *platform.Info, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	content := config.NewGenerator().Generate(config.Default(info))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Wrote %s\n", path)
	return nil
}

// runConfigShow prints the effective config after defaults and overrides.
func runConfigShow(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("config show", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.StringP("config", "c", "", "config file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, _, err := loadConfig(context.Background(), *file, newLogger(stderr))
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, config.NewGenerator().Generate(cfg))
	return nil
}
