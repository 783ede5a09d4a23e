package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/shell"
	"github.com/spf13/pflag"
)

// runEnv handles `zerb-bootstrap env [--shell name]`: it prints a script that
// adds persisted PATH-like entries missing from the calling shell.
func runEnv(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("env", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	shellName := fs.StringP("shell", "s", "", "shell syntax to emit: bash, zsh, fish, powershell (default: detected)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx := context.Background()
	logger := newLogger(stderr)

	target := shell.ParseShell(*shellName)
	if *shellName == "" {
		detected := shell.DetectShell(ctx)
		logger.Debug("shell detected", "shell", detected.Shell, "method", detected.Method)
		target = detected.Shell
	}
	if err := shell.ValidateShell(target); err != nil {
		return err
	}

	cfg, _, err := loadConfig(ctx, "", logger)
	if err != nil {
		return err
	}
	rec, err := newReconciler(cfg, logger)
	if err != nil {
		return err
	}

	script, err := shell.Render(target, rec.Pending(), rec.Delimiter())
	if err != nil {
		return err
	}
	if script == "" {
		logger.Debug("live environment already current")
		return nil
	}
	_, err = fmt.Fprint(stdout, script)
	return err
}
