package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/shell"
)

var errNoPkgArgs = errors.New("pkg requires arguments for the package manager, e.g. pkg install <name>")

// runPkg handles `zerb-bootstrap pkg <args...>`: the configured package
// manager runs with args verbatim and PATH-like variables it persisted are
// merged into this process's environment.
func runPkg(args []string, stderr io.Writer) error {
	if len(args) == 0 {
		return errNoPkgArgs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(stderr)

	cfg, _, err := loadConfig(ctx, "", logger)
	if err != nil {
		return err
	}

	rec, err := newReconciler(cfg, logger)
	if err != nil {
		return err
	}

	res, err := rec.RunWrapped(ctx, cfg.PackageManager.Command, args)
	if err != nil {
		return err
	}
	if res.ReconcileErr != nil {
		logger.Debug("live environment not refreshed", "error", res.ReconcileErr)
	}
	if res.Changed() {
		// This process exits next; the calling shell has to pick the entries up.
		fmt.Fprintln(stderr, "To pick up PATH changes in this terminal, run:")
		fmt.Fprintf(stderr, "  %s\n", shell.ActivationHint(shell.DetectShell(ctx).Shell))
	}
	return nil
}
