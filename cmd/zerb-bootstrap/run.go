package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/bootstrap"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/git"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/prereq"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/reconcile"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/shell"
	"github.com/spf13/pflag"
)

type runFlags struct {
	branch string
	dest   string
	config string
	keep   bool
}

// parseRunFlags parses the run subcommand flags. It returns pflag.ErrHelp
// when help was requested.
func parseRunFlags(args []string, stderr io.Writer) (runFlags, error) {
	var f runFlags

	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&f.branch, "branch", "b", "", "installer branch to clone (overrides config)")
	fs.StringVarP(&f.dest, "dest", "d", "", "clone into this directory instead of a temporary one")
	fs.StringVarP(&f.config, "config", "c", "", "config file (default $XDG_CONFIG_HOME/zerb-bootstrap/bootstrap.lua)")
	fs.BoolVarP(&f.keep, "keep", "k", false, "keep the clone after the installer finishes")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: zerb-bootstrap run [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		return f, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// runBootstrap handles `zerb-bootstrap run`.
func runBootstrap(args []string, stdout, stderr io.Writer) error {
	flags, err := parseRunFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(stderr)

	cfg, info, err := loadConfig(ctx, flags.config, logger)
	if err != nil {
		return err
	}

	rec, err := newReconciler(cfg, logger)
	if err != nil {
		return err
	}

	runner := &bootstrap.Runner{
		Config:   cfg,
		Platform: info,
		Checker:  prereq.NewChecker(cfg.PackageManager, rec, prereq.WithLogger(logger)),
		NewGit: func(path string) git.Git {
			return git.NewClient(path).WithProgress(stderr)
		},
		NewExec: func(dir string) reconcile.CommandRunner {
			r := reconcile.NewExecRunner()
			r.Dir = dir
			return r
		},
		StateDir: stateDir(),
		CacheDir: cacheDir(),
		Out:      stdout,
		Logger:   logger,
	}

	fmt.Fprintf(stdout, "Bootstrapping on %s/%s\n", info.OS, info.Arch)
	report, err := runner.Run(ctx, bootstrap.Options{
		Branch: flags.branch,
		Dest:   flags.dest,
		Keep:   flags.keep,
	})
	if err != nil {
		return err
	}

	logger.Debug("bootstrap complete", "commit", report.Commit, "branch", report.Branch)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "To pick up PATH changes in this terminal, run:")
	fmt.Fprintf(stdout, "  %s\n", shell.ActivationHint(shell.DetectShell(ctx).Shell))
	return nil
}
