package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/config"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/reconcile"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0-alpha"

func main() {
	os.Exit(dispatch(os.Args[1:], os.Stdout, os.Stderr))
}

// dispatch runs the subcommand named by args[0] and returns the exit code.
// Without a subcommand the bootstrap runs.
func dispatch(args []string, stdout, stderr io.Writer) int {
	cmd, rest := "run", args
	if len(args) > 0 && (len(args[0]) == 0 || args[0][0] != '-') {
		cmd, rest = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "run":
		err = runBootstrap(rest, stdout, stderr)
	case "pkg":
		// Arguments belong to the package manager; no flag parsing here.
		err = runPkg(rest, stderr)
	case "version":
		err = runVersion(rest, stdout)
	case "env":
		err = runEnv(rest, stdout, stderr)
	case "config":
		err = runConfig(rest, stdout, stderr)
	case "help":
		printHelp(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Error: unknown command: %s\n\n", cmd)
		printHelp(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", config.FormatError(err, os.Getenv("ZERB_DEBUG") != ""))
		return exitCode(cmd, err)
	}
	return 0
}

// exitCode maps err to the process exit status. A failing wrapped package
// manager exits with its own status under pkg.
func exitCode(cmd string, err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *reconcile.CommandError
	if cmd == "pkg" && errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return 1
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "zerb-bootstrap - fetch and run the ZERB installer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  zerb-bootstrap [run] [options]     Clone the installer repository and run it")
	fmt.Fprintln(w, "  zerb-bootstrap pkg <args>...       Run the package manager and refresh PATH")
	fmt.Fprintln(w, "  zerb-bootstrap env [--shell name]  Print a script adding new PATH entries to this shell")
	fmt.Fprintln(w, "  zerb-bootstrap config init [path]  Write the default config file")
	fmt.Fprintln(w, "  zerb-bootstrap config show         Print the effective config")
	fmt.Fprintln(w, "  zerb-bootstrap version [--check]   Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ZERB_DEBUG               Enable debug logging")
	fmt.Fprintln(w, "  ZERB_BOOTSTRAP_CONFIG    Config file path")
	fmt.Fprintln(w, "  ZERB_BOOTSTRAP_BRANCH    Installer branch override")
	fmt.Fprintln(w, "  ZERB_BOOTSTRAP_STATE_DIR Lock file directory")
	fmt.Fprintln(w, "  ZERB_BOOTSTRAP_CACHE_DIR Temporary clone directory")
}
