package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/reconcile"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/testutil"
)

func TestDispatch(t *testing.T) {
	testutil.SetupTestEnv(t)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "help", args: []string{"help"}, wantStdout: "Usage:"},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: 1, wantStderr: "unknown command: frobnicate"},
		{name: "run help", args: []string{"run", "--help"}, wantStderr: "--branch"},
		{name: "flags imply run", args: []string{"--help"}, wantStderr: "Usage: zerb-bootstrap run"},
		{name: "run extra args", args: []string{"run", "extra"}, wantCode: 1, wantStderr: "unexpected arguments"},
		{name: "pkg without args", args: []string{"pkg"}, wantCode: 1, wantStderr: "pkg requires arguments"},
		{name: "version", args: []string{"version"}, wantStdout: "zerb-bootstrap " + Version},
		{name: "config without action", args: []string{"config"}, wantCode: 1, wantStderr: "requires an action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := dispatch(tt.args, &stdout, &stderr)
			if code != tt.wantCode {
				t.Errorf("dispatch(%v) = %d, want %d (stderr: %s)", tt.args, code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	cmdErr := &reconcile.CommandError{Command: "winget", Args: []string{"install", "x"}, ExitCode: 42}
	notRun := &reconcile.CommandError{Command: "winget", ExitCode: -1, Err: errors.New("not found")}

	tests := []struct {
		name string
		cmd  string
		err  error
		want int
	}{
		{name: "success", cmd: "pkg", err: nil, want: 0},
		{name: "pkg propagates exit code", cmd: "pkg", err: cmdErr, want: 42},
		{name: "pkg wrapped error", cmd: "pkg", err: fmt.Errorf("wrap: %w", cmdErr), want: 42},
		{name: "pkg command not started", cmd: "pkg", err: notRun, want: 1},
		{name: "run installer failure", cmd: "run", err: cmdErr, want: 1},
		{name: "other error", cmd: "pkg", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.cmd, tt.err); got != tt.want {
				t.Errorf("exitCode(%q, %v) = %d, want %d", tt.cmd, tt.err, got, tt.want)
			}
		})
	}
}

func TestDispatch_PkgPassThrough(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh as the package manager")
	}
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "arm64" {
		t.Skip("platform detection rejects this architecture")
	}
	d := testutil.SetupTestEnv(t)

	cfgPath := filepath.Join(d.Config, "bootstrap.lua")
	cfg := `bootstrap = { package_manager = { command = "sh", trigger = "install" } }`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ZERB_BOOTSTRAP_CONFIG", cfgPath)

	var stdout, stderr bytes.Buffer
	if code := dispatch([]string{"pkg", "-c", "exit 3"}, &stdout, &stderr); code != 3 {
		t.Errorf("dispatch(pkg -c 'exit 3') = %d, want 3 (stderr: %s)", code, stderr.String())
	}
	if code := dispatch([]string{"pkg", "-c", "true"}, &stdout, &stderr); code != 0 {
		t.Errorf("dispatch(pkg -c true) = %d, want 0 (stderr: %s)", code, stderr.String())
	}
}

func TestDispatch_PkgPrintsActivationHint(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("persisted store is the registry on Windows")
	}
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "arm64" {
		t.Skip("platform detection rejects this architecture")
	}
	d := testutil.SetupTestEnv(t)
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv("MANPATH", os.Getenv("MANPATH"))

	cfgPath := filepath.Join(d.Config, "bootstrap.lua")
	cfg := `bootstrap = { package_manager = { command = "sh", trigger = "-c", scopes = { "user" } } }`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ZERB_BOOTSTRAP_CONFIG", cfgPath)

	envDir := filepath.Join(d.Config, "environment.d")
	script := fmt.Sprintf("mkdir -p '%s' && echo PATH=/opt/zerb-test/bin > '%s'", envDir, filepath.Join(envDir, "10-test.conf"))

	var stdout, stderr bytes.Buffer
	if code := dispatch([]string{"pkg", "-c", script}, &stdout, &stderr); code != 0 {
		t.Fatalf("dispatch(pkg) = %d, want 0 (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "zerb-bootstrap env") {
		t.Errorf("stderr = %q, want activation hint", stderr.String())
	}
	if !strings.Contains(os.Getenv("PATH"), "/opt/zerb-test/bin") {
		t.Errorf("PATH = %q, want /opt/zerb-test/bin appended", os.Getenv("PATH"))
	}

	stderr.Reset()
	if code := dispatch([]string{"pkg", "-c", "true"}, &stdout, &stderr); code != 0 {
		t.Fatalf("dispatch(pkg) = %d, want 0", code)
	}
	if strings.Contains(stderr.String(), "zerb-bootstrap env") {
		t.Errorf("stderr = %q, want no hint without changes", stderr.String())
	}
}

func TestDispatch_EnvUnsupportedShell(t *testing.T) {
	testutil.SetupTestEnv(t)

	var stdout, stderr bytes.Buffer
	if code := dispatch([]string{"env", "--shell", "tcsh"}, &stdout, &stderr); code != 1 {
		t.Errorf("dispatch(env --shell tcsh) = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "unsupported shell") {
		t.Errorf("stderr = %q, want unsupported shell error", stderr.String())
	}
}
