package main

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/config"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/platform"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func skipUnsupportedArch(t *testing.T) {
	t.Helper()
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "arm64" {
		t.Skip("platform detection rejects this architecture")
	}
}

func TestWriteDefaultConfig_LoadsBack(t *testing.T) {
	skipUnsupportedArch(t)
	d := testutil.SetupTestEnv(t)
	ctx := context.Background()

	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.PackageManager() == "" {
		t.Skip("no default package manager for this host")
	}

	path := filepath.Join(d.Config, appName, "bootstrap.lua")
	var out bytes.Buffer
	if err := writeDefaultConfig(&out, path, info, false); err != nil {
		t.Fatalf("writeDefaultConfig() error = %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("output = %q, want path", out.String())
	}

	got, _, err := loadConfig(ctx, "", newLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if diff := cmp.Diff(config.Default(info), got); diff != "" {
		t.Errorf("loadConfig() mismatch (-want +got):\n%s", diff)
	}

	if err := writeDefaultConfig(&out, path, info, false); err == nil {
		t.Error("writeDefaultConfig() over existing file succeeded, want error")
	}
	if err := writeDefaultConfig(&out, path, info, true); err != nil {
		t.Errorf("writeDefaultConfig(force) error = %v", err)
	}
}

func TestLoadConfig_BranchOverride(t *testing.T) {
	skipUnsupportedArch(t)
	d := testutil.SetupTestEnv(t)

	path := filepath.Join(d.Config, "custom.lua")
	info := &platform.Info{OS: "linux", Arch: "amd64", Family: platform.FamilyDebian}
	if err := writeDefaultConfig(&bytes.Buffer{}, path, info, false); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvBranch, "canary")

	cfg, _, err := loadConfig(context.Background(), path, newLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Repository.Branch != "canary" {
		t.Errorf("Branch = %q, want canary", cfg.Repository.Branch)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	skipUnsupportedArch(t)
	d := testutil.SetupTestEnv(t)

	_, _, err := loadConfig(context.Background(), filepath.Join(d.Config, "nope.lua"), newLogger(&bytes.Buffer{}))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("loadConfig() error = %v, want fs.ErrNotExist", err)
	}
}
