package testutil_test

import (
	"os"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/testutil"
	"github.com/adrg/xdg"
)

func TestSetupTestEnv(t *testing.T) {
	t.Setenv("ZERB_BOOTSTRAP_BRANCH", "leaked")

	d := testutil.SetupTestEnv(t)

	if _, ok := os.LookupEnv("ZERB_BOOTSTRAP_BRANCH"); ok {
		t.Error("ZERB_BOOTSTRAP_BRANCH still set")
	}
	if got := os.Getenv("ZERB_BOOTSTRAP_STATE_DIR"); !strings.HasPrefix(got, d.State) {
		t.Errorf("ZERB_BOOTSTRAP_STATE_DIR = %q, want under %q", got, d.State)
	}
	if xdg.ConfigHome != d.Config {
		t.Errorf("xdg.ConfigHome = %q, want %q", xdg.ConfigHome, d.Config)
	}
	for _, dir := range []string{d.Config, d.State, d.Cache} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %s not created: %v", dir, err)
		}
	}
}
