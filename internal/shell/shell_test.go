package shell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/pathlist"
	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/reconcile"
)

func TestParseShell(t *testing.T) {
	tests := []struct {
		in   string
		want ShellType
	}{
		{in: "/bin/bash", want: ShellBash},
		{in: "/usr/bin/zsh", want: ShellZsh},
		{in: "-zsh", want: ShellZsh},
		{in: "/usr/local/bin/fish", want: ShellFish},
		{in: `C:\Program Files\PowerShell\7\pwsh.exe`, want: ShellPowerShell},
		{in: "powershell.exe", want: ShellPowerShell},
		{in: "/bin/tcsh", want: ShellUnknown},
		{in: "", want: ShellUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseShell(tt.in); got != tt.want {
				t.Errorf("ParseShell(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectShell(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/fish")

	res := DetectShell(context.Background())
	if !res.Shell.IsValid() {
		t.Fatalf("DetectShell() = %+v, want a supported shell", res)
	}
	if res.Method == "" {
		t.Error("DetectShell() Method is empty")
	}
}

func TestRender(t *testing.T) {
	changes := []reconcile.Change{
		{Name: "PATH", Added: pathlist.List{"/opt/git/bin", "/home/me/it's"}},
		{Name: "MANPATH"},
	}

	tests := []struct {
		shell ShellType
		want  string
	}{
		{shell: ShellBash, want: `export PATH="${PATH:+${PATH}:}"'/opt/git/bin:/home/me/it'\''s'` + "\n"},
		{shell: ShellZsh, want: `export PATH="${PATH:+${PATH}:}"'/opt/git/bin:/home/me/it'\''s'` + "\n"},
		{shell: ShellFish, want: `set -gx PATH $PATH '/opt/git/bin' '/home/me/it\'s'` + "\n"},
		{shell: ShellPowerShell, want: `$env:PATH = (@($env:PATH, '/opt/git/bin:/home/me/it''s') | Where-Object { $_ }) -join ':'` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.shell.String(), func(t *testing.T) {
			got, err := Render(tt.shell, changes, ":")
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}

	_, err := Render(ShellUnknown, changes, ":")
	var unsupported *UnsupportedShellError
	if !errors.As(err, &unsupported) {
		t.Errorf("Render(unknown) error = %v, want *UnsupportedShellError", err)
	}
}

func TestRender_EvaluatedByShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell test")
	}
	sh, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not available")
	}

	dir := filepath.Join(t.TempDir(), "it's here")
	changes := []reconcile.Change{{Name: "ZB_TEST_PATH", Added: pathlist.List{dir, "/x"}}}
	script, err := Render(ShellBash, changes, ":")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		initial string
		want    string
	}{
		{name: "existing value", initial: "/usr/bin", want: "/usr/bin:" + dir + ":/x"},
		{name: "empty value", initial: "", want: dir + ":/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(sh, "-c", script+`printf %s "$ZB_TEST_PATH"`)
			cmd.Env = append(os.Environ(), "ZB_TEST_PATH="+tt.initial)
			out, err := cmd.Output()
			if err != nil {
				t.Fatalf("bash error = %v", err)
			}
			if got := strings.TrimSpace(string(out)); got != tt.want {
				t.Errorf("ZB_TEST_PATH = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActivationHint(t *testing.T) {
	tests := map[ShellType]string{
		ShellBash:       `eval "$(zerb-bootstrap env --shell bash)"`,
		ShellFish:       "zerb-bootstrap env --shell fish | source",
		ShellPowerShell: "zerb-bootstrap env --shell powershell | Out-String | Invoke-Expression",
	}
	for shell, want := range tests {
		if got := ActivationHint(shell); got != want {
			t.Errorf("ActivationHint(%s) = %q, want %q", shell, got, want)
		}
	}
}
