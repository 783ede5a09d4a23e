package shell

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// DetectShell detects the user's shell: the parent process first, since it
// is the shell that will evaluate the output, then $SHELL, then the
// platform's default shell.
func DetectShell(ctx context.Context) *DetectionResult {
	if shellType, shellPath := detectFromParentProcess(ctx); shellType.IsValid() {
		return &DetectionResult{Shell: shellType, Method: "parent process", ShellPath: shellPath}
	}

	if shellPath := os.Getenv("SHELL"); shellPath != "" {
		if shellType := ParseShell(shellPath); shellType.IsValid() {
			return &DetectionResult{Shell: shellType, Method: "$SHELL environment variable", ShellPath: shellPath}
		}
	}

	if runtime.GOOS == "windows" {
		return &DetectionResult{Shell: ShellPowerShell, Method: "platform default"}
	}
	return &DetectionResult{Shell: ShellBash, Method: "platform default"}
}

// ParseShell maps a shell name or binary path to a ShellType.
// Examples:
//   - /bin/bash -> bash
//   - /usr/local/bin/fish -> fish
//   - C:\Program Files\PowerShell\7\pwsh.exe -> powershell
func ParseShell(nameOrPath string) ShellType {
	base := strings.ToLower(filepath.Base(strings.ReplaceAll(nameOrPath, `\`, "/")))
	base = strings.TrimSuffix(base, ".exe")
	base = strings.TrimPrefix(base, "-") // login shells

	switch base {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	case "pwsh", "powershell":
		return ShellPowerShell
	default:
		return ShellUnknown
	}
}

func detectFromParentProcess(ctx context.Context) (ShellType, string) {
	parent, err := process.NewProcessWithContext(ctx, int32(os.Getppid()))
	if err != nil {
		return ShellUnknown, ""
	}

	name, err := parent.NameWithContext(ctx)
	if err != nil {
		return ShellUnknown, ""
	}
	exe, _ := parent.ExeWithContext(ctx)
	return ParseShell(name), exe
}

// ValidateShell validates that a shell type is supported
func ValidateShell(shell ShellType) error {
	if !shell.IsValid() {
		return &UnsupportedShellError{Shell: shell.String()}
	}
	return nil
}
