// Package platform detects the host the bootstrap runs on and derives the
// defaults that depend on it: which package manager to wrap, which
// interpreter runs the installer, and which variables are worth reconciling.
//
// Detection uses runtime for OS and architecture and gopsutil for Linux
// distribution details. A failed distribution lookup is not fatal.
package platform

import "context"

// Linux distribution families.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyUnknown = "unknown"
)

// Info describes the host.
type Info struct {
	OS      string // "linux", "darwin", "windows"
	Arch    string // normalized: "amd64" or "arm64"
	ArchRaw string // runtime.GOARCH as reported
	Distro  string // Linux only, e.g. "ubuntu"
	Family  string // Linux only, canonical family
	Version string // Linux only, e.g. "22.04"
}

// IsWindows reports whether the host runs Windows.
func (i *Info) IsWindows() bool { return i.OS == "windows" }

// IsLinux reports whether the host runs Linux.
func (i *Info) IsLinux() bool { return i.OS == "linux" }

// IsMacOS reports whether the host runs macOS.
func (i *Info) IsMacOS() bool { return i.OS == "darwin" }

// PackageManager returns the package manager command the bootstrap wraps by
// default, or "" when none is known for the host.
func (i *Info) PackageManager() string {
	switch i.OS {
	case "windows":
		return "winget"
	case "darwin":
		return "brew"
	case "linux":
		switch i.Family {
		case FamilyDebian:
			return "apt-get"
		case FamilyRHEL, FamilyFedora:
			return "dnf"
		case FamilySUSE:
			return "zypper"
		case FamilyArch:
			return "pacman"
		case FamilyAlpine:
			return "apk"
		}
	}
	return ""
}

// Interpreter returns the command prefix that runs an installer script.
func (i *Info) Interpreter() []string {
	if i.IsWindows() {
		return []string{"powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-File"}
	}
	return []string{"sh"}
}

// InstallerScript returns the default installer entry point name.
func (i *Info) InstallerScript() string {
	if i.IsWindows() {
		return "install.ps1"
	}
	return "install.sh"
}

// TrackedVariables returns the PATH-like variables reconciled by default.
func (i *Info) TrackedVariables() []string {
	if i.IsWindows() {
		return []string{"PATH", "PSModulePath"}
	}
	return []string{"PATH", "MANPATH"}
}

// Detector detects the host platform.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. It is used in tests and dry runs.
type StaticDetector struct {
	Info *Info
	Err  error
}

// Detect implements Detector.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Info, d.Err
}
