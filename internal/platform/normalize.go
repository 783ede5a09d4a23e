package platform

import (
	"fmt"
	"strings"
)

// UnsupportedArchError is returned for architectures without installer builds.
type UnsupportedArchError struct {
	Arch string
}

func (e *UnsupportedArchError) Error() string {
	return fmt.Sprintf("unsupported architecture: %s (supported: amd64, arm64)", e.Arch)
}

var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

func normalizeArch(arch string) (string, error) {
	switch arch {
	case "amd64", "x86_64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	default:
		return "", &UnsupportedArchError{Arch: arch}
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mapFamily resolves the canonical family, falling back to the distro ID
// when gopsutil reports no family (Alpine and Arch do this).
func mapFamily(family, distro string) string {
	if canonical, ok := familyMap[normalize(family)]; ok {
		return canonical
	}
	if canonical, ok := familyMap[normalize(distro)]; ok {
		return canonical
	}
	return FamilyUnknown
}
