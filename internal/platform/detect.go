package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector inspects the running host.
type RealDetector struct{}

// NewDetector creates a Detector for the running host.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect returns the host platform.
//
// Unsupported architectures are an error: the installer payload only ships
// amd64 and arm64 builds. A distribution lookup failure on Linux leaves the
// distro fields empty; a cancelled context is an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	return detect(ctx, runtime.GOOS, runtime.GOARCH, host.PlatformInformationWithContext)
}

type platformInfoFunc func(ctx context.Context) (platform, family, version string, err error)

func detect(ctx context.Context, goos, goarch string, lookup platformInfoFunc) (*Info, error) {
	arch, err := normalizeArch(goarch)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}

	info := &Info{OS: goos, Arch: arch, ArchRaw: goarch}
	if goos != "linux" {
		return info, nil
	}

	distro, family, version, err := lookup(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	if distro = normalize(distro); distro != "" {
		info.Distro = distro
		info.Family = mapFamily(family, distro)
		info.Version = normalize(version)
	}
	return info, nil
}
