//go:build !windows

package envscope

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultFiles returns the environment files consulted for each scope.
func DefaultFiles() map[Scope][]string {
	return map[Scope][]string{
		ScopeMachine: {
			"/etc/environment",
			"/etc/environment.d/*.conf",
		},
		ScopeUser: {
			filepath.Join(xdg.ConfigHome, "environment.d", "*.conf"),
		},
		ScopeMachinePolicy: {
			"/etc/zerb-bootstrap/policy.env",
		},
		ScopeUserPolicy: {
			filepath.Join(xdg.ConfigHome, "zerb-bootstrap", "policy.env"),
		},
	}
}

// NewDefaultStore returns a FileStore over DefaultFiles.
func NewDefaultStore() Store {
	return NewFileStore(DefaultFiles())
}
