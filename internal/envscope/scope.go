package envscope

import (
	"fmt"
	"strings"
)

// Scope identifies where a persisted environment value is stored.
type Scope int

const (
	// ScopeMachine is the system-wide value.
	ScopeMachine Scope = iota + 1
	// ScopeUser is the current user's value.
	ScopeUser
	// ScopeMachinePolicy is a system-wide administrative override.
	ScopeMachinePolicy
	// ScopeUserPolicy is a per-user administrative override.
	ScopeUserPolicy
)

// DefaultScopes is the read order used when none is configured.
var DefaultScopes = []Scope{ScopeMachine, ScopeUser}

// AllScopes lists every supported scope.
func AllScopes() []Scope {
	return []Scope{ScopeMachine, ScopeUser, ScopeMachinePolicy, ScopeUserPolicy}
}

// String returns the configuration name of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeMachine:
		return "machine"
	case ScopeUser:
		return "user"
	case ScopeMachinePolicy:
		return "machine_policy"
	case ScopeUserPolicy:
		return "user_policy"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// IsValid reports whether s is one of the defined scopes.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeMachine, ScopeUser, ScopeMachinePolicy, ScopeUserPolicy:
		return true
	default:
		return false
	}
}

// UnknownScopeError is returned by ParseScope for unrecognized names.
type UnknownScopeError struct {
	Name string
}

func (e *UnknownScopeError) Error() string {
	return fmt.Sprintf("unknown scope: %q (supported: machine, user, machine_policy, user_policy)", e.Name)
}

// ParseScope converts a configuration name into a Scope.
// Matching is case-insensitive and accepts "-" in place of "_".
func ParseScope(name string) (Scope, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, s := range AllScopes() {
		if s.String() == normalized {
			return s, nil
		}
	}
	return 0, &UnknownScopeError{Name: name}
}
