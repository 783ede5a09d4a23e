//go:build windows

package envscope

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

type registryLocation struct {
	root registry.Key
	path string
}

var registryLocations = map[Scope]registryLocation{
	ScopeMachine:       {registry.LOCAL_MACHINE, `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`},
	ScopeUser:          {registry.CURRENT_USER, `Environment`},
	ScopeMachinePolicy: {registry.LOCAL_MACHINE, `SOFTWARE\Policies\Microsoft\Windows\System\Environment`},
	ScopeUserPolicy:    {registry.CURRENT_USER, `SOFTWARE\Policies\Microsoft\Windows\System\Environment`},
}

// RegistryStore reads persisted values from the Windows registry.
// REG_EXPAND_SZ values are expanded against the process environment, so
// %SystemRoot%\system32 compares equal to the live C:\Windows\system32.
type RegistryStore struct {
	// locations overrides registryLocations; nil uses the system keys.
	locations map[Scope]registryLocation
}

// Lookup implements Store.
func (s RegistryStore) Lookup(name string, scope Scope) (string, error) {
	locations := s.locations
	if locations == nil {
		locations = registryLocations
	}
	loc, ok := locations[scope]
	if !ok {
		return "", &UnknownScopeError{Name: scope.String()}
	}

	key, err := registry.OpenKey(loc.root, loc.path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("open %s: %w", loc.path, err)
	}
	defer key.Close()

	value, valtype, err := key.GetStringValue(name)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s\\%s: %w", loc.path, name, err)
	}
	if valtype != registry.EXPAND_SZ {
		return value, nil
	}

	expanded, err := registry.ExpandString(value)
	if err != nil {
		return "", fmt.Errorf("expand %s\\%s: %w", loc.path, name, err)
	}
	return expanded, nil
}

// NewDefaultStore returns the registry-backed store.
func NewDefaultStore() Store {
	return RegistryStore{}
}
