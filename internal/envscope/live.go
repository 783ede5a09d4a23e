package envscope

import (
	"os"
	"sync"
)

// LiveEnv is the in-memory environment of the running process.
type LiveEnv interface {
	Get(name string) string
	Set(name, value string) error
}

// OSEnv is the real process environment.
type OSEnv struct{}

// Get returns the value of name, or "" if unset.
func (OSEnv) Get(name string) string {
	return os.Getenv(name)
}

// Set changes name for this process and any child started afterwards.
func (OSEnv) Set(name, value string) error {
	return os.Setenv(name, value)
}

// MapEnv is a LiveEnv backed by a map.
type MapEnv struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapEnv creates a MapEnv holding a copy of vars.
func NewMapEnv(vars map[string]string) *MapEnv {
	m := &MapEnv{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

// Get implements LiveEnv.
func (m *MapEnv) Get(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vars[name]
}

// Set implements LiveEnv.
func (m *MapEnv) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[name] = value
	return nil
}
