package envscope

import "sync"

// MapStore is an in-memory Store keyed by scope and variable name.
type MapStore struct {
	mu     sync.RWMutex
	values map[Scope]map[string]string
	errs   map[Scope]error
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{
		values: make(map[Scope]map[string]string),
		errs:   make(map[Scope]error),
	}
}

// Set stores value for name at scope.
func (m *MapStore) Set(scope Scope, name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[scope] == nil {
		m.values[scope] = make(map[string]string)
	}
	m.values[scope][name] = value
}

// FailScope makes every Lookup at scope return err.
func (m *MapStore) FailScope(scope Scope, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[scope] = err
}

// Lookup implements Store.
func (m *MapStore) Lookup(name string, scope Scope) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.errs[scope]; err != nil {
		return "", err
	}
	return m.values[scope][name], nil
}
