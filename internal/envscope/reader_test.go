package envscope

import (
	"errors"
	"testing"
)

func TestReader_ReadScope(t *testing.T) {
	store := NewMapStore()
	store.Set(ScopeMachine, "PATH", `C:\Windows`)
	store.Set(ScopeUser, "PATH", `C:\Users\me\bin`)

	r := NewReader(store, WithDelimiter(";"))

	tests := []struct {
		name  string
		v     string
		scope Scope
		want  string
	}{
		{name: "machine", v: "PATH", scope: ScopeMachine, want: `C:\Windows`},
		{name: "user", v: "PATH", scope: ScopeUser, want: `C:\Users\me\bin`},
		{name: "unset scope", v: "PATH", scope: ScopeUserPolicy, want: ""},
		{name: "unset variable", v: "PSModulePath", scope: ScopeMachine, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ReadScope(tt.v, tt.scope); got != tt.want {
				t.Errorf("ReadScope(%q, %v) = %q, want %q", tt.v, tt.scope, got, tt.want)
			}
		})
	}
}

func TestReader_ReadScope_FailureIsEmpty(t *testing.T) {
	store := NewMapStore()
	store.Set(ScopeMachine, "PATH", `C:\Windows`)
	store.FailScope(ScopeMachine, errors.New("access denied"))

	r := NewReader(store, WithDelimiter(";"))
	if got := r.ReadScope("PATH", ScopeMachine); got != "" {
		t.Errorf("ReadScope() = %q, want empty string on failure", got)
	}
}

func TestReader_ReadCombined(t *testing.T) {
	tests := []struct {
		name    string
		machine string
		user    string
		scopes  []Scope
		want    string
	}{
		{name: "both set", machine: "A", user: "B", scopes: DefaultScopes, want: "A;B"},
		{name: "machine empty", machine: "", user: "B", scopes: DefaultScopes, want: ";B"},
		{name: "user empty", machine: "A", user: "", scopes: DefaultScopes, want: "A;"},
		{name: "both empty", machine: "", user: "", scopes: DefaultScopes, want: ";"},
		{name: "scope order matters", machine: "A", user: "B", scopes: []Scope{ScopeUser, ScopeMachine}, want: "B;A"},
		{name: "single scope", machine: "A", user: "B", scopes: []Scope{ScopeUser}, want: "B"},
		{name: "no scopes", machine: "A", user: "B", scopes: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMapStore()
			store.Set(ScopeMachine, "PATH", tt.machine)
			store.Set(ScopeUser, "PATH", tt.user)

			r := NewReader(store, WithDelimiter(";"))
			if got := r.ReadCombined("PATH", tt.scopes); got != tt.want {
				t.Errorf("ReadCombined() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReader_DefaultDelimiter(t *testing.T) {
	r := NewReader(NewMapStore())
	if r.Delimiter() == "" {
		t.Error("Delimiter() is empty, want platform path-list separator")
	}
}
