package envscope

import (
	"errors"
	"testing"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		input   string
		want    Scope
		wantErr bool
	}{
		{input: "machine", want: ScopeMachine},
		{input: "User", want: ScopeUser},
		{input: "machine_policy", want: ScopeMachinePolicy},
		{input: "user-policy", want: ScopeUserPolicy},
		{input: " machine ", want: ScopeMachine},
		{input: "process", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseScope(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScope(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var scopeErr *UnknownScopeError
				if !errors.As(err, &scopeErr) {
					t.Errorf("ParseScope(%q) error type = %T, want *UnknownScopeError", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseScope(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScope_RoundTrip(t *testing.T) {
	for _, s := range AllScopes() {
		t.Run(s.String(), func(t *testing.T) {
			if !s.IsValid() {
				t.Errorf("%v.IsValid() = false", s)
			}
			got, err := ParseScope(s.String())
			if err != nil || got != s {
				t.Errorf("ParseScope(%q) = %v, %v; want %v", s.String(), got, err, s)
			}
		})
	}
}

func TestScope_Invalid(t *testing.T) {
	if Scope(0).IsValid() {
		t.Error("Scope(0).IsValid() = true, want false")
	}
	if Scope(99).String() != "scope(99)" {
		t.Errorf("Scope(99).String() = %q", Scope(99).String())
	}
}
