package primitives

import (
	"strings"
	"testing"
)

func TestTransitionConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		tc          TransitionConfig
		wantErr     bool
		errContains string
	}{
		{
			name: "valid",
			tc:   TransitionConfig{Target: "next"},
		},
		{
			name: "targetless",
			tc:   TransitionConfig{Actions: []string{"log"}},
		},
		{
			name: "relative child target",
			tc:   TransitionConfig{Target: ".required"},
		},
		{
			name:        "empty target segment",
			tc:          TransitionConfig{Target: "parent..child"},
			wantErr:     true,
			errContains: "empty segment",
		},
		{
			name:        "invalid character",
			tc:          TransitionConfig{Target: "a.b c"},
			wantErr:     true,
			errContains: "invalid character",
		},
		{
			name:        "bad in-state path",
			tc:          TransitionConfig{Target: "t", In: []string{"username."}},
			wantErr:     true,
			errContains: "in-state",
		},
		{
			name:        "blank action",
			tc:          TransitionConfig{Actions: []string{" "}},
			wantErr:     true,
			errContains: "empty action name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tc.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf(`Validate() error = "%v", want contains "%s"`, err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestJoinPath(t *testing.T) {
	if got := JoinPath("", "username", "", "valid"); got != "username.valid" {
		t.Errorf("JoinPath() = %q, want username.valid", got)
	}
	if got := JoinPath(); got != "" {
		t.Errorf("JoinPath() = %q, want empty", got)
	}
}
