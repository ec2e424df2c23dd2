package routes

import (
	"slices"
	"testing"
)

func TestGroupsRegistered(t *testing.T) {
	got := Groups()
	for _, want := range []string{"admin", "navbar", "static"} {
		if !slices.Contains(got, want) {
			t.Errorf("Groups() = %v, missing %q", got, want)
		}
	}
}

func TestActionFromPath(t *testing.T) {
	tests := map[string]string{
		"/navbar/enter/2":   "enter",
		"/navbar/leave/0":   "leave",
		"/navbar/toggle":    "toggle",
		"/navbar/explode/1": "unknown",
		"/elsewhere":        "unknown",
	}
	for in, want := range tests {
		if got := actionFromPath(in); got != want {
			t.Errorf("actionFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
