package version

import (
	"strings"
	"testing"
)

func restore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() { Version, GitCommit, BuildTime = v, c, b }
}

func TestGetVersionInfoUsesLdflags(t *testing.T) {
	defer restore()()
	Version = "1.2.0"
	GitCommit = "abcdef0123"
	BuildTime = "2026-01-15T10:30:00Z"

	info := GetVersionInfo()
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("GitCommit = %q, want truncated to 7", info.GitCommit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"version only", Info{Version: "dev"}, "dev"},
		{"with commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.info.Short(); got != tc.want {
				t.Errorf("Short() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := Info{Version: "1.0.0", BuildTime: "2026-01-15T10:30:00Z", GoVersion: "go1.25.0"}.String()
	for _, want := range []string{"1.0.0", "built 2026-01-15T10:30:00Z", "go1.25.0"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
