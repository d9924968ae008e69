package version

import "testing"

func TestString(t *testing.T) {
	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2025-01-01T00:00:00Z"
	t.Cleanup(func() { Version, Commit, BuildDate = "dev", "none", "unknown" })

	want := "keeplater v1.2.3 (commit=abc1234, built=2025-01-01T00:00:00Z, go=" + GoVersion + ")"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
