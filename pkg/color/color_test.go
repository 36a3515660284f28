package color

import (
	"strings"
	"testing"
)

func TestDisabled_PassThrough(t *testing.T) {
	Disable()
	if got := Success("done"); got != "done" {
		t.Errorf("expected plain text when disabled, got %q", got)
	}
	if got := Fingerprint("abc123def456"); got != "abc123def456" {
		t.Errorf("expected plain text when disabled, got %q", got)
	}
}

func TestEnabled_WrapsWithReset(t *testing.T) {
	state.disabled = false
	state.enabled = true
	defer Disable()

	got := Error("boom")
	if !strings.HasPrefix(got, "\033[31m") || !strings.HasSuffix(got, reset) {
		t.Errorf("expected ANSI-wrapped text, got %q", got)
	}
	if !strings.Contains(got, "boom") {
		t.Errorf("expected original text preserved, got %q", got)
	}
}

func TestErrorf(t *testing.T) {
	Disable()
	if got := Errorf("failed: %d", 2); got != "failed: 2" {
		t.Errorf("unexpected output: %q", got)
	}
}
