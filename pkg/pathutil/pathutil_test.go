package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandUser_NoTilde(t *testing.T) {
	got, err := ExpandUser("/tmp/cache")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/cache" {
		t.Errorf("expected unchanged path, got %s", got)
	}
}

func TestExpandUser_TildePrefix(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	got, err := ExpandUser("~/.my-bootstrap-cache")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, ".my-bootstrap-cache") {
		t.Errorf("expected path under home, got %s", got)
	}
}

func TestExpandUser_BareTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	got, err := ExpandUser("~")
	if err != nil {
		t.Fatal(err)
	}
	if got != home {
		t.Errorf("expected home, got %s", got)
	}
}

func TestExpandUser_TildeInMiddle(t *testing.T) {
	got, err := ExpandUser("/tmp/~user/cache")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/~user/cache" {
		t.Errorf("expected unchanged path, got %s", got)
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"a1b2c3d4e5f6", "poetry", "env_1.2-x"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("unexpected error for %q: %v", name, err)
		}
	}

	invalid := []string{"", "..", "a/../b", "a/b", `a\b`, "a b", "a\x00b"}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}
