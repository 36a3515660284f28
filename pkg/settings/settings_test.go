package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_NotExists(t *testing.T) {
	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Logging.Level != "info" || s.Logging.Format != "json" {
		t.Errorf("expected default logging settings, got %+v", s.Logging)
	}
	if !s.IndexVerifySSL() {
		t.Error("expected verify_ssl to default to true")
	}
}

func TestLoad_Exists(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `
logging:
  level: debug
  format: text
lock:
  lease_ttl: 5m
index:
  url: https://my.pypi.org/simple/stable
  verify_ssl: false
`)

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("expected debug, got %s", s.Logging.Level)
	}
	if s.Index.URL != "https://my.pypi.org/simple/stable" {
		t.Errorf("unexpected index url: %s", s.Index.URL)
	}
	if s.IndexVerifySSL() {
		t.Error("expected verify_ssl false")
	}

	policy, err := s.LockPolicy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if policy.DefaultLeaseTTL != 5*time.Minute {
		t.Errorf("expected 5m lease, got %v", policy.DefaultLeaseTTL)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "logging: [broken")

	if _, err := Load(dir); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLockPolicy_DefaultWhenUnset(t *testing.T) {
	s := Default()
	policy, err := s.LockPolicy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if policy.DefaultLeaseTTL <= 0 {
		t.Error("expected positive default lease TTL")
	}
}

func TestLockPolicy_InvalidDuration(t *testing.T) {
	s := Default()
	s.Lock.LeaseTTL = "soon"
	if _, err := s.LockPolicy(); err == nil {
		t.Error("expected error for invalid duration")
	}
}
