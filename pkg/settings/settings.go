// Package settings provides tool-level settings for pyboot, loaded from
// pyboot.yaml in the project directory. These control how the tool runs
// (logging, lock leases, package index) as opposed to what the bootstrap
// environment contains, which lives in bootstrap.json.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pyboot-project/pyboot/pkg/logging"
	"github.com/pyboot-project/pyboot/pkg/model"
)

// FileName is the settings file read from the project directory.
const FileName = "pyboot.yaml"

// Settings represents the pyboot tool settings.
type Settings struct {
	Logging LoggingSettings `yaml:"logging"`
	Lock    LockSettings    `yaml:"lock"`
	Index   IndexSettings   `yaml:"index"`
}

// LoggingSettings configures logging behavior.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// LockSettings configures the bootstrap build lock.
type LockSettings struct {
	LeaseTTL string `yaml:"lease_ttl"`
}

// IndexSettings configures the package index written into environments.
type IndexSettings struct {
	URL       string `yaml:"url"`
	VerifySSL *bool  `yaml:"verify_ssl"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		Logging: LoggingSettings{Level: "info", Format: "json"},
	}
}

// Load loads settings from <projectDir>/pyboot.yaml.
// Returns default settings if the file doesn't exist.
func Load(projectDir string) (*Settings, error) {
	s := Default()
	path := filepath.Join(projectDir, FileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	return s, nil
}

// LockPolicy returns the lock policy these settings describe.
func (s *Settings) LockPolicy() (model.LockPolicy, error) {
	policy := model.DefaultLockPolicy()
	if s.Lock.LeaseTTL == "" {
		return policy, nil
	}
	ttl, err := time.ParseDuration(s.Lock.LeaseTTL)
	if err != nil {
		return model.LockPolicy{}, fmt.Errorf("parse lock lease_ttl: %w", err)
	}
	policy.DefaultLeaseTTL = ttl
	return policy, nil
}

// IndexVerifySSL reports whether SSL verification is enabled for the
// configured index. Defaults to true when unset.
func (s *Settings) IndexVerifySSL() bool {
	if s.Index.VerifySSL == nil {
		return true
	}
	return *s.Index.VerifySSL
}

// ApplyLogging configures the global logger from these settings.
func (s *Settings) ApplyLogging() {
	l := logging.Global()
	switch s.Logging.Level {
	case "debug":
		l.SetLevel(logging.LevelDebug)
	case "warn":
		l.SetLevel(logging.LevelWarn)
	case "error":
		l.SetLevel(logging.LevelError)
	default:
		l.SetLevel(logging.LevelInfo)
	}
	if s.Logging.Format == "text" {
		l.SetFormat(logging.FormatText)
	} else {
		l.SetFormat(logging.FormatJSON)
	}
}
