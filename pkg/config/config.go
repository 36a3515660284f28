// Package config provides the bootstrap configuration file and the
// fingerprint that identifies a bootstrap environment's installed contents.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pyboot-project/pyboot/pkg/errclass"
	"github.com/pyboot-project/pyboot/pkg/jsonutil"
	"github.com/pyboot-project/pyboot/pkg/pathutil"
)

const (
	// FileName is the project-level configuration file read by Load.
	FileName = "bootstrap.json"

	// DefaultPackageManager is used when no manager is configured.
	DefaultPackageManager = "pipenv"

	// DefaultCacheDirName is the cache directory under the user's home
	// when bootstrap_cache_dir is not configured.
	DefaultCacheDirName = ".bootstrap"

	// FingerprintLength is the length of the environment fingerprint.
	FingerprintLength = 12
)

// DefaultBootstrapPackages are installed into the bootstrap environment
// when the configuration does not list any.
var DefaultBootstrapPackages = []string{"pip-system-certs"}

// Config is the desired toolchain configuration, loaded from bootstrap.json.
//
// PackageManagerArgs and VenvInstallCommand change how installs are invoked
// but deliberately do not participate in the fingerprint: they do not
// identify what the shared bootstrap environment contains.
type Config struct {
	// PythonVersion constrains the interpreter; "" means unconstrained.
	PythonVersion string `json:"python_version"`

	// PackageManager is a bare name optionally suffixed with a comparator
	// and version, e.g. "poetry==2.1.0" or "uv".
	PackageManager string `json:"python_package_manager"`

	// PackageManagerArgs are appended to the generated install command.
	PackageManagerArgs []string `json:"python_package_manager_args"`

	// BootstrapPackages are installed into the shared bootstrap
	// environment. Membership matters for the fingerprint, order does not.
	BootstrapPackages []string `json:"bootstrap_packages"`

	// BootstrapCacheDir overrides the shared cache location. Tilde-expanded
	// on load; empty means <home>/.bootstrap.
	BootstrapCacheDir string `json:"bootstrap_cache_dir"`

	// VenvInstallCommand, when set, replaces the generated install command
	// verbatim (whitespace-tokenized).
	VenvInstallCommand string `json:"venv_install_command"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		PackageManager:     DefaultPackageManager,
		PackageManagerArgs: []string{},
		BootstrapPackages:  append([]string(nil), DefaultBootstrapPackages...),
	}
}

// Load parses the JSON configuration at path. A missing file yields the
// default configuration, never an error. Path-valued fields are
// tilde-expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errclass.ErrUserConfig.WithMessagef("malformed %s: %v", filepath.Base(path), err)
	}

	if cfg.BootstrapCacheDir != "" {
		expanded, err := pathutil.ExpandUser(cfg.BootstrapCacheDir)
		if err != nil {
			return nil, fmt.Errorf("expand bootstrap_cache_dir: %w", err)
		}
		cfg.BootstrapCacheDir = expanded
	}

	return cfg, nil
}

// ResolvedCacheDir returns the configured cache directory, or the default
// <home>/.bootstrap when unset.
func (c *Config) ResolvedCacheDir() (string, error) {
	if c.BootstrapCacheDir != "" {
		return c.BootstrapCacheDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultCacheDirName), nil
}

// Fingerprint derives the deterministic 12-character identifier of the
// bootstrap environment this configuration describes. It covers the
// interpreter version, the package-manager spec and the bootstrap package
// set (sorted and deduplicated); two configs differing only in package
// order fingerprint identically.
func (c *Config) Fingerprint() (string, error) {
	data, err := jsonutil.CanonicalMarshal(map[string]any{
		"python_version":     c.PythonVersion,
		"package_manager":    c.PackageManager,
		"bootstrap_packages": sortedUnique(c.BootstrapPackages),
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:FingerprintLength], nil
}

func sortedUnique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	sort.Strings(out)
	return out
}
