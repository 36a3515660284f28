// Package steps implements the two build steps an external orchestrator
// schedules: the shared bootstrap environment and the per-project virtual
// environment.
package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pyboot-project/pyboot/internal/lock"
	"github.com/pyboot-project/pyboot/internal/venv"
	"github.com/pyboot-project/pyboot/pkg/config"
	"github.com/pyboot-project/pyboot/pkg/fsutil"
	"github.com/pyboot-project/pyboot/pkg/logging"
	"github.com/pyboot-project/pyboot/pkg/settings"
)

const (
	// BootstrapStepName identifies the bootstrap step to the orchestrator.
	BootstrapStepName = "create-bootstrap-environment"

	// BootstrapCompleteMarker is written into the environment directory
	// after a fully successful build. Its content is the fingerprint.
	BootstrapCompleteMarker = "bootstrap.complete"

	// VenvDirName is the virtual environment directory inside both the
	// bootstrap environment directory and the project directory.
	VenvDirName = ".venv"
)

// BootstrapStep builds and validates the shared, fingerprint-keyed
// bootstrap environment holding the installer toolchain.
type BootstrapStep struct {
	cfg         *config.Config
	set         *settings.Settings
	projectDir  string
	fingerprint string
	envDir      string
	venvDir     string
	markerFile  string
	env         venv.Env
	locks       *lock.Manager
	runner      venv.Runner
	log         *logging.Logger
}

// NewBootstrapStep derives the environment paths from the resolved
// configuration. Extra venv options (e.g. a pinned base interpreter) are
// passed through to the environment handle.
func NewBootstrapStep(cfg *config.Config, set *settings.Settings, projectDir string, runner venv.Runner, venvOpts ...venv.Option) (*BootstrapStep, error) {
	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		return nil, err
	}
	cacheDir, err := cfg.ResolvedCacheDir()
	if err != nil {
		return nil, err
	}
	policy, err := set.LockPolicy()
	if err != nil {
		return nil, err
	}

	envDir := filepath.Join(cacheDir, fingerprint)
	venvDir := filepath.Join(envDir, VenvDirName)

	return &BootstrapStep{
		cfg:         cfg,
		set:         set,
		projectDir:  projectDir,
		fingerprint: fingerprint,
		envDir:      envDir,
		venvDir:     venvDir,
		markerFile:  filepath.Join(envDir, BootstrapCompleteMarker),
		env:         venv.New(venvDir, runner, venvOpts...),
		locks:       lock.NewManager(cacheDir, policy),
		runner:      runner,
		log:         logging.WithFields(map[string]any{"step": BootstrapStepName, "fingerprint": fingerprint}),
	}, nil
}

// Config returns the resolved configuration this step was built from.
func (s *BootstrapStep) Config() *config.Config { return s.cfg }

// Fingerprint identifies the environment this step manages.
func (s *BootstrapStep) Fingerprint() string { return s.fingerprint }

// EnvDir is the fingerprint-keyed directory under the cache.
func (s *BootstrapStep) EnvDir() string { return s.envDir }

// VenvDir is the interpreter environment inside EnvDir.
func (s *BootstrapStep) VenvDir() string { return s.venvDir }

// MarkerFile is the completion marker inside EnvDir.
func (s *BootstrapStep) MarkerFile() string { return s.markerFile }

// Env is the environment handle; the project step resolves installer
// binaries from its scripts path.
func (s *BootstrapStep) Env() venv.Env { return s.env }

// Name returns the stable step identifier.
func (s *BootstrapStep) Name() string { return BootstrapStepName }

// Inputs is empty: the step's correctness depends only on the resolved
// configuration, not on project files.
func (s *BootstrapStep) Inputs() []string { return []string{} }

// Outputs is exactly the marker file.
func (s *BootstrapStep) Outputs() []string { return []string{s.markerFile} }

// Describe summarizes the configuration for observability. The values are
// not part of the fingerprint contract.
func (s *BootstrapStep) Describe() map[string]any {
	return map[string]any{
		"package_manager":    s.cfg.PackageManager,
		"bootstrap_packages": s.cfg.BootstrapPackages,
		"python_version":     s.cfg.PythonVersion,
	}
}

// IsValid reports whether the environment on disk is complete and matches
// the current configuration: the marker file must exist and its content
// must equal the freshly recomputed fingerprint. The marker is the only
// proof of a completed build.
func (s *BootstrapStep) IsValid() bool {
	data, err := os.ReadFile(s.markerFile)
	if err != nil {
		return false
	}
	return strings.TrimSuffix(string(data), "\n") == s.fingerprint
}

// Build creates the bootstrap environment if it is missing or stale. The
// environment directory is removed wholesale before rebuilding; the marker
// is published atomically only after every install side effect succeeded,
// so a crash at any earlier point leaves the directory absent or invalid,
// never falsely valid.
func (s *BootstrapStep) Build(ctx context.Context) error {
	if s.IsValid() {
		s.log.Debug("bootstrap environment up to date")
		return nil
	}

	rec, err := s.locks.AcquireOrSteal(s.fingerprint, "bootstrap build")
	if err != nil {
		return err
	}
	defer s.locks.Release(s.fingerprint, rec.HolderNonce)

	// Another process may have completed the build while we waited on
	// the lock file.
	if s.IsValid() {
		return nil
	}

	s.log.Info("rebuilding bootstrap environment", map[string]any{"env_dir": s.envDir})

	if err := os.RemoveAll(s.envDir); err != nil {
		return fmt.Errorf("remove stale environment: %w", err)
	}
	if err := os.MkdirAll(s.envDir, 0755); err != nil {
		return fmt.Errorf("create environment dir: %w", err)
	}

	// Index configuration is written before Create and must survive it.
	if s.set.Index.URL != "" {
		if err := s.env.PipConfigure(s.set.Index.URL, s.set.IndexVerifySSL()); err != nil {
			return err
		}
	}
	if err := s.env.Create(ctx); err != nil {
		return err
	}
	if err := s.env.GitignoreConfigure(); err != nil {
		return err
	}

	if err := s.installToolchain(ctx); err != nil {
		return err
	}

	// Commit point: everything above succeeded.
	if err := fsutil.AtomicWrite(s.markerFile, []byte(s.fingerprint), 0644); err != nil {
		return fmt.Errorf("publish completion marker: %w", err)
	}

	s.log.Info("bootstrap environment built")
	return nil
}

// installToolchain pip-installs the package manager and the bootstrap
// packages into the environment. The manager spec itself is installed
// because the project step resolves its binary from this environment's
// scripts directory.
func (s *BootstrapStep) installToolchain(ctx context.Context) error {
	packages := append([]string{s.cfg.PackageManager}, s.cfg.BootstrapPackages...)
	args := append([]string{"install", "--no-warn-script-location"}, packages...)
	if err := s.runner.Run(ctx, s.envDir, s.env.PipPath(), args...); err != nil {
		return fmt.Errorf("install bootstrap packages: %w", err)
	}
	return nil
}
