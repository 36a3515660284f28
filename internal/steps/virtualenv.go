package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pyboot-project/pyboot/internal/pmspec"
	"github.com/pyboot-project/pyboot/internal/venv"
	"github.com/pyboot-project/pyboot/pkg/config"
	"github.com/pyboot-project/pyboot/pkg/fsutil"
	"github.com/pyboot-project/pyboot/pkg/logging"
	"github.com/pyboot-project/pyboot/pkg/settings"
)

const (
	// VenvStepName identifies the project environment step.
	VenvStepName = "create-virtual-environment"

	// PythonVersionMarker records, inside the project environment, the
	// interpreter version that last built it.
	PythonVersionMarker = ".python_version"
)

// manifests lists, per package manager, the dependency files the manager
// reads. They become orchestrator inputs so dependency edits retrigger
// the step.
var manifests = map[string][]string{
	"pip":    {"requirements.txt"},
	"pipenv": {"Pipfile", "Pipfile.lock"},
	"poetry": {"pyproject.toml", "poetry.lock"},
	"pdm":    {"pyproject.toml", "pdm.lock"},
	"hatch":  {"pyproject.toml"},
	"uv":     {"pyproject.toml", "uv.lock"},
}

// VenvStep builds the per-project virtual environment using the bootstrap
// environment's installer toolchain.
type VenvStep struct {
	projectDir string
	bootstrap  *BootstrapStep
	cfg        *config.Config
	pmName     string
	venvDir    string
	env        venv.Env
	runner     venv.Runner
	log        *logging.Logger
}

// NewVenvStep constructs the step for a project directory on top of its
// bootstrap dependency. Fails with a user configuration error when the
// configured package-manager spec has no parsable name.
func NewVenvStep(projectDir string, bootstrap *BootstrapStep, runner venv.Runner, venvOpts ...venv.Option) (*VenvStep, error) {
	cfg := bootstrap.Config()
	pmName, err := pmspec.ParseName(cfg.PackageManager)
	if err != nil {
		return nil, err
	}

	venvDir := filepath.Join(projectDir, VenvDirName)
	return &VenvStep{
		projectDir: projectDir,
		bootstrap:  bootstrap,
		cfg:        cfg,
		pmName:     pmName,
		venvDir:    venvDir,
		env:        venv.New(venvDir, runner, venvOpts...),
		runner:     runner,
		log:        logging.WithFields(map[string]any{"step": VenvStepName, "project": projectDir}),
	}, nil
}

// PackageManagerName is the bare manager name parsed from the configured spec.
func (s *VenvStep) PackageManagerName() string { return s.pmName }

// VenvDir is the project's environment directory.
func (s *VenvStep) VenvDir() string { return s.venvDir }

// Env is the project's environment handle.
func (s *VenvStep) Env() venv.Env { return s.env }

// Name returns the stable step identifier.
func (s *VenvStep) Name() string { return VenvStepName }

// Inputs are the manager's dependency manifests, both configuration files,
// and the bootstrap marker file. The marker entry is the explicit
// dependency edge: whenever the shared bootstrap environment is rebuilt,
// the orchestrator considers this step stale.
func (s *VenvStep) Inputs() []string {
	inputs := make([]string, 0, 5)
	for _, m := range manifests[s.pmName] {
		inputs = append(inputs, filepath.Join(s.projectDir, m))
	}
	inputs = append(inputs,
		filepath.Join(s.projectDir, config.FileName),
		filepath.Join(s.projectDir, settings.FileName),
		s.bootstrap.MarkerFile(),
	)
	return inputs
}

// Outputs are exactly the project's and the bootstrap environment's
// scripts paths.
func (s *VenvStep) Outputs() []string {
	return []string{s.env.ScriptsPath(), s.bootstrap.Env().ScriptsPath()}
}

// Describe summarizes the step for observability.
func (s *VenvStep) Describe() map[string]any {
	return map[string]any{
		"package_manager_name":  s.pmName,
		"project_dir":           s.projectDir,
		"bootstrap_fingerprint": s.bootstrap.Fingerprint(),
	}
}

// InstallCommand resolves the dependency install command. The manager
// binary always comes from the bootstrap environment's scripts path: only
// the bootstrap environment is guaranteed to carry an installed manager.
// The install targets the project's own environment via the manager's
// environment-detection convention.
func (s *VenvStep) InstallCommand() ([]string, error) {
	return pmspec.InstallCommand(
		s.bootstrap.Env().ScriptsPath(),
		s.cfg.PackageManager,
		s.cfg.VenvInstallCommand,
		s.cfg.PackageManagerArgs,
	)
}

// CheckInterpreterCompatibility deletes the project environment wholesale
// when its version marker is absent or does not match the given
// major.minor.micro version. A matching marker leaves every file untouched.
func (s *VenvStep) CheckInterpreterCompatibility(version string) error {
	if _, err := os.Stat(s.venvDir); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(s.venvDir, PythonVersionMarker))
	if err == nil && strings.TrimSpace(string(data)) == version {
		return nil
	}

	s.log.Info("removing incompatible virtual environment", map[string]any{
		"venv_dir":        s.venvDir,
		"current_version": version,
	})
	if err := os.RemoveAll(s.venvDir); err != nil {
		return fmt.Errorf("remove incompatible environment: %w", err)
	}
	return nil
}

// WriteVersionMarker records the interpreter version that built the
// environment. Called only after a successful install.
func (s *VenvStep) WriteVersionMarker(version string) error {
	if err := os.MkdirAll(s.venvDir, 0755); err != nil {
		return fmt.Errorf("create venv dir: %w", err)
	}
	if err := fsutil.AtomicWrite(filepath.Join(s.venvDir, PythonVersionMarker), []byte(version), 0644); err != nil {
		return fmt.Errorf("write version marker: %w", err)
	}
	return nil
}

// Build checks interpreter compatibility, reinstalls the project's
// dependencies when the environment is missing, and finally records the
// interpreter version. An existing compatible environment is reused as is.
func (s *VenvStep) Build(ctx context.Context) error {
	version, err := venv.InterpreterVersion(ctx, s.runner, s.bootstrap.Env().PythonPath())
	if err != nil {
		return err
	}

	if err := s.CheckInterpreterCompatibility(version); err != nil {
		return err
	}

	if _, err := os.Stat(s.venvDir); err == nil {
		s.log.Debug("virtual environment up to date")
		return nil
	}

	cmd, err := s.InstallCommand()
	if err != nil {
		return err
	}

	s.log.Info("installing project dependencies", map[string]any{"command": strings.Join(cmd, " ")})
	if err := s.runner.Run(ctx, s.projectDir, cmd[0], cmd[1:]...); err != nil {
		return fmt.Errorf("install project dependencies: %w", err)
	}

	if err := s.env.GitignoreConfigure(); err != nil {
		return err
	}
	return s.WriteVersionMarker(version)
}
