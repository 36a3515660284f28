package pyboot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pyboot-project/pyboot/internal/steps"
	"github.com/pyboot-project/pyboot/internal/venv"
	"github.com/pyboot-project/pyboot/pkg/config"
	"github.com/pyboot-project/pyboot/pkg/model"
	"github.com/pyboot-project/pyboot/pkg/settings"
)

// Client provides high-level environment operations for one project directory.
type Client struct {
	projectDir string
	cfg        *config.Config
	set        *settings.Settings
	bootstrap  *steps.BootstrapStep
	venvStep   *steps.VenvStep
}

// Options configures how a project is opened.
type Options struct {
	// ConfigPath overrides the configuration file location; empty means
	// <projectDir>/bootstrap.json.
	ConfigPath string

	// Runner executes interpreters and package managers; nil uses the
	// real subprocess runner.
	Runner venv.Runner

	// BaseInterpreter pins the interpreter used to create environments
	// instead of searching the system path.
	BaseInterpreter string
}

// Open loads the project's configuration and settings and prepares both
// build steps. A missing bootstrap.json or pyboot.yaml yields defaults.
func Open(projectDir string, opts Options) (*Client, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(abs, config.FileName)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	set, err := settings.Load(abs)
	if err != nil {
		return nil, err
	}
	set.ApplyLogging()

	runner := opts.Runner
	if runner == nil {
		runner = venv.NewExecRunner()
	}
	var venvOpts []venv.Option
	if opts.BaseInterpreter != "" {
		venvOpts = append(venvOpts, venv.WithBaseInterpreter(opts.BaseInterpreter))
	}

	bootstrap, err := steps.NewBootstrapStep(cfg, set, abs, runner, venvOpts...)
	if err != nil {
		return nil, err
	}
	venvStep, err := steps.NewVenvStep(abs, bootstrap, runner, venvOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		projectDir: abs,
		cfg:        cfg,
		set:        set,
		bootstrap:  bootstrap,
		venvStep:   venvStep,
	}, nil
}

// Steps returns the build steps in dependency order: the bootstrap
// environment first, then the project environment.
func (c *Client) Steps() []model.Step {
	return []model.Step{c.bootstrap, c.venvStep}
}

// Build runs all steps in order, stopping at the first failure.
func (c *Client) Build(ctx context.Context) error {
	for _, step := range c.Steps() {
		if err := step.Build(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

// ProjectDir returns the absolute project directory.
func (c *Client) ProjectDir() string {
	return c.projectDir
}

// Config returns the resolved bootstrap configuration.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// Settings returns the resolved tool settings.
func (c *Client) Settings() *settings.Settings {
	return c.set
}

// Fingerprint identifies the bootstrap environment for this configuration.
func (c *Client) Fingerprint() string {
	return c.bootstrap.Fingerprint()
}

// BootstrapEnvDir is the fingerprint-keyed directory under the shared cache.
func (c *Client) BootstrapEnvDir() string {
	return c.bootstrap.EnvDir()
}

// BootstrapValid reports whether the bootstrap environment on disk is
// complete and matches the current configuration.
func (c *Client) BootstrapValid() bool {
	return c.bootstrap.IsValid()
}

// VenvDir is the project's environment directory.
func (c *Client) VenvDir() string {
	return c.venvStep.VenvDir()
}

// VenvScriptsPath is the executables directory inside the project
// environment, suitable for PATH prefixes.
func (c *Client) VenvScriptsPath() string {
	return c.venvStep.Env().ScriptsPath()
}
