// Package venv provides the OS-portable handle onto a directory holding a
// Python interpreter installation. The Windows and POSIX variants are
// selected once at construction; call sites never branch on the platform.
package venv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pyboot-project/pyboot/pkg/errclass"
)

// Env is the portable contract of an interpreter environment rooted at a
// directory. The invariant PythonPath().parent == ScriptsPath() holds for
// every variant.
type Env interface {
	// Dir is the environment root.
	Dir() string

	// ScriptsPath is the directory holding the environment's executable
	// entry points: <dir>/Scripts on Windows, <dir>/bin elsewhere.
	ScriptsPath() string

	// PythonPath is the interpreter executable inside ScriptsPath.
	PythonPath() string

	// PipPath is the installer executable inside ScriptsPath.
	PipPath() string

	// Create materializes the interpreter environment at Dir by invoking
	// an external base interpreter ("python -m venv"). It is idempotent
	// and never destroys configuration files already written inside Dir:
	// a pip.conf written before Create survives it.
	Create(ctx context.Context) error

	// PipConfigure writes the environment's package index configuration
	// (pip.ini on Windows, pip.conf elsewhere).
	PipConfigure(indexURL string, verifySSL bool) error

	// GitignoreConfigure writes a .gitignore that keeps the whole
	// environment out of version control.
	GitignoreConfigure() error
}

// Option customizes environment construction.
type Option func(*base)

// WithBaseInterpreter pins the interpreter used to materialize the
// environment instead of searching the system path.
func WithBaseInterpreter(path string) Option {
	return func(b *base) { b.basePython = path }
}

// New returns the variant matching the host operating system.
func New(dir string, runner Runner, opts ...Option) Env {
	return NewForOS(dir, runtime.GOOS, runner, opts...)
}

// NewForOS returns the variant for an explicit GOOS value. Everything that
// differs between platforms is decided here, once.
func NewForOS(dir, goos string, runner Runner, opts ...Option) Env {
	b := base{dir: dir, runner: runner}
	for _, opt := range opts {
		opt(&b)
	}
	if goos == "windows" {
		return &windowsEnv{base: b}
	}
	return &posixEnv{base: b}
}

// base carries the state shared by both variants.
type base struct {
	dir        string
	runner     Runner
	basePython string
}

func (b *base) Dir() string { return b.dir }

// create runs the venv module of the base interpreter. The venv module is
// additive when the target exists: foreign files inside the directory are
// left alone.
func (b *base) create(ctx context.Context, candidates []string) error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create env dir: %w", err)
	}

	python := b.basePython
	if python == "" {
		found, err := findInterpreter(candidates)
		if err != nil {
			return err
		}
		python = found
	}

	if err := b.runner.Run(ctx, "", python, "-m", "venv", b.dir); err != nil {
		return fmt.Errorf("create virtual environment at %s: %w", b.dir, err)
	}
	return nil
}

// pipConfigure writes exactly the two- or three-line pip index file.
func (b *base) pipConfigure(fileName, indexURL string, verifySSL bool) error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create env dir: %w", err)
	}
	content := fmt.Sprintf("[global]\nindex-url = %s\n", indexURL)
	if !verifySSL {
		content += "cert = false\n"
	}
	if err := os.WriteFile(filepath.Join(b.dir, fileName), []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	return nil
}

// GitignoreConfigure writes a catch-all .gitignore inside the environment.
func (b *base) GitignoreConfigure() error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create env dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.dir, ".gitignore"), []byte("*\n"), 0644); err != nil {
		return fmt.Errorf("write .gitignore: %w", err)
	}
	return nil
}

func findInterpreter(candidates []string) (string, error) {
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errclass.ErrEnvTool.WithMessagef("no python interpreter found (tried %v)", candidates)
}

// posixEnv is the POSIX-flavored variant: executables under bin/.
type posixEnv struct {
	base
}

func (e *posixEnv) ScriptsPath() string { return filepath.Join(e.dir, "bin") }
func (e *posixEnv) PythonPath() string  { return filepath.Join(e.ScriptsPath(), "python") }
func (e *posixEnv) PipPath() string     { return filepath.Join(e.ScriptsPath(), "pip") }

func (e *posixEnv) Create(ctx context.Context) error {
	return e.create(ctx, []string{"python3", "python"})
}

func (e *posixEnv) PipConfigure(indexURL string, verifySSL bool) error {
	return e.pipConfigure("pip.conf", indexURL, verifySSL)
}

// windowsEnv is the Windows-flavored variant: executables under Scripts/,
// with the .exe suffix.
type windowsEnv struct {
	base
}

func (e *windowsEnv) ScriptsPath() string { return filepath.Join(e.dir, "Scripts") }
func (e *windowsEnv) PythonPath() string  { return filepath.Join(e.ScriptsPath(), "python.exe") }
func (e *windowsEnv) PipPath() string     { return filepath.Join(e.ScriptsPath(), "pip.exe") }

func (e *windowsEnv) Create(ctx context.Context) error {
	return e.create(ctx, []string{"python", "py"})
}

func (e *windowsEnv) PipConfigure(indexURL string, verifySSL bool) error {
	return e.pipConfigure("pip.ini", indexURL, verifySSL)
}
