package venv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external commands. Steps and environment handles take a
// Runner so tests can substitute a fake instead of spawning interpreters
// and package managers.
type Runner interface {
	// Run executes the command in dir (or the process cwd when dir is
	// empty) and waits for completion.
	Run(ctx context.Context, dir string, name string, args ...string) error

	// Output executes the command and returns its combined trimmed stdout.
	Output(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// execRunner runs commands via os/exec, capturing stderr so failures carry
// the external tool's diagnostics.
type execRunner struct{}

// NewExecRunner returns the Runner used outside of tests.
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w, stderr: %s", name, err, stderr.String())
	}
	return nil
}

func (execRunner) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w, stderr: %s", name, err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}
