package venv

import (
	"context"
	"fmt"
	"regexp"
)

var pythonVersionRegex = regexp.MustCompile(`^Python (\d+\.\d+\.\d+)`)

// ParsePythonVersion extracts "major.minor.micro" from the output of
// "python --version" (e.g. "Python 3.11.8" -> "3.11.8").
func ParsePythonVersion(output string) (string, error) {
	m := pythonVersionRegex.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("unexpected python version output: %q", output)
	}
	return m[1], nil
}

// InterpreterVersion reports the major.minor.micro version of the given
// interpreter executable.
func InterpreterVersion(ctx context.Context, runner Runner, pythonPath string) (string, error) {
	out, err := runner.Output(ctx, "", pythonPath, "--version")
	if err != nil {
		return "", fmt.Errorf("query interpreter version: %w", err)
	}
	return ParsePythonVersion(out)
}
