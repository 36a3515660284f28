package pmspec_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyboot-project/pyboot/internal/pmspec"
	"github.com/pyboot-project/pyboot/pkg/errclass"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		spec     string
		expected string
	}{
		{"poetry>=1.7.1", "poetry"},
		{"poetry==2.1.0", "poetry"},
		{"uv", "uv"},
		{"pipenv>=2023.0.0", "pipenv"},
		{"pip-tools==7.4.0", "pip-tools"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			name, err := pmspec.ParseName(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestParseName_Invalid(t *testing.T) {
	for _, spec := range []string{">=1.0.0", "==2.1.0", "", "   "} {
		t.Run(spec, func(t *testing.T) {
			_, err := pmspec.ParseName(spec)
			require.ErrorIs(t, err, errclass.ErrPMSpecInvalid)
		})
	}
}

func TestInstallCommand(t *testing.T) {
	scripts := filepath.Join("/cache", "abc123def456", ".venv", "bin")

	tests := []struct {
		name      string
		spec      string
		override  string
		extraArgs []string
		expected  []string
	}{
		{
			name:     "poetry uses install verb",
			spec:     "poetry==2.1.0",
			expected: []string{filepath.Join(scripts, "poetry"), "install"},
		},
		{
			name:      "pipenv with extra args",
			spec:      "pipenv",
			extraArgs: []string{"--clean"},
			expected:  []string{filepath.Join(scripts, "pipenv"), "install", "--clean"},
		},
		{
			name:     "uv uses sync verb",
			spec:     "uv",
			expected: []string{filepath.Join(scripts, "uv"), "sync"},
		},
		{
			name:     "override is verbatim",
			spec:     "poetry==2.1.0",
			override: "poetry install --no-interaction --no-dev",
			expected: []string{"poetry", "install", "--no-interaction", "--no-dev"},
		},
		{
			name:      "override ignores extra args",
			spec:      "pipenv",
			override:  "pipenv sync",
			extraArgs: []string{"--clean"},
			expected:  []string{"pipenv", "sync"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := pmspec.InstallCommand(scripts, tt.spec, tt.override, tt.extraArgs)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestInstallCommand_ExtraArgOrderPreserved(t *testing.T) {
	cmd, err := pmspec.InstallCommand("/s", "poetry", "", []string{"--no-dev", "--sync", "-v"})
	require.NoError(t, err)
	assert.Equal(t, []string{"--no-dev", "--sync", "-v"}, cmd[2:])
}

func TestInstallCommand_UnknownManagerFails(t *testing.T) {
	_, err := pmspec.InstallCommand("/s", "mysterytool==1.0", "", nil)
	require.ErrorIs(t, err, errclass.ErrUserConfig)
}

func TestInstallCommand_InvalidSpecFails(t *testing.T) {
	_, err := pmspec.InstallCommand("/s", ">=1.0.0", "", nil)
	require.ErrorIs(t, err, errclass.ErrPMSpecInvalid)
}

func TestInstallCommand_BlankOverrideFails(t *testing.T) {
	for _, override := range []string{" ", "   ", "\t", " \t \n"} {
		t.Run(fmt.Sprintf("%q", override), func(t *testing.T) {
			cmd, err := pmspec.InstallCommand("/s", "poetry", override, nil)
			require.ErrorIs(t, err, errclass.ErrUserConfig)
			assert.Nil(t, cmd)
		})
	}
}
