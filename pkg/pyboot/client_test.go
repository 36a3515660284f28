package pyboot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyboot-project/pyboot/pkg/errclass"
	"github.com/pyboot-project/pyboot/pkg/pyboot"
)

type fakeRunner struct {
	commands [][]string
}

func (f *fakeRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	f.commands = append(f.commands, append([]string{name}, args...))
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	f.commands = append(f.commands, append([]string{name}, args...))
	return "Python 3.11.8", nil
}

func writeProject(t *testing.T, configJSON string) string {
	t.Helper()
	projectDir := t.TempDir()
	if configJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, "bootstrap.json"), []byte(configJSON), 0644))
	}
	return projectDir
}

func openTestClient(t *testing.T, projectDir string) (*pyboot.Client, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{}
	client, err := pyboot.Open(projectDir, pyboot.Options{
		Runner:          runner,
		BaseInterpreter: "/usr/bin/python3",
	})
	require.NoError(t, err)
	return client, runner
}

func TestOpen_Defaults(t *testing.T) {
	client, _ := openTestClient(t, writeProject(t, ""))

	assert.Equal(t, "pipenv", client.Config().PackageManager)
	assert.Len(t, client.Fingerprint(), 12)
	assert.Equal(t, filepath.Join(client.ProjectDir(), ".venv"), client.VenvDir())
}

func TestOpen_MalformedConfig(t *testing.T) {
	projectDir := writeProject(t, "{not json")

	_, err := pyboot.Open(projectDir, pyboot.Options{Runner: &fakeRunner{}})
	require.ErrorIs(t, err, errclass.ErrUserConfig)
}

func TestOpen_BadManagerSpec(t *testing.T) {
	projectDir := writeProject(t, `{"python_package_manager": "==1.0"}`)

	_, err := pyboot.Open(projectDir, pyboot.Options{Runner: &fakeRunner{}})
	require.ErrorIs(t, err, errclass.ErrPMSpecInvalid)
}

func TestClient_StepsInDependencyOrder(t *testing.T) {
	client, _ := openTestClient(t, writeProject(t, ""))

	s := client.Steps()
	require.Len(t, s, 2)
	assert.Equal(t, "create-bootstrap-environment", s[0].Name())
	assert.Equal(t, "create-virtual-environment", s[1].Name())
}

func TestClient_Build(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	projectDir := writeProject(t, `{
		"python_package_manager": "poetry==2.1.0",
		"bootstrap_cache_dir": "`+cacheDir+`"
	}`)
	client, runner := openTestClient(t, projectDir)

	require.NoError(t, client.Build(context.Background()))

	assert.True(t, client.BootstrapValid())
	assert.NotEmpty(t, runner.commands)

	data, err := os.ReadFile(filepath.Join(client.VenvDir(), ".python_version"))
	require.NoError(t, err)
	assert.Equal(t, "3.11.8", string(data))
}
