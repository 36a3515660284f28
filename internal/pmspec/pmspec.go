// Package pmspec parses package-manager specifiers ("poetry==2.1.0") and
// builds the install command the project-environment step executes.
package pmspec

import (
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/pyboot-project/pyboot/pkg/errclass"
)

// nameRegex matches the leading name token of a specifier: the run of
// letters, digits and hyphens before any comparator or version suffix.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+`)

// Verb is the canonical install subcommand of a package-manager family.
type Verb string

const (
	VerbInstall Verb = "install"
	VerbSync    Verb = "sync"
)

// verbs maps known package-manager names to their install verb. Managers
// not listed here are rejected rather than guessed at: a wrong verb would
// fail in confusing ways deep inside the external tool.
var verbs = map[string]Verb{
	"pip":    VerbInstall,
	"pipenv": VerbInstall,
	"poetry": VerbInstall,
	"pdm":    VerbInstall,
	"hatch":  VerbInstall,
	"uv":     VerbSync,
}

// ParseName extracts the package-manager name from a specifier like
// "poetry>=1.7.1" or "uv". A specifier without a leading name token
// (e.g. ">=1.0.0") is a user configuration error.
func ParseName(spec string) (string, error) {
	name := nameRegex.FindString(strings.TrimSpace(spec))
	if name == "" {
		return "", errclass.ErrPMSpecInvalid.WithMessagef(
			"invalid package manager specifier %q: no leading name found", spec)
	}
	return name, nil
}

// InstallCommand produces the argument vector that installs a project's
// dependencies.
//
// When override is non-empty it is tokenized by whitespace and returned
// verbatim; extraArgs are ignored, and an override with no tokens is a user
// configuration error. Otherwise the manager binary is resolved
// from scriptsDir (the bootstrap environment's scripts directory, never the
// system path), followed by the manager family's canonical verb and any
// extraArgs in the order supplied.
func InstallCommand(scriptsDir, spec, override string, extraArgs []string) ([]string, error) {
	if override != "" {
		tokens := strings.Fields(override)
		if len(tokens) == 0 {
			return nil, errclass.ErrUserConfig.WithMessage(
				"venv_install_command is set but contains no command")
		}
		return tokens, nil
	}

	name, err := ParseName(spec)
	if err != nil {
		return nil, err
	}

	verb, ok := verbs[name]
	if !ok {
		return nil, errclass.ErrUserConfig.WithMessagef(
			"unknown package manager %q: known managers are %s", name, knownManagers())
	}

	cmd := []string{filepath.Join(scriptsDir, binaryName(name)), string(verb)}
	return append(cmd, extraArgs...), nil
}

// binaryName appends the executable suffix on Windows.
func binaryName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func knownManagers() string {
	names := make([]string, 0, len(verbs))
	for n := range verbs {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
