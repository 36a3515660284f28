package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pyboot-project/pyboot/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved bootstrap configuration",
	Long: `Show the configuration loaded from bootstrap.json, with defaults
filled in. The fingerprint covers python_version, python_package_manager
and bootstrap_packages; invocation options do not affect it.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient(cmd)
		cfg := client.Config()

		if jsonOutput {
			outputJSON(map[string]any{
				"config":      cfg,
				"fingerprint": client.Fingerprint(),
			})
			return
		}

		fmt.Printf("# Configuration (%s)\n\n", config.FileName)
		printValue("python_version", cfg.PythonVersion)
		printValue("python_package_manager", cfg.PackageManager)
		printValue("python_package_manager_args", strings.Join(cfg.PackageManagerArgs, " "))
		printValue("bootstrap_packages", strings.Join(cfg.BootstrapPackages, ", "))
		printValue("bootstrap_cache_dir", cfg.BootstrapCacheDir)
		printValue("venv_install_command", cfg.VenvInstallCommand)
		fmt.Printf("\nfingerprint: %s\n", client.Fingerprint())
	},
}

func printValue(key, value string) {
	if value == "" {
		fmt.Printf("%s: (not set)\n", key)
		return
	}
	fmt.Printf("%s: %s\n", key, value)
}

func init() {
	rootCmd.AddCommand(configCmd)
}
