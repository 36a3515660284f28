package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyboot-project/pyboot/pkg/color"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the bootstrap and project environments",
	Long: `Build runs both provisioning steps in order: the shared bootstrap
environment (skipped when its completion marker matches the current
configuration) and the project's virtual environment (skipped when it
exists and matches the interpreter version).`,
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient(cmd)

		if err := client.Build(cmd.Context()); err != nil {
			fmtErr("build: %v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]any{
				"fingerprint":   client.Fingerprint(),
				"bootstrap_dir": client.BootstrapEnvDir(),
				"venv_dir":      client.VenvDir(),
				"scripts_path":  client.VenvScriptsPath(),
			})
			return
		}

		fmt.Println(color.Success("Environments ready"))
		fmt.Printf("  Bootstrap: %s (%s)\n", client.BootstrapEnvDir(), color.Fingerprint(client.Fingerprint()))
		fmt.Printf("  Venv: %s\n", client.VenvDir())
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
