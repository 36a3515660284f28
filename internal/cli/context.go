package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyboot-project/pyboot/pkg/color"
	"github.com/pyboot-project/pyboot/pkg/pyboot"
)

// requireClient opens the project named by --project, or exits with error.
func requireClient(cmd *cobra.Command) *pyboot.Client {
	projectDir, _ := cmd.Flags().GetString("project")
	if projectDir == "" {
		projectDir = "."
	}
	configPath, _ := cmd.Flags().GetString("config")

	client, err := pyboot.Open(projectDir, pyboot.Options{ConfigPath: configPath})
	if err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
	return client
}

func fmtErr(format string, args ...any) {
	prefix := "pyboot: "
	if color.Enabled() {
		prefix = color.Error("pyboot:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
