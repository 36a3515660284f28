package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyboot-project/pyboot/internal/lock"
	"github.com/pyboot-project/pyboot/pkg/color"
	"github.com/pyboot-project/pyboot/pkg/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show environment status for the project",
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient(cmd)

		venvExists := false
		if _, err := os.Stat(client.VenvDir()); err == nil {
			venvExists = true
		}

		cacheDir, err := client.Config().ResolvedCacheDir()
		if err != nil {
			fmtErr("resolve cache dir: %v", err)
			os.Exit(1)
		}
		policy, err := client.Settings().LockPolicy()
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		mgr := lock.NewManager(cacheDir, policy)
		lockState, lockRec, err := mgr.Status(client.Fingerprint())
		if err != nil {
			fmtErr("check lock status: %v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]any{
				"project_dir":     client.ProjectDir(),
				"fingerprint":     client.Fingerprint(),
				"bootstrap_dir":   client.BootstrapEnvDir(),
				"bootstrap_valid": client.BootstrapValid(),
				"venv_dir":        client.VenvDir(),
				"venv_exists":     venvExists,
				"lock_state":      lockState,
				"lock":            lockRec,
			})
			return
		}

		fmt.Printf("Project: %s\n", client.ProjectDir())
		fmt.Printf("Fingerprint: %s\n", color.Fingerprint(client.Fingerprint()))
		fmt.Printf("Bootstrap: %s\n", client.BootstrapEnvDir())
		fmt.Printf("  Valid: %s\n", yesNo(client.BootstrapValid()))
		fmt.Printf("Venv: %s\n", client.VenvDir())
		fmt.Printf("  Exists: %s\n", yesNo(venvExists))
		fmt.Printf("Lock state: %s\n", lockState)
		if lockRec != nil && lockState != model.LockStateFree {
			fmt.Printf("  Holder: %s\n", lockRec.HolderNonce[:8]+"...")
			fmt.Printf("  Expires: %s\n", lockRec.ExpiresAt.Format(time.RFC3339))
		}
	},
}

func yesNo(v bool) string {
	if v {
		return color.Success("yes")
	}
	return color.Warning("no")
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
