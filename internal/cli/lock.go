package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyboot-project/pyboot/internal/lock"
	"github.com/pyboot-project/pyboot/pkg/model"
	"github.com/pyboot-project/pyboot/pkg/pyboot"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Inspect and recover bootstrap build locks",
}

var lockStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the build lock for this project's fingerprint",
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient(cmd)
		mgr := lockManager(client)

		state, rec, err := mgr.Status(client.Fingerprint())
		if err != nil {
			fmtErr("check lock status: %v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]any{
				"fingerprint": client.Fingerprint(),
				"state":       state,
				"lock":        rec,
			})
			return
		}

		fmt.Printf("Fingerprint: %s\n", client.Fingerprint())
		fmt.Printf("Lock state: %s\n", state)
		if rec != nil {
			fmt.Printf("  Holder: %s\n", rec.HolderNonce[:8]+"...")
			fmt.Printf("  Purpose: %s\n", rec.Purpose)
			fmt.Printf("  Acquired: %s\n", rec.AcquiredAt.Format(time.RFC3339))
			fmt.Printf("  Expires: %s\n", rec.ExpiresAt.Format(time.RFC3339))
		}
	},
}

var lockBreakCmd = &cobra.Command{
	Use:   "break",
	Short: "Remove an expired build lock left by a crashed builder",
	Long: `Break takes over an expired lock and immediately releases it. Held
(unexpired) locks are refused: the builder may still be running.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient(cmd)
		mgr := lockManager(client)

		state, _, err := mgr.Status(client.Fingerprint())
		if err != nil {
			fmtErr("check lock status: %v", err)
			os.Exit(1)
		}
		if state == model.LockStateFree {
			fmt.Println("No lock to break")
			return
		}

		rec, err := mgr.Steal(client.Fingerprint(), "manual break")
		if err != nil {
			fmtErr("break lock: %v", err)
			os.Exit(1)
		}
		if err := mgr.Release(client.Fingerprint(), rec.HolderNonce); err != nil {
			fmtErr("release lock: %v", err)
			os.Exit(1)
		}

		if !jsonOutput {
			fmt.Printf("Lock broken for fingerprint %s\n", client.Fingerprint())
		}
	},
}

func lockManager(client *pyboot.Client) *lock.Manager {
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
	return lock.NewManager(cacheDir, policy)
}

func init() {
	lockCmd.AddCommand(lockStatusCmd)
	lockCmd.AddCommand(lockBreakCmd)
	rootCmd.AddCommand(lockCmd)
}
