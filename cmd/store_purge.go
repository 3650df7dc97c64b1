package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	storePurgeKeepArchive bool
	storePurgeYes         bool
)

func init() {
	storePurgeCmd.Flags().BoolVar(&storePurgeKeepArchive, "keep-archive", false, "keep archived carrier images")
	storePurgeCmd.Flags().BoolVarP(&storePurgeYes, "yes", "y", false, "skip confirmation prompts (for automation)")
}

// resetStorePurgeCommandState resets the store purge command's global state for testing.
func resetStorePurgeCommandState() {
	storePurgeKeepArchive = false
	storePurgeYes = false
}

var storePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Destroy every container record at once",
	Long: `Deletes every metadata record in the store and, unless --keep-archive
is given, every archived carrier image. This is the kill switch: after a
purge, no container hidden from this machine can ever be unlocked again,
by any password. The carrier images themselves keep working as ordinary
pictures.

You will be prompted to confirm unless --yes is specified.

Examples:
  pentimento store purge
  pentimento store purge --keep-archive
  pentimento store purge --yes`,
	RunE: runStorePurge,
}

func runStorePurge(cmd *cobra.Command, args []string) error {
	StoreLogger.Infof("Starting store purge command")

	spinner, cleanup := startSpinnerWithFlags("Purging metadata store...", storeVerbose, storeDebug)
	defer cleanup()

	if !storePurgeYes {
		spinner.Stop()

		fmt.Printf("\n%s Warning: this destroys the key material for every container hidden from this machine\n", ui.Warning.Sprint("⚠"))
		fmt.Println("All of them become permanently unopenable, real and decoy passwords alike.")

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Proceed? [y/N]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			return StoreLogger.ErrorfAndReturn("Failed to read response: %v", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Purge cancelled\n"
			spinner.Restart()
			return nil
		}

		spinner.Restart()
	}

	result, err := workflows.Purge(context.Background(), workflows.PurgeOptions{
		KeepArchive: storePurgeKeepArchive,
	})
	if err != nil {
		if errors.Is(err, perrors.ErrStoreNotInitialized) {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Metadata store is not initialized\n" +
				ui.Info.Sprint("→") + " There is nothing to purge"
			return nil
		}
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to purge store: " + err.Error()
		return err
	}

	StoreLogger.Infof("Store purge command completed successfully")

	finalMessage := ui.Success.Sprint("✓") + " Purged " + fmt.Sprintf("%d record(s)", result.RecordsDeleted) + "\n"
	if storePurgeKeepArchive {
		finalMessage += ui.Info.Sprint("→") + " Archived carrier images were kept"
	} else {
		finalMessage += ui.Info.Sprint("→") + fmt.Sprintf(" Deleted %d archived image(s)", result.ImagesDeleted)
	}

	spinner.FinalMSG = finalMessage
	return nil
}
