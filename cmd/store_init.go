package cmd

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/workflows"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var storeInitForce bool

func init() {
	storeInitCmd.Flags().BoolVar(&storeInitForce, "force", false, "initialize even if the store directory is not empty")
}

// resetStoreInitCommandState resets the store init command's global state for testing.
func resetStoreInitCommandState() {
	storeInitForce = false
}

var storeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the metadata store",
	Long: `Creates the metadata store, the image archive directory, and a
default config file if one does not exist yet.

Hiding a container creates the store on demand, so running init is only
required when you want the store in place before the first hide, or to
recreate it after a purge.

Examples:
  pentimento store init
  pentimento store init --force`,
	RunE: runStoreInit,
}

func runStoreInit(cmd *cobra.Command, args []string) error {
	StoreLogger.Infof("Starting store init command")

	spinner, cleanup := startSpinnerWithFlags("Initializing metadata store...", storeVerbose, storeDebug)
	defer cleanup()

	result, err := workflows.InitStore(context.Background(), workflows.InitStoreOptions{
		Force: storeInitForce,
	})
	if err != nil {
		switch {
		case errors.Is(err, perrors.ErrStoreAlreadyInitialized):
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Metadata store is already initialized\n" +
				ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to reinitialize (existing records are kept)"
			return nil
		case errors.Is(err, perrors.ErrInsufficientDiskSpace):
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + err.Error()
			return nil
		default:
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to initialize store: " + err.Error()
			return err
		}
	}

	StoreLogger.Infof("Store init command completed successfully")

	// Stop spinner before printing the banner
	spinner.Stop()
	fmt.Println()
	myFigure := figure.NewColorFigure("Pentimento", "alligator2", "green", true)
	myFigure.Print()
	fmt.Println()

	fmt.Println(ui.Success.Sprint("✓") + " Metadata store initialized")
	fmt.Println()
	fmt.Printf("  %-14s %s\n", "Store:", ui.Path.Sprint(result.StorePath))
	fmt.Printf("  %-14s %s\n", "Archive:", ui.Path.Sprint(result.ArchivePath))
	fmt.Printf("  %-14s %s\n", "Config:", ui.Path.Sprint(result.ConfigPath))
	if result.ConfigCreated {
		fmt.Println(ui.Info.Sprint("→") + " A default config was written; adjust it with " + ui.Code.Sprint("pentimento config show"))
	}
	fmt.Println(ui.Info.Sprint("→") + " Hide your first container with " + ui.Code.Sprint("pentimento container hide"))
	return nil
}
