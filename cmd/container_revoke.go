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
	revokePurgeImage bool
	revokeDryRun     bool
	revokeYes        bool
)

func init() {
	revokeCmd.Flags().BoolVar(&revokePurgeImage, "purge-image", false, "also delete the archived carrier image, if any")
	revokeCmd.Flags().BoolVar(&revokeDryRun, "dry-run", false, "preview revocation without making changes")
	revokeCmd.Flags().BoolVarP(&revokeYes, "yes", "y", false, "skip confirmation prompts (for automation)")
}

// resetRevokeCommandState resets the revoke command's global state for testing.
func resetRevokeCommandState() {
	revokePurgeImage = false
	revokeDryRun = false
	revokeYes = false
}

var revokeCmd = &cobra.Command{
	Use:   "revoke [container-id]",
	Short: "Destroy a container's key material",
	Long: `Deletes the metadata record that holds a container's salts and
nonces. The carrier image keeps working as an ordinary picture, but
without the record no password, real or decoy, can ever unlock it
again. This cannot be undone.

You will be prompted to confirm unless --yes is specified.

Examples:
  # Revoke a container
  pentimento container revoke 1b4e28ba-2fa1-11d2-883f-0016d3cca427

  # Revoke and delete the archived carrier image too
  pentimento container revoke 1b4e28ba-2fa1-11d2-883f-0016d3cca427 --purge-image

  # Preview without making changes
  pentimento container revoke 1b4e28ba-2fa1-11d2-883f-0016d3cca427 --dry-run

  # Revoke without confirmation (for automation)
  pentimento container revoke 1b4e28ba-2fa1-11d2-883f-0016d3cca427 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRevoke,
}

func runRevoke(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting revoke command")

	containerID := args[0]

	spinner, cleanup := startSpinner("Revoking container...", verbose)
	defer cleanup()

	// The preview pass fetches the record so the confirmation prompt can
	// say what is about to be destroyed.
	preview, err := workflows.Revoke(context.Background(), workflows.RevokeOptions{
		ContainerID: containerID,
		PurgeImage:  revokePurgeImage,
		DryRun:      true,
	})
	if err != nil {
		spinner.FinalMSG = formatRevokeError(err)
		if isRevokeUnexpectedError(err) {
			return err
		}
		return nil
	}

	if revokeDryRun {
		msg := ui.Info.Sprint("→") + " Would delete the metadata record for " + ui.Highlight.Sprint(preview.ContainerID)
		if preview.Label != "" {
			msg += " " + ui.Muted.Sprintf("label %s", preview.Label)
		}
		if revokePurgeImage && preview.HasArchivedImage {
			msg += "\n" + ui.Info.Sprint("→") + " Would delete the archived carrier image"
		}
		msg += "\n" + ui.Info.Sprint("→") + " Run without " + ui.Flag.Sprint("--dry-run") + " to revoke"
		spinner.FinalMSG = msg
		return nil
	}

	if !revokeYes {
		spinner.Stop()

		fmt.Printf("\n%s Warning: this permanently destroys the key material for %s", ui.Warning.Sprint("⚠"), preview.ContainerID)
		if preview.Label != "" {
			fmt.Printf(" (%s)", preview.Label)
		}
		fmt.Println()
		fmt.Println("No password will ever unlock this container again.")

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Proceed? [y/N]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read response: %v", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Revocation cancelled\n"
			spinner.Restart()
			return nil
		}

		spinner.Restart()
	}

	result, err := workflows.Revoke(context.Background(), workflows.RevokeOptions{
		ContainerID: containerID,
		PurgeImage:  revokePurgeImage,
	})
	if err != nil {
		spinner.FinalMSG = formatRevokeError(err)
		if isRevokeUnexpectedError(err) {
			return err
		}
		return nil
	}

	Logger.Infof("Revoke command completed successfully")

	finalMessage := ui.Success.Sprint("✓") + " Container " + ui.Highlight.Sprint(result.ContainerID) + " revoked\n" +
		ui.Info.Sprint("→") + " The key material is gone; no password can unlock this container anymore"
	if result.ImagePurged {
		finalMessage += "\n" + ui.Info.Sprint("→") + " Archived carrier image deleted"
	} else if result.HasArchivedImage {
		finalMessage += "\n" + ui.Info.Sprint("→") + " An archived carrier image remains; remove it with " + ui.Flag.Sprint("--purge-image")
	}

	spinner.FinalMSG = finalMessage
	return nil
}

// formatRevokeError formats a revoke error for display to the user.
func formatRevokeError(err error) string {
	switch {
	case errors.Is(err, perrors.ErrInvalidContainerID):
		return ui.Error.Sprint("✗") + " Invalid container ID\n" +
			ui.Info.Sprint("→") + " Container IDs look like " + ui.Code.Sprint("1b4e28ba-2fa1-11d2-883f-0016d3cca427")

	case errors.Is(err, perrors.ErrStoreNotInitialized):
		return ui.Error.Sprint("✗") + " Metadata store is not initialized\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("pentimento store init") + " first"

	case errors.Is(err, perrors.ErrMetadataNotFound):
		return ui.Error.Sprint("✗") + " No metadata record for this container\n" +
			ui.Info.Sprint("→") + " It may already be revoked; check " + ui.Code.Sprint("pentimento store status --containers")

	default:
		return ui.Error.Sprint("✗") + " Failed to revoke container: " + err.Error()
	}
}

// isRevokeUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isRevokeUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, perrors.ErrInvalidContainerID),
		errors.Is(err, perrors.ErrStoreNotInitialized),
		errors.Is(err, perrors.ErrMetadataNotFound):
		return false
	default:
		return true
	}
}
