package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	revealImage        string
	revealID           string
	revealOut          string
	revealStdout       bool
	revealShowRole     bool
	revealPasswordFile string
)

func init() {
	revealCmd.Flags().StringVar(&revealImage, "image", "", "carrier image to read")
	revealCmd.Flags().StringVar(&revealID, "id", "", "read the carrier image from the local archive by container ID")
	revealCmd.Flags().StringVarP(&revealOut, "out", "o", "", "where to write the unlocked file (defaults to its stored name)")
	revealCmd.Flags().BoolVar(&revealStdout, "stdout", false, "write the unlocked secret to stdout instead of a file")
	revealCmd.Flags().BoolVar(&revealShowRole, "show-role", false, "print whether the real or the decoy secret was unlocked")
	revealCmd.Flags().StringVar(&revealPasswordFile, "password-file", "", "read the password from a file ('-' for stdin)")
}

// resetRevealCommandState resets the reveal command's global state for testing.
func resetRevealCommandState() {
	revealImage = ""
	revealID = ""
	revealOut = ""
	revealStdout = false
	revealShowRole = false
	revealPasswordFile = ""
}

var revealCmd = &cobra.Command{
	Use:   "reveal",
	Short: "Unlock one secret from a carrier image",
	Long: `Extracts the container from a carrier image and unlocks whichever
secret the supplied password opens.

Both secrets are tried on every attempt. A wrong password fails without
saying whether either secret exists, and a right one does not say which
of the two it unlocked unless you ask with --show-role. If the
container's metadata record has been revoked, no password can unlock it.

Examples:
  # Unlock from an image file, writing the secret under its stored name
  pentimento container reveal --image holiday.png

  # Unlock an archived carrier by container ID
  pentimento container reveal --id 1b4e28ba-2fa1-11d2-883f-0016d3cca427

  # Pipe the secret to another program
  pentimento container reveal --image holiday.png --stdout | gpg --import

  # Non-interactive
  pentimento container reveal --image holiday.png --password-file pass.key`,
	RunE: runReveal,
}

func runReveal(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting reveal command")

	if (revealImage == "") == (revealID == "") {
		fmt.Println(ui.Error.Sprint("✗") + " Provide exactly one of " + ui.Flag.Sprint("--image") + " or " + ui.Flag.Sprint("--id"))
		fmt.Println("Run " + ui.Code.Sprint("pentimento container reveal --help") + " to see usage.")
		return nil
	}

	password, err := resolvePassword(revealPasswordFile, "Enter password: ")
	if err != nil {
		return Logger.ErrorfAndReturn("failed to read password: %v", err)
	}

	opts := workflows.RevealOptions{
		ImagePath:   revealImage,
		ContainerID: revealID,
		Password:    password,
		OutputPath:  revealOut,
		Stdout:      revealStdout,
	}

	// Stdout mode keeps the payload channel clean: no spinner, errors on
	// stderr, nothing but the secret on stdout.
	if revealStdout {
		result, err := workflows.Reveal(context.Background(), opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, formatRevealError(err))
			if isRevealUnexpectedError(err) {
				return err
			}
			return nil
		}
		if _, err := os.Stdout.Write(result.Data); err != nil {
			return Logger.ErrorfAndReturn("failed to write secret to stdout: %v", err)
		}
		if revealShowRole {
			fmt.Fprintln(os.Stderr, ui.Muted.Sprintf("unlocked the %s secret", result.Role))
		}
		return nil
	}

	spinner, cleanup := startSpinner("Unlocking container...", verbose)
	defer cleanup()

	result, err := workflows.Reveal(context.Background(), opts)
	if err != nil {
		spinner.FinalMSG = formatRevealError(err)
		if isRevealUnexpectedError(err) {
			return err
		}
		return nil
	}

	Logger.Infof("Reveal command completed successfully")

	finalMessage := ui.Success.Sprint("✓") + " Secret written to " + ui.Path.Sprint(result.OutputPath) + " " +
		ui.Muted.Sprintf("%d bytes", result.Size)
	if revealShowRole {
		finalMessage += "\n" + ui.Info.Sprint("→") + " This was the " + ui.Highlight.Sprint(result.Role.String()) + " secret"
	}

	spinner.FinalMSG = finalMessage
	return nil
}

// formatRevealError formats a reveal error for display to the user.
func formatRevealError(err error) string {
	switch {
	case errors.Is(err, perrors.ErrEmptyPassword):
		return ui.Error.Sprint("✗") + " Password must not be empty"

	case errors.Is(err, perrors.ErrImageNotFound):
		return ui.Error.Sprint("✗") + " Carrier image not found: " + err.Error()

	case errors.Is(err, perrors.ErrInvalidImage):
		return ui.Error.Sprint("✗") + " Could not decode the carrier image"

	case errors.Is(err, perrors.ErrInvalidContainerID):
		return ui.Error.Sprint("✗") + " Invalid container ID\n" +
			ui.Info.Sprint("→") + " Container IDs look like " + ui.Code.Sprint("1b4e28ba-2fa1-11d2-883f-0016d3cca427")

	case errors.Is(err, perrors.ErrInvalidHeader), errors.Is(err, perrors.ErrTruncatedData):
		return ui.Error.Sprint("✗") + " No hidden container found in this image"

	case errors.Is(err, perrors.ErrStoreNotInitialized):
		return ui.Error.Sprint("✗") + " Metadata store is not initialized\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("pentimento store init") + " first"

	case errors.Is(err, perrors.ErrMetadataNotFound):
		return ui.Error.Sprint("✗") + " No metadata record for this container\n" +
			ui.Info.Sprint("→") + " The record was revoked or never created on this machine; the container cannot be unlocked"

	case errors.Is(err, perrors.ErrInvalidPassword):
		return ui.Error.Sprint("✗") + " Password did not unlock the container"

	default:
		return ui.Error.Sprint("✗") + " Failed to reveal secret: " + err.Error()
	}
}

// isRevealUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isRevealUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, perrors.ErrEmptyPassword),
		errors.Is(err, perrors.ErrImageNotFound),
		errors.Is(err, perrors.ErrInvalidImage),
		errors.Is(err, perrors.ErrInvalidContainerID),
		errors.Is(err, perrors.ErrInvalidHeader),
		errors.Is(err, perrors.ErrTruncatedData),
		errors.Is(err, perrors.ErrStoreNotInitialized),
		errors.Is(err, perrors.ErrMetadataNotFound),
		errors.Is(err, perrors.ErrInvalidPassword):
		return false
	default:
		return true
	}
}
