package cmd

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/utils"
	"github.com/pentimento/pentimento/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	hideCover             string
	hideReal              string
	hideDecoy             string
	hideOut               string
	hideCompress          bool
	hideLabel             string
	hideArchive           bool
	hideDryRun            bool
	hideRealPasswordFile  string
	hideDecoyPasswordFile string
)

func init() {
	hideCmd.Flags().StringVar(&hideCover, "cover", "", "cover image that will carry the container (PNG or JPEG)")
	hideCmd.Flags().StringVar(&hideReal, "real", "", "sensitive file to hide")
	hideCmd.Flags().StringVar(&hideDecoy, "decoy", "", "innocuous file to surrender under duress")
	hideCmd.Flags().StringVarP(&hideOut, "out", "o", "", "output path for the carrier image (always PNG)")
	hideCmd.Flags().BoolVar(&hideCompress, "compress", false, "compress secrets before sealing")
	hideCmd.Flags().StringVar(&hideLabel, "label", "", "optional label stored in the metadata record")
	hideCmd.Flags().BoolVar(&hideArchive, "archive", false, "keep a copy of the carrier image in the local archive")
	hideCmd.Flags().BoolVar(&hideDryRun, "dry-run", false, "report capacity numbers without writing anything")
	hideCmd.Flags().StringVar(&hideRealPasswordFile, "real-password-file", "", "read the real password from a file ('-' for stdin)")
	hideCmd.Flags().StringVar(&hideDecoyPasswordFile, "decoy-password-file", "", "read the decoy password from a file")
}

// resetHideCommandState resets the hide command's global state for testing.
func resetHideCommandState() {
	hideCover = ""
	hideReal = ""
	hideDecoy = ""
	hideOut = ""
	hideCompress = false
	hideLabel = ""
	hideArchive = false
	hideDryRun = false
	hideRealPasswordFile = ""
	hideDecoyPasswordFile = ""
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide two secrets inside a cover image",
	Long: `Seals two files under two different passwords and embeds both in a
cover image.

The output looks like an ordinary picture. The real password reveals the
sensitive file; the decoy password reveals the innocuous one. Salts and
nonces are kept in the local metadata store, never in the image, so
revoking the container later makes it permanently unopenable.

Without password flags, you are prompted for both passwords on the
terminal. The two passwords must differ.

Examples:
  # Hide a document with a shopping list as the decoy
  pentimento container hide --cover beach.png --real taxes.pdf --decoy list.txt -o holiday.png

  # Check whether the secrets fit before committing
  pentimento container hide --cover beach.png --real taxes.pdf --decoy list.txt -o holiday.png --dry-run

  # Compress, label, and keep an archived copy
  pentimento container hide --cover beach.png --real taxes.pdf --decoy list.txt -o holiday.png \
    --compress --label taxes-2025 --archive

  # Non-interactive (CI or scripts)
  pentimento container hide --cover beach.png --real taxes.pdf --decoy list.txt -o holiday.png \
    --real-password-file real.key --decoy-password-file decoy.key`,
	RunE: runHide,
}

func runHide(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting hide command")

	if hideCover == "" || hideReal == "" || hideDecoy == "" || hideOut == "" {
		fmt.Println(ui.Error.Sprint("✗") + " The " + ui.Flag.Sprint("--cover") + ", " + ui.Flag.Sprint("--real") + ", " +
			ui.Flag.Sprint("--decoy") + ", and " + ui.Flag.Sprint("--out") + " flags are all required.")
		fmt.Println("Run " + ui.Code.Sprint("pentimento container hide --help") + " to see usage.")
		return nil
	}

	if hideLabel != "" && !utils.IsValidLabel(hideLabel) {
		suggestion := utils.SanitizeLabel(hideLabel)
		msg := ui.Error.Sprint("✗") + " Invalid label " + ui.Highlight.Sprint(hideLabel) + "\n" +
			ui.Info.Sprint("→") + " Labels may contain letters, digits, hyphens, and underscores"
		if suggestion != "" {
			msg += "\n" + ui.Info.Sprint("→") + " Try " + ui.Highlight.Sprint(suggestion)
		}
		fmt.Println(msg)
		return nil
	}

	// Passwords are collected before the spinner starts so prompts are not
	// mangled by spinner redraws.
	realPassword, err := hidePassword(hideRealPasswordFile, "real password")
	if err != nil {
		return Logger.ErrorfAndReturn("failed to read real password: %v", err)
	}
	decoyPassword, err := hidePassword(hideDecoyPasswordFile, "decoy password")
	if err != nil {
		return Logger.ErrorfAndReturn("failed to read decoy password: %v", err)
	}

	spinner, cleanup := startSpinner("Hiding secrets...", verbose)
	defer cleanup()

	opts := workflows.HideOptions{
		CoverPath:     hideCover,
		RealPath:      hideReal,
		DecoyPath:     hideDecoy,
		RealPassword:  realPassword,
		DecoyPassword: decoyPassword,
		OutputPath:    hideOut,
		Compress:      hideCompress,
		Label:         hideLabel,
		Archive:       hideArchive,
		DryRun:        hideDryRun,
	}

	result, err := workflows.Hide(context.Background(), opts)
	if err != nil {
		spinner.FinalMSG = formatHideError(err)
		if isHideUnexpectedError(err) {
			return err
		}
		return nil
	}

	Logger.Infof("Hide command completed successfully")

	if result.DryRun {
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Container fits: " +
			fmt.Sprintf("%d of %d bytes ", result.RequiredBytes, result.CapacityBytes) +
			ui.Muted.Sprintf("%.1f%% of capacity", percentOf(result.RequiredBytes, result.CapacityBytes)) + "\n" +
			ui.Info.Sprint("→") + " Re-run without " + ui.Flag.Sprint("--dry-run") + " to hide the secrets"
		return nil
	}

	finalMessage := ui.Success.Sprint("✓") + " Secrets hidden in " + ui.Path.Sprint(result.OutputPath) + "\n" +
		"Container ID: " + ui.Highlight.Sprint(result.ContainerID) + " " +
		ui.Muted.Sprintf("%d of %d bytes", result.RequiredBytes, result.CapacityBytes) + "\n"
	if result.Archived {
		finalMessage += ui.Info.Sprint("→") + " A copy is archived; reveal with " +
			ui.Code.Sprint("pentimento container reveal --id "+result.ContainerID) + "\n"
	}
	finalMessage += ui.Info.Sprint("→") + " Reveal with " + ui.Code.Sprint("pentimento container reveal --image "+result.OutputPath)

	spinner.FinalMSG = finalMessage
	return nil
}

// hidePassword resolves one of hide's two passwords, prompting with
// confirmation when no file was given.
func hidePassword(passwordFile, label string) (string, error) {
	if passwordFile != "" {
		return resolvePassword(passwordFile, "")
	}
	return promptNewPassword(label)
}

// formatHideError formats a hide error for display to the user.
func formatHideError(err error) string {
	switch {
	case errors.Is(err, perrors.ErrEmptyPassword):
		return ui.Error.Sprint("✗") + " Passwords must not be empty"

	case errors.Is(err, perrors.ErrPasswordsMatch):
		return ui.Error.Sprint("✗") + " The real and decoy passwords must differ\n" +
			ui.Info.Sprint("→") + " Matching passwords would make both secrets answer to one password, defeating the decoy"

	case errors.Is(err, perrors.ErrImageNotFound):
		return ui.Error.Sprint("✗") + " Cover image not found: " + err.Error()

	case errors.Is(err, perrors.ErrInvalidImage):
		return ui.Error.Sprint("✗") + " Could not decode the cover image\n" +
			ui.Info.Sprint("→") + " PNG and JPEG covers are supported"

	case errors.Is(err, perrors.ErrFileNotFound):
		return ui.Error.Sprint("✗") + " Secret file not found: " + err.Error()

	case errors.Is(err, perrors.ErrEmptySecret):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " There is nothing to hide in an empty file"

	case errors.Is(err, perrors.ErrCapacityExceeded):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Choose a larger cover image, smaller secrets, or try " + ui.Flag.Sprint("--compress")

	case errors.Is(err, perrors.ErrInsufficientDiskSpace):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to hide secrets: " + err.Error()
	}
}

// isHideUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isHideUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, perrors.ErrEmptyPassword),
		errors.Is(err, perrors.ErrPasswordsMatch),
		errors.Is(err, perrors.ErrImageNotFound),
		errors.Is(err, perrors.ErrInvalidImage),
		errors.Is(err, perrors.ErrFileNotFound),
		errors.Is(err, perrors.ErrEmptySecret),
		errors.Is(err, perrors.ErrCapacityExceeded),
		errors.Is(err, perrors.ErrInsufficientDiskSpace):
		return false
	default:
		return true
	}
}

// percentOf returns used as a percentage of total, guarding zero capacity.
func percentOf(used, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
