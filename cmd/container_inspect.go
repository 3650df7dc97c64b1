package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	inspectImage string
	inspectJSON  bool
)

func init() {
	inspectCmd.Flags().StringVar(&inspectImage, "image", "", "carrier image to inspect")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")
}

// resetInspectCommandState resets the inspect command's global state for testing.
func resetInspectCommandState() {
	inspectImage = ""
	inspectJSON = false
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a container's structure without decrypting it",
	Long: `Parses the container inside a carrier image and prints what the
format stores in the clear: the container ID, both slot names, the
sealed sizes, and whether this machine still holds the metadata record
needed to unlock it.

No password is required and nothing is decrypted.

Examples:
  pentimento container inspect --image holiday.png
  pentimento container inspect --image holiday.png --json`,
	RunE: runInspect,
}

// inspectOutput is the JSON shape of an inspect result.
type inspectOutput struct {
	ContainerID     string `json:"container_id"`
	RealName        string `json:"real_name"`
	RealCipherLen   int    `json:"real_cipher_len"`
	DecoyName       string `json:"decoy_name"`
	DecoyCipherLen  int    `json:"decoy_cipher_len"`
	RequiredBytes   int    `json:"required_bytes"`
	CapacityBytes   int    `json:"capacity_bytes"`
	MetadataPresent bool   `json:"metadata_present"`
	Label           string `json:"label,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting inspect command")

	if inspectImage == "" {
		fmt.Println(ui.Error.Sprint("✗") + " The " + ui.Flag.Sprint("--image") + " flag is required.")
		fmt.Println("Run " + ui.Code.Sprint("pentimento container inspect --help") + " to see usage.")
		return nil
	}

	opts := workflows.InspectOptions{ImagePath: inspectImage}

	if inspectJSON {
		result, err := workflows.Inspect(context.Background(), opts)
		if err != nil {
			if isInspectUnexpectedError(err) {
				return Logger.ErrorfAndReturn("failed to inspect image: %v", err)
			}
			fmt.Println(formatInspectError(err))
			return nil
		}
		out := inspectOutput{
			ContainerID:     result.ContainerID,
			RealName:        result.RealName,
			RealCipherLen:   result.RealCipherLen,
			DecoyName:       result.DecoyName,
			DecoyCipherLen:  result.DecoyCipherLen,
			RequiredBytes:   result.RequiredBytes,
			CapacityBytes:   result.CapacityBytes,
			MetadataPresent: result.MetadataPresent,
			Label:           result.Label,
		}
		if result.MetadataPresent {
			out.CreatedAt = result.CreatedAt.Format("2006-01-02 15:04:05")
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to marshal inspect result: %v", err)
		}
		fmt.Println(string(data))
		return nil
	}

	spinner, cleanup := startSpinner("Inspecting image...", verbose)
	defer cleanup()

	result, err := workflows.Inspect(context.Background(), opts)
	if err != nil {
		spinner.FinalMSG = formatInspectError(err)
		if isInspectUnexpectedError(err) {
			return err
		}
		return nil
	}

	Logger.Infof("Inspect command completed successfully")

	metadataLine := ui.Warning.Sprint("missing") + " " + ui.Muted.Sprint("cannot be unlocked from this machine")
	if result.MetadataPresent {
		metadataLine = ui.Success.Sprint("present")
		if result.Label != "" {
			metadataLine += " " + ui.Muted.Sprintf("label %s, created %s", result.Label, result.CreatedAt.Format("2006-01-02 15:04:05"))
		} else {
			metadataLine += " " + ui.Muted.Sprintf("created %s", result.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	spinner.FinalMSG = ui.Success.Sprint("✓") + " Container found in " + ui.Path.Sprint(inspectImage) + "\n\n" +
		fmt.Sprintf("  %-14s %s\n", "Container ID:", ui.Highlight.Sprint(result.ContainerID)) +
		fmt.Sprintf("  %-14s %s %s\n", "First slot:", result.RealName, ui.Muted.Sprintf("%d bytes sealed", result.RealCipherLen)) +
		fmt.Sprintf("  %-14s %s %s\n", "Second slot:", result.DecoyName, ui.Muted.Sprintf("%d bytes sealed", result.DecoyCipherLen)) +
		fmt.Sprintf("  %-14s %d of %d bytes %s\n", "Payload:", result.RequiredBytes, result.CapacityBytes,
			ui.Muted.Sprintf("%.1f%% of capacity", percentOf(result.RequiredBytes, result.CapacityBytes))) +
		fmt.Sprintf("  %-14s %s", "Metadata:", metadataLine)
	return nil
}

// formatInspectError formats an inspect error for display to the user.
func formatInspectError(err error) string {
	switch {
	case errors.Is(err, perrors.ErrImageNotFound):
		return ui.Error.Sprint("✗") + " Image not found: " + err.Error()

	case errors.Is(err, perrors.ErrInvalidImage):
		return ui.Error.Sprint("✗") + " Could not decode the image"

	case errors.Is(err, perrors.ErrInvalidHeader), errors.Is(err, perrors.ErrTruncatedData):
		return ui.Error.Sprint("✗") + " No hidden container found in this image"

	default:
		return ui.Error.Sprint("✗") + " Failed to inspect image: " + err.Error()
	}
}

// isInspectUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isInspectUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, perrors.ErrImageNotFound),
		errors.Is(err, perrors.ErrInvalidImage),
		errors.Is(err, perrors.ErrInvalidHeader),
		errors.Is(err, perrors.ErrTruncatedData):
		return false
	default:
		return true
	}
}
