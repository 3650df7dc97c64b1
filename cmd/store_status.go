package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	storeStatusContainers bool
	storeStatusJSON       bool
)

func init() {
	storeStatusCmd.Flags().BoolVar(&storeStatusContainers, "containers", false, "list every container record")
	storeStatusCmd.Flags().BoolVar(&storeStatusJSON, "json", false, "output as JSON")
}

// resetStoreStatusCommandState resets the store status command's global state for testing.
func resetStoreStatusCommandState() {
	storeStatusContainers = false
	storeStatusJSON = false
}

// storeStatusOutput is the JSON shape of a status result.
type storeStatusOutput struct {
	StorePath     string                  `json:"store_path"`
	ArchivePath   string                  `json:"archive_path"`
	Containers    int                     `json:"containers"`
	ArchiveImages int                     `json:"archive_images"`
	AuditEntries  int                     `json:"audit_entries"`
	Disk          storeStatusDisk         `json:"disk"`
	Records       []storeStatusRecordInfo `json:"records,omitempty"`
}

type storeStatusDisk struct {
	TotalBytes  uint64  `json:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

type storeStatusRecordInfo struct {
	ContainerID string `json:"container_id"`
	Label       string `json:"label,omitempty"`
	CreatedAt   string `json:"created_at"`
	Archived    bool   `json:"archived"`
}

var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the metadata store holds",
	Long: `Shows the store and archive paths, how many container records and
archived images exist, and how much disk space the store's volume has
left.

Use --containers to list every record, newest first. Use --json for
machine-readable output.

Examples:
  pentimento store status
  pentimento store status --containers
  pentimento store status --json`,
	RunE: runStoreStatus,
}

func runStoreStatus(cmd *cobra.Command, args []string) error {
	StoreLogger.Infof("Starting store status command")

	result, err := workflows.Status(context.Background(), workflows.StatusOptions{
		ListContainers: storeStatusContainers,
	})
	if err != nil {
		if errors.Is(err, perrors.ErrStoreNotInitialized) {
			if storeStatusJSON {
				fmt.Println(`{"error": "metadata store is not initialized"}`)
				return nil
			}
			fmt.Println(ui.Error.Sprint("✗") + " Metadata store is not initialized")
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("pentimento store init") + " first")
			return nil
		}
		return StoreLogger.ErrorfAndReturn("failed to read store status: %v", err)
	}

	StoreLogger.Infof("Store status command completed successfully")

	if storeStatusJSON {
		return outputStoreStatusJSON(result)
	}

	printStoreStatusTable(result)
	return nil
}

// outputStoreStatusJSON outputs the result as JSON.
func outputStoreStatusJSON(result *workflows.StatusResult) error {
	out := storeStatusOutput{
		StorePath:     result.StorePath,
		ArchivePath:   result.ArchivePath,
		Containers:    result.Containers,
		ArchiveImages: result.ArchiveImages,
		AuditEntries:  result.AuditEntries,
		Disk: storeStatusDisk{
			TotalBytes:  result.Disk.TotalBytes,
			FreeBytes:   result.Disk.FreeBytes,
			UsedPercent: result.Disk.UsedPercent,
		},
	}
	for _, rec := range result.Records {
		out.Records = append(out.Records, storeStatusRecordInfo{
			ContainerID: rec.ContainerID,
			Label:       rec.Label,
			CreatedAt:   rec.CreatedAt,
			Archived:    rec.Archived,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// printStoreStatusTable prints a formatted view of the store status.
func printStoreStatusTable(result *workflows.StatusResult) {
	fmt.Println("Metadata store:")
	fmt.Println()
	fmt.Printf("  %-14s %s\n", "Store:", ui.Path.Sprint(result.StorePath))
	fmt.Printf("  %-14s %s\n", "Archive:", ui.Path.Sprint(result.ArchivePath))
	fmt.Printf("  %-14s %d\n", "Containers:", result.Containers)
	fmt.Printf("  %-14s %d\n", "Images:", result.ArchiveImages)
	fmt.Printf("  %-14s %d\n", "Audit entries:", result.AuditEntries)
	fmt.Printf("  %-14s %s free of %s %s\n", "Disk:",
		formatBytes(result.Disk.FreeBytes), formatBytes(result.Disk.TotalBytes),
		ui.Muted.Sprintf("%.1f%% used", result.Disk.UsedPercent))

	if !storeStatusContainers {
		return
	}

	fmt.Println()
	if len(result.Records) == 0 {
		fmt.Println(ui.Success.Sprint("✓") + " No containers recorded.")
		return
	}

	fmt.Println("Containers:")
	fmt.Println()

	// Column width follows the longest label.
	labelWidth := 8
	for _, rec := range result.Records {
		if len(rec.Label) > labelWidth {
			labelWidth = len(rec.Label)
		}
	}
	if labelWidth > 32 {
		labelWidth = 32
	}

	fmt.Printf("  %-36s  %-*s  %-19s  %s\n", "CONTAINER", labelWidth, "LABEL", "CREATED", "ARCHIVED")
	for _, rec := range result.Records {
		label := rec.Label
		if len(label) > labelWidth {
			label = label[:labelWidth-3] + "..."
		}
		archived := ui.Muted.Sprint("no")
		if rec.Archived {
			archived = ui.Success.Sprint("yes")
		}
		fmt.Printf("  %-36s  %-*s  %-19s  %s\n", rec.ContainerID, labelWidth, label, rec.CreatedAt, archived)
	}
}

// formatBytes renders a byte count in a human unit.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
