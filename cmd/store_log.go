package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pentimento/pentimento/internal/audit"
	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	storeLogLimit     int
	storeLogReverse   bool
	storeLogOperation string
	storeLogSince     string
	storeLogUntil     string
	storeLogOneline   bool
	storeLogJSON      bool
)

func init() {
	storeLogCmd.Flags().IntVarP(&storeLogLimit, "number", "n", 0, "limit number of entries shown")
	storeLogCmd.Flags().BoolVar(&storeLogReverse, "reverse", false, "show most recent entries first")
	storeLogCmd.Flags().StringVar(&storeLogOperation, "operation", "", "filter by operation type (comma-separated)")
	storeLogCmd.Flags().StringVar(&storeLogSince, "since", "", "show entries after date (YYYY-MM-DD)")
	storeLogCmd.Flags().StringVar(&storeLogUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	storeLogCmd.Flags().BoolVar(&storeLogOneline, "oneline", false, "compact one-line format")
	storeLogCmd.Flags().BoolVar(&storeLogJSON, "json", false, "output as JSON array")
}

// resetStoreLogCommandState resets the store log command's global state for testing.
func resetStoreLogCommandState() {
	storeLogLimit = 0
	storeLogReverse = false
	storeLogOperation = ""
	storeLogSince = ""
	storeLogUntil = ""
	storeLogOneline = false
	storeLogJSON = false
}

var storeLogCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of container operations.

Shows which operations ran and when. Reveal entries never record which
secret was unlocked, and nothing in the log names secret files.

Examples:
  pentimento store log                        # View full log
  pentimento store log -n 10                  # Last 10 entries
  pentimento store log --reverse              # Most recent first
  pentimento store log --operation hide,revoke
  pentimento store log --since 2026-01-01
  pentimento store log --json`,
	RunE: runStoreLog,
}

func runStoreLog(cmd *cobra.Command, args []string) error {
	StoreLogger.Infof("Starting store log command")

	spinner, cleanup := startSpinnerWithFlags("Loading audit log...", storeVerbose, storeDebug)
	defer cleanup()

	opts := workflows.AuditLogOptions{
		Limit:   storeLogLimit,
		Reverse: storeLogReverse,
		Op:      storeLogOperation,
		Since:   storeLogSince,
		Until:   storeLogUntil,
	}

	result, err := workflows.AuditLog(context.Background(), opts)
	if err != nil {
		spinner.FinalMSG = formatStoreLogError(err)
		if isStoreLogUnexpectedError(err) {
			return err
		}
		return nil
	}

	StoreLogger.Debugf("Parsed %d entries from audit log", result.TotalEntries)
	StoreLogger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		spinner.FinalMSG = ""
		if result.TotalEntries == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	spinner.FinalMSG = ""
	if storeLogJSON {
		return outputStoreLogJSON(result.Entries)
	}

	if storeLogOneline {
		outputStoreLogOneline(result.Entries)
		return nil
	}

	outputStoreLogDefault(result.Entries)
	return nil
}

// formatStoreLogError formats a log error for display to the user.
func formatStoreLogError(err error) string {
	switch {
	case errors.Is(err, perrors.ErrInvalidDateFormat):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to read audit log: " + err.Error()
	}
}

// isStoreLogUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isStoreLogUnexpectedError(err error) bool {
	return !errors.Is(err, perrors.ErrInvalidDateFormat)
}

func outputStoreLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputStoreLogOneline(entries []audit.Entry) {
	for _, e := range entries {
		date := workflows.FormatDate(e.Timestamp)
		details := workflows.FormatDetailsOneline(e)
		fmt.Printf("%s %s %s %s\n", date, e.User, e.Operation, details)
	}
}

func outputStoreLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		details := workflows.FormatDetails(e)
		fmt.Printf("%-19s  %-16s  %-8s  %s\n", datetime, e.User, e.Operation, details)
	}
}
