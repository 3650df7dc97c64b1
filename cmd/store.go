package cmd

import (
	logger "github.com/pentimento/pentimento/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	storeVerbose bool
	storeDebug   bool
	StoreLogger  logger.Logger

	StoreCmd = &cobra.Command{
		Use:   "store",
		Short: "Manage the local metadata store",
		Long: `Manages the store that holds every container's salts, nonces, and
key derivation parameters. A container can only be unlocked on a machine
whose store still holds its record.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			StoreLogger = logger.Logger{
				Verbose: storeVerbose,
				Debug:   storeDebug,
			}
			StoreLogger.Debugf("Initializing store command with verbose=%t, debug=%t", storeVerbose, storeDebug)
		},
	}
)

func init() {
	StoreCmd.PersistentFlags().BoolVarP(&storeVerbose, "verbose", "v", false, "enable verbose output")
	StoreCmd.PersistentFlags().BoolVar(&storeDebug, "debug", false, "enable debug output")

	StoreCmd.AddCommand(storeInitCmd)
	StoreCmd.AddCommand(storeStatusCmd)
	StoreCmd.AddCommand(storeLogCmd)
	StoreCmd.AddCommand(storePurgeCmd)
}

// Helper functions for testing

// GetStoreCmd returns the StoreCmd for testing.
func GetStoreCmd() *cobra.Command {
	return StoreCmd
}

// ResetStoreGlobalState resets all global variables to their default values for testing.
func ResetStoreGlobalState() {
	storeVerbose = false
	storeDebug = false
	resetStoreInitCommandState()
	resetStoreStatusCommandState()
	resetStoreLogCommandState()
	resetStorePurgeCommandState()
	// Reset Cobra flag state to prevent pollution between tests
	resetStoreFlagState()
}

// resetStoreFlagState resets the flag state for store commands to prevent test pollution.
func resetStoreFlagState() {
	if StoreCmd != nil && StoreCmd.Flags() != nil {
		StoreCmd.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
	for _, subCmd := range StoreCmd.Commands() {
		if subCmd.Flags() != nil {
			subCmd.Flags().VisitAll(func(flag *pflag.Flag) {
				flag.Changed = false
			})
		}
	}
}

// SetStoreVerbose sets the verbose flag for testing.
func SetStoreVerbose(v bool) {
	storeVerbose = v
}

// SetStoreDebug sets the debug flag for testing.
func SetStoreDebug(d bool) {
	storeDebug = d
}

// SetStoreLogger sets the logger for testing.
func SetStoreLogger(l logger.Logger) {
	StoreLogger = l
}
