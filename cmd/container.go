package cmd

import (
	logger "github.com/pentimento/pentimento/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	ContainerCmd = &cobra.Command{
		Use:   "container",
		Short: "Hide, reveal, inspect, and revoke dual-secret containers",
		Long: `Provides creation and extraction of dual-secret containers.

A container hides two independently encrypted files inside one cover
image. The real password reveals the sensitive file; the decoy password
reveals an innocuous one. The image alone never betrays that a second
secret exists.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing container command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	ContainerCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	ContainerCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	ContainerCmd.AddCommand(hideCmd)
	ContainerCmd.AddCommand(revealCmd)
	ContainerCmd.AddCommand(inspectCmd)
	ContainerCmd.AddCommand(revokeCmd)
}

// Helper functions for testing

// GetContainerCmd returns the ContainerCmd for testing.
func GetContainerCmd() *cobra.Command {
	return ContainerCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetHideCommandState()
	resetRevealCommandState()
	resetInspectCommandState()
	resetRevokeCommandState()
	resetContainerCobraFlagState()
}

// resetContainerCobraFlagState resets the flag state for container commands to prevent test pollution.
func resetContainerCobraFlagState() {
	if ContainerCmd != nil && ContainerCmd.Flags() != nil {
		ContainerCmd.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
