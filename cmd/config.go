package cmd

import (
	logger "github.com/pentimento/pentimento/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configVerbose bool
	configDebug   bool
	ConfigLogger  logger.Logger

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage Pentimento configuration",
		Long: `Provides commands for managing user configuration settings.

The config file controls where the metadata store and image archive
live, the key derivation cost, and whether operations are logged.

Examples:
  # Write the default config file
  pentimento config init

  # Show the current configuration
  pentimento config show
  pentimento config show --json`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ConfigLogger = logger.Logger{
				Verbose: configVerbose,
				Debug:   configDebug,
			}
			ConfigLogger.Debugf("Initializing config command with verbose=%t, debug=%t", configVerbose, configDebug)
		},
	}
)

func init() {
	ConfigCmd.PersistentFlags().BoolVarP(&configVerbose, "verbose", "v", false, "enable verbose output")
	ConfigCmd.PersistentFlags().BoolVarP(&configDebug, "debug", "d", false, "enable debug output")
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}

// ResetConfigState resets all config command global variables to their default values for testing.
func ResetConfigState() {
	configVerbose = false
	configDebug = false
	resetConfigInitState()
	resetConfigShowState()
	resetConfigCobraFlagState()
}

// resetConfigCobraFlagState resets the flag state for all config commands to prevent test pollution.
func resetConfigCobraFlagState() {
	if ConfigCmd != nil && ConfigCmd.Flags() != nil {
		ConfigCmd.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
	for _, subCmd := range ConfigCmd.Commands() {
		if subCmd.Flags() != nil {
			subCmd.Flags().VisitAll(func(flag *pflag.Flag) {
				flag.Changed = false
			})
		}
	}
}

// SetConfigLogger sets the logger for testing.
func SetConfigLogger(l logger.Logger) {
	ConfigLogger = l
}
