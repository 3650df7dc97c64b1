package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pentimento/pentimento/internal/configs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Displays the current Pentimento configuration.

Settings come from ~/.config/pentimento/config.toml, with defaults
filling in anything the file leaves unset. If no file exists yet, the
defaults are shown.

Examples:
  # Show the configuration
  pentimento config show

  # Output in JSON format
  pentimento config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")
		ConfigLogger.Debugf("Flags: json=%t", configShowJSON)

		configPath := configs.ConfigFilePath()
		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load user config: %v", err)
		}

		if configShowJSON {
			ConfigLogger.Debugf("Outputting user config as JSON")
			output, err := json.MarshalIndent(userConfig, "", "  ")
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Println(color.CyanString("Configuration") + " (" + configPath + "):")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Println(color.YellowString("⚠") + " No config file yet; showing defaults. Run " +
				color.YellowString("pentimento config init") + " to write one.")
		}
		fmt.Println()
		printConfigSettings(userConfig)
		return nil
	},
}
