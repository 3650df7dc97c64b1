package cmd

import (
	"fmt"
	"os"

	"github.com/pentimento/pentimento/internal/configs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configInitForce       bool
	configInitStorePath   string
	configInitArchivePath string
	configInitMinFreeMB   uint64
	configInitKDFTime     uint32
	configInitKDFMemoryMB uint32
	configInitKDFThreads  uint8
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "reset the config file to defaults first")
	configInitCmd.Flags().StringVar(&configInitStorePath, "store-path", "", "where the metadata store lives")
	configInitCmd.Flags().StringVar(&configInitArchivePath, "archive-path", "", "where archived carrier images live")
	configInitCmd.Flags().Uint64Var(&configInitMinFreeMB, "min-free-mb", 0, "refuse store writes when the volume has less free space (MB)")
	configInitCmd.Flags().Uint32Var(&configInitKDFTime, "kdf-time", 0, "argon2id time cost for future containers")
	configInitCmd.Flags().Uint32Var(&configInitKDFMemoryMB, "kdf-memory-mb", 0, "argon2id memory cost for future containers (MB)")
	configInitCmd.Flags().Uint8Var(&configInitKDFThreads, "kdf-threads", 0, "argon2id parallelism for future containers")
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
	configInitStorePath = ""
	configInitArchivePath = ""
	configInitMinFreeMB = 0
	configInitKDFTime = 0
	configInitKDFMemoryMB = 0
	configInitKDFThreads = 0
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write or update your configuration file",
	Long: `Creates the config file with defaults, or updates the fields you pass
as flags.

Key derivation settings only affect containers hidden after the change.
Existing containers keep the parameters recorded at hide time, so they
stay openable.

Examples:
  # Write the default config
  pentimento config init

  # Move the store to an encrypted volume
  pentimento config init --store-path /mnt/vault/pentimento --archive-path /mnt/vault/pentimento/archive

  # Raise the key derivation cost for future containers
  pentimento config init --kdf-time 4 --kdf-memory-mb 128

  # Reset everything back to defaults
  pentimento config init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")

		configPath := configs.ConfigFilePath()
		_, statErr := os.Stat(configPath)
		exists := statErr == nil

		flagsGiven := configInitStorePath != "" || configInitArchivePath != "" ||
			cmd.Flags().Changed("min-free-mb") || cmd.Flags().Changed("kdf-time") ||
			cmd.Flags().Changed("kdf-memory-mb") || cmd.Flags().Changed("kdf-threads")

		if exists && !flagsGiven && !configInitForce {
			userConfig, err := configs.LoadUserConfig()
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to load user config: %v", err)
			}
			fmt.Println(color.GreenString("✓") + " Configuration already exists at " + color.YellowString(configPath))
			fmt.Println()
			printConfigSettings(userConfig)
			fmt.Println()
			fmt.Println(color.CyanString("→") + " Run with flags to update: " + color.YellowString("pentimento config init --store-path /new/path"))
			return nil
		}

		var userConfig *configs.UserConfig
		if configInitForce {
			userConfig = configs.DefaultUserConfig()
		} else {
			loaded, err := configs.LoadUserConfig()
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to load user config: %v", err)
			}
			userConfig = loaded
		}

		if configInitStorePath != "" {
			userConfig.Store.Path = configInitStorePath
		}
		if configInitArchivePath != "" {
			userConfig.Store.ArchivePath = configInitArchivePath
		}
		if cmd.Flags().Changed("min-free-mb") {
			userConfig.Store.MinimumFreeMB = configInitMinFreeMB
		}
		if cmd.Flags().Changed("kdf-time") {
			if configInitKDFTime == 0 {
				fmt.Println(color.RedString("✗") + " KDF time cost must be at least 1")
				return nil
			}
			userConfig.KDF.Time = configInitKDFTime
		}
		if cmd.Flags().Changed("kdf-memory-mb") {
			if configInitKDFMemoryMB == 0 {
				fmt.Println(color.RedString("✗") + " KDF memory cost must be at least 1 MB")
				return nil
			}
			userConfig.KDF.MemoryKB = configInitKDFMemoryMB * 1024
		}
		if cmd.Flags().Changed("kdf-threads") {
			if configInitKDFThreads == 0 {
				fmt.Println(color.RedString("✗") + " KDF parallelism must be at least 1")
				return nil
			}
			userConfig.KDF.Threads = configInitKDFThreads
		}

		if err := configs.SaveUserConfig(userConfig); err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to save user config: %v", err)
		}

		if exists {
			fmt.Println(color.GreenString("✓") + " Configuration updated")
		} else {
			fmt.Println(color.GreenString("✓") + " Configuration written to " + color.YellowString(configPath))
		}
		fmt.Println()
		printConfigSettings(userConfig)
		return nil
	},
}

// printConfigSettings prints the settings summary shared by init and show.
func printConfigSettings(config *configs.UserConfig) {
	fmt.Println("Your settings:")
	fmt.Println("  Store:       " + color.CyanString(config.Store.Path))
	fmt.Println("  Archive:     " + color.CyanString(config.Store.ArchivePath))
	if config.Store.MinimumFreeMB > 0 {
		fmt.Printf("  Min free:    %s\n", color.CyanString(fmt.Sprintf("%d MB", config.Store.MinimumFreeMB)))
	}
	fmt.Printf("  KDF:         %s\n", color.CyanString(fmt.Sprintf("argon2id t=%d m=%dKB p=%d", config.KDF.Time, config.KDF.MemoryKB, config.KDF.Threads)))
	audit := "enabled"
	if !config.Audit.Enabled {
		audit = "disabled"
	}
	fmt.Println("  Audit log:   " + color.CyanString(audit))
}
