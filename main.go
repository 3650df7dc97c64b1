package main

import (
	"fmt"
	"os"

	"github.com/pentimento/pentimento/cmd"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pentimento",
	Short: "Pentimento - hide two secrets in one ordinary-looking image.",
	Long: `Pentimento hides two independently encrypted files inside the pixels
of a cover image. One password reveals the file you care about; a second,
decoy password reveals something harmless you can hand over under
pressure. Nobody holding the image can tell there are two.

The salts and nonces needed for decryption live only in a local metadata
store. Revoke a container's record and no password will ever unlock it
again, while the image keeps working as an ordinary picture.

Usage:
  pentimento <command> [flags]

Available Commands:
  container    Hide, reveal, inspect, and revoke containers
  store        Manage the local metadata store
  config       Manage configuration
  passphrase   Generate a strong passphrase

Run 'pentimento help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to Pentimento! Run 'pentimento --help' to see available commands.")
	},
}

func main() {
	rootCmd.AddCommand(cmd.ContainerCmd)
	rootCmd.AddCommand(cmd.StoreCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
	rootCmd.AddCommand(cmd.PassphraseCmd)
	rootCmd.AddCommand(cmd.VersionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
