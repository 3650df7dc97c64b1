package cmd

import (
	"context"
	"fmt"

	logger "github.com/pentimento/pentimento/internal/logging"
	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/utils"
	"github.com/pentimento/pentimento/internal/workflows"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	passphraseVerbose bool
	passphraseDebug   bool
	PassphraseLogger  logger.Logger

	passphraseWords int
	passphraseClear bool
)

func init() {
	PassphraseCmd.PersistentFlags().BoolVarP(&passphraseVerbose, "verbose", "v", false, "enable verbose output")
	PassphraseCmd.PersistentFlags().BoolVar(&passphraseDebug, "debug", false, "enable debug output")
	PassphraseCmd.Flags().IntVarP(&passphraseWords, "words", "w", 12, "word count (12, 15, 18, 21, or 24)")
	PassphraseCmd.Flags().BoolVar(&passphraseClear, "clear", false, "show on the terminal only, then wipe the screen")
}

// GetPassphraseCmd returns the PassphraseCmd for testing.
func GetPassphraseCmd() *cobra.Command {
	return PassphraseCmd
}

// ResetPassphraseState resets the passphrase command's global state for testing.
func ResetPassphraseState() {
	passphraseVerbose = false
	passphraseDebug = false
	passphraseWords = 12
	passphraseClear = false
	if PassphraseCmd != nil && PassphraseCmd.Flags() != nil {
		PassphraseCmd.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}

// PassphraseCmd generates mnemonic passphrases.
var PassphraseCmd = &cobra.Command{
	Use:   "passphrase",
	Short: "Generate a strong passphrase",
	Long: `Generates a random mnemonic passphrase suitable for a container
password. Twelve words carry 128 bits of entropy, twenty-four carry 256.

The passphrase is never stored or logged. With --clear it is written to
the terminal only, never to stdout, and the screen is wiped once you
confirm you have memorized it. That keeps it out of shell pipelines and
scrollback.

Examples:
  pentimento passphrase
  pentimento passphrase --words 24
  pentimento passphrase --clear`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		PassphraseLogger = logger.Logger{
			Verbose: passphraseVerbose,
			Debug:   passphraseDebug,
		}
	},
	RunE: runPassphrase,
}

func runPassphrase(cmd *cobra.Command, args []string) error {
	PassphraseLogger.Infof("Starting passphrase command")

	result, err := workflows.GeneratePassphrase(context.Background(), workflows.GeneratePassphraseOptions{
		Words: passphraseWords,
	})
	if err != nil {
		fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
		return nil
	}

	if passphraseClear {
		if !utils.IsTTYAvailable() {
			fmt.Println(ui.Error.Sprint("✗") + " No terminal available for " + ui.Flag.Sprint("--clear"))
			fmt.Println(ui.Info.Sprint("→") + " Run without " + ui.Flag.Sprint("--clear") + " to print to stdout")
			return nil
		}
		content := fmt.Sprintf("\nYour passphrase (%d bits of entropy):\n\n  %s\n\n", result.EntropyBits, result.Passphrase)
		if err := utils.WriteToTTY(content); err != nil {
			return PassphraseLogger.ErrorfAndReturn("failed to write passphrase to terminal: %v", err)
		}
		if err := utils.WriteToTTY("Press Enter once you have memorized it... "); err != nil {
			return PassphraseLogger.ErrorfAndReturn("failed to write prompt to terminal: %v", err)
		}
		if err := utils.WaitForEnterFromTTY(); err != nil {
			return PassphraseLogger.ErrorfAndReturn("failed to wait for confirmation: %v", err)
		}
		if err := utils.ClearScreen(); err != nil {
			return PassphraseLogger.ErrorfAndReturn("failed to clear screen: %v", err)
		}
		fmt.Println(ui.Success.Sprint("✓") + " Passphrase cleared from screen")
		return nil
	}

	fmt.Println(result.Passphrase)
	fmt.Fprintln(cmd.ErrOrStderr(), ui.Muted.Sprintf("%d words, %d bits of entropy", passphraseWords, result.EntropyBits))
	return nil
}
