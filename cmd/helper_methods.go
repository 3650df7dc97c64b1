package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pentimento/pentimento/internal/ui"
	"github.com/pentimento/pentimento/internal/utils"

	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
// Uses the global debug flag from the container command.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
// This ensures consistent output formatting across all commands.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		Logger.Debugf("Starting spinner in non-verbose mode")
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			Logger.Debugf("Restoring log output")
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			Logger.Debugf("Stopping spinner")
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// startSpinnerWithFlags creates and starts a spinner with explicit verbose and debug flags.
// This is useful for commands that have their own flag variables (e.g., store commands).
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
// This ensures consistent output formatting across all commands.
func startSpinnerWithFlags(message string, verbose, debugFlag bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	if !verbose && !debugFlag {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debugFlag {
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debugFlag {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// resolvePassword obtains a password from a file, from stdin when the path
// is "-", or by prompting on the terminal. File contents are trimmed of a
// single trailing newline so `echo` and text editors don't corrupt them.
func resolvePassword(passwordFile, prompt string) (string, error) {
	if passwordFile == "-" {
		data, err := utils.ReadStdin()
		if err != nil {
			return "", fmt.Errorf("reading password from stdin: %w", err)
		}
		return trimPasswordBytes(data), nil
	}

	if passwordFile != "" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading password file: %w", err)
		}
		return trimPasswordBytes(data), nil
	}

	pass, err := promptPassword(prompt)
	if err != nil {
		return "", err
	}
	return pass, nil
}

// promptPassword reads a password without echo, preferring stdin when it
// is a terminal and falling back to /dev/tty when stdin is occupied.
func promptPassword(prompt string) (string, error) {
	if utils.IsTerminal() {
		b, err := utils.ReadPassphrase(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	if utils.IsTTYAvailable() {
		b, err := utils.ReadPassphraseFromTTY(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	return "", fmt.Errorf("cannot prompt for password: no terminal available (use a --*password-file flag)")
}

// promptNewPassword prompts twice and requires both entries to match.
// Used when a password is being set, not checked.
func promptNewPassword(label string) (string, error) {
	pass, err := promptPassword("Enter " + label + ": ")
	if err != nil {
		return "", err
	}
	confirm, err := promptPassword("Confirm " + label + ": ")
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("%s entries do not match", label)
	}
	return pass, nil
}

// trimPasswordBytes strips a single trailing line ending.
func trimPasswordBytes(data []byte) string {
	s := string(data)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s
}
