// Package cmd contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, and building test CLI instances.
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/pentimento/pentimento/internal/configs"
	logger "github.com/pentimento/pentimento/internal/logging"
	"github.com/spf13/cobra"
)

// setupTestEnvironment points the user settings at temporary directories.
func setupTestEnvironment(t *testing.T, tempDir, tempUserDir, originalWd string, originalUserSettings *configs.UserSettings) {
	// Change to temp directory
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Cleanup function to restore original state
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserPentimentoSettings = originalUserSettings
		configs.GlobalUserConfig = nil
	})

	// Override user settings to use temp directory
	configs.UserPentimentoSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempUserDir, "config"),
		UserDataPath:    filepath.Join(tempUserDir, "data"),
		Username:        "testuser",
	}
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// createTestCLI creates a complete CLI instance for testing with the specified
// container subcommand and flags.
func createTestCLI(subcommand string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	// Set global flags for the actual command (needed for the real command implementations)
	verbose = verboseFlag
	debug = debugFlag

	// Initialize the logger with the test flags
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}

	// Create a fresh root command for this test
	rootCmd := &cobra.Command{
		Use:   "pentimento",
		Short: "Pentimento - hide two secrets in one ordinary-looking image.",
		Long: `Pentimento hides two independently encrypted files inside the pixels
of a cover image, each unlocked by its own password.`,
	}

	// Use the actual ContainerCmd but reset its state
	rootCmd.AddCommand(ContainerCmd)

	// Set output streams
	if stdout != nil {
		rootCmd.SetOut(stdout)
		ContainerCmd.SetOut(stdout)
		// Set output on all subcommands
		hideCmd.SetOut(stdout)
		revealCmd.SetOut(stdout)
		inspectCmd.SetOut(stdout)
		revokeCmd.SetOut(stdout)
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		ContainerCmd.SetErr(stderr)
		// Set error output on all subcommands
		hideCmd.SetErr(stderr)
		revealCmd.SetErr(stderr)
		inspectCmd.SetErr(stderr)
		revokeCmd.SetErr(stderr)
	}

	// Set args to run the specified subcommand
	rootCmd.SetArgs([]string{"container", subcommand})

	// Set the flags on the container command
	if err := ContainerCmd.PersistentFlags().Set("verbose", fmt.Sprintf("%t", verboseFlag)); err != nil {
		log.Fatalf("Failed to set verbose flag for testing: %s", err)
	}
	if err := ContainerCmd.PersistentFlags().Set("debug", fmt.Sprintf("%t", debugFlag)); err != nil {
		log.Fatalf("Failed to set debug flag for testing: %s", err)
	}

	return rootCmd
}

// createTestStoreCLI creates a CLI instance wired to the store command group.
func createTestStoreCLI(subcommand string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	storeVerbose = verboseFlag
	storeDebug = debugFlag

	StoreLogger = logger.Logger{
		Verbose: storeVerbose,
		Debug:   storeDebug,
	}

	rootCmd := &cobra.Command{
		Use:   "pentimento",
		Short: "Pentimento - hide two secrets in one ordinary-looking image.",
	}

	rootCmd.AddCommand(StoreCmd)

	if stdout != nil {
		rootCmd.SetOut(stdout)
		StoreCmd.SetOut(stdout)
		storeInitCmd.SetOut(stdout)
		storeStatusCmd.SetOut(stdout)
		storeLogCmd.SetOut(stdout)
		storePurgeCmd.SetOut(stdout)
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		StoreCmd.SetErr(stderr)
		storeInitCmd.SetErr(stderr)
		storeStatusCmd.SetErr(stderr)
		storeLogCmd.SetErr(stderr)
		storePurgeCmd.SetErr(stderr)
	}

	rootCmd.SetArgs([]string{"store", subcommand})

	return rootCmd
}

// verifyStoreStructure verifies that the store directories were created.
func verifyStoreStructure(t *testing.T, tempUserDir string) {
	dataDir := filepath.Join(tempUserDir, "data")

	storeDir := filepath.Join(dataDir, "store")
	if _, err := os.Stat(storeDir); os.IsNotExist(err) {
		t.Errorf("store directory was not created at %s", storeDir)
	}

	archiveDir := filepath.Join(dataDir, "archive")
	if _, err := os.Stat(archiveDir); os.IsNotExist(err) {
		t.Errorf("archive directory was not created at %s", archiveDir)
	}

	configFile := filepath.Join(tempUserDir, "config", "config.toml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Errorf("config file was not created at %s", configFile)
	}
}
