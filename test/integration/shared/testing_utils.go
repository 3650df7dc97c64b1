// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, and creating cover images and secret files.
package shared

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/pentimento/pentimento/cmd"
	"github.com/pentimento/pentimento/internal/configs"
	logger "github.com/pentimento/pentimento/internal/logging"
	"github.com/spf13/cobra"
)

// SetupTestEnvironment sets up the test environment with temporary directories.
func SetupTestEnvironment(t *testing.T, tempDir, tempUserDir, originalWd string, originalUserSettings *configs.UserSettings) {
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

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
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

// CreateTestCLI creates a complete CLI instance for testing with the specified
// container subcommand.
func CreateTestCLI(subcommand string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	return CreateTestCLIWithArgs(subcommand, nil, stdout, stderr, verboseFlag, debugFlag)
}

// CreateTestCLIWithArgs creates a CLI instance running a container subcommand
// with extra arguments.
func CreateTestCLIWithArgs(subcommand string, extraArgs []string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	// Set global flags for the actual command (needed for the real command implementations)
	cmd.SetVerbose(verboseFlag)
	cmd.SetDebug(debugFlag)

	// Initialize the logger with the test flags
	cmd.SetLogger(logger.Logger{
		Verbose: verboseFlag,
		Debug:   debugFlag,
	})

	// Create a fresh root command for this test
	rootCmd := &cobra.Command{
		Use:   "pentimento",
		Short: "Pentimento - hide two secrets in one ordinary-looking image.",
		Long: `Pentimento hides two independently encrypted files inside the pixels
of a cover image, each unlocked by its own password.`,
	}

	// Use the actual ContainerCmd but reset its state
	rootCmd.AddCommand(cmd.GetContainerCmd())

	// Set output streams
	if stdout != nil {
		rootCmd.SetOut(stdout)
		cmd.GetContainerCmd().SetOut(stdout)
		// Set output on all subcommands
		for _, subcmd := range cmd.GetContainerCmd().Commands() {
			subcmd.SetOut(stdout)
		}
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		cmd.GetContainerCmd().SetErr(stderr)
		// Set error output on all subcommands
		for _, subcmd := range cmd.GetContainerCmd().Commands() {
			subcmd.SetErr(stderr)
		}
	}

	// Set args to run the specified subcommand
	args := append([]string{"container", subcommand}, extraArgs...)
	rootCmd.SetArgs(args)

	// Set the flags on the container command
	if err := cmd.GetContainerCmd().PersistentFlags().Set("verbose", fmt.Sprintf("%t", verboseFlag)); err != nil {
		log.Fatalf("Failed to set verbose flag for testing: %s", err)
	}
	if err := cmd.GetContainerCmd().PersistentFlags().Set("debug", fmt.Sprintf("%t", debugFlag)); err != nil {
		log.Fatalf("Failed to set debug flag for testing: %s", err)
	}

	return rootCmd
}

// CreateStoreCLIWithArgs creates a CLI instance running a store subcommand
// with extra arguments.
func CreateStoreCLIWithArgs(subcommand string, extraArgs []string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	cmd.SetStoreVerbose(verboseFlag)
	cmd.SetStoreDebug(debugFlag)
	cmd.SetStoreLogger(logger.Logger{
		Verbose: verboseFlag,
		Debug:   debugFlag,
	})

	rootCmd := &cobra.Command{
		Use:   "pentimento",
		Short: "Pentimento - hide two secrets in one ordinary-looking image.",
	}

	rootCmd.AddCommand(cmd.GetStoreCmd())

	if stdout != nil {
		rootCmd.SetOut(stdout)
		cmd.GetStoreCmd().SetOut(stdout)
		for _, subcmd := range cmd.GetStoreCmd().Commands() {
			subcmd.SetOut(stdout)
		}
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		cmd.GetStoreCmd().SetErr(stderr)
		for _, subcmd := range cmd.GetStoreCmd().Commands() {
			subcmd.SetErr(stderr)
		}
	}

	args := append([]string{"store", subcommand}, extraArgs...)
	rootCmd.SetArgs(args)

	return rootCmd
}

// CreateConfigCLIWithArgs creates a CLI instance running a config subcommand
// with extra arguments.
func CreateConfigCLIWithArgs(subcommand string, extraArgs []string, stdout, stderr io.Writer) *cobra.Command {
	cmd.SetConfigLogger(logger.Logger{})

	rootCmd := &cobra.Command{
		Use:   "pentimento",
		Short: "Pentimento - hide two secrets in one ordinary-looking image.",
	}

	rootCmd.AddCommand(cmd.GetConfigCmd())

	if stdout != nil {
		rootCmd.SetOut(stdout)
		cmd.GetConfigCmd().SetOut(stdout)
		for _, subcmd := range cmd.GetConfigCmd().Commands() {
			subcmd.SetOut(stdout)
		}
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		cmd.GetConfigCmd().SetErr(stderr)
		for _, subcmd := range cmd.GetConfigCmd().Commands() {
			subcmd.SetErr(stderr)
		}
	}

	args := append([]string{"config", subcommand}, extraArgs...)
	rootCmd.SetArgs(args)

	return rootCmd
}

// CreateTestCover writes a PNG cover image with a deterministic gradient
// pattern. A 200x200 cover holds 15000 payload bytes.
func CreateTestCover(t *testing.T, path string, width, height int) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x * 7) % 256),
				G: uint8((y * 13) % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create cover image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode cover image: %v", err)
	}
}

// CreateSecretFile writes a secret file and returns its path.
func CreateSecretFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	// #nosec G306 -- test fixture
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create secret file: %v", err)
	}
	return path
}

// CreatePasswordFile writes a password file and returns its path.
func CreatePasswordFile(t *testing.T, dir, name, password string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(password+"\n"), 0600); err != nil {
		t.Fatalf("Failed to create password file: %v", err)
	}
	return path
}

// InitializeStore initializes the metadata store by running store init.
func InitializeStore(t *testing.T) {
	_, err := CaptureOutput(func() error {
		testCmd := CreateStoreCLIWithArgs("init", nil, nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
}

var containerIDPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// ExtractContainerID pulls the first container ID out of command output.
func ExtractContainerID(t *testing.T, output string) string {
	id := containerIDPattern.FindString(output)
	if id == "" {
		t.Fatalf("No container ID found in output: %s", output)
	}
	return id
}

// HideTestContainer hides a standard test container and returns the carrier
// image path and container ID. The real password is "correct horse battery"
// and the decoy password is "wrong pony candle".
func HideTestContainer(t *testing.T, tempDir string) (string, string) {
	return HideTestContainerWithArgs(t, tempDir)
}

// HideTestContainerWithArgs hides a standard test container with extra hide
// flags appended, such as --archive or --label.
func HideTestContainerWithArgs(t *testing.T, tempDir string, extraArgs ...string) (string, string) {
	coverPath := filepath.Join(tempDir, "cover.png")
	CreateTestCover(t, coverPath, 200, 200)
	realPath := CreateSecretFile(t, tempDir, "real.txt", "the real secret contents")
	decoyPath := CreateSecretFile(t, tempDir, "decoy.txt", "a harmless shopping list")
	realPass := CreatePasswordFile(t, tempDir, "real.pass", "correct horse battery")
	decoyPass := CreatePasswordFile(t, tempDir, "decoy.pass", "wrong pony candle")
	outPath := filepath.Join(tempDir, "carrier.png")

	args := []string{
		"--cover", coverPath,
		"--real", realPath,
		"--decoy", decoyPath,
		"--out", outPath,
		"--real-password-file", realPass,
		"--decoy-password-file", decoyPass,
	}
	args = append(args, extraArgs...)

	output, err := CaptureOutput(func() error {
		cmd.ResetGlobalState()
		testCmd := CreateTestCLIWithArgs("hide", args, nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Failed to hide test container: %v", err)
	}

	return outPath, ExtractContainerID(t, output)
}
