package hide_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pentimento/pentimento/cmd"
	"github.com/pentimento/pentimento/internal/configs"
	"github.com/pentimento/pentimento/test/integration/shared"
)

// TestHide_Basic tests that hiding two secrets produces a carrier image and
// a metadata record.
func TestHide_Basic(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pentimento-test-hide-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tempUserDir, err := os.MkdirTemp("", "pentimento-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	defer os.RemoveAll(tempUserDir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	originalUserSettings := configs.UserPentimentoSettings
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	coverPath := filepath.Join(tempDir, "cover.png")
	shared.CreateTestCover(t, coverPath, 200, 200)
	realPath := shared.CreateSecretFile(t, tempDir, "real.txt", "the real secret contents")
	decoyPath := shared.CreateSecretFile(t, tempDir, "decoy.txt", "a harmless shopping list")
	realPass := shared.CreatePasswordFile(t, tempDir, "real.pass", "correct horse battery")
	decoyPass := shared.CreatePasswordFile(t, tempDir, "decoy.pass", "wrong pony candle")
	outPath := filepath.Join(tempDir, "carrier.png")

	output, err := shared.CaptureOutput(func() error {
		cmd.ResetGlobalState()
		testCmd := shared.CreateTestCLIWithArgs("hide", []string{
			"--cover", coverPath,
			"--real", realPath,
			"--decoy", decoyPath,
			"--out", outPath,
			"--real-password-file", realPass,
			"--decoy-password-file", decoyPass,
		}, nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Hide command failed: %v", err)
	}

	if !strings.Contains(output, "✓") || !strings.Contains(output, "Secrets hidden") {
		t.Errorf("Expected success message, got: %s", output)
	}
	if !strings.Contains(output, "Container ID:") {
		t.Errorf("Expected container ID in output, got: %s", output)
	}

	if _, err := os.Stat(outPath); os.IsNotExist(err) {
		t.Error("Carrier image was not created")
	}

	// The store is created on demand by the first hide.
	storeDir := filepath.Join(tempUserDir, "data", "store")
	if _, err := os.Stat(storeDir); os.IsNotExist(err) {
		t.Error("Metadata store was not created")
	}
}

// TestHide_DryRunWritesNothing tests that --dry-run reports capacity without
// creating the carrier image or the store.
func TestHide_DryRunWritesNothing(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pentimento-test-hide-dry-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tempUserDir, err := os.MkdirTemp("", "pentimento-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	defer os.RemoveAll(tempUserDir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	originalUserSettings := configs.UserPentimentoSettings
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	coverPath := filepath.Join(tempDir, "cover.png")
	shared.CreateTestCover(t, coverPath, 200, 200)
	realPath := shared.CreateSecretFile(t, tempDir, "real.txt", "the real secret contents")
	decoyPath := shared.CreateSecretFile(t, tempDir, "decoy.txt", "a harmless shopping list")
	realPass := shared.CreatePasswordFile(t, tempDir, "real.pass", "correct horse battery")
	decoyPass := shared.CreatePasswordFile(t, tempDir, "decoy.pass", "wrong pony candle")
	outPath := filepath.Join(tempDir, "carrier.png")

	output, err := shared.CaptureOutput(func() error {
		cmd.ResetGlobalState()
		testCmd := shared.CreateTestCLIWithArgs("hide", []string{
			"--cover", coverPath,
			"--real", realPath,
			"--decoy", decoyPath,
			"--out", outPath,
			"--real-password-file", realPass,
			"--decoy-password-file", decoyPass,
			"--dry-run",
		}, nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Hide dry run failed: %v", err)
	}

	if !strings.Contains(output, "Container fits") {
		t.Errorf("Expected capacity report, got: %s", output)
	}

	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("Dry run should not create the carrier image")
	}
	storeDir := filepath.Join(tempUserDir, "data", "store")
	if _, err := os.Stat(storeDir); !os.IsNotExist(err) {
		t.Error("Dry run should not create the metadata store")
	}
}

// TestHide_CapacityExceeded tests that a too-small cover is rejected before
// anything is written.
func TestHide_CapacityExceeded(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pentimento-test-hide-cap-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tempUserDir, err := os.MkdirTemp("", "pentimento-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	defer os.RemoveAll(tempUserDir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	originalUserSettings := configs.UserPentimentoSettings
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	// A 16x16 cover holds 96 bytes, far less than the container needs.
	coverPath := filepath.Join(tempDir, "tiny.png")
	shared.CreateTestCover(t, coverPath, 16, 16)
	realPath := shared.CreateSecretFile(t, tempDir, "real.txt", "the real secret contents")
	decoyPath := shared.CreateSecretFile(t, tempDir, "decoy.txt", "a harmless shopping list")
	realPass := shared.CreatePasswordFile(t, tempDir, "real.pass", "correct horse battery")
	decoyPass := shared.CreatePasswordFile(t, tempDir, "decoy.pass", "wrong pony candle")
	outPath := filepath.Join(tempDir, "carrier.png")

	output, err := shared.CaptureOutput(func() error {
		cmd.ResetGlobalState()
		testCmd := shared.CreateTestCLIWithArgs("hide", []string{
			"--cover", coverPath,
			"--real", realPath,
			"--decoy", decoyPath,
			"--out", outPath,
			"--real-password-file", realPass,
			"--decoy-password-file", decoyPass,
		}, nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Capacity failure should be user-facing, not an error: %v", err)
	}

	if !strings.Contains(output, "✗") {
		t.Errorf("Expected failure marker, got: %s", output)
	}
	if !strings.Contains(output, "cover image holds") {
		t.Errorf("Expected capacity numbers in output, got: %s", output)
	}

	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("Failed hide should not leave a carrier image behind")
	}
}

// TestHide_MatchingPasswordsRejected tests that the real and decoy passwords
// must differ.
func TestHide_MatchingPasswordsRejected(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pentimento-test-hide-match-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tempUserDir, err := os.MkdirTemp("", "pentimento-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	defer os.RemoveAll(tempUserDir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	originalUserSettings := configs.UserPentimentoSettings
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	coverPath := filepath.Join(tempDir, "cover.png")
	shared.CreateTestCover(t, coverPath, 200, 200)
	realPath := shared.CreateSecretFile(t, tempDir, "real.txt", "the real secret contents")
	decoyPath := shared.CreateSecretFile(t, tempDir, "decoy.txt", "a harmless shopping list")
	samePass := shared.CreatePasswordFile(t, tempDir, "same.pass", "one password twice")
	outPath := filepath.Join(tempDir, "carrier.png")

	output, err := shared.CaptureOutput(func() error {
		cmd.ResetGlobalState()
		testCmd := shared.CreateTestCLIWithArgs("hide", []string{
			"--cover", coverPath,
			"--real", realPath,
			"--decoy", decoyPath,
			"--out", outPath,
			"--real-password-file", samePass,
			"--decoy-password-file", samePass,
		}, nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Matching passwords should be user-facing, not an error: %v", err)
	}

	if !strings.Contains(output, "must differ") {
		t.Errorf("Expected password mismatch message, got: %s", output)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("Carrier image should not be created with matching passwords")
	}
}

// TestHide_InvalidLabelRejected tests label validation with a sanitized
// suggestion.
func TestHide_InvalidLabelRejected(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pentimento-test-hide-label-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tempUserDir, err := os.MkdirTemp("", "pentimento-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	defer os.RemoveAll(tempUserDir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	originalUserSettings := configs.UserPentimentoSettings
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	coverPath := filepath.Join(tempDir, "cover.png")
	shared.CreateTestCover(t, coverPath, 200, 200)
	realPath := shared.CreateSecretFile(t, tempDir, "real.txt", "the real secret contents")
	decoyPath := shared.CreateSecretFile(t, tempDir, "decoy.txt", "a harmless shopping list")
	realPass := shared.CreatePasswordFile(t, tempDir, "real.pass", "correct horse battery")
	decoyPass := shared.CreatePasswordFile(t, tempDir, "decoy.pass", "wrong pony candle")
	outPath := filepath.Join(tempDir, "carrier.png")

	output, err := shared.CaptureOutput(func() error {
		cmd.ResetGlobalState()
		testCmd := shared.CreateTestCLIWithArgs("hide", []string{
			"--cover", coverPath,
			"--real", realPath,
			"--decoy", decoyPath,
			"--out", outPath,
			"--real-password-file", realPass,
			"--decoy-password-file", decoyPass,
			"--label", "Tax Returns 2025!",
		}, nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Invalid label should be user-facing, not an error: %v", err)
	}

	if !strings.Contains(output, "Invalid label") {
		t.Errorf("Expected label rejection, got: %s", output)
	}
	if !strings.Contains(output, "tax-returns-2025") {
		t.Errorf("Expected sanitized suggestion, got: %s", output)
	}
}

// TestHide_MissingFlagsShowsUsage tests that missing required flags print
// usage guidance instead of failing.
func TestHide_MissingFlagsShowsUsage(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pentimento-test-hide-flags-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tempUserDir, err := os.MkdirTemp("", "pentimento-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	defer os.RemoveAll(tempUserDir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	originalUserSettings := configs.UserPentimentoSettings
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	output, err := shared.CaptureOutput(func() error {
		cmd.ResetGlobalState()
		testCmd := shared.CreateTestCLI("hide", nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Missing flags should be user-facing, not an error: %v", err)
	}

	if !strings.Contains(output, "--cover") || !strings.Contains(output, "required") {
		t.Errorf("Expected flag guidance, got: %s", output)
	}
}

// TestHide_CompressAndArchive tests the --compress and --archive flags
// together.
func TestHide_CompressAndArchive(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pentimento-test-hide-comp-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tempUserDir, err := os.MkdirTemp("", "pentimento-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	defer os.RemoveAll(tempUserDir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	originalUserSettings := configs.UserPentimentoSettings
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	coverPath := filepath.Join(tempDir, "cover.png")
	shared.CreateTestCover(t, coverPath, 200, 200)
	realPath := shared.CreateSecretFile(t, tempDir, "real.txt", strings.Repeat("compressible data ", 100))
	decoyPath := shared.CreateSecretFile(t, tempDir, "decoy.txt", "a harmless shopping list")
	realPass := shared.CreatePasswordFile(t, tempDir, "real.pass", "correct horse battery")
	decoyPass := shared.CreatePasswordFile(t, tempDir, "decoy.pass", "wrong pony candle")
	outPath := filepath.Join(tempDir, "carrier.png")

	output, err := shared.CaptureOutput(func() error {
		cmd.ResetGlobalState()
		testCmd := shared.CreateTestCLIWithArgs("hide", []string{
			"--cover", coverPath,
			"--real", realPath,
			"--decoy", decoyPath,
			"--out", outPath,
			"--real-password-file", realPass,
			"--decoy-password-file", decoyPass,
			"--compress",
			"--archive",
		}, nil, nil, false, false)
		return testCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Hide with compress and archive failed: %v", err)
	}

	if !strings.Contains(output, "Secrets hidden") {
		t.Errorf("Expected success message, got: %s", output)
	}
	if !strings.Contains(output, "archived") {
		t.Errorf("Expected archive note, got: %s", output)
	}

	id := shared.ExtractContainerID(t, output)
	archived := filepath.Join(tempUserDir, "data", "archive", id+".png")
	if _, err := os.Stat(archived); os.IsNotExist(err) {
		t.Errorf("Archived carrier image was not created at %s", archived)
	}
}
