package workflows

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pentimento/pentimento/internal/configs"
	"github.com/pentimento/pentimento/internal/container"
	"github.com/pentimento/pentimento/internal/imaging"
)

// setupWorkflowEnv points the global settings at a temp directory and
// writes a config with a cheap KDF cost so tests stay fast.
func setupWorkflowEnv(t *testing.T) string {
	t.Helper()

	tempDir := setupBareEnv(t)
	config := configs.DefaultUserConfig()
	config.KDF = configs.KDFConfig{Time: 1, MemoryKB: 1024, Threads: 1}
	if err := configs.SaveUserConfig(config); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return tempDir
}

// setupBareEnv installs temp settings without writing a config file.
func setupBareEnv(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	original := configs.UserPentimentoSettings
	t.Cleanup(func() { configs.UserPentimentoSettings = original })
	configs.UserPentimentoSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempDir, "configs"),
		UserDataPath:    filepath.Join(tempDir, "data"),
		Username:        "testuser",
	}
	return tempDir
}

// writeCoverImage writes a PNG with varied pixel data and returns its path.
func writeCoverImage(t *testing.T, dir string, width, height int) string {
	t.Helper()

	buf := container.NewPixelBuffer(width, height)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = byte(i % 251)
		buf.Pix[i+1] = byte((i / 3) % 249)
		buf.Pix[i+2] = byte((i / 7) % 247)
		buf.Pix[i+3] = 255
	}
	return encodeCover(t, dir, buf)
}

// writeBlankImage writes an opaque all-black PNG: a valid image that
// carries no container.
func writeBlankImage(t *testing.T, dir string, width, height int) string {
	t.Helper()

	buf := container.NewPixelBuffer(width, height)
	for i := 3; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = 255
	}
	return encodeCover(t, dir, buf)
}

func encodeCover(t *testing.T, dir string, buf *container.PixelBuffer) string {
	t.Helper()

	var out bytes.Buffer
	if err := imaging.Encode(&out, buf); err != nil {
		t.Fatalf("Failed to encode cover image: %v", err)
	}
	path := filepath.Join(dir, "cover.png")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write cover image: %v", err)
	}
	return path
}

// writeSecretFiles writes a real and a decoy secret and returns their paths.
func writeSecretFiles(t *testing.T, dir string) (string, string) {
	t.Helper()

	realPath := filepath.Join(dir, "ledger.xlsx")
	decoyPath := filepath.Join(dir, "grocery-list.txt")
	if err := os.WriteFile(realPath, []byte("account numbers and access codes"), 0o600); err != nil {
		t.Fatalf("Failed to write secret file: %v", err)
	}
	if err := os.WriteFile(decoyPath, []byte("eggs, milk, bread"), 0o600); err != nil {
		t.Fatalf("Failed to write secret file: %v", err)
	}
	return realPath, decoyPath
}

// hideFixture runs a full hide and returns the result and carrier path.
func hideFixture(t *testing.T, tempDir string, archive bool) (*HideResult, string) {
	t.Helper()

	cover := writeCoverImage(t, tempDir, 64, 64)
	realPath, decoyPath := writeSecretFiles(t, tempDir)
	outPath := filepath.Join(tempDir, "out.png")

	result, err := Hide(context.Background(), HideOptions{
		CoverPath:     cover,
		RealPath:      realPath,
		DecoyPath:     decoyPath,
		RealPassword:  "correct horse battery",
		DecoyPassword: "wrong pony candle",
		OutputPath:    outPath,
		Label:         "tax-records",
		Archive:       archive,
	})
	if err != nil {
		t.Fatalf("Hide failed: %v", err)
	}
	return result, outPath
}
