package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/tyler-smith/go-bip39"
)

func TestGeneratePassphraseDefaultWords(t *testing.T) {
	result, err := GeneratePassphrase(context.Background(), GeneratePassphraseOptions{})
	if err != nil {
		t.Fatalf("GeneratePassphrase failed: %v", err)
	}

	words := strings.Fields(result.Passphrase)
	if len(words) != 12 {
		t.Errorf("Default passphrase has %d words, want 12", len(words))
	}
	if result.EntropyBits != 128 {
		t.Errorf("EntropyBits = %d, want 128", result.EntropyBits)
	}
}

func TestGeneratePassphraseWordCounts(t *testing.T) {
	tests := []struct {
		words       int
		entropyBits int
	}{
		{12, 128},
		{15, 160},
		{18, 192},
		{21, 224},
		{24, 256},
	}

	for _, tt := range tests {
		result, err := GeneratePassphrase(context.Background(), GeneratePassphraseOptions{Words: tt.words})
		if err != nil {
			t.Fatalf("GeneratePassphrase(%d) failed: %v", tt.words, err)
		}
		if got := len(strings.Fields(result.Passphrase)); got != tt.words {
			t.Errorf("Passphrase has %d words, want %d", got, tt.words)
		}
		if result.EntropyBits != tt.entropyBits {
			t.Errorf("EntropyBits = %d, want %d", result.EntropyBits, tt.entropyBits)
		}
		if !bip39.IsMnemonicValid(result.Passphrase) {
			t.Errorf("Generated %d-word passphrase is not a valid mnemonic", tt.words)
		}
	}
}

func TestGeneratePassphraseInvalidWordCount(t *testing.T) {
	for _, words := range []int{1, 11, 13, 23, 25, -12} {
		if _, err := GeneratePassphrase(context.Background(), GeneratePassphraseOptions{Words: words}); err == nil {
			t.Errorf("Expected error for word count %d", words)
		}
	}
}

func TestGeneratePassphraseUnique(t *testing.T) {
	first, err := GeneratePassphrase(context.Background(), GeneratePassphraseOptions{Words: 12})
	if err != nil {
		t.Fatalf("GeneratePassphrase failed: %v", err)
	}
	second, err := GeneratePassphrase(context.Background(), GeneratePassphraseOptions{Words: 12})
	if err != nil {
		t.Fatalf("GeneratePassphrase failed: %v", err)
	}
	if first.Passphrase == second.Passphrase {
		t.Error("Two generated passphrases are identical")
	}
}
