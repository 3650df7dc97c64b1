package workflows

import (
	"context"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// GeneratePassphraseOptions configures the passphrase workflow.
type GeneratePassphraseOptions struct {
	// Words is the mnemonic length: 12, 15, 18, 21, or 24.
	Words int
}

// GeneratePassphraseResult contains the outcome of a passphrase operation.
type GeneratePassphraseResult struct {
	// Passphrase is the space-separated mnemonic.
	Passphrase string

	// EntropyBits is the entropy backing the mnemonic.
	EntropyBits int
}

// GeneratePassphrase produces a BIP-39 mnemonic suitable for use as a
// container password. Dual-secret containers need two strong passwords
// that their owner can actually remember under pressure; word lists beat
// character soup for that.
//
// The passphrase is never logged or stored anywhere.
func GeneratePassphrase(ctx context.Context, opts GeneratePassphraseOptions) (*GeneratePassphraseResult, error) {
	words := opts.Words
	if words == 0 {
		words = 12
	}

	// BIP-39 ties word count to entropy: 3 words per 32 bits.
	switch words {
	case 12, 15, 18, 21, 24:
	default:
		return nil, fmt.Errorf("word count must be 12, 15, 18, 21, or 24, got %d", words)
	}
	bits := words / 3 * 32

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return nil, fmt.Errorf("generating entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("generating mnemonic: %w", err)
	}

	return &GeneratePassphraseResult{
		Passphrase:  mnemonic,
		EntropyBits: bits,
	}, nil
}
