package envelope

import (
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	perrors "github.com/pentimento/pentimento/internal/errors"
)

const (
	// SaltSize is the width of the random KDF salt.
	SaltSize = 16

	// NonceSize is the width of the XChaCha20-Poly1305 nonce.
	NonceSize = chacha20poly1305.NonceSizeX

	// Overhead is the ciphertext expansion: the Poly1305 tag.
	Overhead = chacha20poly1305.Overhead

	keySize = chacha20poly1305.KeySize
)

// Params are the argon2id cost parameters. Every metadata record carries
// the parameters its secrets were sealed with, so containers stay
// openable if the defaults move later.
type Params struct {
	Time     uint32
	MemoryKB uint32
	Threads  uint8
}

// DefaultParams returns the current sealing cost: 2 passes over 64 MiB
// with a single lane.
func DefaultParams() Params {
	return Params{Time: 2, MemoryKB: 64 * 1024, Threads: 1}
}

func (p Params) validate() error {
	if p.Time == 0 || p.MemoryKB == 0 || p.Threads == 0 {
		return fmt.Errorf("invalid kdf parameters: time=%d memoryKB=%d threads=%d", p.Time, p.MemoryKB, p.Threads)
	}
	return nil
}

// Sealed is the envelope output for one secret. Only the ciphertext is
// embedded in the image; the salt and nonce go to the metadata store,
// which is what makes deleting the record a kill switch.
type Sealed struct {
	Ciphertext []byte
	Salt       []byte
	Nonce      []byte
}

// Seal encrypts plaintext under a key derived from the password and a
// fresh random salt, with a fresh random nonce. random must be a
// cryptographically secure source (crypto/rand.Reader in production;
// tests may inject a deterministic one). Salts and nonces are never
// reused across secrets: each call draws new ones.
func Seal(random io.Reader, password string, plaintext []byte, params Params) (*Sealed, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, fmt.Errorf("reading salt: %w", err)
	}
	key := deriveKey(password, salt, params)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(random, nonce); err != nil {
		return nil, fmt.Errorf("reading nonce: %w", err)
	}
	return &Sealed{
		Ciphertext: aead.Seal(nil, nonce, plaintext, nil),
		Salt:       salt,
		Nonce:      nonce,
	}, nil
}

// Open re-derives the key from the password and salt and
// authenticated-decrypts the ciphertext. A wrong password fails the
// Poly1305 tag check and returns ErrAuthenticationFailed; it can never
// yield garbage plaintext. That determinism is what the resolution
// protocol builds on.
func Open(password string, salt, nonce, ciphertext []byte, params Params) ([]byte, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}
	key := deriveKey(password, salt, params)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, perrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

func deriveKey(password string, salt []byte, params Params) []byte {
	return argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKB, params.Threads, keySize)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
