// Package envelope seals and opens individual secrets for Pentimento.
//
// Each secret is encrypted independently under a key derived from its
// password with argon2id (deliberately slow, salted) and sealed with
// XChaCha20-Poly1305. The AEAD tag is load-bearing: opening with the
// wrong password fails verification deterministically instead of
// producing garbage plaintext, which is what lets the resolution
// protocol tell "wrong password" apart from "unlocked the other secret"
// with no out-of-band hint.
//
// # Key Material Split
//
// Seal returns the ciphertext separately from the salt and nonce. Only
// the ciphertext is embedded into the cover image; salt and nonce belong
// in the metadata store. An image alone is therefore undecryptable, and
// deleting the metadata record revokes every distributed copy at once.
//
// # Randomness
//
// Seal takes its random source as an argument. Production callers pass
// crypto/rand.Reader; tests inject a deterministic reader to pin salts
// and nonces.
package envelope
