// Package metadata persists the key material that containers depend on
// but never carry.
//
// Each record holds the salts, nonces, and KDF parameters for one
// container, keyed by the identifier embedded in the image. The image
// and the record live in different custodial domains on purpose: an
// image alone cannot be decrypted, so deleting the record ("kill
// switch") revokes every distributed copy without touching a pixel.
//
// Records are JSON values in an embedded Badger database under the user
// data directory. Absence of a record is a valid, intentional state:
// Get returns ErrMetadataNotFound and callers surface it as
// "unavailable or revoked", which is deliberately distinct from a wrong
// password.
package metadata
