// Package container implements the dual-secret steganographic container
// at the heart of Pentimento.
//
// A container hides two independently encrypted files (a real secret
// and a decoy) inside one cover image, so that two different passwords
// each unlock a different file from the same artifact. Nothing in the
// image reveals that a second secret exists or which password was used.
//
// # Byte Layout
//
// The serialized container is one flat byte stream. All multi-byte
// integers are big-endian and unsigned:
//
//	offset  field           size
//	0       realNameLen     2 bytes
//	+       realName        realNameLen bytes (UTF-8)
//	+       realCipherLen   4 bytes
//	+       decoyNameLen    2 bytes
//	+       decoyName       decoyNameLen bytes (UTF-8)
//	+       decoyCipherLen  4 bytes
//	+       containerId     16 bytes
//	+       realCiphertext  realCipherLen bytes
//	+       decoyCiphertext decoyCipherLen bytes
//
// Name lengths must be between 1 and 2000 bytes; anything else marks the
// stream as "not a container". There is no magic number: a valid header
// is the only evidence hidden data exists.
//
// # Bit Placement
//
// The stream is written into the least significant bit of each color
// channel, pixels in raster order, channels R, G, B within each pixel,
// most significant bit first within each byte. Alpha never carries
// payload and is forced to 255 before writing, because partially
// transparent pixels corrupt embedded bits under alpha-aware
// re-encoding. Capacity is floor(width*height*3/8) bytes, and embedding
// is all-or-nothing: the capacity check precedes the first pixel write.
//
// # What Lives Elsewhere
//
// Only ciphertexts travel in the image. Salts, nonces, and KDF
// parameters live in a metadata record keyed by the embedded container
// ID (package metadata); deleting that record is the kill switch that
// makes every distributed copy of the image permanently undecryptable.
// Decoding image files into the PixelBuffer this package consumes is
// package imaging's job.
//
// # Resolution
//
// Given one password, Resolve attempts both secrets and returns a tagged
// outcome: the real secret, the decoy secret, or ErrInvalidPassword.
// Both attempts always run, and the failure arms are indistinguishable
// to callers.
package container
