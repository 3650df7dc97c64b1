package errors

import "errors"

// Container format errors indicate the image does not carry a readable container.
var (
	// ErrCapacityExceeded indicates the serialized container does not fit the cover image.
	ErrCapacityExceeded = errors.New("payload exceeds image capacity")

	// ErrInvalidHeader indicates a structurally invalid header field; the image carries no hidden data.
	ErrInvalidHeader = errors.New("no hidden data found")

	// ErrTruncatedData indicates a read ran past the available pixel data.
	ErrTruncatedData = errors.New("hidden data is truncated")
)

// Cryptographic errors indicate failures during sealing or unlocking secrets.
var (
	// ErrAuthenticationFailed indicates one decryption attempt failed tag verification.
	// It is never surfaced to users directly; the resolution protocol folds it
	// into ErrInvalidPassword.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidPassword indicates the password unlocked neither secret.
	ErrInvalidPassword = errors.New("password does not unlock this container")

	// ErrPasswordsMatch indicates the real and decoy passwords are identical.
	ErrPasswordsMatch = errors.New("real and decoy passwords must differ")

	// ErrEmptyPassword indicates a password was empty.
	ErrEmptyPassword = errors.New("password must not be empty")
)

// Metadata errors indicate issues with the key-material store.
var (
	// ErrMetadataNotFound indicates no metadata record exists for the container,
	// either because it never existed or because it was revoked.
	ErrMetadataNotFound = errors.New("container metadata not found or revoked")

	// ErrInvalidContainerID indicates a container ID argument is not a valid UUID.
	ErrInvalidContainerID = errors.New("invalid container ID")

	// ErrStoreNotInitialized indicates the metadata store has not been set up.
	ErrStoreNotInitialized = errors.New("store has not been initialized")

	// ErrStoreAlreadyInitialized indicates the metadata store already exists.
	ErrStoreAlreadyInitialized = errors.New("store has already been initialized")

	// ErrInsufficientDiskSpace indicates the store volume is below the free-space floor.
	ErrInsufficientDiskSpace = errors.New("not enough free disk space for the store")
)

// File errors indicate issues with covers, secrets, or archived images.
var (
	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrImageNotFound indicates a cover or archived image could not be located.
	ErrImageNotFound = errors.New("image not found")

	// ErrEmptySecret indicates a secret file is empty.
	ErrEmptySecret = errors.New("secret file is empty")

	// ErrInvalidImage indicates the cover image could not be decoded.
	ErrInvalidImage = errors.New("cover image could not be decoded")
)

// Input errors indicate malformed command arguments.
var (
	// ErrInvalidDateFormat indicates a date filter was not in YYYY-MM-DD format.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
