// Package errors provides typed error values for the Pentimento application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Container format errors: The image carries no readable container
//     (ErrInvalidHeader, ErrTruncatedData) or cannot hold one (ErrCapacityExceeded)
//   - Crypto errors: Sealing/unlocking failures (ErrInvalidPassword, ErrPasswordsMatch)
//   - Metadata errors: Key-material store issues (ErrMetadataNotFound)
//   - File errors: Covers, secrets, and archived images (ErrFileNotFound)
//
// # Usage
//
// Return errors from internal packages:
//
//	if nameLen == 0 || nameLen > maxNameLen {
//	    return nil, errors.ErrInvalidHeader
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Reveal(ctx, opts)
//	if errors.Is(err, perrors.ErrMetadataNotFound) {
//	    // Show "file unavailable or revoked"
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading cover image %s: %w", path, errors.ErrFileNotFound)
//
// ErrInvalidHeader and ErrTruncatedData share one user-facing treatment ("no
// hidden data found"); ErrMetadataNotFound is deliberately distinct from
// ErrInvalidPassword so a revoked container is never mistaken for a typo.
package errors
