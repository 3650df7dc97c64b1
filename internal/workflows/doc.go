// Package workflows provides high-level orchestration for Pentimento commands.
//
// Workflows coordinate multiple operations across packages (configs,
// container, envelope, metadata, archive, audit) to implement complete
// user-facing features. Each workflow handles a single command's business
// logic, independent of CLI concerns like flag parsing, spinners, password
// prompts, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Prompts for passwords when they are not supplied another way
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading configuration
//   - Validating prerequisites
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
// Each command has a corresponding workflow:
//
//   - Hide: Seals two secrets and embeds them in a cover image
//   - Reveal: Extracts a container and unlocks whichever secret the password opens
//   - Inspect: Reports container structure without decrypting anything
//   - Revoke: Deletes a container's metadata record (the kill switch)
//   - InitStore: Creates the metadata store, archive, and user config
//   - Status: Reports store contents and disk usage
//   - AuditLog: Reads and filters the audit log
//   - Purge: Drops every metadata record at once
//   - GeneratePassphrase: Produces a BIP-39 mnemonic passphrase
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Reveal(ctx, opts)
//	if errors.Is(err, perrors.ErrMetadataNotFound) {
//	    // Container was revoked or the store is not reachable
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// This enables cancellation, timeouts, and passing request-scoped values.
package workflows
