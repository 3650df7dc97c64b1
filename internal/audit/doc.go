// Package audit provides audit trail logging for Pentimento operations.
//
// Every significant operation (hide, reveal, inspect, revoke, purge) is
// recorded in a per-user audit log, so the owner can reconstruct what
// happened to which container and when.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) under
// the user data directory:
//
//	~/.local/share/pentimento/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Username
//   - Operation name
//   - Operation-specific details (container ID, image path, counts)
//
// Entries never include passwords, secret names, plaintext, or the role
// a reveal resolved to; the log must not undermine deniability if it
// leaks.
//
// # Usage
//
// Create an entry with user info pre-populated:
//
//	entry := audit.LogWithUser("hide")
//	entry.ContainerID = id
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. It can also be switched
// off entirely in the config.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
