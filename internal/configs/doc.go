// Package configs manages user configuration for Pentimento.
//
// Configuration is a single TOML file under the OS config directory
// (for example ~/.config/pentimento/config.toml). There is no per-project
// configuration: containers are tied to the user's metadata store, not
// to a working directory.
//
// # User Configuration
//
// The config file stores:
//   - Store paths: the metadata store directory and the image archive
//     directory, defaulting to subdirectories of the user data dir
//   - KDF cost: argon2id time, memory, and threads used when sealing new
//     containers (existing containers keep the cost recorded in their
//     metadata records)
//   - Audit switch: whether operations append to the JSONL audit log
//
// Missing fields fall back to defaults, so a hand-trimmed config stays
// valid. Unknown keys are rejected to catch typos.
//
// # Settings
//
// Global settings are initialized at startup:
//   - UserPentimentoSettings: the resolved config and data directories
//     plus the current username
//
// Tests override UserPentimentoSettings to point at temp directories.
package configs
