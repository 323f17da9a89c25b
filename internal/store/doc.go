// Package store provides file-based persistence for tipjar's local state.
//
// FileStore implements the domain storage interfaces, serialising data as
// JSON under the configured home directory. All methods are
// concurrency-safe via internal locking.
//
// The package holds:
//   - the connector's cached wallet choice (wallet_cache.json)
//   - the BIP-39 mnemonic vault, sealed with scrypt + ChaCha20-Poly1305
//     (mnemonic.enc)
package store
