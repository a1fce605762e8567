// Package keys provides the cryptographic primitives for the registry
// protocol: ed25519 key handling and the canonical blake2b hashing used to
// derive data-key hashes, entry hashes, and child seeds.
//
// Stable (SemVer-protected):
//   - Pure, deterministic primitives: key generation/derivation, hex
//     formatting, canonical encoding, hashing, sign/verify.
//
// Experimental:
//   - Filesystem-backed seed storage (KeyStore). This is a local-first
//     convenience for the CLI and not part of the protocol contract.
package keys
