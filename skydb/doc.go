// Package skydb implements a mutable key-value layer on top of immutable
// content storage: each (publicKey, dataKey) pair owns a signed registry
// entry whose data points at the current content skylink.
//
// Writes follow an optimistic-concurrency pattern, not a transaction: the
// engine reads the current revision, computes the next one, and writes.
// Two concurrent writers on the same key can both compute the same next
// revision; a strict portal rejects the loser with a KindPortal error, and
// the engine never retries. Conflict handling belongs to the caller.
package skydb
