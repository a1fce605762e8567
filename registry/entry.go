// Package registry implements the signed, versioned mutable-pointer layer:
// the canonical entry encoding, revision tracking, resolver proof
// validation, and a portal client for reading and writing entries.
package registry

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/skylink"
)

// MaxRevision is the largest representable revision. An entry at this
// revision can never be updated again.
const MaxRevision = math.MaxUint64

// Entry is one mutable registry record, owned by a public key. Entries are
// value objects: updates construct a new Entry with a higher revision.
type Entry struct {
	// DataKey is the application-chosen key. When the owning operation ran
	// with HashedDataKeyHex, this holds the hex form of the hashed key
	// instead of the plain string.
	DataKey string

	// Data is the opaque payload, typically a raw skylink.
	Data []byte

	// Revision is the monotonically non-decreasing version counter.
	Revision uint64
}

// SignedEntry pairs an entry with its owner's signature. A nil Entry means
// "not found".
type SignedEntry struct {
	Entry     *Entry
	Signature []byte
}

// DeletionEntryData is the sentinel payload written to logically delete an
// entry: the raw empty skylink.
var DeletionEntryData = make([]byte, skylink.RawSize)

// IsDeletionData reports whether data equals the deletion sentinel.
func IsDeletionData(data []byte) bool {
	return bytes.Equal(data, DeletionEntryData)
}

// HashDataKey returns the canonical hash of a plain data key.
func HashDataKey(dataKey string) [keys.HashSize]byte {
	return keys.HashAll(keys.EncodeString(dataKey))
}

// ResolveDataKeyHash returns the hashed data key for an operation:
// HashDataKey(dataKey) normally, or the hex-decoded dataKey itself when
// hashedHex is set.
func ResolveDataKeyHash(dataKey string, hashedHex bool) ([keys.HashSize]byte, error) {
	var out [keys.HashSize]byte
	if !hashedHex {
		return HashDataKey(dataKey), nil
	}
	b, err := hex.DecodeString(dataKey)
	if err != nil {
		return out, WrapError(KindValidation, "SKY-VAL-011",
			fmt.Sprintf("hashed data key %q is not valid hex", dataKey), err)
	}
	if len(b) != keys.HashSize {
		return out, NewError(KindValidation, "SKY-VAL-012",
			fmt.Sprintf("hashed data key must be %d bytes, got %d", keys.HashSize, len(b)))
	}
	copy(out[:], b)
	return out, nil
}

// Hash returns the canonical signing digest of the entry:
// blake2b-256(hashedDataKey || u64le(len(data)) || data || u64le(revision)).
// This must stay bit-exact with the portal's own verification routine.
func (e *Entry) Hash(hashedDataKey [keys.HashSize]byte) [keys.HashSize]byte {
	return keys.HashAll(
		hashedDataKey[:],
		keys.EncodeBytes(e.Data),
		keys.EncodeUint64(e.Revision),
	)
}

// Sign signs the entry's canonical digest.
func (e *Entry) Sign(priv keys.PrivateKey, hashedDataKey [keys.HashSize]byte) []byte {
	digest := e.Hash(hashedDataKey)
	return keys.Sign(priv, digest[:])
}

// VerifySignature reports whether sig is the owner's signature over the
// entry's canonical digest.
func (e *Entry) VerifySignature(pub keys.PublicKey, hashedDataKey [keys.HashSize]byte, sig []byte) bool {
	digest := e.Hash(hashedDataKey)
	return keys.Verify(pub, digest[:], sig)
}

// NextRevision computes the revision for the write following prior: 0 when
// no prior entry exists, prior.Revision+1 otherwise. A prior entry already
// at MaxRevision is terminal; the caller must move to a new data key.
func NextRevision(prior *Entry) (uint64, error) {
	if prior == nil {
		return 0, nil
	}
	if prior.Revision == MaxRevision {
		return 0, NewError(KindRevision, "SKY-REV-201",
			"revision counter exhausted; further updates require a new data key")
	}
	return prior.Revision + 1, nil
}
