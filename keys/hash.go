package keys

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// HashSize is the byte length of all protocol digests (blake2b-256).
const HashSize = 32

// HashAll returns the blake2b-256 digest of the concatenation of parts.
// Callers are responsible for supplying canonically encoded parts; use
// EncodeString/EncodeBytes/EncodeUint64 for length-prefixed framing.
func HashAll(parts ...[]byte) [HashSize]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors for oversized keys; nil key cannot fail.
		panic(err)
	}
	for _, p := range parts {
		h.Write(p)
	}
	var sum [HashSize]byte
	h.Sum(sum[:0])
	return sum
}

// EncodeString returns the canonical encoding of a string: an 8-byte
// little-endian length prefix followed by the UTF-8 bytes.
func EncodeString(s string) []byte {
	return EncodeBytes([]byte(s))
}

// EncodeBytes returns the canonical encoding of a byte slice: an 8-byte
// little-endian length prefix followed by the bytes.
func EncodeBytes(b []byte) []byte {
	out := make([]byte, 8+len(b))
	binary.LittleEndian.PutUint64(out[:8], uint64(len(b)))
	copy(out[8:], b)
	return out
}

// EncodeUint64 returns the canonical 8-byte little-endian encoding of n.
func EncodeUint64(n uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, n)
	return out
}
