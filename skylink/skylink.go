// Package skylink implements the skylink content identifier: a 2-byte
// little-endian bitfield followed by a 32-byte blake2b merkle root, with
// base64url (46 chars) and base32 (55 chars) string forms.
package skylink

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
)

const (
	// RawSize is the byte length of an encoded skylink.
	RawSize = 34
	// MerkleRootSize is the byte length of the merkle root component.
	MerkleRootSize = 32
	// Base64Size is the length of the canonical string form.
	Base64Size = 46
	// Base32Size is the length of the subdomain-safe string form.
	Base32Size = 55

	// URIPrefix is the scheme prefix accepted (and stripped) by Parse.
	URIPrefix = "sia://"
)

// base32Alphabet is the lowercase extended-hex alphabet used for
// subdomain-style skylinks. Portals only accept this exact alphabet.
const base32Alphabet = "0123456789abcdefghijklmnopqrstuv"

var base32Encoding = newBase32Encoding()

// Skylink is a parsed skylink.
//
// The low two bits of Bitfield encode version-1: version 1 links address
// immutable content directly, version 2 links ("entry links" or "resolver
// links") name a registry entry whose data is the next link in the chain.
type Skylink struct {
	Bitfield   uint16
	MerkleRoot [MerkleRootSize]byte
}

// NewV1 returns a version 1 skylink for the given merkle root.
func NewV1(root [MerkleRootSize]byte) Skylink {
	return Skylink{Bitfield: 0, MerkleRoot: root}
}

// NewResolver returns a version 2 (resolver) skylink for a registry entry ID.
func NewResolver(entryID [MerkleRootSize]byte) Skylink {
	return Skylink{Bitfield: 1, MerkleRoot: entryID}
}

// FromBytes decodes the raw 34-byte layout.
func FromBytes(b []byte) (Skylink, error) {
	if len(b) != RawSize {
		return Skylink{}, ErrInvalidLength
	}
	var s Skylink
	s.Bitfield = binary.LittleEndian.Uint16(b[:2])
	copy(s.MerkleRoot[:], b[2:])
	return s, nil
}

// Bytes returns the raw 34-byte layout.
func (s Skylink) Bytes() []byte {
	b := make([]byte, RawSize)
	binary.LittleEndian.PutUint16(b[:2], s.Bitfield)
	copy(b[2:], s.MerkleRoot[:])
	return b
}

// Parse decodes a skylink string. It accepts the bare 46-character base64
// form, an optional sia:// prefix, and an optional path or query suffix
// (which is discarded).
func Parse(raw string) (Skylink, error) {
	str := strings.TrimPrefix(raw, URIPrefix)
	if len(str) > Base64Size {
		switch str[Base64Size] {
		case '/', '?', '#':
			str = str[:Base64Size]
		default:
			return Skylink{}, ErrInvalidLength
		}
	}
	if len(str) != Base64Size {
		return Skylink{}, ErrInvalidLength
	}
	b, err := base64.RawURLEncoding.DecodeString(str)
	if err != nil {
		return Skylink{}, ErrInvalidEncoding
	}
	return FromBytes(b)
}

// String returns the canonical base64url form (46 characters, no padding).
func (s Skylink) String() string {
	return base64.RawURLEncoding.EncodeToString(s.Bytes())
}

// Base32 returns the 55-character lowercase base32 form used in portal
// subdomains.
func (s Skylink) Base32() string {
	return base32Encoding.EncodeToString(s.Bytes())
}

// ParseBase32 decodes the 55-character base32 form.
func ParseBase32(str string) (Skylink, error) {
	if len(str) != Base32Size {
		return Skylink{}, ErrInvalidLength
	}
	b, err := base32Encoding.DecodeString(str)
	if err != nil {
		return Skylink{}, ErrInvalidEncoding
	}
	return FromBytes(b)
}

// Version returns the skylink version (1 or 2) encoded in the bitfield.
func (s Skylink) Version() int {
	return int(s.Bitfield&0x3) + 1
}

// IsResolver reports whether the link is a version 2 entry link.
func (s Skylink) IsResolver() bool {
	return s.Version() == 2
}

// IsEmpty reports whether the link is the all-zero empty skylink, which the
// registry layer uses as its deletion sentinel.
func (s Skylink) IsEmpty() bool {
	if s.Bitfield != 0 {
		return false
	}
	for _, b := range s.MerkleRoot {
		if b != 0 {
			return false
		}
	}
	return true
}
