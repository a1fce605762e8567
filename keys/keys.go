package keys

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/ed25519"
)

// AlgorithmEd25519 is the only signature algorithm the registry protocol
// admits. Public keys travel on the wire as "ed25519:<hex>".
const AlgorithmEd25519 = "ed25519"

// PublicKey and PrivateKey are ed25519 keys. The aliases keep circl out of
// caller signatures.
type (
	PublicKey  = ed25519.PublicKey
	PrivateKey = ed25519.PrivateKey
)

const (
	SeedSize      = ed25519.SeedSize
	PublicKeySize = ed25519.PublicKeySize
	SignatureSize = ed25519.SignatureSize
)

// GenerateKeyPair returns a fresh random keypair.
func GenerateKeyPair() (PublicKey, PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// KeyPairFromSeed derives a keypair from a 32-byte seed.
func KeyPairFromSeed(seed []byte) (PublicKey, PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv.Public().(PublicKey), priv, nil
}

// DeriveChildSeed deterministically derives a named child seed from a root
// seed, so one stored secret can own many independent registry keyspaces.
func DeriveChildSeed(rootSeed []byte, name string) ([]byte, error) {
	if len(rootSeed) != SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes, got %d", SeedSize, len(rootSeed))
	}
	if name == "" {
		return nil, errors.New("child seed name cannot be empty")
	}
	sum := HashAll(EncodeBytes(rootSeed), EncodeString(name))
	out := make([]byte, SeedSize)
	copy(out, sum[:])
	return out, nil
}

// Sign signs message with the private key.
func Sign(priv PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Verify reports whether sig is a valid signature of message by pub.
func Verify(pub PublicKey, message, sig []byte) bool {
	if len(pub) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(pub, message, sig)
}

// PublicKeyHex returns the bare hex encoding of a public key.
func PublicKeyHex(pub PublicKey) string {
	return hex.EncodeToString(pub)
}

// PrefixedPublicKey returns the wire form "ed25519:<hex>".
func PrefixedPublicKey(pub PublicKey) string {
	return AlgorithmEd25519 + ":" + PublicKeyHex(pub)
}

// PublicKeyFromHex parses a public key from hex, with or without the
// "ed25519:" prefix.
func PublicKeyFromHex(s string) (PublicKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), AlgorithmEd25519+":")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid public key hex: %w", err)
	}
	if len(b) != PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", PublicKeySize, len(b))
	}
	return PublicKey(b), nil
}

// ParseSeedHex parses a hex seed string, tolerating whitespace and an
// optional 0x prefix.
func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", SeedSize, len(data))
	}
	return data, nil
}
