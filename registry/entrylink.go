package registry

import (
	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/skylink"
)

// ed25519Specifier is the 16-byte zero-padded algorithm specifier used in
// the canonical public key encoding.
var ed25519Specifier = [16]byte{'e', 'd', '2', '5', '5', '1', '9'}

// EntryID derives the registry entry identifier for (publicKey, dataKey):
// blake2b-256 over the canonical public key encoding (specifier +
// length-prefixed key bytes) followed by the hashed data key.
func EntryID(pub keys.PublicKey, hashedDataKey [keys.HashSize]byte) [keys.HashSize]byte {
	return keys.HashAll(
		ed25519Specifier[:],
		keys.EncodeBytes(pub),
		hashedDataKey[:],
	)
}

// EntryLink derives the version 2 resolver skylink that permanently names
// the registry entry for (publicKey, dataKey). The link is independent of
// the entry's current content or existence.
func EntryLink(pub keys.PublicKey, dataKey string, hashedDataKeyHex bool) (skylink.Skylink, error) {
	hashedDataKey, err := ResolveDataKeyHash(dataKey, hashedDataKeyHex)
	if err != nil {
		return skylink.Skylink{}, err
	}
	return skylink.NewResolver(EntryID(pub, hashedDataKey)), nil
}
