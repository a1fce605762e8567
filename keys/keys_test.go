package keys

import (
	"bytes"
	"testing"
)

func testSeed() []byte {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func TestKeyPairFromSeedDeterministic(t *testing.T) {
	pub1, priv1, err := KeyPairFromSeed(testSeed())
	if err != nil {
		t.Fatalf("KeyPairFromSeed: %v", err)
	}
	pub2, priv2, err := KeyPairFromSeed(testSeed())
	if err != nil {
		t.Fatalf("KeyPairFromSeed: %v", err)
	}
	if !bytes.Equal(pub1, pub2) || !bytes.Equal(priv1, priv2) {
		t.Fatalf("expected deterministic keypair derivation")
	}

	if _, _, err := KeyPairFromSeed(testSeed()[:SeedSize-1]); err == nil {
		t.Fatalf("expected error for short seed")
	}
}

func TestSignVerify(t *testing.T) {
	pub, priv, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msg := []byte("registry entry hash stand-in")
	sig := Sign(priv, msg)
	if !Verify(pub, msg, sig) {
		t.Fatalf("signature did not verify")
	}
	if Verify(pub, []byte("other message"), sig) {
		t.Fatalf("signature verified for wrong message")
	}
	sig[0] ^= 0xFF
	if Verify(pub, msg, sig) {
		t.Fatalf("mutated signature verified")
	}
}

func TestPublicKeyHexRoundTrip(t *testing.T) {
	pub, _, err := KeyPairFromSeed(testSeed())
	if err != nil {
		t.Fatalf("KeyPairFromSeed: %v", err)
	}

	for _, in := range []string{PublicKeyHex(pub), PrefixedPublicKey(pub)} {
		got, err := PublicKeyFromHex(in)
		if err != nil {
			t.Fatalf("PublicKeyFromHex(%q): %v", in, err)
		}
		if !bytes.Equal(got, pub) {
			t.Fatalf("hex round trip mismatch for %q", in)
		}
	}

	if _, err := PublicKeyFromHex("ed25519:zz"); err == nil {
		t.Fatalf("expected error for bad hex")
	}
	if _, err := PublicKeyFromHex("abcd"); err == nil {
		t.Fatalf("expected error for wrong length")
	}
}

func TestDeriveChildSeed(t *testing.T) {
	a, err := DeriveChildSeed(testSeed(), "app-one")
	if err != nil {
		t.Fatalf("DeriveChildSeed: %v", err)
	}
	b, err := DeriveChildSeed(testSeed(), "app-one")
	if err != nil {
		t.Fatalf("DeriveChildSeed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected deterministic derivation")
	}
	c, err := DeriveChildSeed(testSeed(), "app-two")
	if err != nil {
		t.Fatalf("DeriveChildSeed: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("expected distinct seeds for distinct names")
	}
	if _, err := DeriveChildSeed(testSeed(), ""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestEncodeFraming(t *testing.T) {
	enc := EncodeString("abc")
	want := append([]byte{3, 0, 0, 0, 0, 0, 0, 0}, 'a', 'b', 'c')
	if !bytes.Equal(enc, want) {
		t.Fatalf("EncodeString: got %x want %x", enc, want)
	}
	if !bytes.Equal(EncodeUint64(1), []byte{1, 0, 0, 0, 0, 0, 0, 0}) {
		t.Fatalf("EncodeUint64 not little-endian")
	}
	// Framing must keep concatenated inputs unambiguous.
	if HashAll(EncodeString("ab"), EncodeString("c")) == HashAll(EncodeString("a"), EncodeString("bc")) {
		t.Fatalf("length-prefixed framing collision")
	}
}
