package keys

import (
	"strings"
	"testing"
)

func TestKeyStoreRootAndChild(t *testing.T) {
	ks, err := CreateKeyStore(t.TempDir())
	if err != nil {
		t.Fatalf("CreateKeyStore: %v", err)
	}

	pubStr, path, err := ks.InitializeRootKey("alice", testSeed(), false)
	if err != nil {
		t.Fatalf("InitializeRootKey: %v", err)
	}
	if !strings.HasPrefix(pubStr, "ed25519:") {
		t.Fatalf("public key missing algorithm prefix: %q", pubStr)
	}
	if path == "" {
		t.Fatalf("expected key file path")
	}

	// Re-initializing without overwrite must fail.
	if _, _, err := ks.InitializeRootKey("alice", testSeed(), false); err == nil {
		t.Fatalf("expected error on duplicate root key")
	}

	childPub, _, err := ks.DeriveChildKey("alice", "notes", false)
	if err != nil {
		t.Fatalf("DeriveChildKey: %v", err)
	}
	if childPub == pubStr {
		t.Fatalf("child key should differ from root key")
	}

	seed, err := ks.LoadSeed("", "alice", "notes", "")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	pub, _, err := KeyPairFromSeed(seed)
	if err != nil {
		t.Fatalf("KeyPairFromSeed: %v", err)
	}
	if PrefixedPublicKey(pub) != childPub {
		t.Fatalf("loaded child seed does not match derived key")
	}

	entries, err := ks.ListKeys()
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "alice" {
		t.Fatalf("ListKeys: %+v", entries)
	}
	if len(entries[0].Children) != 1 || entries[0].Children[0] != "notes" {
		t.Fatalf("ListKeys children: %+v", entries[0].Children)
	}
}

func TestKeyStoreRejectsBadNames(t *testing.T) {
	ks, err := CreateKeyStore(t.TempDir())
	if err != nil {
		t.Fatalf("CreateKeyStore: %v", err)
	}
	for _, name := range []string{"", "a/b", "a b", "a\x00b"} {
		if _, _, err := ks.InitializeRootKey(name, testSeed(), false); err == nil {
			t.Fatalf("expected error for name %q", name)
		}
	}
}
