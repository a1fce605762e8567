// registry_vector_gen emits deterministic signed registry-entry vectors as
// JSON, for cross-checking other implementations of the entry codec.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/registry"
)

type vector struct {
	SeedHex          string `json:"seedHex"`
	PublicKey        string `json:"publicKey"`
	DataKey          string `json:"dataKey"`
	HashedDataKeyHex string `json:"hashedDataKeyHex"`
	DataHex          string `json:"dataHex"`
	Revision         uint64 `json:"revision"`
	SigningHashHex   string `json:"signingHashHex"`
	SignatureHex     string `json:"signatureHex"`
	EntryIDHex       string `json:"entryIDHex"`
	EntryLink        string `json:"entryLink"`
}

func main() {
	var (
		seedHex = flag.String("seed", "", "ed25519 seed as 64 hex chars")
		dataKey = flag.String("data-key", "", "data key")
		dataHex = flag.String("data-hex", "", "entry payload as hex")
		rev     = flag.Uint64("revision", 0, "entry revision")
		outDir  = flag.String("out", "", "output directory")
	)
	flag.Parse()

	if *seedHex == "" || *dataKey == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "usage: registry_vector_gen -seed <64hex> -data-key <key> [-data-hex <hex>] [-revision <n>] -out <dir>")
		os.Exit(2)
	}

	seed, err := keys.ParseSeedHex(*seedHex)
	if err != nil {
		fatalf("parse seed: %v", err)
	}
	pub, priv, err := keys.KeyPairFromSeed(seed)
	if err != nil {
		fatalf("derive keypair: %v", err)
	}
	data, err := hex.DecodeString(*dataHex)
	if err != nil {
		fatalf("parse data hex: %v", err)
	}

	hashedDataKey := registry.HashDataKey(*dataKey)
	entry := &registry.Entry{DataKey: *dataKey, Data: data, Revision: *rev}
	signingHash := entry.Hash(hashedDataKey)
	signature := entry.Sign(priv, hashedDataKey)
	entryID := registry.EntryID(pub, hashedDataKey)
	link, err := registry.EntryLink(pub, *dataKey, false)
	if err != nil {
		fatalf("entry link: %v", err)
	}

	v := vector{
		SeedHex:          *seedHex,
		PublicKey:        keys.PrefixedPublicKey(pub),
		DataKey:          *dataKey,
		HashedDataKeyHex: hex.EncodeToString(hashedDataKey[:]),
		DataHex:          *dataHex,
		Revision:         *rev,
		SigningHashHex:   hex.EncodeToString(signingHash[:]),
		SignatureHex:     hex.EncodeToString(signature),
		EntryIDHex:       hex.EncodeToString(entryID[:]),
		EntryLink:        link.String(),
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("marshal vector: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("mkdir out: %v", err)
	}
	path := filepath.Join(*outDir, "entry_vector.json")
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		fatalf("write vector: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
