package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/portal"
	"github.com/skynetkit/skydb/registry"
	"github.com/skynetkit/skydb/skydb"
	"github.com/skynetkit/skydb/skylink"
)

// defaultTimeout bounds every portal round trip started by the CLI.
const defaultTimeout = 2 * time.Minute

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "upload":
		return cmdUpload(args[1:], out, errOut)
	case "download":
		return cmdDownload(args[1:], out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "set":
		return cmdSet(args[1:], out, errOut)
	case "delete":
		return cmdDelete(args[1:], out, errOut)
	case "entry":
		return cmdEntry(args[1:], out, errOut)
	case "entry-link":
		return cmdEntryLink(args[1:], out, errOut)
	case "hns":
		return cmdHNS(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "skydb: portal uploads, registry entries, and SkyDB key/value")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  skydb key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  skydb key derive --from <name> --child <child> [--force]")
	fmt.Fprintln(w, "  skydb key list")
	fmt.Fprintln(w, "  skydb key export (--seed-hex <64hex> | --signer <name> [--child <child>] | --key-file <path>)")
	fmt.Fprintln(w, "  skydb upload <file>")
	fmt.Fprintln(w, "  skydb download [-o <file>] <skylink>")
	fmt.Fprintln(w, "  skydb get --pubkey <ed25519:hex> --data-key <key>")
	fmt.Fprintln(w, "  skydb set --data-key <key> (--seed-hex ... | --signer ... | --key-file ...) (--json <literal> | --json-file <path>)")
	fmt.Fprintln(w, "  skydb delete --data-key <key> (--seed-hex ... | --signer ... | --key-file ...)")
	fmt.Fprintln(w, "  skydb entry get --pubkey <ed25519:hex> --data-key <key>")
	fmt.Fprintln(w, "  skydb entry set --data-key <key> --data <text> (--seed-hex ... | --signer ... | --key-file ...)")
	fmt.Fprintln(w, "  skydb entry-link --pubkey <ed25519:hex> --data-key <key>")
	fmt.Fprintln(w, "  skydb hns <domain>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars) ed25519 seed")
	fmt.Fprintln(w, "  - stored keys live under ~/.skydb/keys/<name> (0600 seed files)")
	fmt.Fprintln(w, "  - --portal overrides the portal URL; SKYDB_PORTAL and SKYDB_API_KEY are honored")
}

// portalFlags registers the flags shared by every portal-touching command.
func portalFlags(fs *flag.FlagSet) (portalURL, apiKey *string) {
	portalURL = fs.String("portal", os.Getenv("SKYDB_PORTAL"), "Portal base URL (default "+portal.DefaultPortalURL+")")
	apiKey = fs.String("api-key", os.Getenv("SKYDB_API_KEY"), "Portal API key, if the portal requires one")
	return portalURL, apiKey
}

func newPortalClient(portalURL, apiKey string) (*portal.Client, error) {
	opts := portal.DefaultOptions()
	if portalURL != "" {
		opts.PortalURL = portalURL
	}
	opts.APIKey = apiKey
	return portal.New(opts)
}

// signerFlags registers the flags selecting a signing key.
func signerFlags(fs *flag.FlagSet) (seedHex, signer, child, keyFile *string) {
	seedHex = fs.String("seed-hex", "", "ed25519 seed as 64 hex chars")
	signer = fs.String("signer", "", "Use a stored key by name (from 'skydb key init')")
	child = fs.String("child", "", "When using --signer, use a derived child key")
	keyFile = fs.String("key-file", "", "Path to a seed file created by 'skydb key init/derive'")
	return seedHex, signer, child, keyFile
}

func loadPrivateKey(seedHex, signer, child, keyFile string, errOut io.Writer) (keys.PrivateKey, bool) {
	if seedHex == "" && signer == "" && keyFile == "" {
		fmt.Fprintln(errOut, "missing signer: use --seed-hex, --signer, or --key-file")
		return nil, false
	}
	if seedHex != "" && (signer != "" || keyFile != "") {
		fmt.Fprintln(errOut, "conflicting signer flags: --seed-hex cannot be combined with --signer or --key-file")
		return nil, false
	}
	if signer != "" && keyFile != "" {
		fmt.Fprintln(errOut, "conflicting signer flags: --signer cannot be combined with --key-file")
		return nil, false
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return nil, false
	}
	seed, err := ks.LoadSeed(seedHex, signer, child, keyFile)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return nil, false
	}
	_, priv, err := keys.KeyPairFromSeed(seed)
	if err != nil {
		fmt.Fprintf(errOut, "invalid seed: %v\n", err)
		return nil, false
	}
	return priv, true
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "skydb key: minimal local key management")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  skydb key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  skydb key derive --from <name> --child <child> [--force]")
	fmt.Fprintln(w, "  skydb key list")
	fmt.Fprintln(w, "  skydb key export (--seed-hex <64hex> | --signer <name> [--child <child>] | --key-file <path>)")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var seedHex string
	var force bool
	fs.StringVar(&name, "name", "", "Key name (directory under ~/.skydb/keys)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional ed25519 seed as 64 hex chars (for reproducible setups)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		seed, err = keys.ParseSeedHex(seedHex)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", err)
			return 2
		}
	} else {
		seed = make([]byte, keys.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			fmt.Fprintf(errOut, "rand: %v\n", err)
			return 1
		}
	}

	publicKey, rootPath, err := ks.InitializeRootKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created root key: %s\n", publicKey)
	fmt.Fprintf(out, "Stored at: %s\n", rootPath)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var from string
	var child string
	var force bool
	fs.StringVar(&from, "from", "", "Root key name")
	fs.StringVar(&child, "child", "", "Child identifier (e.g. app name)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if child == "" {
		fmt.Fprintln(errOut, "missing --child")
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	publicKey, childPath, err := ks.DeriveChildKey(from, child, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive child key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created child key: %s\n", publicKey)
	fmt.Fprintf(out, "Stored at: %s\n", childPath)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s\n", e.Name)
		for _, c := range e.Children {
			fmt.Fprintf(out, "  - %s\n", c)
		}
	}
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	seedHex, signer, child, keyFile := signerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	priv, ok := loadPrivateKey(*seedHex, *signer, *child, *keyFile, errOut)
	if !ok {
		return 2
	}
	pub := priv.Public().(keys.PublicKey)
	_, _ = fmt.Fprintln(out, keys.PrefixedPublicKey(pub))
	return 0
}

func cmdUpload(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(errOut)
	portalURL, apiKey := portalFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: skydb upload <file>")
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	client, err := newPortalClient(*portalURL, *apiKey)
	if err != nil {
		fmt.Fprintf(errOut, "portal: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	link, err := client.UploadBytes(ctx, data, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "upload: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, skylink.URIPrefix+link.String())
	return 0
}

func cmdDownload(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	fs.SetOutput(errOut)
	portalURL, apiKey := portalFlags(fs)
	outPath := fs.String("o", "", "Write content to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: skydb download [-o <file>] <skylink>")
		return 2
	}
	link, err := skylink.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid skylink: %v\n", err)
		return 2
	}
	client, err := newPortalClient(*portalURL, *apiKey)
	if err != nil {
		fmt.Fprintf(errOut, "portal: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	res, err := client.DownloadSkylink(ctx, link)
	if err != nil {
		fmt.Fprintf(errOut, "download: %v\n", err)
		return 1
	}
	if link.IsResolver() {
		proof, err := registry.ParseProof(res.RawProof)
		if err != nil {
			fmt.Fprintf(errOut, "proof: %v\n", err)
			return 1
		}
		if err := registry.ValidateProof(link, res.Skylink, proof); err != nil {
			fmt.Fprintf(errOut, "proof: %v\n", err)
			return 1
		}
		fmt.Fprintf(errOut, "Resolved to: %s\n", res.Skylink)
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, res.Data, 0o644); err != nil {
			fmt.Fprintf(errOut, "write: %v\n", err)
			return 1
		}
		return 0
	}
	_, _ = out.Write(res.Data)
	return 0
}

func cmdGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	portalURL, apiKey := portalFlags(fs)
	pubHex := fs.String("pubkey", "", "Owner public key (ed25519:<hex>)")
	dataKey := fs.String("data-key", "", "Data key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *pubHex == "" || *dataKey == "" {
		fmt.Fprintln(errOut, "usage: skydb get --pubkey <ed25519:hex> --data-key <key>")
		return 2
	}
	pub, err := keys.PublicKeyFromHex(*pubHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --pubkey: %v\n", err)
		return 2
	}
	client, err := newPortalClient(*portalURL, *apiKey)
	if err != nil {
		fmt.Fprintf(errOut, "portal: %v\n", err)
		return 2
	}
	engine := skydb.New(client)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	res, err := engine.GetJSON(ctx, pub, *dataKey, skydb.DefaultGetJSONOptions())
	if err != nil {
		fmt.Fprintf(errOut, "get: %v\n", err)
		return 1
	}
	if res.DataLink == nil {
		fmt.Fprintln(errOut, "not found")
		return 1
	}
	fmt.Fprintf(errOut, "Data-Link: %s\n", res.DataLink)
	_, _ = fmt.Fprintln(out, string(res.Data))
	return 0
}

func cmdSet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(errOut)
	portalURL, apiKey := portalFlags(fs)
	seedHex, signer, child, keyFile := signerFlags(fs)
	dataKey := fs.String("data-key", "", "Data key")
	jsonLiteral := fs.String("json", "", "JSON object literal to store")
	jsonFile := fs.String("json-file", "", "File holding the JSON object to store")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *dataKey == "" {
		fmt.Fprintln(errOut, "missing --data-key")
		return 2
	}
	if (*jsonLiteral == "") == (*jsonFile == "") {
		fmt.Fprintln(errOut, "provide exactly one of --json or --json-file")
		return 2
	}
	raw := []byte(*jsonLiteral)
	if *jsonFile != "" {
		var err error
		raw, err = os.ReadFile(*jsonFile)
		if err != nil {
			fmt.Fprintf(errOut, "read --json-file: %v\n", err)
			return 1
		}
	}
	var value map[string]interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		fmt.Fprintf(errOut, "invalid JSON object: %v\n", err)
		return 2
	}

	priv, ok := loadPrivateKey(*seedHex, *signer, *child, *keyFile, errOut)
	if !ok {
		return 2
	}
	client, err := newPortalClient(*portalURL, *apiKey)
	if err != nil {
		fmt.Fprintf(errOut, "portal: %v\n", err)
		return 2
	}
	engine := skydb.New(client)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	res, err := engine.SetJSON(ctx, priv, *dataKey, value, skydb.DefaultSetJSONOptions())
	if err != nil {
		fmt.Fprintf(errOut, "set: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, res.DataLink)
	return 0
}

func cmdDelete(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(errOut)
	portalURL, apiKey := portalFlags(fs)
	seedHex, signer, child, keyFile := signerFlags(fs)
	dataKey := fs.String("data-key", "", "Data key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *dataKey == "" {
		fmt.Fprintln(errOut, "missing --data-key")
		return 2
	}
	priv, ok := loadPrivateKey(*seedHex, *signer, *child, *keyFile, errOut)
	if !ok {
		return 2
	}
	client, err := newPortalClient(*portalURL, *apiKey)
	if err != nil {
		fmt.Fprintf(errOut, "portal: %v\n", err)
		return 2
	}
	engine := skydb.New(client)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := engine.DeleteJSON(ctx, priv, *dataKey, skydb.DefaultSetJSONOptions()); err != nil {
		fmt.Fprintf(errOut, "delete: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdEntry(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: skydb entry <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: get, set")
		return 2
	}
	switch args[0] {
	case "get":
		return cmdEntryGet(args[1:], out, errOut)
	case "set":
		return cmdEntrySet(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown entry subcommand: %s\n", args[0])
		return 2
	}
}

func cmdEntryGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("entry get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	portalURL, apiKey := portalFlags(fs)
	pubHex := fs.String("pubkey", "", "Owner public key (ed25519:<hex>)")
	dataKey := fs.String("data-key", "", "Data key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *pubHex == "" || *dataKey == "" {
		fmt.Fprintln(errOut, "usage: skydb entry get --pubkey <ed25519:hex> --data-key <key>")
		return 2
	}
	pub, err := keys.PublicKeyFromHex(*pubHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --pubkey: %v\n", err)
		return 2
	}
	client, err := newPortalClient(*portalURL, *apiKey)
	if err != nil {
		fmt.Fprintf(errOut, "portal: %v\n", err)
		return 2
	}
	reg := registry.NewClient(client)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	signed, err := reg.GetEntry(ctx, pub, *dataKey, registry.GetEntryOptions{})
	if err != nil {
		fmt.Fprintf(errOut, "entry get: %v\n", err)
		return 1
	}
	if signed.Entry == nil {
		fmt.Fprintln(errOut, "not found")
		return 1
	}
	fmt.Fprintf(out, "Revision: %d\n", signed.Entry.Revision)
	fmt.Fprintf(out, "Data: %x\n", signed.Entry.Data)
	fmt.Fprintf(out, "Signature: %x\n", signed.Signature)
	return 0
}

func cmdEntrySet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("entry set", flag.ContinueOnError)
	fs.SetOutput(errOut)
	portalURL, apiKey := portalFlags(fs)
	seedHex, signer, child, keyFile := signerFlags(fs)
	dataKey := fs.String("data-key", "", "Data key")
	data := fs.String("data", "", "Entry payload, stored as UTF-8 bytes")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *dataKey == "" {
		fmt.Fprintln(errOut, "missing --data-key")
		return 2
	}
	priv, ok := loadPrivateKey(*seedHex, *signer, *child, *keyFile, errOut)
	if !ok {
		return 2
	}
	client, err := newPortalClient(*portalURL, *apiKey)
	if err != nil {
		fmt.Fprintf(errOut, "portal: %v\n", err)
		return 2
	}
	engine := skydb.New(client)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	res, err := engine.SetEntryData(ctx, priv, *dataKey, []byte(*data), skydb.DefaultSetEntryDataOptions())
	if err != nil {
		fmt.Fprintf(errOut, "entry set: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Stored %d bytes\n", len(res.Data))
	return 0
}

func cmdEntryLink(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("entry-link", flag.ContinueOnError)
	fs.SetOutput(errOut)
	pubHex := fs.String("pubkey", "", "Owner public key (ed25519:<hex>)")
	dataKey := fs.String("data-key", "", "Data key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *pubHex == "" || *dataKey == "" {
		fmt.Fprintln(errOut, "usage: skydb entry-link --pubkey <ed25519:hex> --data-key <key>")
		return 2
	}
	pub, err := keys.PublicKeyFromHex(*pubHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --pubkey: %v\n", err)
		return 2
	}
	link, err := registry.EntryLink(pub, *dataKey, false)
	if err != nil {
		fmt.Fprintf(errOut, "entry-link: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, skylink.URIPrefix+link.String())
	return 0
}

func cmdHNS(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("hns", flag.ContinueOnError)
	fs.SetOutput(errOut)
	portalURL, apiKey := portalFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: skydb hns <domain>")
		return 2
	}
	client, err := newPortalClient(*portalURL, *apiKey)
	if err != nil {
		fmt.Fprintf(errOut, "portal: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	res, err := client.ResolveHNS(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "hns: %v\n", err)
		return 1
	}
	if res.Skylink != "" {
		_, _ = fmt.Fprintln(out, res.Skylink)
		return 0
	}
	fmt.Fprintf(out, "Public-Key: %s\n", res.Registry.PublicKey)
	fmt.Fprintf(out, "Data-Key: %s\n", res.Registry.DataKey)
	return 0
}
