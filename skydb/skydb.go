package skydb

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/portal"
	"github.com/skynetkit/skydb/registry"
	"github.com/skynetkit/skydb/skylink"
)

// MaxEntryDataSize is the largest payload SetEntryData accepts. Larger
// payloads belong in uploaded content with a skylink in the entry.
const MaxEntryDataSize = 70

// Client is the SkyDB engine. It combines the transport and the registry
// client; it holds no per-key state and no keys.
type Client struct {
	transport portal.Transport
	registry  *registry.Client
	log       zerolog.Logger
}

// Options configures a Client.
type Options struct {
	// Logger receives operation-level debug logging.
	Logger zerolog.Logger
}

// DefaultOptions returns the library defaults (disabled logger).
func DefaultOptions() Options {
	return Options{Logger: zerolog.Nop()}
}

// New returns an engine over the given transport with default options.
func New(t portal.Transport) *Client {
	return NewWithOptions(t, DefaultOptions())
}

// NewWithOptions returns an engine over the given transport.
func NewWithOptions(t portal.Transport, opts Options) *Client {
	return &Client{
		transport: t,
		registry:  registry.NewClient(t),
		log:       opts.Logger,
	}
}

// Registry exposes the underlying registry client for callers that need
// raw entry access.
func (c *Client) Registry() *registry.Client {
	return c.registry
}

// publicKeyOf recovers the public key from a private key.
func publicKeyOf(priv keys.PrivateKey) (keys.PublicKey, error) {
	pub, ok := priv.Public().(keys.PublicKey)
	if !ok || len(pub) != keys.PublicKeySize {
		return nil, registry.NewError(registry.KindValidation, "SKY-VAL-014", "invalid private key")
	}
	return pub, nil
}

// fetchPrior reads the current signed entry and the next safe revision for
// (publicKey, dataKey).
func (c *Client) fetchPrior(ctx context.Context, pub keys.PublicKey, dataKey string, hashedHex bool) (*registry.SignedEntry, uint64, error) {
	signed, err := c.registry.GetEntry(ctx, pub, dataKey, registry.GetEntryOptions{HashedDataKeyHex: hashedHex})
	if err != nil {
		return nil, 0, err
	}
	rev, err := registry.NextRevision(signed.Entry)
	if err != nil {
		return nil, 0, err
	}
	return signed, rev, nil
}

// download fetches the content behind dataLink and validates the portal's
// resolution against the proof header before trusting it.
func (c *Client) download(ctx context.Context, dataLink skylink.Skylink) ([]byte, skylink.Skylink, error) {
	res, err := c.transport.DownloadSkylink(ctx, dataLink)
	if err != nil {
		return nil, skylink.Skylink{}, err
	}
	final := dataLink
	if !res.Skylink.IsEmpty() {
		final = res.Skylink
	}
	proof, err := registry.ParseProof(res.RawProof)
	if err != nil {
		return nil, skylink.Skylink{}, err
	}
	if err := registry.ValidateProof(dataLink, final, proof); err != nil {
		return nil, skylink.Skylink{}, err
	}
	return res.Data, final, nil
}
