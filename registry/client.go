package registry

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/portal"
)

// registryPath is the portal endpoint for registry reads and writes.
const registryPath = "/skynet/registry"

// Requester is the transport capability the registry client consumes.
// *portal.Client satisfies it.
type Requester interface {
	ExecuteRequest(ctx context.Context, opts portal.RequestOptions) (*portal.Response, error)
}

// Client reads and writes single registry entries against a portal,
// verifying signatures on read. It keeps no state between calls.
type Client struct {
	portal Requester
}

// NewClient returns a registry client over the given transport.
func NewClient(p Requester) *Client {
	return &Client{portal: p}
}

// GetEntryOptions configures a registry read.
type GetEntryOptions struct {
	// HashedDataKeyHex treats the data key as the hex form of an
	// already-hashed key.
	HashedDataKeyHex bool
}

// SetEntryOptions configures a registry write.
type SetEntryOptions struct {
	HashedDataKeyHex bool
}

// GetEntry fetches the registry entry for (publicKey, dataKey). An absent
// entry is not an error: the result carries a nil Entry. A present entry
// whose signature does not verify is a hard KindSignature error; an
// unverified entry would let a misbehaving portal serve falsified pointers.
func (c *Client) GetEntry(ctx context.Context, pub keys.PublicKey, dataKey string, opts GetEntryOptions) (*SignedEntry, error) {
	hashedDataKey, err := ResolveDataKeyHash(dataKey, opts.HashedDataKeyHex)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("publickey", keys.PrefixedPublicKey(pub))
	query.Set("datakey", hex.EncodeToString(hashedDataKey[:]))

	resp, err := c.portal.ExecuteRequest(ctx, portal.RequestOptions{
		Method: http.MethodGet,
		Path:   registryPath,
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return &SignedEntry{}, nil
	default:
		return nil, NewError(KindPortal, "SKY-PORTAL-302", fmt.Sprintf(
			"registry read failed with status %d: %s", resp.StatusCode, compactBody(resp.Body)))
	}

	var body GetEntryResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, WrapError(KindDecode, "SKY-DEC-502", "malformed registry read reply", err)
	}
	data, err := hex.DecodeString(body.Data)
	if err != nil {
		return nil, WrapError(KindDecode, "SKY-DEC-503", "registry reply data is not valid hex", err)
	}
	sig, err := hex.DecodeString(body.Signature)
	if err != nil {
		return nil, WrapError(KindDecode, "SKY-DEC-504", "registry reply signature is not valid hex", err)
	}

	entry := &Entry{DataKey: dataKey, Data: data, Revision: body.Revision}
	if !entry.VerifySignature(pub, hashedDataKey, sig) {
		return nil, NewError(KindSignature, "SKY-SIG-401", fmt.Sprintf(
			"registry entry signature for data key %q did not verify under %s",
			dataKey, keys.PrefixedPublicKey(pub)))
	}
	return &SignedEntry{Entry: entry, Signature: sig}, nil
}

// SetEntry signs entry with priv and submits it. The portal rejecting the
// write (for example on a stale revision) is a KindPortal error, surfaced
// as-is and never retried here.
func (c *Client) SetEntry(ctx context.Context, priv keys.PrivateKey, entry *Entry, opts SetEntryOptions) error {
	if entry == nil {
		return NewError(KindValidation, "SKY-VAL-013", "cannot write a nil registry entry")
	}
	hashedDataKey, err := ResolveDataKeyHash(entry.DataKey, opts.HashedDataKeyHex)
	if err != nil {
		return err
	}

	pub, ok := priv.Public().(keys.PublicKey)
	if !ok || len(pub) != keys.PublicKeySize {
		return NewError(KindValidation, "SKY-VAL-014", "invalid private key")
	}
	sig := entry.Sign(priv, hashedDataKey)

	body, err := json.Marshal(SetEntryRequest{
		PublicKey: SetEntryPublicKey{
			Algorithm: keys.AlgorithmEd25519,
			Key:       ByteList(pub),
		},
		DataKey:   hex.EncodeToString(hashedDataKey[:]),
		Revision:  entry.Revision,
		Data:      ByteList(entry.Data),
		Signature: ByteList(sig),
	})
	if err != nil {
		return WrapError(KindInternal, "SKY-INT-901", "encoding registry write request", err)
	}

	resp, err := c.portal.ExecuteRequest(ctx, portal.RequestOptions{
		Method:      http.MethodPost,
		Path:        registryPath,
		Body:        body,
		ContentType: "application/json",
	})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return NewError(KindPortal, "SKY-PORTAL-301", fmt.Sprintf(
			"registry write rejected with status %d: %s", resp.StatusCode, compactBody(resp.Body)))
	}
	return nil
}

func compactBody(b []byte) string {
	const max = 256
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
