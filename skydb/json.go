package skydb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/registry"
	"github.com/skynetkit/skydb/skylink"
)

// envelopeVersion tags payloads written by this library, distinguishing
// them from legacy un-enveloped JSON.
const envelopeVersion = 2

type envelope struct {
	Data json.RawMessage `json:"_data"`
	V    int             `json:"_v"`
}

// JSONResponse is the outcome of a JSON read or write. A nil Data with a
// nil DataLink means "not found". A nil Data with a non-nil DataLink means
// the caller's cached link is still current.
type JSONResponse struct {
	Data     json.RawMessage
	DataLink *skylink.Skylink
}

// isJSONObject reports whether b is a JSON object at the top level.
func isJSONObject(b []byte) bool {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// GetJSON fetches the JSON object stored under (publicKey, dataKey).
// Envelopes are unwrapped transparently; legacy raw JSON objects are
// returned as-is.
func (c *Client) GetJSON(ctx context.Context, pub keys.PublicKey, dataKey string, opts GetJSONOptions) (*JSONResponse, error) {
	data, dataLink, err := c.getBytes(ctx, pub, dataKey, opts.HashedDataKeyHex, opts.CachedDataLink)
	if err != nil {
		return nil, err
	}
	if dataLink == nil {
		return &JSONResponse{}, nil
	}
	if data == nil {
		// Cached link still current; nothing downloaded.
		return &JSONResponse{DataLink: dataLink}, nil
	}

	if !isJSONObject(data) {
		return nil, registry.NewError(registry.KindDecode, "SKY-DEC-510", fmt.Sprintf(
			"content at %s is not a JSON object", dataLink))
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, registry.WrapError(registry.KindDecode, "SKY-DEC-510", fmt.Sprintf(
			"content at %s is not valid JSON", dataLink), err)
	}
	if env.V == envelopeVersion && env.Data != nil {
		return &JSONResponse{Data: env.Data, DataLink: dataLink}, nil
	}
	return &JSONResponse{Data: json.RawMessage(data), DataLink: dataLink}, nil
}

// SetJSON stores data as the new value of (publicKey, dataKey).
//
// The content upload and the registry read run concurrently; both must
// succeed before the registry write. Between that read and the write a
// concurrent writer can commit the same revision; a strict portal rejects
// the stale write with a KindPortal error and this engine does not retry.
func (c *Client) SetJSON(ctx context.Context, priv keys.PrivateKey, dataKey string, data interface{}, opts SetJSONOptions) (*JSONResponse, error) {
	pub, err := publicKeyOf(priv)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, registry.WrapError(registry.KindValidation, "SKY-VAL-021",
			"data does not marshal to JSON", err)
	}
	if !isJSONObject(raw) {
		return nil, registry.NewError(registry.KindValidation, "SKY-VAL-021",
			"data must marshal to a JSON object")
	}
	payload, err := json.Marshal(envelope{Data: raw, V: envelopeVersion})
	if err != nil {
		return nil, registry.WrapError(registry.KindInternal, "SKY-INT-903",
			"encoding payload envelope", err)
	}

	var (
		link  skylink.Skylink
		prior *registry.SignedEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		link, err = c.transport.UploadBytes(gctx, payload, "dk:"+dataKey)
		return err
	})
	g.Go(func() error {
		var err error
		prior, err = c.registry.GetEntry(gctx, pub, dataKey, registry.GetEntryOptions{HashedDataKeyHex: opts.HashedDataKeyHex})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	revision, err := registry.NextRevision(prior.Entry)
	if err != nil {
		return nil, err
	}
	entry := &registry.Entry{DataKey: dataKey, Data: link.Bytes(), Revision: revision}
	if err := c.registry.SetEntry(ctx, priv, entry, registry.SetEntryOptions{HashedDataKeyHex: opts.HashedDataKeyHex}); err != nil {
		return nil, err
	}

	c.log.Debug().Str("dataKey", dataKey).Uint64("revision", revision).
		Str("dataLink", link.String()).Msg("setJSON committed")
	return &JSONResponse{Data: raw, DataLink: &link}, nil
}

// DeleteJSON marks (publicKey, dataKey) deleted by writing the deletion
// sentinel. Reads afterwards report "not found"; the revision counter keeps
// counting.
func (c *Client) DeleteJSON(ctx context.Context, priv keys.PrivateKey, dataKey string, opts SetJSONOptions) error {
	pub, err := publicKeyOf(priv)
	if err != nil {
		return err
	}
	_, revision, err := c.fetchPrior(ctx, pub, dataKey, opts.HashedDataKeyHex)
	if err != nil {
		return err
	}
	entry := &registry.Entry{DataKey: dataKey, Data: registry.DeletionEntryData, Revision: revision}
	return c.registry.SetEntry(ctx, priv, entry, registry.SetEntryOptions{HashedDataKeyHex: opts.HashedDataKeyHex})
}

// getBytes is the shared read path: fetch the entry, resolve its data
// link, honor the cached-link short circuit, download.
//
// Returns (nil, nil, nil) for "not found"; (nil, link, nil) for a cache
// hit; (data, link, nil) otherwise.
func (c *Client) getBytes(ctx context.Context, pub keys.PublicKey, dataKey string, hashedHex bool, cached string) ([]byte, *skylink.Skylink, error) {
	cachedLink, haveCached, err := parseCachedDataLink(cached)
	if err != nil {
		return nil, nil, err
	}

	signed, err := c.registry.GetEntry(ctx, pub, dataKey, registry.GetEntryOptions{HashedDataKeyHex: hashedHex})
	if err != nil {
		return nil, nil, err
	}
	if signed.Entry == nil || registry.IsDeletionData(signed.Entry.Data) {
		return nil, nil, nil
	}

	dataLink, err := decodeDataLink(signed.Entry.Data)
	if err != nil {
		return nil, nil, err
	}
	if haveCached && cachedLink == dataLink {
		return nil, &dataLink, nil
	}

	data, final, err := c.download(ctx, dataLink)
	if err != nil {
		return nil, nil, err
	}
	return data, &final, nil
}
