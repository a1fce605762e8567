package skydb

import (
	"context"
	"fmt"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/registry"
	"github.com/skynetkit/skydb/skylink"
)

// EntryDataResponse is the outcome of an entry-data read or write. A nil
// Data means the entry is absent or deleted.
type EntryDataResponse struct {
	Data []byte
}

// RawBytesResponse is the outcome of GetRawBytes. Semantics of Data and
// DataLink match JSONResponse.
type RawBytesResponse struct {
	Data     []byte
	DataLink *skylink.Skylink
}

// GetEntryData reads the raw payload stored directly in the registry entry
// for (publicKey, dataKey).
func (c *Client) GetEntryData(ctx context.Context, pub keys.PublicKey, dataKey string, opts GetEntryDataOptions) (*EntryDataResponse, error) {
	signed, err := c.registry.GetEntry(ctx, pub, dataKey, registry.GetEntryOptions{HashedDataKeyHex: opts.HashedDataKeyHex})
	if err != nil {
		return nil, err
	}
	if signed.Entry == nil || registry.IsDeletionData(signed.Entry.Data) {
		return &EntryDataResponse{}, nil
	}
	return &EntryDataResponse{Data: signed.Entry.Data}, nil
}

// SetEntryData stores data directly in the registry entry for
// (publicKey, dataKey). Payload validation happens before any network
// call.
func (c *Client) SetEntryData(ctx context.Context, priv keys.PrivateKey, dataKey string, data []byte, opts SetEntryDataOptions) (*EntryDataResponse, error) {
	if len(data) > MaxEntryDataSize {
		return nil, registry.NewError(registry.KindValidation, "SKY-VAL-031", fmt.Sprintf(
			"entry data exceeds the maximum of %d bytes: got %d", MaxEntryDataSize, len(data)))
	}
	if registry.IsDeletionData(data) && !opts.AllowDeletionEntryData {
		return nil, registry.NewError(registry.KindValidation, "SKY-VAL-032",
			"entry data equals the deletion sentinel; set AllowDeletionEntryData to write it")
	}

	pub, err := publicKeyOf(priv)
	if err != nil {
		return nil, err
	}
	_, revision, err := c.fetchPrior(ctx, pub, dataKey, opts.HashedDataKeyHex)
	if err != nil {
		return nil, err
	}

	entry := &registry.Entry{DataKey: dataKey, Data: data, Revision: revision}
	if err := c.registry.SetEntry(ctx, priv, entry, registry.SetEntryOptions{HashedDataKeyHex: opts.HashedDataKeyHex}); err != nil {
		return nil, err
	}

	c.log.Debug().Str("dataKey", dataKey).Uint64("revision", revision).
		Int("bytes", len(data)).Msg("setEntryData committed")
	return &EntryDataResponse{Data: data}, nil
}

// DeleteEntryData marks the entry for (publicKey, dataKey) deleted by
// writing the deletion sentinel.
func (c *Client) DeleteEntryData(ctx context.Context, priv keys.PrivateKey, dataKey string, opts SetEntryDataOptions) error {
	opts.AllowDeletionEntryData = true
	_, err := c.SetEntryData(ctx, priv, dataKey, registry.DeletionEntryData, opts)
	return err
}

// GetRawBytes fetches the content behind (publicKey, dataKey) without
// interpreting it.
func (c *Client) GetRawBytes(ctx context.Context, pub keys.PublicKey, dataKey string, opts GetRawBytesOptions) (*RawBytesResponse, error) {
	data, dataLink, err := c.getBytes(ctx, pub, dataKey, opts.HashedDataKeyHex, opts.CachedDataLink)
	if err != nil {
		return nil, err
	}
	if dataLink == nil {
		return &RawBytesResponse{}, nil
	}
	return &RawBytesResponse{Data: data, DataLink: dataLink}, nil
}
