package portal

import (
	"context"

	"github.com/skynetkit/skydb/skylink"
)

// Transport is the portal capability consumed by the registry client and
// the skydb engine.
//
// Contract:
//   - ExecuteRequest MUST surface non-2xx statuses as responses, not errors;
//     it fails only on network-level errors.
//   - UploadBytes MUST return the content-derived skylink of the stored
//     bytes; uploads of identical bytes are idempotent.
//   - DownloadSkylink MUST return ErrNotFound for absent content, and for
//     resolver links MUST include the proof header payload in RawProof.
type Transport interface {
	ExecuteRequest(ctx context.Context, opts RequestOptions) (*Response, error)
	UploadBytes(ctx context.Context, data []byte, filename string) (skylink.Skylink, error)
	DownloadSkylink(ctx context.Context, link skylink.Skylink) (*DownloadResult, error)
}

var _ Transport = (*Client)(nil)

// DownloadResult is the outcome of a content download.
type DownloadResult struct {
	// Data is the downloaded content.
	Data []byte
	// ContentType echoes the portal's Content-Type header.
	ContentType string
	// Skylink is the portal's Skynet-Skylink echo: for resolver links this
	// is the resolved data link. Zero when the header is absent.
	Skylink skylink.Skylink
	// RawProof is the unparsed Skynet-Proof header, empty for direct links.
	RawProof string
}
