package testkit

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/skynetkit/skydb/portal"
	"github.com/skynetkit/skydb/skylink"
)

// NewTransport constructs a fresh, isolated Transport for a test.
type NewTransport func(t *testing.T) portal.Transport

// NewClient starts an in-memory portal for the test and returns a live
// portal.Client pointed at it. The server is torn down with the test.
func NewClient(t *testing.T, p *Portal) *portal.Client {
	t.Helper()
	srv := httptest.NewServer(p.Handler())
	t.Cleanup(srv.Close)

	opts := portal.DefaultOptions()
	opts.PortalURL = srv.URL
	opts.RetryMax = 0
	client, err := portal.New(opts)
	if err != nil {
		t.Fatalf("portal.New: %v", err)
	}
	return client
}

// RunTransportConformance checks the Transport contract against any
// implementation.
func RunTransportConformance(t *testing.T, newTransport NewTransport) {
	t.Helper()

	t.Run("UploadDownloadRoundTrip", func(t *testing.T) {
		tr := newTransport(t)
		want := []byte("hello, skydb transport")

		link, err := tr.UploadBytes(context.Background(), want, "greeting.txt")
		if err != nil {
			t.Fatalf("UploadBytes failed: %v", err)
		}
		if link.IsResolver() {
			t.Fatalf("upload returned a resolver link: %s", link)
		}

		res, err := tr.DownloadSkylink(context.Background(), link)
		if err != nil {
			t.Fatalf("DownloadSkylink failed: %v", err)
		}
		if !bytes.Equal(res.Data, want) {
			t.Fatalf("download bytes mismatch")
		}
		if res.RawProof != "" {
			t.Fatalf("direct download carried a proof header")
		}
	})

	t.Run("UploadIdempotent", func(t *testing.T) {
		tr := newTransport(t)
		b := []byte("same bytes")

		link1, err := tr.UploadBytes(context.Background(), b, "a.bin")
		if err != nil {
			t.Fatalf("UploadBytes(1) failed: %v", err)
		}
		link2, err := tr.UploadBytes(context.Background(), b, "b.bin")
		if err != nil {
			t.Fatalf("UploadBytes(2) failed: %v", err)
		}
		if link1 != link2 {
			t.Fatalf("upload not idempotent: %s vs %s", link1, link2)
		}
	})

	t.Run("DownloadMissingNotFound", func(t *testing.T) {
		tr := newTransport(t)
		var root [skylink.MerkleRootSize]byte
		for i := range root {
			root[i] = byte(0xD0 + i)
		}
		_, err := tr.DownloadSkylink(context.Background(), skylink.NewV1(root))
		if !portal.IsNotFound(err) {
			t.Fatalf("missing download: got err=%v want ErrNotFound", err)
		}
	})
}
