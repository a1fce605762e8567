// Package portal implements the HTTP transport against a storage portal:
// request execution, content upload/download, and HNS resolution.
//
// Retry policy lives here and only here. The registry and skydb layers
// never retry; a failed request fails the enclosing operation.
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/skynetkit/skydb/skylink"
)

const (
	// DefaultPortalURL is the portal used when none is configured.
	DefaultPortalURL = "https://siasky.net"

	// SkylinkHeader carries the portal's echo of the served skylink.
	SkylinkHeader = "Skynet-Skylink"
	// ProofHeader carries the registry proof chain for resolver downloads.
	ProofHeader = "Skynet-Proof"
	// APIKeyHeader authenticates requests against portals that require it.
	APIKeyHeader = "Skynet-Api-Key"
)

// maxResponseSize caps how much of a reply body is buffered (64 MiB).
const maxResponseSize = 64 << 20

// Options configures a Client. Use DefaultOptions as the base and override
// fields; the zero value has no logger and no portal URL.
type Options struct {
	// PortalURL is the base URL of the portal, e.g. "https://siasky.net".
	PortalURL string

	// APIKey, when set, is sent in the Skynet-Api-Key header.
	APIKey string

	// CustomUserAgent, when set, overrides the User-Agent header.
	CustomUserAgent string

	// RetryMax bounds transport-level retries per request.
	RetryMax int

	// HTTPClient overrides the underlying HTTP client when non-nil.
	HTTPClient *http.Client

	// Logger receives per-request debug logging.
	Logger zerolog.Logger
}

// DefaultOptions returns the library defaults: the public portal, two
// transport retries, and a disabled logger.
func DefaultOptions() Options {
	return Options{
		PortalURL: DefaultPortalURL,
		RetryMax:  2,
		Logger:    zerolog.Nop(),
	}
}

// Client is the live HTTP implementation of Transport.
type Client struct {
	portalURL string
	hc        *retryablehttp.Client
	opts      Options
	log       zerolog.Logger
}

// New constructs a Client. An empty PortalURL falls back to the default.
func New(opts Options) (*Client, error) {
	portalURL := opts.PortalURL
	if portalURL == "" {
		portalURL = DefaultPortalURL
	}
	u, err := url.Parse(portalURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPortalURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadPortalURL, portalURL)
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = opts.RetryMax
	hc.Logger = nil
	if opts.HTTPClient != nil {
		hc.HTTPClient = opts.HTTPClient
	}

	return &Client{
		portalURL: strings.TrimRight(portalURL, "/"),
		hc:        hc,
		opts:      opts,
		log:       opts.Logger,
	}, nil
}

// PortalURL returns the resolved base URL of the portal.
func (c *Client) PortalURL() string {
	return c.portalURL
}

// SkylinkURL returns the portal URL serving the given skylink.
func (c *Client) SkylinkURL(link skylink.Skylink) string {
	return c.portalURL + "/" + link.String()
}

// RequestOptions describes one portal request.
type RequestOptions struct {
	Method      string
	Path        string // absolute path on the portal, e.g. "/skynet/registry"
	Query       url.Values
	Body        []byte
	ContentType string
	Headers     http.Header
}

// Response is a buffered portal reply. Non-2xx statuses are returned as
// responses, not errors; each endpoint wrapper decides what counts as
// success.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// ExecuteRequest performs one request against the portal. It fails only on
// network-level errors (after transport retries are exhausted).
func (c *Client) ExecuteRequest(ctx context.Context, ro RequestOptions) (*Response, error) {
	reqURL := c.portalURL + ro.Path
	if len(ro.Query) > 0 {
		reqURL += "?" + ro.Query.Encode()
	}

	var body interface{}
	if len(ro.Body) > 0 {
		body = ro.Body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, ro.Method, reqURL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range ro.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if ro.ContentType != "" {
		req.Header.Set("Content-Type", ro.ContentType)
	}
	if c.opts.CustomUserAgent != "" {
		req.Header.Set("User-Agent", c.opts.CustomUserAgent)
	}
	if c.opts.APIKey != "" {
		req.Header.Set(APIKeyHeader, c.opts.APIKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, ro.Method, reqURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: read body: %v", ErrRequestFailed, ro.Method, reqURL, err)
	}

	c.log.Debug().
		Str("method", ro.Method).
		Str("url", reqURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("portal request")

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Header:     resp.Header,
	}, nil
}

func truncateBody(b []byte) string {
	const max = 256
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
