package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HNSResolution is the outcome of resolving a Handshake domain. Exactly one
// of Skylink or Registry is set.
type HNSResolution struct {
	Skylink  string              `json:"skylink,omitempty"`
	Registry *HNSRegistryPointer `json:"registry,omitempty"`
}

// HNSRegistryPointer references a registry entry by its owning key pair.
type HNSRegistryPointer struct {
	PublicKey string `json:"publickey"`
	DataKey   string `json:"datakey"`
}

// ResolveHNS resolves a Handshake domain to a skylink or a registry entry
// reference via the portal's hnsres endpoint.
func (c *Client) ResolveHNS(ctx context.Context, domain string) (*HNSResolution, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, fmt.Errorf("hns: empty domain")
	}

	resp, err := c.ExecuteRequest(ctx, RequestOptions{
		Method: http.MethodGet,
		Path:   "/hnsres/" + domain,
	})
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: hns domain %q", ErrNotFound, domain)
	default:
		return nil, fmt.Errorf("%w: hnsres %q: status %d: %s",
			ErrUnexpectedStatus, domain, resp.StatusCode, truncateBody(resp.Body))
	}

	var res HNSResolution
	if err := json.Unmarshal(resp.Body, &res); err != nil {
		return nil, fmt.Errorf("hnsres %q: malformed portal reply: %w", domain, err)
	}
	if res.Skylink == "" && res.Registry == nil {
		return nil, fmt.Errorf("hnsres %q: reply carries neither skylink nor registry pointer", domain)
	}
	return &res, nil
}
