package portal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/skynetkit/skydb/skylink"
)

// DownloadSkylink fetches the content behind a skylink. For resolver links
// the result carries the portal's proof header and the resolved data link
// echo; callers are expected to validate the proof before trusting either.
func (c *Client) DownloadSkylink(ctx context.Context, link skylink.Skylink) (*DownloadResult, error) {
	resp, err := c.ExecuteRequest(ctx, RequestOptions{
		Method: http.MethodGet,
		Path:   "/" + link.String(),
	})
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, link)
	default:
		return nil, fmt.Errorf("%w: download %s: status %d: %s",
			ErrUnexpectedStatus, link, resp.StatusCode, truncateBody(resp.Body))
	}

	res := &DownloadResult{
		Data:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		RawProof:    resp.Header.Get(ProofHeader),
	}
	if echo := resp.Header.Get(SkylinkHeader); echo != "" {
		parsed, err := skylink.Parse(echo)
		if err != nil {
			return nil, fmt.Errorf("download %s: portal returned bad skylink echo %q: %w", link, echo, err)
		}
		res.Skylink = parsed
	}
	return res, nil
}
