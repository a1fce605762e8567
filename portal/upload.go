package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/skynetkit/skydb/skylink"
)

// uploadPath is the portal endpoint accepting skyfile uploads.
const uploadPath = "/skynet/skyfile"

type uploadResponse struct {
	Skylink string `json:"skylink"`
}

// UploadBytes uploads data as a single skyfile and returns its skylink.
func (c *Client) UploadBytes(ctx context.Context, data []byte, filename string) (skylink.Skylink, error) {
	if filename == "" {
		filename = "file"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return skylink.Skylink{}, err
	}
	if _, err := fw.Write(data); err != nil {
		return skylink.Skylink{}, err
	}
	if err := mw.Close(); err != nil {
		return skylink.Skylink{}, err
	}

	resp, err := c.ExecuteRequest(ctx, RequestOptions{
		Method:      http.MethodPost,
		Path:        uploadPath,
		Body:        buf.Bytes(),
		ContentType: mw.FormDataContentType(),
	})
	if err != nil {
		return skylink.Skylink{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return skylink.Skylink{}, fmt.Errorf("%w: upload: status %d: %s",
			ErrUnexpectedStatus, resp.StatusCode, truncateBody(resp.Body))
	}

	var body uploadResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return skylink.Skylink{}, fmt.Errorf("upload: malformed portal reply: %w", err)
	}
	link, err := skylink.Parse(body.Skylink)
	if err != nil {
		return skylink.Skylink{}, fmt.Errorf("upload: portal returned bad skylink %q: %w", body.Skylink, err)
	}
	return link, nil
}
