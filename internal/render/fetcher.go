package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// maxFetchBytes bounds how much image data a single reference may carry.
const maxFetchBytes = 32 << 20

// HTTPFetcher resolves image references. Uploaded artwork arrives as data
// URLs and is decoded inline; template references are fetched over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds a fetcher with a sane default timeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

// Fetch resolves a data URL or an http(s) URL into a decoded image.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (image.Image, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("render: build fetch request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render: fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render: fetch %s: status %d", ref, resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxFetchBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", ref, err)
	}
	return img, nil
}

func decodeDataURL(ref string) (image.Image, error) {
	idx := strings.Index(ref, ",")
	if idx < 0 || !strings.Contains(ref[:idx], ";base64") {
		return nil, fmt.Errorf("render: malformed data URL")
	}
	payload, err := base64.StdEncoding.DecodeString(ref[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("render: decode data URL: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(payload), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("render: decode data URL image: %w", err)
	}
	return img, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
