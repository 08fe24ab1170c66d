// Package artwork fetches track artwork over HTTP.
package artwork

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hibiki-audio/tonearm/internal/domain/track"
)

const maxArtworkBytes = 4 << 20

// HTTPFetcher resolves artwork URLs with a plain HTTP GET.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a bounded request timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch downloads the track's artwork image.
func (f *HTTPFetcher) Fetch(ctx context.Context, t track.Track) ([]byte, error) {
	if t.ArtworkURL == "" {
		return nil, errors.New("track has no artwork url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.ArtworkURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build artwork request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "artwork request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("artwork request returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read artwork body")
	}
	return data, nil
}
