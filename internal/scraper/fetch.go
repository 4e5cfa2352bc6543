package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxPageBytes caps how much of a remote search page is read.
const maxPageBytes = 8 << 20

// Fetcher retrieves directory search-result pages for extraction.
type Fetcher struct {
	baseURL string
	client  *http.Client
}

func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// SearchPage fetches the search results for a category and postal code,
// e.g. <base>?terms=food&postal=94103.
func (f *Fetcher) SearchPage(ctx context.Context, category, zipcode string) (string, error) {
	params := url.Values{}
	params.Set("terms", category)
	params.Set("postal", zipcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read search page: %w", err)
	}
	return string(body), nil
}
