package nomads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/onnimonni/gribflow/internal/ports"
)

// FetchError reports a non-success HTTP status from the forecast API. It is
// fatal to the whole scan; the full URL is carried so the failing request
// can be reproduced by hand (the API needs no credentials).
type FetchError struct {
	Status int
	URL    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("gfs api returned status %d for url %s", e.Status, e.URL)
}

// HTTPFetcher performs one blocking GET per resource. There is no retry and
// no caching; a transient failure means the caller re-issues the query.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

var _ ports.Fetcher = (*HTTPFetcher)(nil)
