package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const AcceptHeader = "application/rss+xml,application/xml,text/xml;q=0.9,*/*;q=0.8"

// Fetcher downloads raw feed documents over HTTP.
type Fetcher struct {
	httpClient     *http.Client
	userAgent      string
	acceptLanguage string
	timeout        time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent, acceptLanguage string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient:     httpClient,
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
		timeout:        timeout,
	}
}

// Fetch performs a single GET and returns the body. Any status other than
// 200 is an error; there are no retries.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", AcceptHeader)
	req.Header.Set("Accept-Language", f.acceptLanguage)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
