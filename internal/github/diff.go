package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const diffTimeout = 30 * time.Second

// HTTPDiffFetcher downloads the unified diff behind a PR's diff_url
type HTTPDiffFetcher struct {
	httpClient *http.Client
}

// NewDiffFetcher returns a fetcher that sends token as a bearer credential when it is set
func NewDiffFetcher(token string) *HTTPDiffFetcher {
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = diffTimeout

	return &HTTPDiffFetcher{httpClient: httpClient}
}

// FetchDiff returns the raw diff text served at url
func (f *HTTPDiffFetcher) FetchDiff(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build diff request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch diff %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("failed to fetch diff %s: status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read diff %s: %w", url, err)
	}
	return string(body), nil
}
