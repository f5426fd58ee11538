// Package scraper defines the collaborator contract every source implements
// plus the fetch and HTML helpers they share.
package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go-jobhunter/internal/models"
)

// Scraper collects raw opportunities from one source.
type Scraper interface {
	// Scrape returns every posting found; a failed source returns an error
	// and the pipeline moves on.
	Scrape(ctx context.Context) ([]models.Opportunity, error)

	// Name is the source label (LinkedIn, ResearchGate, ...)
	Name() string
}

// Fetcher returns the HTML body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

const maxBodyBytes = 5 * 1024 * 1024

// HTTPFetcher fetches pages with browser-like headers.
type HTTPFetcher struct {
	client  *http.Client
	headers map[string]string
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"DNT":             "1",
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// Pacer waits between requests to a site.
type Pacer func(ctx context.Context)

// RandomPause sleeps a random duration in [min, max] or until ctx is done.
func RandomPause(min, max time.Duration) Pacer {
	return func(ctx context.Context) {
		d := min
		if max > min {
			d += time.Duration(rand.Int63n(int64(max - min)))
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
}

// NoPause is used in tests and one-shot commands.
func NoPause(context.Context) {}
