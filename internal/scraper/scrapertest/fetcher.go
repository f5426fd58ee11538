// Package scrapertest provides a canned Fetcher for scraper tests.
package scrapertest

import (
	"context"
	"fmt"
	"sync"
)

// Fetcher serves pages from a map keyed by URL. Unknown URLs fail.
type Fetcher struct {
	mu    sync.Mutex
	Pages map[string]string
	Calls []string
}

func NewFetcher(pages map[string]string) *Fetcher {
	return &Fetcher{Pages: pages}
}

func (f *Fetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, url)
	body, ok := f.Pages[url]
	if !ok {
		return "", fmt.Errorf("fetch %s: HTTP 404", url)
	}
	return body, nil
}
