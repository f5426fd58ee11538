package browser

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/playwright-community/playwright-go"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PlaywrightManager owns one playwright driver and one headless Chromium.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywright(ctx context.Context) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	return &PlaywrightManager{pw: pw, browser: browser}, nil
}

// NewContext opens an isolated browser context preloaded with cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	bctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(defaultUserAgent),
		Locale:    playwright.String("en-US"),
		Viewport:  &playwright.Size{Width: 1366, Height: 768},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return bctx, nil
}

// NewPage opens a fresh page in a cookie-less context. Closing the page's
// context is the caller's job.
func (pm *PlaywrightManager) NewPage() (playwright.Page, error) {
	bctx, err := pm.NewContext(nil)
	if err != nil {
		return nil, err
	}
	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	return page, nil
}

func (pm *PlaywrightManager) Close() error {
	var firstErr error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			firstErr = err
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PageFetcher renders pages in Chromium so JavaScript-built career pages
// return their real markup. It satisfies scraper.Fetcher.
type PageFetcher struct {
	mu        sync.Mutex
	page      playwright.Page
	timeoutMs float64
	humanize  bool
}

func NewPageFetcher(bctx playwright.BrowserContext, humanize bool) (*PageFetcher, error) {
	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	return &PageFetcher{page: page, timeoutMs: 30000, humanize: humanize}, nil
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	resp, err := f.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(f.timeoutMs),
	})
	if err != nil {
		return "", fmt.Errorf("goto %s: %w", url, err)
	}
	if resp != nil && resp.Status() >= 400 {
		return "", fmt.Errorf("goto %s: HTTP %d", url, resp.Status())
	}

	if f.humanize {
		if err := MouseJiggle(f.page); err != nil {
			log.Printf("⚠️ Mouse move failed on %s: %v", url, err)
		}
		if err := HumanScroll(f.page); err != nil {
			log.Printf("⚠️ Scroll failed on %s: %v", url, err)
		}
	}

	html, err := f.page.Content()
	if err != nil {
		return "", fmt.Errorf("read content of %s: %w", url, err)
	}
	return html, nil
}

func (f *PageFetcher) Close() error {
	return f.page.Close()
}
