package outreach

import (
	"context"
	"log"
	"net/url"
	"regexp"
	"strings"

	"go-jobhunter/internal/scraper"
)

var emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

var fakeEmailPatterns = []string{
	"example.com", "test.com", "domain.com", "email.com", "mail.com",
	"yourcompany.com", "company.com", "placeholder",
	"noreply", "no-reply", "donotreply",
	"@sentry", "@tracking", "@analytics",
}

var (
	hiringEmailKeywords  = []string{"careers", "jobs", "hiring", "hr", "talent", "recruit", "internship", "intern", "people"}
	generalEmailKeywords = []string{"contact", "info", "hello", "hi", "team"}
)

// ContactPaths are tried after the main page when looking for an address.
var ContactPaths = []string{"/contact", "/contact-us", "/about", "/about-us", "/careers", "/jobs", "/team", "/support", "/help"}

// ExtractEmails returns every address in the raw page text plus mailto links,
// first-seen order, without duplicates.
func ExtractEmails(page string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(e string) {
		e = strings.TrimSpace(e)
		if e == "" || seen[strings.ToLower(e)] {
			return
		}
		seen[strings.ToLower(e)] = true
		out = append(out, e)
	}

	for _, e := range emailRegex.FindAllString(page, -1) {
		add(e)
	}

	if root, err := scraper.Parse(page); err == nil {
		for _, a := range scraper.FindAll(root, scraper.Match{Tag: "a"}) {
			href := scraper.Attr(a, "href")
			if !strings.HasPrefix(strings.ToLower(href), "mailto:") {
				continue
			}
			addr := href[len("mailto:"):]
			if i := strings.IndexByte(addr, '?'); i >= 0 {
				addr = addr[:i]
			}
			if unescaped, err := url.PathUnescape(addr); err == nil {
				addr = unescaped
			}
			add(addr)
		}
	}
	return out
}

// FilterRealEmails drops placeholder, no-reply and tracking addresses.
func FilterRealEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		lower := strings.ToLower(e)
		fake := false
		for _, p := range fakeEmailPatterns {
			if strings.Contains(lower, p) {
				fake = true
				break
			}
		}
		if !fake {
			out = append(out, e)
		}
	}
	return out
}

// FindHiringEmail picks the best address for an application: hiring
// keywords first, then general contact keywords, then the first address.
// Keyword order wins over list order.
func FindHiringEmail(emails []string) string {
	if len(emails) == 0 {
		return ""
	}
	for _, group := range [][]string{hiringEmailKeywords, generalEmailKeywords} {
		for _, kw := range group {
			for _, e := range emails {
				if strings.Contains(strings.ToLower(e), kw) {
					return e
				}
			}
		}
	}
	return emails[0]
}

// ContactResult lists the real addresses found on a company site and the
// page each one first appeared on.
type ContactResult struct {
	Emails  []string          `json:"emails"`
	Sources map[string]string `json:"sources"`
	Best    string            `json:"best,omitempty"`
}

// FindContactEmails scans the given page and the common contact pages of its
// host. Pages that fail to load are skipped.
func FindContactEmails(ctx context.Context, fetcher scraper.Fetcher, pageURL string, pause scraper.Pacer) ContactResult {
	res := ContactResult{Sources: make(map[string]string)}
	if pause == nil {
		pause = scraper.NoPause
	}

	pages := []string{pageURL}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base := u.Scheme + "://" + u.Host
		for _, p := range ContactPaths {
			pages = append(pages, base+p)
		}
	}

	var all []string
	for i, p := range pages {
		if ctx.Err() != nil {
			break
		}
		if i > 0 {
			pause(ctx)
		}
		body, err := fetcher.Fetch(ctx, p)
		if err != nil {
			continue
		}
		for _, e := range ExtractEmails(body) {
			if _, ok := res.Sources[e]; ok {
				continue
			}
			res.Sources[e] = p
			all = append(all, e)
		}
	}

	res.Emails = FilterRealEmails(all)
	for e := range res.Sources {
		if !contains(res.Emails, e) {
			delete(res.Sources, e)
		}
	}
	res.Best = FindHiringEmail(res.Emails)
	log.Printf("📧 Found %d contact emails at %s", len(res.Emails), pageURL)
	return res
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
