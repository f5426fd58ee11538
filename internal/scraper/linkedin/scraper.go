package linkedin

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/models"
	"go-jobhunter/internal/scraper"
)

const (
	guestSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	maxCards       = 15
	sourceName     = "LinkedIn"
)

var DefaultQueries = []string{
	"AI research intern",
	"machine learning intern",
	"computer vision intern",
	"NLP intern",
	"AI intern remote",
	"deep learning intern",
	"research intern AI",
	"data science intern AI",
}

// descriptionBlocks is tried in order when reading a posting page.
var descriptionBlocks = []scraper.Match{
	{Tag: "div", Class: "show-more-less-html__markup"},
	{Tag: "div", Class: "job-description"},
	{Tag: "div", Class: "description"},
	{Tag: "div", ID: "job-description"},
	{Tag: "div", Class: "jobsearch-jobDescriptionText"},
}

// LinkedInScraper reads the public guest job search, no login required.
type LinkedInScraper struct {
	fetcher         scraper.Fetcher
	queries         []string
	researchSignals []string
	adoptionSignals []string
	pause           scraper.Pacer
	now             func() time.Time
	maxAge          time.Duration
}

type Option func(*LinkedInScraper)

func WithPacer(p scraper.Pacer) Option {
	return func(s *LinkedInScraper) { s.pause = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *LinkedInScraper) { s.now = now }
}

func NewLinkedInScraper(fetcher scraper.Fetcher, queries []string, prefs *filter.Preferences, opts ...Option) *LinkedInScraper {
	if len(queries) == 0 {
		queries = DefaultQueries
	}
	prefs = prefs.WithDefaults()
	s := &LinkedInScraper{
		fetcher:         fetcher,
		queries:         queries,
		researchSignals: prefs.ResearchKeywords,
		adoptionSignals: prefs.AdoptionKeywords,
		pause:           scraper.RandomPause(2*time.Second, 5*time.Second),
		now:             time.Now,
		maxAge:          filter.DefaultMaxPostingAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LinkedInScraper) Name() string {
	return sourceName
}

func (s *LinkedInScraper) Scrape(ctx context.Context) ([]models.Opportunity, error) {
	log.Println("💼 Searching LinkedIn Jobs (guest API)...")
	var jobs []models.Opportunity
	failures := 0

	for _, query := range s.queries {
		if ctx.Err() != nil {
			return jobs, ctx.Err()
		}

		body, err := s.fetcher.Fetch(ctx, SearchURL(query))
		if err != nil {
			log.Printf("  ⚠️ LinkedIn query %q failed: %v", query, err)
			failures++
			continue
		}

		found, err := s.parseCards(ctx, body)
		if err != nil {
			log.Printf("  ⚠️ LinkedIn query %q: %v", query, err)
			failures++
			continue
		}
		jobs = append(jobs, found...)
		s.pause(ctx)
	}

	if failures == len(s.queries) && len(s.queries) > 0 {
		return nil, fmt.Errorf("all %d linkedin queries failed", failures)
	}
	log.Printf("[LinkedIn] %d jobs", len(jobs))
	return jobs, nil
}

// SearchURL builds the guest search URL for one query: remote, internship,
// entry level.
func SearchURL(query string) string {
	v := url.Values{}
	v.Set("keywords", query)
	v.Set("location", "Remote")
	v.Set("f_E", "2")
	v.Set("f_JT", "I")
	return guestSearchURL + "?" + v.Encode()
}

func (s *LinkedInScraper) parseCards(ctx context.Context, body string) ([]models.Opportunity, error) {
	doc, err := scraper.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	cards := scraper.FindAll(doc, scraper.Match{Tag: "div", Class: "base-card"})
	if len(cards) > maxCards {
		cards = cards[:maxCards]
	}

	var jobs []models.Opportunity
	for _, card := range cards {
		opp, ok := s.parseCard(card)
		if !ok {
			continue
		}
		if !filter.IsRecentAt(opp.PostedAt, s.now(), s.maxAge) {
			log.Printf("  ⏭️ Skipping stale posting: %s (%s)", opp.Title, opp.PostedAt)
			continue
		}
		log.Printf("  > %s", scraper.Truncate(opp.Title, 60))

		opp.Description = s.fetchDescription(ctx, opp.URL)
		opp.Requirements = scraper.ExtractRequirements(opp.Description)
		opp.ResearchSignals = scraper.DetectSignals(opp.Description, s.researchSignals)
		opp.AdoptionSignals = scraper.DetectSignals(opp.Description, s.adoptionSignals)
		jobs = append(jobs, opp)
		s.pause(ctx)
	}
	return jobs, nil
}

func (s *LinkedInScraper) parseCard(card *html.Node) (models.Opportunity, bool) {
	title := scraper.FindText(card, scraper.Match{Tag: "h3", Class: "base-search-card__title"})
	link := scraper.FindFirst(card, scraper.Match{Tag: "a", Class: "base-card__full-link"})
	if title == "" || link == nil {
		return models.Opportunity{}, false
	}
	href := scraper.Attr(link, "href")
	if href == "" {
		return models.Opportunity{}, false
	}

	company := scraper.FindText(card, scraper.Match{Tag: "h4", Class: "base-search-card__subtitle"})
	if company == "" {
		company = "Unknown"
	}
	location := scraper.FindText(card, scraper.Match{Tag: "span", Class: "job-search-card__location"})
	if location == "" {
		location = "Remote"
	}

	posted := ""
	if t := scraper.FindFirst(card, scraper.Match{Tag: "time"}); t != nil {
		posted = scraper.Attr(t, "datetime")
		if posted == "" {
			posted = scraper.Text(t)
		}
	}

	return models.Opportunity{
		Title:    title,
		Company:  company,
		Location: location,
		// tracking params make the same posting look like different URLs
		URL:      canonicalURL(href),
		Source:   sourceName,
		PostedAt: posted,
	}, true
}

func canonicalURL(href string) string {
	if i := strings.Index(href, "?"); i >= 0 {
		return href[:i]
	}
	return href
}

// fetchDescription reads the posting page. Failures yield "".
func (s *LinkedInScraper) fetchDescription(ctx context.Context, postingURL string) string {
	body, err := s.fetcher.Fetch(ctx, postingURL)
	if err != nil {
		log.Printf("  ! Description fetch failed: %v", err)
		return ""
	}
	doc, err := scraper.Parse(body)
	if err != nil {
		return ""
	}
	return ExtractDescription(doc)
}

// ExtractDescription walks the known description containers and falls back
// to the first ten paragraphs when they add up to more than 200 characters.
func ExtractDescription(doc *html.Node) string {
	for _, m := range descriptionBlocks {
		if n := scraper.FindFirst(doc, m); n != nil {
			return scraper.Text(n)
		}
	}

	paragraphs := scraper.FindAll(doc, scraper.Match{Tag: "p"})
	if len(paragraphs) > 10 {
		paragraphs = paragraphs[:10]
	}
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if t := scraper.Text(p); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.Join(parts, " ")
	if len([]rune(text)) > 200 {
		return text
	}
	return ""
}
