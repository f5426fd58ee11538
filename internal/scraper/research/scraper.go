package research

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go-jobhunter/internal/models"
	"go-jobhunter/internal/scraper"
)

// Site is a careers page searched with ?q=<query>.
type Site struct {
	Name    string   `yaml:"name"`
	URL     string   `yaml:"url"`
	Queries []string `yaml:"queries"`
}

var DefaultSites = []Site{
	{Name: "ResearchGate", URL: "https://www.researchgate.net/jobs", Queries: []string{"AI intern", "machine learning research"}},
	{Name: "OpenAI Careers", URL: "https://openai.com/careers", Queries: []string{"research", "intern"}},
	{Name: "HuggingFace Jobs", URL: "https://apply.workable.com/huggingface/", Queries: []string{"research", "intern"}},
	{Name: "Google Research", URL: "https://research.google/careers/", Queries: []string{"intern", "research"}},
}

const minTitleLen = 20

var titleWords = []string{"intern", "research", "fellow"}

// ResearchScraper scans research lab career pages for intern, research and
// fellowship links.
type ResearchScraper struct {
	fetcher scraper.Fetcher
	sites   []Site
	pause   scraper.Pacer
}

func NewResearchScraper(fetcher scraper.Fetcher, sites []Site, pause scraper.Pacer) *ResearchScraper {
	if len(sites) == 0 {
		sites = DefaultSites
	}
	if pause == nil {
		pause = scraper.RandomPause(2*time.Second, 5*time.Second)
	}
	return &ResearchScraper{fetcher: fetcher, sites: sites, pause: pause}
}

func (s *ResearchScraper) Name() string {
	return "Research Sites"
}

func (s *ResearchScraper) Scrape(ctx context.Context) ([]models.Opportunity, error) {
	log.Println("🔬 Searching research sites...")
	var jobs []models.Opportunity
	attempts, failures := 0, 0

	for _, site := range s.sites {
		for _, q := range site.Queries {
			if ctx.Err() != nil {
				return jobs, ctx.Err()
			}
			attempts++
			found, err := s.scrapeQuery(ctx, site, q)
			if err != nil {
				log.Printf("  x %s error: %v", site.Name, err)
				failures++
				continue
			}
			jobs = append(jobs, found...)
			s.pause(ctx)
		}
	}

	if attempts > 0 && failures == attempts {
		return nil, fmt.Errorf("all %d research site requests failed", failures)
	}
	log.Printf("[Research] %d opportunities", len(jobs))
	return jobs, nil
}

func (s *ResearchScraper) scrapeQuery(ctx context.Context, site Site, query string) ([]models.Opportunity, error) {
	pageURL := site.URL + "?q=" + url.QueryEscape(query)
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := scraper.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", site.Name, err)
	}

	var jobs []models.Opportunity
	for _, link := range scraper.ExtractLinks(doc, site.URL) {
		if len([]rune(link.Text)) < minTitleLen || !containsAny(strings.ToLower(link.Text), titleWords) {
			continue
		}
		jobs = append(jobs, models.Opportunity{
			Title:           scraper.Truncate(link.Text, 200),
			Company:         site.Name,
			Location:        "Remote / Research",
			URL:             link.Href,
			Source:          site.Name,
			Requirements:    []string{"Research environment"},
			ResearchSignals: []string{"research"},
			AdoptionSignals: []string{},
		})
		log.Printf("  > %s", scraper.Truncate(link.Text, 60))
	}
	return jobs, nil
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
