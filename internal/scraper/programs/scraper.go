package programs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-jobhunter/internal/models"
	"go-jobhunter/internal/scraper"
)

// ProgramScraper searches every site of one Category. A site that yields no
// qualifying link still produces a single fallback posting for the program.
type ProgramScraper struct {
	fetcher  scraper.Fetcher
	category Category
	pause    scraper.Pacer
}

func NewProgramScraper(fetcher scraper.Fetcher, category Category, pause scraper.Pacer) *ProgramScraper {
	if pause == nil {
		pause = scraper.RandomPause(time.Second, 3*time.Second)
	}
	return &ProgramScraper{fetcher: fetcher, category: category, pause: pause}
}

// All returns one scraper per built-in category so a failing category does
// not take the others down.
func All(fetcher scraper.Fetcher, pause scraper.Pacer) []scraper.Scraper {
	out := make([]scraper.Scraper, 0, len(AllCategories))
	for _, c := range AllCategories {
		out = append(out, NewProgramScraper(fetcher, c, pause))
	}
	return out
}

func (s *ProgramScraper) Name() string {
	return "Adoption: " + s.category.Name
}

func (s *ProgramScraper) Scrape(ctx context.Context) ([]models.Opportunity, error) {
	c := s.category
	log.Printf("[Adoption] Searching %s...", c.Name)
	var jobs []models.Opportunity
	failures := 0

	for _, src := range c.Sources {
		if ctx.Err() != nil {
			return jobs, ctx.Err()
		}
		log.Printf("  → %s", src.Name)

		body, err := s.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			log.Printf("  x %s error: %v", src.Name, err)
			failures++
			continue
		}
		jobs = append(jobs, s.fromPage(src, body)...)
		s.pause(ctx)
	}

	if len(c.Sources) > 0 && failures == len(c.Sources) {
		return nil, fmt.Errorf("all %d %s sources failed", failures, strings.ToLower(c.Name))
	}
	log.Printf("  [%s] Found %d opportunities", c.Name, len(jobs))
	return jobs, nil
}

func (s *ProgramScraper) fromPage(src Source, body string) []models.Opportunity {
	c := s.category
	doc, err := scraper.Parse(body)
	if err != nil {
		log.Printf("  x %s parse error: %v", src.Name, err)
		return nil
	}

	if len(c.PageWords) > 0 && !containsAny(strings.ToLower(scraper.Text(doc)), c.PageWords) {
		return nil
	}

	var jobs []models.Opportunity
	for _, link := range scraper.ExtractLinks(doc, src.URL) {
		n := len([]rune(link.Text))
		if n <= c.MinLen || n >= c.MaxLen {
			continue
		}
		if !containsAny(strings.ToLower(link.Text), c.LinkWords) {
			continue
		}

		opp := models.Opportunity{
			Title:           scraper.Truncate(link.Text, 120),
			Company:         src.Name,
			Location:        c.Location,
			URL:             link.Href,
			Source:          c.Label + ": " + src.Name,
			Description:     src.Description,
			Requirements:    clone(c.Requirements),
			ResearchSignals: clone(c.ResearchSignals),
			AdoptionSignals: clone(c.AdoptionSignals),
		}
		if c.LinkAsCompany {
			opp.Title = "Internship - " + src.Name
			opp.Company = scraper.Truncate(link.Text, 100)
		}
		jobs = append(jobs, opp)
		log.Printf("    ✓ Found: %s", scraper.Truncate(link.Text, 60))
	}

	if len(jobs) == 0 {
		jobs = append(jobs, models.Opportunity{
			Title:           fmt.Sprintf(c.FallbackTitle, src.Name),
			Company:         src.Name,
			Location:        c.Location,
			URL:             src.URL,
			Source:          c.Label + ": " + src.Name,
			Description:     src.Description,
			Requirements:    clone(c.FallbackRequirements),
			ResearchSignals: clone(c.FallbackResearchSignals),
			AdoptionSignals: clone(c.FallbackAdoptionSignals),
		})
	}
	return jobs
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
