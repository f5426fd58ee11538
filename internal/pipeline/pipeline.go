// Package pipeline runs the scrape, persist, score and categorize sequence
// over the found store.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go-jobhunter/internal/dedup"
	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/memory"
	"go-jobhunter/internal/models"
	"go-jobhunter/internal/scraper"
	"go-jobhunter/internal/store"
)

// Notifier is told about newly found opportunities that survived scoring.
type Notifier interface {
	NotifyOpportunities(ctx context.Context, opps []models.Opportunity) error
}

// Report summarizes one run.
type Report struct {
	Scraped  int            `json:"scraped"`
	New      int            `json:"new"`
	Kept     int            `json:"kept"`
	Buckets  filter.Buckets `json:"buckets"`
	Duration time.Duration  `json:"duration"`
}

// Pipeline serializes its own runs. Writes to the found store are reconciled
// against what changed while a run was scoring.
type Pipeline struct {
	runMu sync.Mutex

	store    *store.Store
	scorer   *filter.Scorer
	profile  models.Profile
	scrapers []scraper.Scraper
	seen     dedup.SeenCache
	memory   memory.Memory
	notifier Notifier
}

type Option func(*Pipeline)

func WithScrapers(scrapers ...scraper.Scraper) Option {
	return func(p *Pipeline) { p.scrapers = append(p.scrapers, scrapers...) }
}

// WithSeenCache drops scraped URLs already seen in an earlier run.
func WithSeenCache(c dedup.SeenCache) Option {
	return func(p *Pipeline) { p.seen = c }
}

// WithMemory annotates kept records with a predicted approval chance.
func WithMemory(m memory.Memory) Option {
	return func(p *Pipeline) { p.memory = m }
}

func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

func WithProfile(profile models.Profile) Option {
	return func(p *Pipeline) { p.profile = profile }
}

func New(s *store.Store, scorer *filter.Scorer, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:   s,
		scorer:  scorer,
		profile: models.DefaultProfile(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunFull scrapes every source, stores new records and re-scores the whole
// found collection, including adoption programs.
func (p *Pipeline) RunFull(ctx context.Context) (Report, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	start := time.Now()
	log.Println("🚀 Full pipeline: search + process + categorize")

	scraped := p.scrapeAll(ctx)
	merged := mergeByURL(scraped)
	unseen := p.dropSeen(ctx, merged)
	log.Printf("🔍 Deduplication: %d scraped -> %d unique -> %d unseen", len(scraped), len(merged), len(unseen))

	newURLs := make(map[string]bool)
	var saved []string
	for _, opp := range unseen {
		ok, err := p.store.SaveOpportunity(opp)
		if err != nil {
			log.Printf("⚠️ Failed to save %q: %v", opp.Title, err)
			continue
		}
		if opp.URL != "" {
			saved = append(saved, opp.URL)
		}
		if ok {
			newURLs[opp.URL] = true
		}
	}
	if p.seen != nil && len(saved) > 0 {
		if err := p.seen.Add(ctx, saved); err != nil {
			log.Printf("⚠️ Failed to update seen cache: %v", err)
		}
	}
	log.Printf("💾 Saved %d new opportunities", len(newURLs))

	report, err := p.process(ctx, true)
	if err != nil {
		return report, err
	}
	report.Scraped = len(scraped)
	report.New = len(newURLs)

	if p.notifier != nil {
		var fresh []models.Opportunity
		for _, opp := range report.Buckets.All() {
			if newURLs[opp.URL] {
				fresh = append(fresh, opp)
			}
		}
		if len(fresh) > 0 {
			filter.SortByScore(fresh)
			if err := p.notifier.NotifyOpportunities(ctx, fresh); err != nil {
				log.Printf("⚠️ Notification failed: %v", err)
			}
		}
	}

	report.Duration = time.Since(start)
	log.Printf("✅ Full pipeline complete: %d scraped, %d new, %d kept (%s)", report.Scraped, report.New, report.Kept, report.Duration.Round(time.Millisecond))
	return report, nil
}

// RunQuick re-scores the found collection with the regular scorer only.
func (p *Pipeline) RunQuick(ctx context.Context) (Report, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	start := time.Now()
	log.Println("⚡ Quick pipeline: process existing opportunities")

	report, err := p.process(ctx, false)
	if err != nil {
		return report, err
	}
	report.Duration = time.Since(start)
	log.Printf("✅ Quick pipeline complete: %d kept", report.Kept)
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, withAdoption bool) (Report, error) {
	if _, err := p.store.DropRefused(); err != nil {
		log.Printf("⚠️ Failed to drop refused opportunities: %v", err)
	}

	found := p.store.LoadFound()
	clean := Clean(found)
	log.Printf("🧹 Cleaned: %d -> %d unique opportunities", len(found), len(clean))

	buckets := filter.Categorize(clean, p.scorer, p.profile)
	log.Printf("🎯 Regular matches: %d", buckets.Len())

	if withAdoption {
		kept := make(map[string]bool, buckets.Len())
		for _, opp := range buckets.All() {
			kept[opp.URL] = true
		}
		var candidates []models.Opportunity
		for _, opp := range clean {
			if len(opp.AdoptionSignals) > 0 && !kept[opp.URL] {
				candidates = append(candidates, opp)
			}
		}
		matched := filter.MatchAdoption(candidates, p.profile, p.scorer.Preferences())
		log.Printf("💡 Adoption matches: %d", len(matched))
		if len(matched) > 0 {
			buckets.Adoption = append(buckets.Adoption, matched...)
			filter.SortByScore(buckets.Adoption)
		}
	}

	p.annotate(ctx, &buckets)

	if err := p.store.MergeFound(found, buckets.All()); err != nil {
		return Report{}, fmt.Errorf("update found store: %w", err)
	}
	return Report{Kept: buckets.Len(), Buckets: buckets}, nil
}

func (p *Pipeline) annotate(ctx context.Context, b *filter.Buckets) {
	if p.memory == nil {
		return
	}
	for _, list := range [][]models.Opportunity{b.EmotionAI, b.Research, b.Adoption, b.GeneralAI} {
		for i := range list {
			chance, err := p.memory.PredictApproval(ctx, list[i])
			if err != nil {
				log.Printf("⚠️ Approval prediction failed: %v", err)
				return
			}
			if list[i].Analysis != nil {
				c := chance
				list[i].Analysis.ApprovalChance = &c
			}
		}
	}
}

func (p *Pipeline) scrapeAll(ctx context.Context) []models.Opportunity {
	var all []models.Opportunity
	for _, s := range p.scrapers {
		if ctx.Err() != nil {
			log.Printf("⏹️ Scraping cancelled: %v", ctx.Err())
			break
		}
		log.Printf("▶️ Starting scraper: %s", s.Name())
		opps, err := runScraper(ctx, s)
		if err != nil {
			log.Printf("❌ Error running scraper %s: %v", s.Name(), err)
			continue
		}
		log.Printf("✅ Scraper %s finished. Found %d opportunities.", s.Name(), len(opps))
		all = append(all, opps...)
	}
	return all
}

// runScraper isolates one source so a panic is reported like an error.
func runScraper(ctx context.Context, s scraper.Scraper) (opps []models.Opportunity, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scraper panicked: %v", r)
			opps = nil
		}
	}()
	return s.Scrape(ctx)
}

func (p *Pipeline) dropSeen(ctx context.Context, opps []models.Opportunity) []models.Opportunity {
	if p.seen == nil {
		return opps
	}
	out := make([]models.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if opp.URL != "" && p.seen.IsSeen(ctx, opp.URL) {
			continue
		}
		out = append(out, opp)
	}
	return out
}

// mergeByURL keeps the first record per URL. Records without a URL pass
// through; the store's fingerprint check still dedups them.
func mergeByURL(opps []models.Opportunity) []models.Opportunity {
	seen := make(map[string]bool, len(opps))
	out := make([]models.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if opp.URL != "" {
			if seen[opp.URL] {
				continue
			}
			seen[opp.URL] = true
		}
		out = append(out, opp)
	}
	return out
}

// Clean drops records without a title or URL and collapses records sharing
// (lower-cased title, URL), keeping the first.
func Clean(opps []models.Opportunity) []models.Opportunity {
	type key struct{ title, url string }
	seen := make(map[key]bool, len(opps))
	out := make([]models.Opportunity, 0, len(opps))
	for _, opp := range opps {
		title := strings.TrimSpace(opp.Title)
		url := strings.TrimSpace(opp.URL)
		if title == "" || url == "" {
			continue
		}
		k := key{strings.ToLower(title), url}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, opp)
	}
	return out
}
