package memory

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"go-jobhunter/internal/models"
	"go-jobhunter/internal/store"
)

// Learner derives preferences by replaying the decision log. It satisfies
// both Memory and store.Observer.
type Learner struct {
	log DecisionLog
	now func() time.Time
}

func NewLearner(l DecisionLog) *Learner {
	return &Learner{log: l, now: time.Now}
}

func (l *Learner) Close() error {
	return l.log.Close()
}

func (l *Learner) OnDecision(ctx context.Context, opp models.Opportunity, decision models.Decision) error {
	return l.RecordDecision(ctx, opp, decision)
}

func (l *Learner) RecordDecision(ctx context.Context, opp models.Opportunity, decision models.Decision) error {
	rec := newRecord(opp, decision, l.now())
	if err := l.log.Append(ctx, rec); err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	log.Printf("   🧠 Recorded: %s - %s", decision, opp.Company)
	return nil
}

func newRecord(opp models.Opportunity, decision models.Decision, now time.Time) DecisionRecord {
	keywords := opp.Breakdown.Keywords()
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	if keywords == nil {
		keywords = []string{}
	}

	category := "unknown"
	remote := false
	if opp.Breakdown != nil {
		remote = opp.Breakdown.RemoteAvailable
		if opp.Breakdown.Category != "" {
			category = string(opp.Breakdown.Category)
		}
	} else if opp.Category != "" {
		category = string(opp.Category)
	}

	fingerprint := opp.Fingerprint
	if fingerprint == "" {
		fingerprint = store.Fingerprint(opp)
	}

	return DecisionRecord{
		ID:          uuid.NewString(),
		Timestamp:   now.UTC(),
		Fingerprint: fingerprint,
		Company:     opp.Company,
		Title:       opp.Title,
		Source:      opp.Source,
		Decision:    decision,
		Category:    category,
		Remote:      remote,
		Keywords:    keywords,
	}
}

// preferences is the aggregate view of the log.
type preferences struct {
	approvedCompanies []string
	approvedSet       map[string]bool
	refusedSet        map[string]bool
	approvedKeywords  *counter
	refusedKeywords   *counter
	remoteApproved    int
	remoteRefused     int
	categories        map[string]*CategoryStat
	categoryOrder     []string
	sources           map[string]*SourceStat
	sourceOrder       []string
	approved, refused int
}

func aggregate(records []DecisionRecord) *preferences {
	p := &preferences{
		approvedSet:      map[string]bool{},
		refusedSet:       map[string]bool{},
		approvedKeywords: newCounter(),
		refusedKeywords:  newCounter(),
		categories:       map[string]*CategoryStat{},
		sources:          map[string]*SourceStat{},
	}

	for _, r := range records {
		approved := r.Decision == models.DecisionApproved

		if approved {
			p.approved++
			if r.Company != "" && !p.approvedSet[r.Company] {
				p.approvedSet[r.Company] = true
				p.approvedCompanies = append(p.approvedCompanies, r.Company)
			}
			p.approvedKeywords.addAll(r.Keywords)
		} else {
			p.refused++
			if r.Company != "" {
				p.refusedSet[r.Company] = true
			}
			p.refusedKeywords.addAll(r.Keywords)
		}

		if r.Remote {
			if approved {
				p.remoteApproved++
			} else {
				p.remoteRefused++
			}
		}

		cat, ok := p.categories[r.Category]
		if !ok {
			cat = &CategoryStat{Category: r.Category}
			p.categories[r.Category] = cat
			p.categoryOrder = append(p.categoryOrder, r.Category)
		}
		if approved {
			cat.Approved++
		} else {
			cat.Refused++
		}

		if r.Source != "" {
			src, ok := p.sources[r.Source]
			if !ok {
				src = &SourceStat{Source: r.Source}
				p.sources[r.Source] = src
				p.sourceOrder = append(p.sourceOrder, r.Source)
			}
			src.Total++
			if approved {
				src.Approved++
			}
		}
	}
	return p
}

func (l *Learner) Stats(ctx context.Context) (Stats, error) {
	records, err := l.log.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list decisions: %w", err)
	}
	p := aggregate(records)

	remote := 0.5
	if total := p.remoteApproved + p.remoteRefused; total > 0 {
		remote = float64(p.remoteApproved) / float64(total)
	}

	categories := make([]CategoryStat, 0, len(p.categoryOrder))
	for _, name := range p.categoryOrder {
		c := *p.categories[name]
		if total := c.Approved + c.Refused; total > 0 {
			c.Ratio = float64(c.Approved) / float64(total)
		}
		categories = append(categories, c)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Ratio != categories[j].Ratio {
			return categories[i].Ratio > categories[j].Ratio
		}
		return categories[i].Approved > categories[j].Approved
	})

	sources := make([]SourceStat, 0, len(p.sourceOrder))
	for _, name := range p.sourceOrder {
		s := *p.sources[name]
		s.SuccessRate = float64(s.Approved) / float64(s.Total)
		sources = append(sources, s)
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].SuccessRate > sources[j].SuccessRate
	})

	companies := p.approvedCompanies
	if companies == nil {
		companies = []string{}
	}

	return Stats{
		TotalInteractions: len(records),
		Approved:          p.approved,
		Refused:           p.refused,
		TopKeywords:       p.approvedKeywords.sorted(),
		AvoidedKeywords:   p.refusedKeywords.sorted(),
		ApprovedCompanies: companies,
		RemotePreference:  remote,
		TopCategories:     categories,
		BestSources:       sources,
	}, nil
}

// PredictApproval starts at 0.5, moves 0.3 for a known company and 0.05 per
// emotion or technical keyword seen before, clamped to [0, 1].
func (l *Learner) PredictApproval(ctx context.Context, opp models.Opportunity) (float64, error) {
	records, err := l.log.List(ctx)
	if err != nil {
		return 0.5, fmt.Errorf("list decisions: %w", err)
	}
	p := aggregate(records)

	score := 0.5
	switch {
	case p.approvedSet[opp.Company]:
		score += 0.3
	case p.refusedSet[opp.Company]:
		score -= 0.3
	}

	if b := opp.Breakdown; b != nil {
		seen := map[string]bool{}
		for _, kw := range append(append([]string{}, b.EmotionKeywords...), b.TechnicalKeywords...) {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			if p.approvedKeywords.has(kw) {
				score += 0.05
			}
			if p.refusedKeywords.has(kw) {
				score -= 0.05
			}
		}
	}

	return clamp01(score), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// counter counts keywords and remembers first-seen order for stable ties.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) addAll(keywords []string) {
	for _, kw := range keywords {
		if _, ok := c.counts[kw]; !ok {
			c.order = append(c.order, kw)
		}
		c.counts[kw]++
	}
}

func (c *counter) has(kw string) bool {
	_, ok := c.counts[kw]
	return ok
}

func (c *counter) sorted() []KeywordCount {
	out := make([]KeywordCount, 0, len(c.order))
	for _, kw := range c.order {
		out = append(out, KeywordCount{Keyword: kw, Count: c.counts[kw]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
