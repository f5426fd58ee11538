package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobhunter/internal/dedup"
	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/memory"
	"go-jobhunter/internal/models"
	"go-jobhunter/internal/store"
)

type fakeScraper struct {
	name  string
	opps  []models.Opportunity
	err   error
	panic bool
	calls int
}

func (f *fakeScraper) Name() string { return f.name }

func (f *fakeScraper) Scrape(context.Context) ([]models.Opportunity, error) {
	f.calls++
	if f.panic {
		panic("selector changed")
	}
	return f.opps, f.err
}

type recordingNotifier struct {
	got [][]models.Opportunity
}

func (n *recordingNotifier) NotifyOpportunities(_ context.Context, opps []models.Opportunity) error {
	n.got = append(n.got, opps)
	return nil
}

type fixedMemory struct{ chance float64 }

func (m fixedMemory) RecordDecision(context.Context, models.Opportunity, models.Decision) error {
	return nil
}

func (m fixedMemory) Stats(context.Context) (memory.Stats, error) { return memory.Stats{}, nil }

func (m fixedMemory) PredictApproval(context.Context, models.Opportunity) (float64, error) {
	return m.chance, nil
}

var (
	researchIntern = models.Opportunity{
		Title:       "Remote AI Research Intern",
		Company:     "DeepMind",
		Location:    "Remote",
		URL:         "https://jobs.example/deepmind",
		Description: "affective computing research",
		Source:      "linkedin",
	}
	pythonDev = models.Opportunity{
		Title:       "Python Developer",
		Company:     "Acme",
		Location:    "Tunis",
		URL:         "https://jobs.example/acme",
		Description: "backend api automation with python",
		Source:      "linkedin",
	}
	barista = models.Opportunity{
		Title:    "Barista",
		Company:  "Cafe",
		Location: "Paris",
		URL:      "https://jobs.example/cafe",
		Source:   "linkedin",
	}
	usOnly = models.Opportunity{
		Title:       "Emotion AI Intern",
		Company:     "Acme Labs",
		Location:    "Remote",
		URL:         "https://jobs.example/us-only",
		Description: "emotion recognition. Must be a US citizen.",
		Source:      "linkedin",
	}
	hackathon = models.Opportunity{
		Title:           "Global AI Hackathon",
		Company:         "Devpost",
		Location:        "Online",
		URL:             "https://devpost.example/global",
		Description:     "Build a prototype. Prize pool and award for winners.",
		Source:          "devpost",
		AdoptionSignals: []string{"Innovation program"},
	}
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(t.TempDir(), store.WithClock(func() time.Time {
		return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	}))
}

func TestRunFull(t *testing.T) {
	s := newTestStore(t)
	jobs := &fakeScraper{name: "LinkedIn", opps: []models.Opportunity{researchIntern, pythonDev, barista, usOnly, researchIntern}}
	broken := &fakeScraper{name: "Broken", err: errors.New("HTTP 503")}
	panicky := &fakeScraper{name: "Panicky", panic: true}
	programs := &fakeScraper{name: "Adoption: Hackathons", opps: []models.Opportunity{hackathon}}
	notifier := &recordingNotifier{}

	p := New(s, filter.NewScorer(nil),
		WithScrapers(jobs, broken, panicky, programs),
		WithNotifier(notifier),
		WithMemory(fixedMemory{chance: 0.8}),
	)

	report, err := p.RunFull(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, report.Scraped)
	assert.Equal(t, 5, report.New)
	assert.Equal(t, 3, report.Kept)
	assert.Equal(t, 1, panicky.calls)

	require.Len(t, report.Buckets.EmotionAI, 1)
	assert.Equal(t, researchIntern.Title, report.Buckets.EmotionAI[0].Title)
	require.Len(t, report.Buckets.GeneralAI, 1)
	assert.Equal(t, 10, report.Buckets.GeneralAI[0].Score)

	require.Len(t, report.Buckets.Adoption, 1)
	adoption := report.Buckets.Adoption[0]
	assert.Equal(t, 62, adoption.Score)
	require.NotNil(t, adoption.Analysis)
	assert.Equal(t, filter.AdoptionHackathon, adoption.Analysis.AdoptionType)
	require.NotNil(t, adoption.Analysis.ApprovalChance)
	assert.InDelta(t, 0.8, *adoption.Analysis.ApprovalChance, 1e-9)

	found := s.LoadFound()
	assert.Len(t, found, 3)
	for _, opp := range found {
		assert.NotEmpty(t, opp.Fingerprint)
		assert.NotNil(t, opp.FoundAt)
	}

	require.Len(t, notifier.got, 1)
	require.Len(t, notifier.got[0], 3)
	assert.Equal(t, "Global AI Hackathon", notifier.got[0][0].Title)
}

func TestRunFull_SeenCacheSkipsKnownURLs(t *testing.T) {
	s := newTestStore(t)
	seen := dedup.NewFileCache(t.TempDir(), dedup.DefaultTTL)
	require.NoError(t, seen.Add(context.Background(), []string{researchIntern.URL}))

	jobs := &fakeScraper{name: "LinkedIn", opps: []models.Opportunity{researchIntern, pythonDev}}
	p := New(s, filter.NewScorer(nil), WithScrapers(jobs), WithSeenCache(seen))

	report, err := p.RunFull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.New)
	assert.True(t, seen.IsSeen(context.Background(), pythonDev.URL))

	report, err = p.RunFull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.New)
	assert.Equal(t, 1, report.Kept)
}

func TestRunQuick_IsIdempotent(t *testing.T) {
	s := newTestStore(t)
	for _, opp := range []models.Opportunity{researchIntern, pythonDev, barista, hackathon} {
		_, err := s.SaveOpportunity(opp)
		require.NoError(t, err)
	}
	p := New(s, filter.NewScorer(nil))

	first, err := p.RunQuick(context.Background())
	require.NoError(t, err)
	// quick runs skip the adoption matcher
	assert.Equal(t, 2, first.Kept)
	assert.Empty(t, first.Buckets.Adoption)

	second, err := p.RunQuick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Kept, second.Kept)

	firstAll, secondAll := first.Buckets.All(), second.Buckets.All()
	for i := range firstAll {
		assert.Equal(t, firstAll[i].Score, secondAll[i].Score)
		assert.Equal(t, firstAll[i].Category, secondAll[i].Category)
	}
}

func TestRunQuick_DropsRefused(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SaveOpportunity(researchIntern)
	require.NoError(t, err)
	_, err = s.SaveOpportunity(pythonDev)
	require.NoError(t, err)
	_, err = s.AddRefused(context.Background(), researchIntern)
	require.NoError(t, err)

	report, err := New(s, filter.NewScorer(nil)).RunQuick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Kept)
	assert.Empty(t, report.Buckets.EmotionAI)
}

// reviewingMemory approves one record and saves another while the run is
// annotating, the way a dashboard request can land mid-run.
type reviewingMemory struct {
	fixedMemory
	review  *store.Review
	store   *store.Store
	approve string
	add     models.Opportunity
	done    bool
}

func (m *reviewingMemory) PredictApproval(ctx context.Context, opp models.Opportunity) (float64, error) {
	if !m.done {
		m.done = true
		if _, err := m.review.Approve(ctx, m.approve); err != nil {
			return 0, err
		}
		if _, err := m.store.SaveOpportunity(m.add); err != nil {
			return 0, err
		}
	}
	return m.chance, nil
}

func TestRunQuick_KeepsConcurrentReviewChanges(t *testing.T) {
	s := newTestStore(t)
	for _, opp := range []models.Opportunity{researchIntern, pythonDev} {
		_, err := s.SaveOpportunity(opp)
		require.NoError(t, err)
	}
	fp := store.Fingerprint(researchIntern)
	mem := &reviewingMemory{
		fixedMemory: fixedMemory{chance: 0.5},
		review:      store.NewReview(s),
		store:       s,
		approve:     fp,
		add:         barista,
	}

	_, err := New(s, filter.NewScorer(nil), WithMemory(mem)).RunQuick(context.Background())
	require.NoError(t, err)

	require.Len(t, s.LoadApproved(), 1)
	var fps []string
	for _, opp := range s.LoadFound() {
		fps = append(fps, opp.Fingerprint)
	}
	assert.NotContains(t, fps, fp)
	assert.Contains(t, fps, store.Fingerprint(pythonDev))
	assert.Contains(t, fps, store.Fingerprint(barista))

	_, err = store.NewReview(s).Approve(context.Background(), fp)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, s.LoadApproved(), 1)
}

func TestClean(t *testing.T) {
	in := []models.Opportunity{
		{Title: "AI Intern", URL: "https://a"},
		{Title: "ai intern ", URL: "https://a"},
		{Title: "AI Intern", URL: "https://b"},
		{Title: "", URL: "https://c"},
		{Title: "No URL"},
	}
	out := Clean(in)
	require.Len(t, out, 2)
	assert.Equal(t, "https://a", out[0].URL)
	assert.Equal(t, "https://b", out[1].URL)
}

func TestMergeByURL(t *testing.T) {
	in := []models.Opportunity{
		{Title: "a", URL: "https://a"},
		{Title: "a again", URL: "https://a"},
		{Title: "no url 1"},
		{Title: "no url 2"},
	}
	out := mergeByURL(in)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Title)
}
