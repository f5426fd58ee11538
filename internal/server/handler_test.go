package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobhunter/internal/ai"
	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/memory"
	"go-jobhunter/internal/models"
	"go-jobhunter/internal/pipeline"
	"go-jobhunter/internal/store"
)

var (
	researchIntern = models.Opportunity{
		Title:       "Remote AI Research Intern",
		Company:     "DeepMind",
		Location:    "Remote",
		URL:         "https://jobs.example/deepmind",
		Description: "affective computing research",
	}
	pythonDev = models.Opportunity{
		Title:       "Python Developer",
		Company:     "Acme",
		Location:    "Tunis",
		URL:         "https://jobs.example/acme",
		Description: "backend api automation with python",
	}
	barista = models.Opportunity{Title: "Barista", Company: "Cafe", Location: "Paris", URL: "https://jobs.example/cafe"}
)

type stubLLM struct {
	reply string
	err   error
}

func (s stubLLM) Complete(context.Context, string, string) (string, error) { return s.reply, s.err }

type stubRunner struct {
	report pipeline.Report
	err    error
	calls  int
}

func (r *stubRunner) RunQuick(context.Context) (pipeline.Report, error) {
	r.calls++
	return r.report, r.err
}

type stubScheduler struct{}

func (stubScheduler) Running() bool { return true }
func (stubScheduler) LastRun() (time.Time, error) {
	return time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC), errors.New("linkedin down")
}

type testEnv struct {
	store   *store.Store
	learner *memory.Learner
	runner  *stubRunner
	router  *gin.Engine
}

func newTestEnv(t *testing.T, llm ai.Client) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	s := store.New(dir)
	log, err := memory.NewJSONLog(dir)
	require.NoError(t, err)
	learner := memory.NewLearner(log)
	runner := &stubRunner{report: pipeline.Report{Kept: 2, Duration: 1500 * time.Millisecond}}

	var assistant *ai.Assistant
	if llm != nil {
		assistant = ai.NewAssistant(llm)
	}

	h := NewHandler(Deps{
		Store:     s,
		Review:    store.NewReview(s, learner),
		Scorer:    filter.NewScorer(nil),
		Profile:   models.DefaultProfile(),
		Assistant: assistant,
		Memory:    learner,
		Runner:    runner,
		Scheduler: stubScheduler{},
	})
	r := gin.New()
	h.Register(r)
	return &testEnv{store: s, learner: learner, runner: runner, router: r}
}

func (e *testEnv) seed(t *testing.T, opps ...models.Opportunity) []string {
	t.Helper()
	fps := make([]string, len(opps))
	for i, opp := range opps {
		_, err := e.store.SaveOpportunity(opp)
		require.NoError(t, err)
		fps[i] = store.Fingerprint(opp)
	}
	return fps
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", res["status"])
	assert.Equal(t, false, res["ai"])
	sched := res["scheduler"].(map[string]any)
	assert.Equal(t, true, sched["running"])
	assert.Equal(t, "2026-02-01T08:00:00Z", sched["last_run"])
	assert.Equal(t, "linkedin down", sched["last_error"])
}

func TestListOpportunities(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t, researchIntern, pythonDev, barista)

	w := env.do(t, http.MethodGet, "/opportunities", nil)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[OpportunitiesResponse](t, w)
	assert.Equal(t, Counts{EmotionAI: 1, GeneralAI: 1, Total: 2}, res.Counts)
	assert.Equal(t, 3, res.Stats.Found)
	require.Len(t, res.Buckets.EmotionAI, 1)
	require.NotNil(t, res.Buckets.EmotionAI[0].Analysis)
	require.NotNil(t, res.Buckets.EmotionAI[0].Analysis.ApprovalChance)
	assert.InDelta(t, 0.5, *res.Buckets.EmotionAI[0].Analysis.ApprovalChance, 1e-9)
}

func TestListOpportunities_KeepsAdoptionMatches(t *testing.T) {
	env := newTestEnv(t, nil)
	program := models.Opportunity{
		Title:    "Global AI Hackathon",
		Company:  "Devpost",
		Location: "Online",
		URL:      "https://devpost.example/global",
		Score:    62,
		Category: models.CategoryAdoption,
		Analysis: &models.Analysis{Score: 62, AdoptionType: filter.AdoptionHackathon},
	}
	env.seed(t, program, pythonDev)

	res := decode[OpportunitiesResponse](t, env.do(t, http.MethodGet, "/opportunities", nil))
	require.Len(t, res.Buckets.Adoption, 1)
	assert.Equal(t, 62, res.Buckets.Adoption[0].Score)
	assert.Equal(t, 2, res.Counts.Total)
}

func TestApprove(t *testing.T) {
	env := newTestEnv(t, nil)
	fps := env.seed(t, researchIntern, pythonDev)

	w := env.do(t, http.MethodPost, "/opportunities/"+fps[0]+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[ApproveResponse](t, w)
	assert.Equal(t, "DeepMind", res.Opportunity.Company)
	assert.NotNil(t, res.Opportunity.ApprovedAt)
	assert.Contains(t, res.Draft, "Hi DeepMind Team,")

	assert.Len(t, env.store.LoadFound(), 1)
	assert.Len(t, env.store.LoadApproved(), 1)

	stats, err := env.learner.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Approved)

	w = env.do(t, http.MethodPost, "/opportunities/"+fps[0]+"/approve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefuse(t *testing.T) {
	env := newTestEnv(t, nil)
	fps := env.seed(t, researchIntern)

	w := env.do(t, http.MethodPost, "/opportunities/"+fps[0]+"/refuse", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.store.LoadFound())
	assert.Len(t, env.store.LoadRefused(), 1)

	w = env.do(t, http.MethodPost, "/opportunities/missing/refuse", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResearch(t *testing.T) {
	env := newTestEnv(t, stubLLM{reply: "DeepMind builds AI systems."})
	fps := env.seed(t, researchIntern)

	w := env.do(t, http.MethodGet, "/opportunities/"+fps[0]+"/research", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[ai.Result](t, w)
	assert.True(t, res.Success)
	assert.Equal(t, "DeepMind builds AI systems.", res.Text)

	// still reachable after approval
	env.do(t, http.MethodPost, "/opportunities/"+fps[0]+"/approve", nil)
	w = env.do(t, http.MethodGet, "/opportunities/"+fps[0]+"/research", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/opportunities/missing/research", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnhanceEmail(t *testing.T) {
	env := newTestEnv(t, stubLLM{err: errors.New("quota exceeded")})

	w := env.do(t, http.MethodPost, "/email/enhance", EnhanceRequest{EmailText: "my draft"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[ai.Result](t, w)
	assert.False(t, res.Success)
	assert.Equal(t, "my draft", res.Text)

	w = env.do(t, http.MethodPost, "/email/enhance", EnhanceRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkSent(t *testing.T) {
	env := newTestEnv(t, nil)
	fps := env.seed(t, researchIntern)
	env.do(t, http.MethodPost, "/opportunities/"+fps[0]+"/approve", nil)

	w := env.do(t, http.MethodPost, "/opportunities/"+fps[0]+"/sent", SentRequest{Email: "careers@deepmind.com"})
	require.Equal(t, http.StatusOK, w.Code)

	sent := env.store.LoadSent()
	require.Len(t, sent, 1)
	assert.Equal(t, "careers@deepmind.com", sent[0].Email)
	assert.Equal(t, "DeepMind", sent[0].Job.Company)

	w = env.do(t, http.MethodPost, "/opportunities/"+fps[0]+"/sent", SentRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprovedAndStats(t *testing.T) {
	env := newTestEnv(t, nil)
	fps := env.seed(t, researchIntern, pythonDev)
	env.do(t, http.MethodPost, "/opportunities/"+fps[0]+"/approve", nil)
	env.do(t, http.MethodPost, "/opportunities/"+fps[1]+"/refuse", nil)

	approved := decode[map[string]any](t, env.do(t, http.MethodGet, "/approved", nil))
	assert.Equal(t, float64(1), approved["total"])

	stats := decode[store.Stats](t, env.do(t, http.MethodGet, "/stats", nil))
	assert.Equal(t, store.Stats{Found: 0, Approved: 1, Refused: 1}, stats)

	mem := decode[memory.Stats](t, env.do(t, http.MethodGet, "/memory/stats", nil))
	assert.Equal(t, 2, mem.TotalInteractions)
}

func TestCleanupAndClear(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t, researchIntern, pythonDev)
	_, err := env.store.AddRefused(context.Background(), pythonDev)
	require.NoError(t, err)

	res := decode[map[string]int](t, env.do(t, http.MethodPost, "/cleanup", nil))
	assert.Equal(t, 1, res["refused_removed"])
	assert.Equal(t, 0, res["duplicates_removed"])
	assert.Len(t, env.store.LoadFound(), 1)

	w := env.do(t, http.MethodPost, "/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.store.LoadFound())
}

func TestRunQuick(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/pipeline/quick", nil)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[map[string]int](t, w)
	assert.Equal(t, 2, res["kept"])
	assert.Equal(t, 1500, res["duration_ms"])
	assert.Equal(t, 1, env.runner.calls)
}
