package memory

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobhunter/internal/models"
	"go-jobhunter/internal/store"
)

var fixedTime = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

func opp(company, source string, remote bool, cat models.Category, emotion, tech []string) models.Opportunity {
	return models.Opportunity{
		Title:    company + " intern",
		Company:  company,
		Source:   source,
		Category: cat,
		Breakdown: &models.Breakdown{
			EmotionKeywords:   emotion,
			TechnicalKeywords: tech,
			RemoteAvailable:   remote,
			Category:          cat,
		},
	}
}

func backends(t *testing.T) map[string]DecisionLog {
	t.Helper()
	jsonLog, err := NewJSONLog(t.TempDir())
	require.NoError(t, err)
	sqliteLog, err := NewSQLiteLog(filepath.Join(t.TempDir(), "memory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteLog.Close() })

	logs := map[string]DecisionLog{"json": jsonLog, "sqlite": sqliteLog}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		pg, err := NewPostgresLog(context.Background(), url)
		require.NoError(t, err)
		_, err = pg.db.Exec(context.Background(), "TRUNCATE memory_decisions")
		require.NoError(t, err)
		t.Cleanup(func() { pg.Close() })
		logs["postgres"] = pg
	}
	return logs
}

func TestLearner_StatsAndPrediction(t *testing.T) {
	for name, l := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewLearner(l)

			require.NoError(t, m.RecordDecision(ctx, opp("Affectiva", "linkedin", true, models.CategoryEmotionAI, []string{"emotion", "affect"}, []string{"python"}), models.DecisionApproved))
			require.NoError(t, m.RecordDecision(ctx, opp("Hume", "linkedin", true, models.CategoryEmotionAI, []string{"emotion"}, nil), models.DecisionApproved))
			require.NoError(t, m.RecordDecision(ctx, opp("BigBank", "indeed", false, models.CategoryGeneralAI, nil, []string{"java"}), models.DecisionRefused))
			require.NoError(t, m.OnDecision(ctx, opp("AdCorp", "indeed", true, models.CategoryGeneralAI, nil, []string{"java", "python"}), models.DecisionRefused))

			stats, err := m.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, 4, stats.TotalInteractions)
			assert.Equal(t, 2, stats.Approved)
			assert.Equal(t, 2, stats.Refused)
			assert.Equal(t, []string{"Affectiva", "Hume"}, stats.ApprovedCompanies)
			assert.InDelta(t, 2.0/3.0, stats.RemotePreference, 1e-9)
			require.NotEmpty(t, stats.TopKeywords)
			assert.Equal(t, KeywordCount{Keyword: "emotion", Count: 2}, stats.TopKeywords[0])
			assert.Equal(t, KeywordCount{Keyword: "java", Count: 2}, stats.AvoidedKeywords[0])

			require.Len(t, stats.TopCategories, 2)
			assert.Equal(t, "emotion_ai", stats.TopCategories[0].Category)
			assert.Equal(t, 1.0, stats.TopCategories[0].Ratio)

			require.Len(t, stats.BestSources, 2)
			assert.Equal(t, "linkedin", stats.BestSources[0].Source)
			assert.Equal(t, 1.0, stats.BestSources[0].SuccessRate)

			// known approved company + "emotion" approved + "python" in both
			p, err := m.PredictApproval(ctx, opp("Affectiva", "", false, models.CategoryEmotionAI, []string{"emotion"}, []string{"python"}))
			require.NoError(t, err)
			assert.InDelta(t, 0.85, p, 1e-9)

			p, err = m.PredictApproval(ctx, opp("BigBank", "", false, models.CategoryGeneralAI, nil, []string{"java"}))
			require.NoError(t, err)
			assert.InDelta(t, 0.15, p, 1e-9)
		})
	}
}

func TestDecisionLog_StoresFingerprint(t *testing.T) {
	for name, l := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			o := opp("Affectiva", "linkedin", true, models.CategoryEmotionAI, []string{"emotion"}, nil)
			o.Fingerprint = store.Fingerprint(o)
			require.NoError(t, NewLearner(l).RecordDecision(ctx, o, models.DecisionApproved))

			records, err := l.List(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, o.Fingerprint, records[0].Fingerprint)
		})
	}
}

func TestSQLiteLog_UpgradesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE decisions (
		id TEXT PRIMARY KEY, created_at TEXT NOT NULL, company TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '', source TEXT NOT NULL DEFAULT '', decision TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'unknown', remote INTEGER NOT NULL DEFAULT 0,
		keywords TEXT NOT NULL DEFAULT '[]')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO decisions (id, created_at, decision) VALUES ('old', '2025-01-01T00:00:00Z', 'approved')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	l, err := NewSQLiteLog(path)
	require.NoError(t, err)
	defer l.Close()

	records, err := l.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Fingerprint)
}

func TestLearner_EmptyDefaults(t *testing.T) {
	jsonLog, err := NewJSONLog(t.TempDir())
	require.NoError(t, err)
	m := NewLearner(jsonLog)

	stats, err := m.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalInteractions)
	assert.Equal(t, 0.5, stats.RemotePreference)
	assert.NotNil(t, stats.ApprovedCompanies)

	p, err := m.PredictApproval(context.Background(), models.Opportunity{Company: "Anyone"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)
}

func TestPredictApproval_Clamped(t *testing.T) {
	jsonLog, err := NewJSONLog(t.TempDir())
	require.NoError(t, err)
	m := NewLearner(jsonLog)
	ctx := context.Background()

	many := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	require.NoError(t, m.RecordDecision(ctx, opp("Acme", "", false, models.CategoryEmotionAI, many, nil), models.DecisionApproved))

	p, err := m.PredictApproval(ctx, opp("Acme", "", false, models.CategoryEmotionAI, many, nil))
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}

func TestNewRecord_KeywordsCapped(t *testing.T) {
	o := models.Opportunity{
		Company: "Acme",
		Breakdown: &models.Breakdown{
			EmotionKeywords:   []string{"e1", "e2", "e3", "e4", "e5", "e6", "e7", "e8", "e9", "e10"},
			TechnicalKeywords: []string{"t1", "t2", "t3", "t4"},
			AdoptionKeywords:  []string{"a1", "a2", "a3"},
		},
	}
	rec := newRecord(o, models.DecisionApproved, fixedTime)
	assert.Len(t, rec.Keywords, 15)
	assert.Equal(t, "a1", rec.Keywords[14])
	assert.Equal(t, "unknown", rec.Category)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, store.Fingerprint(o), rec.Fingerprint)

	o.Fingerprint = "abc123"
	assert.Equal(t, "abc123", newRecord(o, models.DecisionApproved, fixedTime).Fingerprint)

	bare := newRecord(models.Opportunity{Category: models.CategoryResearch}, models.DecisionRefused, fixedTime)
	assert.Equal(t, "research", bare.Category)
	assert.Equal(t, []string{}, bare.Keywords)
}

type flakyMemory struct {
	Memory
	recorded []models.Decision
}

func (f *flakyMemory) RecordDecision(_ context.Context, o models.Opportunity, d models.Decision) error {
	if o.Company == "broken" {
		return assert.AnError
	}
	f.recorded = append(f.recorded, d)
	return nil
}

func TestImportHistory(t *testing.T) {
	m := &flakyMemory{}
	approved := []models.Opportunity{{Company: "A"}, {Company: "broken"}}
	refused := []models.Opportunity{{Company: "C"}}

	res := ImportHistory(context.Background(), m, approved, refused)
	assert.Equal(t, ImportResult{Approved: 1, Refused: 1, Failed: 1}, res)
	assert.Equal(t, []models.Decision{models.DecisionApproved, models.DecisionRefused}, m.recorded)
}

func TestOpenLog(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenLog(context.Background(), "", dir, "")
	require.NoError(t, err)
	assert.IsType(t, &JSONLog{}, l)

	_, err = OpenLog(context.Background(), "postgres", dir, "")
	assert.Error(t, err)

	_, err = OpenLog(context.Background(), "mongo", dir, "")
	assert.Error(t, err)
}
