package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobhunter/internal/models"
)

func TestCategorize(t *testing.T) {
	opps := []models.Opportunity{
		{Title: "Barista", Company: "Cafe", Location: "Paris", URL: "https://x/1"},
		{Title: "Python Developer", Company: "Acme", Location: "Tunis", Description: "backend api automation with python", URL: "https://x/2"},
		{Title: "Senior Emotion AI Engineer", Location: "Remote", URL: "https://x/3"},
		remoteResearchIntern,
		{Title: "Emotion AI Intern", Company: "Affectiva", Location: "Remote", Description: "facial expression, speech emotion, sentiment analysis, pytorch, python", URL: "https://x/5"},
	}

	buckets := Categorize(opps, NewScorer(nil), models.DefaultProfile())

	require.Len(t, buckets.EmotionAI, 2)
	assert.Equal(t, "Emotion AI Intern", buckets.EmotionAI[0].Title)
	assert.Equal(t, remoteResearchIntern.Title, buckets.EmotionAI[1].Title)
	assert.GreaterOrEqual(t, buckets.EmotionAI[0].Score, buckets.EmotionAI[1].Score)

	require.Len(t, buckets.GeneralAI, 1)
	general := buckets.GeneralAI[0]
	assert.Equal(t, 10, general.Score)
	assert.Equal(t, models.CategoryGeneralAI, general.Category)
	require.NotNil(t, general.Analysis)
	assert.Equal(t, RecommendConsider, general.Analysis.Recommendation)

	assert.Empty(t, buckets.Research)
	assert.Empty(t, buckets.Adoption)
	assert.Equal(t, 3, buckets.Len())
	assert.Len(t, buckets.All(), 3)

	// input untouched
	assert.Nil(t, opps[3].Analysis)
	assert.Equal(t, 0, opps[3].Score)
}

func TestSortByScore_Stable(t *testing.T) {
	opps := []models.Opportunity{
		{Title: "a", Score: 20},
		{Title: "b", Score: 50},
		{Title: "c", Score: 20},
	}
	SortByScore(opps)
	assert.Equal(t, []string{"b", "a", "c"}, []string{opps[0].Title, opps[1].Title, opps[2].Title})
}
