package filter

import (
	"sort"

	"go-jobhunter/internal/models"
)

// Buckets holds displayable opportunities grouped by category, each sorted
// by score descending.
type Buckets struct {
	EmotionAI []models.Opportunity `json:"emotion_ai"`
	Research  []models.Opportunity `json:"research"`
	Adoption  []models.Opportunity `json:"adoption"`
	GeneralAI []models.Opportunity `json:"general_ai"`
}

// All returns every bucketed opportunity in bucket order.
func (b Buckets) All() []models.Opportunity {
	out := make([]models.Opportunity, 0, b.Len())
	out = append(out, b.EmotionAI...)
	out = append(out, b.Research...)
	out = append(out, b.Adoption...)
	out = append(out, b.GeneralAI...)
	return out
}

func (b Buckets) Len() int {
	return len(b.EmotionAI) + len(b.Research) + len(b.Adoption) + len(b.GeneralAI)
}

// Categorize scores every opportunity and keeps the ones that are not blocked
// and reach the minimum display score. Kept records are annotated in place
// of the returned copies; the input slice is not modified.
func Categorize(opps []models.Opportunity, scorer *Scorer, profile models.Profile) Buckets {
	prefs := scorer.Preferences()
	var buckets Buckets

	for _, opp := range opps {
		score, breakdown := scorer.Score(opp)
		if breakdown.Blocked || score < prefs.MinDisplayScore {
			continue
		}

		b := breakdown
		analysis := Analyze(opp, score, b, profile, prefs)
		opp.Score = score
		opp.Breakdown = &b
		opp.Category = b.Category
		opp.Analysis = &analysis

		switch b.Category {
		case models.CategoryEmotionAI:
			buckets.EmotionAI = append(buckets.EmotionAI, opp)
		case models.CategoryResearch:
			buckets.Research = append(buckets.Research, opp)
		case models.CategoryAdoption:
			buckets.Adoption = append(buckets.Adoption, opp)
		case models.CategoryGeneralAI:
			buckets.GeneralAI = append(buckets.GeneralAI, opp)
		}
	}

	for _, list := range [][]models.Opportunity{buckets.EmotionAI, buckets.Research, buckets.Adoption, buckets.GeneralAI} {
		SortByScore(list)
	}
	return buckets
}

// SortByScore orders by score descending, keeping input order on ties.
func SortByScore(opps []models.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].Score > opps[j].Score
	})
}
