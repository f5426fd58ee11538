package filter

import (
	"strings"

	"go-jobhunter/internal/models"
)

// Scorer scores opportunities against a Preferences registry. Swapping the
// registry changes scoring without touching this code.
type Scorer struct {
	prefs *Preferences
}

func NewScorer(prefs *Preferences) *Scorer {
	return &Scorer{prefs: prefs.WithDefaults()}
}

func (s *Scorer) Preferences() *Preferences {
	return s.prefs
}

// Score returns the normalized 0-100 score and the breakdown behind it.
// A blocked opportunity always scores 0 and stays uncategorized.
func (s *Scorer) Score(opp models.Opportunity) (int, models.Breakdown) {
	p := s.prefs
	breakdown := models.Breakdown{
		EmotionKeywords:   []string{},
		ResearchKeywords:  []string{},
		AdoptionKeywords:  []string{},
		RoleKeywords:      []string{},
		TechnicalKeywords: []string{},
		Category:          models.CategoryUncategorized,
	}

	if block := CheckBlockers(opp, p); block.Blocked {
		breakdown.Blocked = true
		breakdown.BlockReason = block.Reason
		return 0, breakdown
	}

	location := strings.ToLower(opp.Location)
	text := strings.ToLower(opp.Title + " " + opp.Company + " " + opp.Location + " " + opp.Description)

	raw := 0

	breakdown.EmotionKeywords = matchKeywords(text, p.EmotionKeywords)
	raw += len(breakdown.EmotionKeywords) * p.Weights.EmotionKeywordMatch

	breakdown.ResearchKeywords = matchKeywords(text, p.ResearchKeywords)
	raw += len(breakdown.ResearchKeywords) * p.Weights.ResearchBonus

	breakdown.AdoptionKeywords = matchKeywords(text, p.AdoptionKeywords)
	raw += len(breakdown.AdoptionKeywords) * p.Weights.AdoptionBonus

	breakdown.RoleKeywords = matchKeywords(text, p.RoleKeywords)
	raw += len(breakdown.RoleKeywords) * p.Weights.RoleKeywordMatch

	breakdown.TechnicalKeywords = matchKeywords(text, p.TechnicalKeywords)
	raw += len(breakdown.TechnicalKeywords) * p.Weights.TechnicalKeywordMatch

	for _, term := range p.RemoteTerms {
		t := strings.ToLower(term)
		if t != "" && (strings.Contains(location, t) || strings.Contains(text, t)) {
			breakdown.RemoteAvailable = true
			raw += p.Weights.RemoteAvailable
			break
		}
	}

	if _, ok := firstMatch(location, p.AllowedLocations); ok {
		breakdown.LocationMatch = true
		raw += p.Weights.LocationMatch
	}

	breakdown.Category = categoryOf(breakdown)

	return normalize(raw, p.ScoreDivisor), breakdown
}

// categoryOf applies the fixed priority: emotion, research, adoption, general.
func categoryOf(b models.Breakdown) models.Category {
	switch {
	case len(b.EmotionKeywords) > 0:
		return models.CategoryEmotionAI
	case len(b.ResearchKeywords) > 0:
		return models.CategoryResearch
	case len(b.AdoptionKeywords) > 0:
		return models.CategoryAdoption
	default:
		return models.CategoryGeneralAI
	}
}

// normalize scales with float division then truncates, so raw 87 over 150
// gives 57, not the 58 of pure integer arithmetic.
func normalize(raw, divisor int) int {
	if raw <= 0 {
		return 0
	}
	score := int(float64(raw) / float64(divisor) * 100)
	if score > 100 {
		return 100
	}
	return score
}
