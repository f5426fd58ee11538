package filter

import (
	"fmt"
	"strings"

	"go-jobhunter/internal/models"
)

const (
	RecommendHighly   = "🟢 Highly Recommended"
	RecommendGood     = "🟡 Good Match"
	RecommendDecent   = "🟠 Decent Match"
	RecommendConsider = "⚪ Consider"
	RecommendLow      = "Low Match"
)

var categoryLabels = map[models.Category]string{
	models.CategoryEmotionAI: "💎 Emotion AI Company",
	models.CategoryResearch:  "🔬 Research Position",
	models.CategoryAdoption:  "💡 Innovation/Adoption",
	models.CategoryGeneralAI: "🤖 General AI Role",
}

func CategoryLabel(c models.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "General Position"
}

// Recommendation maps a score to its tier. Anything under minDisplay is
// "Low Match" and never shown.
func Recommendation(score, minDisplay int) string {
	switch {
	case score >= 70:
		return RecommendHighly
	case score >= 50:
		return RecommendGood
	case score >= 30:
		return RecommendDecent
	case score >= minDisplay:
		return RecommendConsider
	default:
		return RecommendLow
	}
}

// Explain builds the human readable rationale for a scored opportunity,
// truncated to maxLen runes with a trailing ellipsis.
func Explain(opp models.Opportunity, b models.Breakdown, profile models.Profile, maxLen int) string {
	var parts []string

	switch b.Category {
	case models.CategoryEmotionAI:
		if len(b.EmotionKeywords) > 0 {
			parts = append(parts, fmt.Sprintf("✨ This is a true Emotion AI company opportunity with keywords: %s.", joinFirst(b.EmotionKeywords, 4)))
		}
		parts = append(parts, "Perfect match for your focus on affective computing and emotion recognition!")
	case models.CategoryResearch:
		if len(b.ResearchKeywords) > 0 {
			parts = append(parts, fmt.Sprintf("🔬 Research-focused position with emphasis on: %s.", joinFirst(b.ResearchKeywords, 3)))
		}
		parts = append(parts, "Excellent opportunity to publish and contribute to academic knowledge in AI.")
	case models.CategoryAdoption:
		if len(b.AdoptionKeywords) > 0 {
			parts = append(parts, fmt.Sprintf("💡 Innovation program open to student projects and ideas: %s.", joinFirst(b.AdoptionKeywords, 3)))
		}
		parts = append(parts, "Your ideas could be developed into real products or services!")
	}

	if b.RemoteAvailable {
		parts = append(parts, fmt.Sprintf("✅ Fully remote - you can work from %s without any issues.", countryOrDefault(profile)))
	}
	if b.LocationMatch {
		parts = append(parts, "✅ Location is compatible with your region (EMEA/Europe friendly).")
	}
	for _, r := range opp.Requirements {
		if r == "Paid internship" {
			parts = append(parts, "💰 This is a paid opportunity.")
			break
		}
	}
	if len(b.TechnicalKeywords) > 0 {
		parts = append(parts, fmt.Sprintf("🛠️ Uses technologies you're familiar with: %s.", joinFirst(b.TechnicalKeywords, 2)))
	}

	return truncate(strings.Join(parts, " "), maxLen)
}

// SuccessChance is a rough estimate shown next to the score, clamped to [10, 95].
func SuccessChance(opp models.Opportunity, score int) int {
	chance := float64(score) * 0.6
	title := strings.ToLower(opp.Title)

	if strings.Contains(title, "emotion") || strings.Contains(title, "affective") {
		chance += 15
	}
	if strings.Contains(title, "senior") || strings.Contains(title, "lead") {
		chance -= 20
	}
	if strings.Contains(title, "research") {
		chance += 10
	}
	return clampInt(int(chance), 10, 95)
}

// Analyze bundles score, labels, explanation and recommendation for display.
func Analyze(opp models.Opportunity, score int, b models.Breakdown, profile models.Profile, prefs *Preferences) models.Analysis {
	notes := []string{CategoryLabel(b.Category)}
	if b.RemoteAvailable {
		notes = append(notes, "✅ Remote")
	}
	if b.LocationMatch {
		notes = append(notes, "✅ EMEA/"+countryOrDefault(profile)+" friendly")
	}

	return models.Analysis{
		Score:               score,
		Category:            b.Category,
		CategoryLabel:       CategoryLabel(b.Category),
		Notes:               strings.Join(notes, " | "),
		DetailedExplanation: Explain(opp, b, profile, prefs.ExplanationMax),
		SuccessChance:       SuccessChance(opp, score),
		Recommendation:      Recommendation(score, prefs.MinDisplayScore),
	}
}

func joinFirst(list []string, n int) string {
	if len(list) > n {
		list = list[:n]
	}
	return strings.Join(list, ", ")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func countryOrDefault(p models.Profile) string {
	if p.Country == "" {
		return "Tunisia"
	}
	return p.Country
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
