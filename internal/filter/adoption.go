package filter

import (
	"fmt"
	"strings"

	"go-jobhunter/internal/models"
)

const (
	AdoptionHackathon   = "hackathon"
	AdoptionAccelerator = "accelerator"
	AdoptionFunding     = "funding"
	AdoptionProgram     = "program"
	AdoptionOpenSource  = "open_source"
	AdoptionInnovation  = "innovation"
)

var adoptionTypeRules = []struct {
	kind  string
	terms []string
}{
	{AdoptionHackathon, []string{"hackathon", "challenge"}},
	{AdoptionAccelerator, []string{"accelerator", "incubator"}},
	{AdoptionFunding, []string{"grant", "funding"}},
	{AdoptionProgram, []string{"summer", "google", "outreachy"}},
	{AdoptionOpenSource, []string{"open source", "github"}},
}

var adoptionTypeDescriptions = map[string]string{
	AdoptionHackathon:   "🏆 Hackathon/Competition - Great for quickly building and showcasing AI prototypes!",
	AdoptionAccelerator: "🚀 Startup Accelerator - Perfect for turning your AI ideas into a real startup with mentorship and funding!",
	AdoptionFunding:     "💰 Funded Research Program - Your ideas can receive grants and resources to develop them further!",
	AdoptionProgram:     "🎓 Structured Program - Established program with comprehensive support for student projects!",
	AdoptionOpenSource:  "🌍 Open Source Community - Contribute your AI ideas to open source and get recognized globally!",
	AdoptionInnovation:  "💡 Innovation Initiative - Companies actively seeking creative AI solutions and student ideas!",
}

var adoptionTypeLabels = map[string]string{
	AdoptionHackathon:   "🏆 Hackathon/Challenge",
	AdoptionAccelerator: "🚀 Accelerator Program",
	AdoptionFunding:     "💰 Funded Program",
	AdoptionProgram:     "🎓 Formal Program",
	AdoptionOpenSource:  "🌍 Open Source",
	AdoptionInnovation:  "💡 Innovation Lab",
}

// AdoptionTypeLabel returns the short display label for an adoption type.
func AdoptionTypeLabel(kind string) string {
	if label, ok := adoptionTypeLabels[kind]; ok {
		return label
	}
	return "💡 Innovation"
}

// ScoreAdoption scores hackathons, accelerators, grants and similar programs.
// Unlike Score it includes the source in the matched text and is not divided
// down: the raw total is capped at 100.
func ScoreAdoption(opp models.Opportunity, prefs *Preferences) (int, models.Breakdown) {
	prefs = prefs.WithDefaults()
	b := models.Breakdown{
		EmotionKeywords:   []string{},
		ResearchKeywords:  []string{},
		AdoptionKeywords:  []string{},
		RoleKeywords:      []string{},
		TechnicalKeywords: []string{},
		CompanyKeywords:   []string{},
		Category:          models.CategoryUncategorized,
	}

	if block := CheckBlockers(opp, prefs); block.Blocked {
		b.Blocked = true
		b.BlockReason = block.Reason
		return 0, b
	}

	location := strings.ToLower(opp.Location)
	text := strings.ToLower(strings.Join([]string{opp.Title, opp.Company, opp.Location, opp.Description, opp.Source}, " "))
	raw := 0

	b.AdoptionKeywords = matchKeywords(text, prefs.AdoptionSpecificKeywords)
	raw += len(b.AdoptionKeywords) * 8

	b.CompanyKeywords = matchKeywords(text, prefs.AdoptionCompanyKeywords)
	raw += len(b.CompanyKeywords) * 5

	if strings.Contains(text, "remote") || strings.Contains(location, "online") || strings.Contains(location, "global") {
		b.RemoteAvailable = true
		raw += 12
	}

	for _, loc := range prefs.AllowedLocations {
		if loc != "" && strings.Contains(location, strings.ToLower(loc)) {
			b.LocationMatch = true
			raw += 8
			break
		}
	}

	raw += len(opp.AdoptionSignals) * 3

	b.AdoptionType = adoptionType(text)

	if containsAny(text, "paid", "stipend", "salary", "award") {
		b.Paid = true
		raw += 10
	}

	b.Category = models.CategoryAdoption
	if raw > 100 {
		raw = 100
	}
	return raw, b
}

func adoptionType(text string) string {
	for _, rule := range adoptionTypeRules {
		if containsAny(text, rule.terms...) {
			return rule.kind
		}
	}
	return AdoptionInnovation
}

// ExplainAdoption renders the adoption rationale; parts are joined with " | ".
func ExplainAdoption(b models.Breakdown, profile models.Profile, maxLen int) string {
	kind := b.AdoptionType
	if kind == "" {
		kind = AdoptionInnovation
	}
	desc, ok := adoptionTypeDescriptions[kind]
	if !ok {
		desc = "💡 Innovation Opportunity"
	}
	parts := []string{desc}

	if len(b.AdoptionKeywords) > 0 {
		parts = append(parts, "Focus areas: "+joinFirst(b.AdoptionKeywords, 3))
	}
	if b.RemoteAvailable {
		parts = append(parts, fmt.Sprintf("🌐 Fully remote - Perfect for working from %s while developing your AI project!", countryOrDefault(profile)))
	}
	if b.Paid {
		parts = append(parts, "This is a paid opportunity with stipend/award!")
	}
	if len(b.CompanyKeywords) > 0 {
		parts = append(parts, fmt.Sprintf("✨ %s is a recognized platform for innovation and idea adoption", titleCase(b.CompanyKeywords[0])))
	}
	parts = append(parts, "Your AI project ideas could be developed, funded, or showcased here!")

	return truncate(strings.Join(parts, " | "), maxLen)
}

func adoptionRecommendation(score, minDisplay int) string {
	switch {
	case score >= 70:
		return RecommendHighly
	case score >= 50:
		return "🟡 Great Opportunity"
	case score >= 30:
		return "🟠 Worth Considering"
	case score >= minDisplay:
		return "⚪ Check It Out"
	default:
		return RecommendLow
	}
}

// AnalyzeAdoption returns nil for blocked opportunities.
func AnalyzeAdoption(opp models.Opportunity, profile models.Profile, prefs *Preferences) (*models.Analysis, models.Breakdown, int) {
	prefs = prefs.WithDefaults()
	score, b := ScoreAdoption(opp, prefs)
	if b.Blocked {
		return nil, b, 0
	}

	chance := float64(score) * 0.7
	if b.AdoptionType == AdoptionHackathon || b.AdoptionType == AdoptionProgram {
		chance += 15
	}
	if b.Paid {
		chance += 10
	}

	label := AdoptionTypeLabel(b.AdoptionType)
	notes := []string{label}
	if b.RemoteAvailable {
		notes = append(notes, "🌐 Remote")
	}
	if b.Paid {
		notes = append(notes, "💰 Paid")
	}
	if b.LocationMatch {
		notes = append(notes, "✅ "+countryOrDefault(profile)+"-friendly")
	}

	return &models.Analysis{
		Score:               score,
		Category:            models.CategoryAdoption,
		CategoryLabel:       CategoryLabel(models.CategoryAdoption),
		Notes:               strings.Join(notes, " | "),
		DetailedExplanation: ExplainAdoption(b, profile, prefs.ExplanationMax),
		SuccessChance:       clampInt(int(chance), 15, 95),
		Recommendation:      adoptionRecommendation(score, prefs.MinDisplayScore),
		AdoptionType:        b.AdoptionType,
		TypeLabel:           label,
	}, b, score
}

// MatchAdoption keeps the non-blocked programs reaching the display score,
// sorted by score descending.
func MatchAdoption(opps []models.Opportunity, profile models.Profile, prefs *Preferences) []models.Opportunity {
	prefs = prefs.WithDefaults()
	var matched []models.Opportunity
	for _, opp := range opps {
		analysis, b, score := AnalyzeAdoption(opp, profile, prefs)
		if analysis == nil || score < prefs.MinDisplayScore {
			continue
		}
		breakdown := b
		opp.Score = score
		opp.Breakdown = &breakdown
		opp.Category = models.CategoryAdoption
		opp.Analysis = analysis
		matched = append(matched, opp)
	}
	SortByScore(matched)
	return matched
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
