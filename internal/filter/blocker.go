package filter

import (
	"strings"

	"go-jobhunter/internal/models"
)

type BlockKind string

const (
	BlockNone        BlockKind = ""
	BlockCitizenship BlockKind = "citizenship"
	BlockLocation    BlockKind = "location"
	BlockExperience  BlockKind = "experience"
)

// BlockResult is the outcome of CheckBlockers. Phrase is the literal
// blocker entry that matched.
type BlockResult struct {
	Blocked bool
	Kind    BlockKind
	Phrase  string
	Reason  string
}

var blockReasonPrefix = map[BlockKind]string{
	BlockCitizenship: "Citizenship requirement: ",
	BlockLocation:    "Location requirement: ",
	BlockExperience:  "Experience requirement: ",
}

// CheckBlockers runs the citizenship, location and experience lists in that
// order against title, description and location. The first hit wins.
func CheckBlockers(opp models.Opportunity, prefs *Preferences) BlockResult {
	text := strings.ToLower(opp.Title + " " + opp.Description + " " + opp.Location)

	checks := []struct {
		kind BlockKind
		list []string
	}{
		{BlockCitizenship, prefs.CitizenshipBlockers},
		{BlockLocation, prefs.LocationBlockers},
		{BlockExperience, prefs.ExperienceBlockers},
	}
	for _, c := range checks {
		if phrase, ok := firstMatch(text, c.list); ok {
			return BlockResult{
				Blocked: true,
				Kind:    c.kind,
				Phrase:  phrase,
				Reason:  blockReasonPrefix[c.kind] + phrase,
			}
		}
	}
	return BlockResult{}
}

func firstMatch(text string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(k)) {
			return k, true
		}
	}
	return "", false
}

// matchKeywords returns every keyword contained in text (already lower-cased),
// in list order. Plain substring containment: "ai" matches inside "air".
func matchKeywords(text string, keywords []string) []string {
	matches := []string{}
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(k)) {
			matches = append(matches, k)
		}
	}
	return matches
}
