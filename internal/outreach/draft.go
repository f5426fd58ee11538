package outreach

import (
	"fmt"
	"strings"

	"go-jobhunter/internal/models"
)

// Draft builds the plain-text application email (subject line first) shown
// after an opportunity is approved.
func Draft(profile models.Profile, opp models.Opportunity) string {
	company := strings.TrimSpace(opp.Company)
	if company == "" {
		company = "Hiring"
	}
	title := strings.TrimSpace(opp.Title)
	if title == "" {
		title = "Internship"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s - %s from %s\n\n", title, profile.ExperienceLevel, profile.Country)
	fmt.Fprintf(&b, "Hi %s Team,\n\n", company)
	fmt.Fprintf(&b, "I'm %s, a %s from %s. I came across the %s opportunity at %s and was immediately drawn to your work.\n",
		profile.FullName, strings.ToLower(profile.Education), profile.Country, title, company)

	if focus := focusLine(opp.Breakdown); focus != "" {
		fmt.Fprintf(&b, "\n%s\n", focus)
	}

	fmt.Fprintf(&b, "\nI'm looking for a %s remote position where I can contribute while learning from your team. I work from %s, %s (%s).\n\n",
		strings.ToLower(profile.Availability), profile.City, profile.Country, profile.Timezone)

	if profile.Portfolio != "" {
		fmt.Fprintf(&b, "Portfolio: %s\n", profile.Portfolio)
	}
	if profile.LinkedIn != "" {
		fmt.Fprintf(&b, "LinkedIn: %s\n", profile.LinkedIn)
	}
	fmt.Fprintf(&b, "Email: %s\n\n", profile.Email)

	fmt.Fprintf(&b, "Would you be open to a brief call to discuss how I might contribute to %s's work?\n\n", company)
	fmt.Fprintf(&b, "Best regards,\n%s\n", profile.FullName)
	return b.String()
}

func focusLine(b *models.Breakdown) string {
	if b == nil {
		return ""
	}
	var topics []string
	topics = append(topics, b.EmotionKeywords...)
	topics = append(topics, b.ResearchKeywords...)
	topics = append(topics, b.AdoptionKeywords...)
	if len(topics) == 0 {
		return ""
	}
	if len(topics) > 3 {
		topics = topics[:3]
	}
	return fmt.Sprintf("Your focus on %s matches the work I have been doing in AI.", strings.Join(topics, ", "))
}
