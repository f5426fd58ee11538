package models

import "time"

type Category string

const (
	CategoryEmotionAI     Category = "emotion_ai"
	CategoryResearch      Category = "research"
	CategoryAdoption      Category = "adoption"
	CategoryGeneralAI     Category = "general_ai"
	CategoryUncategorized Category = "uncategorized"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRefused  Decision = "refused"
)

// Opportunity is a scraped job or program posting as persisted in the stores.
// Every field is optional on decode; missing strings stay empty.
type Opportunity struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	URL             string   `json:"url"`
	Description     string   `json:"description"`
	Source          string   `json:"source"`
	PostedAt        string   `json:"posted_at,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
	ResearchSignals []string `json:"research_signals,omitempty"`
	AdoptionSignals []string `json:"adoption_signals,omitempty"`

	Score       int        `json:"score"`
	Breakdown   *Breakdown `json:"breakdown,omitempty"`
	Category    Category   `json:"category,omitempty"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	Analysis    *Analysis  `json:"analysis,omitempty"`

	FoundAt    *time.Time `json:"found_at,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	RefusedAt  *time.Time `json:"refused_at,omitempty"`
}

// Breakdown records every matched keyword list so explanations and the
// decision memory can be derived from it later.
type Breakdown struct {
	EmotionKeywords   []string `json:"emotion_keywords"`
	ResearchKeywords  []string `json:"research_keywords"`
	AdoptionKeywords  []string `json:"adoption_keywords"`
	RoleKeywords      []string `json:"role_keywords"`
	TechnicalKeywords []string `json:"technical_keywords"`
	LocationMatch     bool     `json:"location_match"`
	RemoteAvailable   bool     `json:"remote_available"`
	Blocked           bool     `json:"blocked"`
	BlockReason       string   `json:"block_reason,omitempty"`
	Category          Category `json:"category"`

	// adoption scoring only
	CompanyKeywords []string `json:"company_keywords,omitempty"`
	AdoptionType    string   `json:"adoption_type,omitempty"`
	Paid            bool     `json:"paid,omitempty"`
}

type Analysis struct {
	Score               int      `json:"score"`
	Category            Category `json:"category"`
	CategoryLabel       string   `json:"category_label"`
	Notes               string   `json:"notes"`
	DetailedExplanation string   `json:"detailed_explanation"`
	SuccessChance       int      `json:"success_chance"`
	Recommendation      string   `json:"recommendation"`
	AdoptionType        string   `json:"adoption_type,omitempty"`
	TypeLabel           string   `json:"type_label,omitempty"`
	ApprovalChance      *float64 `json:"approval_chance,omitempty"`
}

// SentEmail is one entry of the sent store.
type SentEmail struct {
	Job    Opportunity `json:"job"`
	Email  string      `json:"email"`
	SentAt time.Time   `json:"sent_at"`
}

// Keywords returns the breakdown keywords used for preference learning:
// emotion, then technical, then adoption.
func (b *Breakdown) Keywords() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.EmotionKeywords)+len(b.TechnicalKeywords)+len(b.AdoptionKeywords))
	out = append(out, b.EmotionKeywords...)
	out = append(out, b.TechnicalKeywords...)
	out = append(out, b.AdoptionKeywords...)
	return out
}
