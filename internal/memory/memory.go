// Package memory learns from approve/refuse decisions and predicts how
// likely a new opportunity is to be approved.
package memory

import (
	"context"
	"time"

	"go-jobhunter/internal/models"
)

// maxKeywords caps the keywords kept per decision.
const maxKeywords = 15

// Memory is the capability the pipeline and dashboard depend on.
type Memory interface {
	RecordDecision(ctx context.Context, opp models.Opportunity, decision models.Decision) error
	Stats(ctx context.Context) (Stats, error)
	PredictApproval(ctx context.Context, opp models.Opportunity) (float64, error)
}

// DecisionRecord is one persisted decision.
type DecisionRecord struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Fingerprint string          `json:"fingerprint"`
	Company     string          `json:"company"`
	Title       string          `json:"title"`
	Source      string          `json:"source"`
	Decision    models.Decision `json:"decision"`
	Category    string          `json:"category"`
	Remote      bool            `json:"remote"`
	Keywords    []string        `json:"keywords"`
}

// DecisionLog is an append-only decision history.
type DecisionLog interface {
	Append(ctx context.Context, rec DecisionRecord) error
	List(ctx context.Context) ([]DecisionRecord, error)
	Close() error
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type CategoryStat struct {
	Category string  `json:"category"`
	Ratio    float64 `json:"ratio"`
	Approved int     `json:"approved"`
	Refused  int     `json:"refused"`
}

type SourceStat struct {
	Source      string  `json:"source"`
	Approved    int     `json:"approved"`
	Total       int     `json:"total"`
	SuccessRate float64 `json:"success_rate"`
}

type Stats struct {
	TotalInteractions int            `json:"total_interactions"`
	Approved          int            `json:"approved"`
	Refused           int            `json:"refused"`
	TopKeywords       []KeywordCount `json:"top_keywords"`
	AvoidedKeywords   []KeywordCount `json:"avoided_keywords"`
	ApprovedCompanies []string       `json:"approved_companies"`
	RemotePreference  float64        `json:"remote_preference_score"`
	TopCategories     []CategoryStat `json:"top_categories"`
	BestSources       []SourceStat   `json:"best_sources"`
}
