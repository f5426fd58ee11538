package memory

import (
	"context"
	"log"

	"go-jobhunter/internal/models"
)

type ImportResult struct {
	Approved int `json:"approved"`
	Refused  int `json:"refused"`
	Failed   int `json:"failed"`
}

// ImportHistory replays existing approved and then refused records into m.
// A failing record is logged and counted, never fatal.
func ImportHistory(ctx context.Context, m Memory, approved, refused []models.Opportunity) ImportResult {
	var res ImportResult

	log.Printf("📥 Importing %d approved opportunities...", len(approved))
	for _, opp := range approved {
		if err := m.RecordDecision(ctx, opp, models.DecisionApproved); err != nil {
			log.Printf("   ⚠️ Failed: %v", err)
			res.Failed++
			continue
		}
		res.Approved++
	}

	log.Printf("📥 Importing %d refused opportunities...", len(refused))
	for _, opp := range refused {
		if err := m.RecordDecision(ctx, opp, models.DecisionRefused); err != nil {
			log.Printf("   ⚠️ Failed: %v", err)
			res.Failed++
			continue
		}
		res.Refused++
	}

	log.Printf("✅ Import complete: %d approved, %d refused, %d failed", res.Approved, res.Refused, res.Failed)
	return res
}
