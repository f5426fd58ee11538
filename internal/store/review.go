package store

import (
	"context"
	"log"

	"go-jobhunter/internal/models"
)

// Review moves found opportunities into the approved or refused store.
type Review struct {
	store     *Store
	observers []Observer
}

func NewReview(s *Store, observers ...Observer) *Review {
	return &Review{store: s, observers: observers}
}

// Approve copies the record to approved, removes it from found and returns
// the stored copy.
func (r *Review) Approve(ctx context.Context, fingerprint string) (models.Opportunity, error) {
	return r.move(ctx, fingerprint, models.DecisionApproved)
}

func (r *Review) Refuse(ctx context.Context, fingerprint string) (models.Opportunity, error) {
	return r.move(ctx, fingerprint, models.DecisionRefused)
}

func (r *Review) move(ctx context.Context, fingerprint string, decision models.Decision) (models.Opportunity, error) {
	s := r.store
	s.mu.Lock()

	var (
		opp   models.Opportunity
		found bool
	)
	for _, candidate := range s.loadOpps(FoundFile) {
		if candidate.Fingerprint == fingerprint {
			opp, found = candidate, true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return models.Opportunity{}, ErrNotFound
	}

	opp, err := s.appendDecision(opp, decision)
	if err == nil {
		_, err = s.removeFound(fingerprint)
	}
	s.mu.Unlock()
	if err != nil {
		return opp, err
	}

	log.Printf("📝 %s: %s at %s", decision, opp.Title, opp.Company)
	notify(ctx, opp, decision, r.observers)
	return opp, nil
}
