package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReview_ApproveMovesRecord(t *testing.T) {
	s := newTestStore(t)
	obs := &recordingObserver{}
	r := NewReview(s, obs)

	_, err := s.SaveOpportunity(sampleOpp("AI Intern", "https://jobs/1"))
	require.NoError(t, err)
	_, err = s.SaveOpportunity(sampleOpp("ML Intern", "https://jobs/2"))
	require.NoError(t, err)
	fp := s.LoadFound()[0].Fingerprint

	opp, err := r.Approve(context.Background(), fp)
	require.NoError(t, err)
	assert.Equal(t, "AI Intern", opp.Title)
	require.NotNil(t, opp.ApprovedAt)

	assert.Len(t, s.LoadFound(), 1)
	approved := s.LoadApproved()
	require.Len(t, approved, 1)
	assert.Equal(t, fp, approved[0].Fingerprint)
	assert.Len(t, obs.decisions, 1)
}

func TestReview_RefuseKeepsItOut(t *testing.T) {
	s := newTestStore(t)
	r := NewReview(s)

	_, _ = s.SaveOpportunity(sampleOpp("AI Intern", "https://jobs/1"))
	fp := s.LoadFound()[0].Fingerprint

	_, err := r.Refuse(context.Background(), fp)
	require.NoError(t, err)
	assert.Empty(t, s.LoadFound())
	assert.Len(t, s.LoadRefused(), 1)

	// re-scraped later: saved again, then dropped by the refusal pass
	ok, _ := s.SaveOpportunity(sampleOpp("AI Intern", "https://jobs/1"))
	assert.True(t, ok)
	n, err := s.DropRefused()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, s.LoadFound())
}

func TestReview_NotFound(t *testing.T) {
	r := NewReview(newTestStore(t))
	_, err := r.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Refuse(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
