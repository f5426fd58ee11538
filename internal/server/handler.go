// Package server exposes the review dashboard as a JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-jobhunter/internal/ai"
	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/memory"
	"go-jobhunter/internal/models"
	"go-jobhunter/internal/outreach"
	"go-jobhunter/internal/pipeline"
	"go-jobhunter/internal/store"
)

// QuickRunner re-scores the found store without scraping.
type QuickRunner interface {
	RunQuick(ctx context.Context) (pipeline.Report, error)
}

// SchedulerStatus is reported by /health when a scheduler is attached.
type SchedulerStatus interface {
	Running() bool
	LastRun() (time.Time, error)
}

type Deps struct {
	Store     *store.Store
	Review    *store.Review
	Scorer    *filter.Scorer
	Profile   models.Profile
	Assistant *ai.Assistant
	Memory    memory.Memory
	Runner    QuickRunner
	Scheduler SchedulerStatus
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	if d.Review == nil {
		d.Review = store.NewReview(d.Store)
	}
	if d.Scorer == nil {
		d.Scorer = filter.NewScorer(nil)
	}
	if d.Assistant == nil {
		d.Assistant = ai.NewAssistant(nil)
	}
	return &Handler{Deps: d}
}

// NewRouter registers every dashboard route on a fresh engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	h.Register(r)
	return r
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/opportunities", h.ListOpportunities)
	r.POST("/opportunities/:fingerprint/approve", h.Approve)
	r.POST("/opportunities/:fingerprint/refuse", h.Refuse)
	r.GET("/opportunities/:fingerprint/research", h.Research)
	r.POST("/opportunities/:fingerprint/sent", h.MarkSent)
	r.POST("/email/enhance", h.EnhanceEmail)
	r.GET("/approved", h.ListApproved)
	r.GET("/stats", h.Stats)
	r.GET("/memory/stats", h.MemoryStats)
	r.POST("/cleanup", h.Cleanup)
	r.POST("/clear", h.Clear)
	r.POST("/pipeline/quick", h.RunQuick)
}

func (h *Handler) Health(c *gin.Context) {
	res := gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"ai":     h.Assistant.Enabled(),
	}
	if h.Scheduler != nil {
		last, err := h.Scheduler.LastRun()
		sched := gin.H{"running": h.Scheduler.Running()}
		if !last.IsZero() {
			sched["last_run"] = last.UTC().Format(time.RFC3339)
		}
		if err != nil {
			sched["last_error"] = err.Error()
		}
		res["scheduler"] = sched
	}
	c.JSON(http.StatusOK, res)
}

type Counts struct {
	EmotionAI int `json:"emotion_ai"`
	Research  int `json:"research"`
	Adoption  int `json:"adoption"`
	GeneralAI int `json:"general_ai"`
	Total     int `json:"total"`
}

type OpportunitiesResponse struct {
	Buckets filter.Buckets `json:"buckets"`
	Counts  Counts         `json:"counts"`
	Stats   store.Stats    `json:"stats"`
}

func (h *Handler) ListOpportunities(c *gin.Context) {
	if _, err := h.Store.DropRefused(); err != nil {
		slog.Error("error dropping refused opportunities", "error", err)
	}

	buckets := h.categorize(h.Store.LoadFound())
	h.annotate(c.Request.Context(), &buckets)

	c.JSON(http.StatusOK, OpportunitiesResponse{
		Buckets: buckets,
		Counts: Counts{
			EmotionAI: len(buckets.EmotionAI),
			Research:  len(buckets.Research),
			Adoption:  len(buckets.Adoption),
			GeneralAI: len(buckets.GeneralAI),
			Total:     buckets.Len(),
		},
		Stats: h.Store.Stats(),
	})
}

// categorize re-scores found records with the regular scorer. Programs kept
// earlier by the adoption matcher stay in the adoption bucket with their
// stored annotation.
func (h *Handler) categorize(found []models.Opportunity) filter.Buckets {
	buckets := filter.Categorize(found, h.Scorer, h.Profile)

	kept := make(map[string]bool, buckets.Len())
	for _, opp := range buckets.All() {
		kept[opp.Fingerprint] = true
	}
	added := false
	for _, opp := range found {
		if kept[opp.Fingerprint] || opp.Analysis == nil || opp.Analysis.AdoptionType == "" {
			continue
		}
		buckets.Adoption = append(buckets.Adoption, opp)
		added = true
	}
	if added {
		filter.SortByScore(buckets.Adoption)
	}
	return buckets
}

func (h *Handler) annotate(ctx context.Context, b *filter.Buckets) {
	if h.Memory == nil {
		return
	}
	for _, list := range [][]models.Opportunity{b.EmotionAI, b.Research, b.Adoption, b.GeneralAI} {
		for i := range list {
			if list[i].Analysis == nil {
				continue
			}
			chance, err := h.Memory.PredictApproval(ctx, list[i])
			if err != nil {
				slog.Error("error predicting approval", "error", err)
				return
			}
			a := *list[i].Analysis
			a.ApprovalChance = &chance
			list[i].Analysis = &a
		}
	}
}

type ApproveResponse struct {
	Opportunity models.Opportunity `json:"opportunity"`
	Draft       string             `json:"draft"`
}

func (h *Handler) Approve(c *gin.Context) {
	opp, err := h.Review.Approve(c.Request.Context(), c.Param("fingerprint"))
	if err != nil {
		h.decisionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ApproveResponse{Opportunity: opp, Draft: outreach.Draft(h.Profile, opp)})
}

func (h *Handler) Refuse(c *gin.Context) {
	opp, err := h.Review.Refuse(c.Request.Context(), c.Param("fingerprint"))
	if err != nil {
		h.decisionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunity": opp})
}

func (h *Handler) decisionError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opportunity not found"})
		return
	}
	slog.Error("error recording decision", "fingerprint", c.Param("fingerprint"), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
}

// lookup searches found first, then approved, since research and sent
// happen after approval.
func (h *Handler) lookup(fingerprint string) (models.Opportunity, bool) {
	if opp, err := h.Store.FindFound(fingerprint); err == nil {
		return opp, true
	}
	for _, opp := range h.Store.LoadApproved() {
		if opp.Fingerprint == fingerprint {
			return opp, true
		}
	}
	return models.Opportunity{}, false
}

func (h *Handler) Research(c *gin.Context) {
	opp, ok := h.lookup(c.Param("fingerprint"))
	if !ok {
		c.JSON(http.StatusNotFound, ai.Result{Text: "Opportunity not found"})
		return
	}
	company := opp.Company
	if company == "" {
		company = "Unknown"
	}
	title := opp.Title
	if title == "" {
		title = "Unknown Position"
	}
	c.JSON(http.StatusOK, h.Assistant.ResearchCompany(c.Request.Context(), company, title, opp.URL))
}

type EnhanceRequest struct {
	EmailText string `json:"email_text"`
}

func (h *Handler) EnhanceEmail(c *gin.Context) {
	var req EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EmailText == "" {
		c.JSON(http.StatusBadRequest, ai.Result{Message: "No email text provided"})
		return
	}
	c.JSON(http.StatusOK, h.Assistant.EnhanceEmail(c.Request.Context(), req.EmailText))
}

type SentRequest struct {
	Email string `json:"email"`
}

func (h *Handler) MarkSent(c *gin.Context) {
	var req SentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	opp, ok := h.lookup(c.Param("fingerprint"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opportunity not found"})
		return
	}
	if err := h.Store.AddSent(opp, req.Email); err != nil {
		slog.Error("error saving sent email", "fingerprint", opp.Fingerprint, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (h *Handler) ListApproved(c *gin.Context) {
	approved := h.Store.LoadApproved()
	if approved == nil {
		approved = []models.Opportunity{}
	}
	c.JSON(http.StatusOK, gin.H{"items": approved, "total": len(approved)})
}

func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Stats())
}

func (h *Handler) MemoryStats(c *gin.Context) {
	if h.Memory == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Decision memory disabled"})
		return
	}
	stats, err := h.Memory.Stats(c.Request.Context())
	if err != nil {
		slog.Error("error fetching memory stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Memory error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) Cleanup(c *gin.Context) {
	refused, err := h.Store.DropRefused()
	if err != nil {
		slog.Error("error dropping refused opportunities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	dupes, err := h.Store.DropDuplicates()
	if err != nil {
		slog.Error("error dropping duplicates", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refused_removed": refused, "duplicates_removed": dupes})
}

func (h *Handler) Clear(c *gin.Context) {
	if err := h.Store.ClearFound(); err != nil {
		slog.Error("error clearing found opportunities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handler) RunQuick(c *gin.Context) {
	if h.Runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pipeline not configured"})
		return
	}
	report, err := h.Runner.RunQuick(c.Request.Context())
	if err != nil {
		slog.Error("error running quick pipeline", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pipeline error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kept": report.Kept, "duration_ms": report.Duration.Milliseconds()})
}
