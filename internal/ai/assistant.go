package ai

import (
	"context"
	"log"
	"strings"
)

// Result is what the dashboard shows for a research or rewrite request.
type Result struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Message string `json:"message,omitempty"`
}

// Assistant wraps a Client with the company research and email rewrite
// prompts. A nil client disables both.
type Assistant struct {
	client Client
}

func NewAssistant(client Client) *Assistant {
	return &Assistant{client: client}
}

func (a *Assistant) Enabled() bool {
	return a != nil && a.client != nil
}

func (a *Assistant) ResearchCompany(ctx context.Context, company, title, url string) Result {
	if !a.Enabled() {
		return Result{Text: "⚠️ AI service unavailable. Set GROQ_API_KEY to enable company research."}
	}

	log.Printf("🔍 Researching: %s", company)
	text, err := a.client.Complete(ctx, researchSystemPrompt, buildResearchPrompt(company, title, url))
	if err != nil {
		log.Printf("❌ Research failed for %s: %v", company, err)
		return Result{Text: "⚠️ Could not research company: service unavailable", Message: err.Error()}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Text: "⚠️ Could not research company: empty answer"}
	}
	log.Printf("✅ Research complete for %s", company)
	return Result{Success: true, Text: text}
}

// EnhanceEmail rewrites a draft. On any failure the original text comes back
// unchanged so the user never loses their draft.
func (a *Assistant) EnhanceEmail(ctx context.Context, email string) Result {
	if !a.Enabled() {
		return Result{Text: email, Message: "⚠️ AI service unavailable. Set GROQ_API_KEY to enable email enhancement."}
	}
	if strings.TrimSpace(email) == "" {
		return Result{Text: email, Message: "Email is empty"}
	}

	log.Println("✨ Enhancing email...")
	text, err := a.client.Complete(ctx, enhanceSystemPrompt, buildEnhancePrompt(email))
	if err != nil {
		log.Printf("❌ Email enhancement failed: %v", err)
		return Result{Text: email, Message: "Enhancement failed: " + err.Error()}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Text: email, Message: "Enhancement failed: empty answer"}
	}
	return Result{Success: true, Text: text, Message: "✅ Email enhanced successfully!"}
}
