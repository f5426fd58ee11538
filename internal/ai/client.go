package ai

import (
	"context"
	"fmt"
	"strings"
)

// Client is the interface for chat-completion providers.
type Client interface {
	// Complete sends one system and one user message and returns the
	// assistant's reply text.
	Complete(ctx context.Context, system, user string) (string, error)
}

const researchSystemPrompt = `You are a career assistant helping a student write job application emails.
Answer with short sections and clear headers. Be concise and factual.
If you do not have specific information about something, say so clearly instead of guessing.`

const enhanceSystemPrompt = `You are helping someone improve their job application email.
Return ONLY the enhanced email, nothing else. Do not wrap it in quotes or markdown.`

func buildResearchPrompt(company, title, url string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research this company and provide useful information for writing a job application email:\n\nCompany: %s\nPosition: %s\n", company, title)
	if url != "" {
		fmt.Fprintf(&b, "Job URL: %s\n", url)
	}
	b.WriteString(`
Please provide:
1. What does this company do? (1-2 sentences)
2. Their main products or services
3. Recent news or achievements (if known)
4. Company culture or values (if known)
5. Why someone would want to work there`)
	return b.String()
}

func buildEnhancePrompt(email string) string {
	return fmt.Sprintf(`Original email:
%s

Please enhance this email to make it:
1. More professional and polished
2. Clear and concise
3. Confident but not arrogant
4. Natural and human-sounding
5. Free of grammar or spelling errors
6. Faithful to the same core message and structure

Keep it under 300 words and do not add false information.`, email)
}

// cleanReply strips markdown fences some models wrap their answer in.
func cleanReply(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.IndexByte(content, '\n'); nl >= 0 && !strings.Contains(content[:nl], " ") {
			content = content[nl+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}
