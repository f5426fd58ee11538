package telegram

import (
	"context"
	"errors"
	"testing"

	"go-jobhunter/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent   []tgbotapi.MessageConfig
	failOn int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	f.sent = append(f.sent, msg)
	if f.failOn > 0 && len(f.sent) == f.failOn {
		return tgbotapi.Message{}, errors.New("429 too many requests")
	}
	return tgbotapi.Message{}, nil
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `AI\-Lab \(R&D\)\! v1\.0 a\_b \\`, escapeMarkdown(`AI-Lab (R&D)! v1.0 a_b \`))
}

func TestFormatOpportunity(t *testing.T) {
	opp := models.Opportunity{
		Title:    "Emotion AI Intern",
		Company:  "Hume.ai",
		URL:      "https://example.com/jobs/(42)",
		Score:    44,
		Category: models.CategoryEmotionAI,
		Source:   "LinkedIn",
		Analysis: &models.Analysis{Recommendation: "🟡 GOOD MATCH - Worth applying"},
	}

	text := FormatOpportunity(opp)
	assert.Contains(t, text, "💼 *Emotion AI Intern*\n")
	assert.Contains(t, text, "🏢 Hume\\.ai\n")
	assert.Contains(t, text, "📍 N/A\n")
	assert.Contains(t, text, "🤖 Match Score: 44/100\n")
	assert.Contains(t, text, "💎 Emotion AI Company")
	assert.Contains(t, text, "GOOD MATCH \\- Worth applying")
	assert.Contains(t, text, "[View Opportunity](https://example.com/jobs/(42\\))")
}

func TestNotifyOpportunities(t *testing.T) {
	fake := &fakeSender{failOn: 2}
	bot := newBot(fake, 42)
	bot.pause = 0
	bot.max = 2

	opps := []models.Opportunity{
		{Title: "A", URL: "https://a", Score: 50},
		{Title: "B", URL: "https://b", Score: 40},
		{Title: "C", URL: "https://c", Score: 30},
	}
	require.NoError(t, bot.NotifyOpportunities(context.Background(), opps))

	require.Len(t, fake.sent, 3)
	assert.Equal(t, int64(42), fake.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, fake.sent[0].ParseMode)
	assert.NotNil(t, fake.sent[0].ReplyMarkup)
	assert.Equal(t, "ℹ️ Found 3 new opportunities, sent 1.", fake.sent[2].Text)
}

func TestNotifyOpportunities_Empty(t *testing.T) {
	fake := &fakeSender{}
	require.NoError(t, newBot(fake, 1).NotifyOpportunities(context.Background(), nil))
	assert.Empty(t, fake.sent)
}
