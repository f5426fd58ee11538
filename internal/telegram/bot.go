package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxPerRun caps how many cards one notification batch sends.
const MaxPerRun = 10

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot posts opportunity cards to one chat.
type Bot struct {
	api    sender
	chatID int64
	pause  time.Duration
	max    int
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return newBot(api, chatID), nil
}

func newBot(api sender, chatID int64) *Bot {
	return &Bot{
		api:    api,
		chatID: chatID,
		pause:  time.Second,
		max:    MaxPerRun,
	}
}

var markdownReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// inside (...) of an inline link only ) and \ need escaping
var linkReplacer = strings.NewReplacer("\\", "\\\\", ")", "\\)")

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// FormatOpportunity renders one MarkdownV2 card.
func FormatOpportunity(opp models.Opportunity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💼 *%s*\n", escapeMarkdown(orNA(opp.Title)))
	fmt.Fprintf(&b, "🏢 %s\n", escapeMarkdown(orNA(opp.Company)))
	fmt.Fprintf(&b, "📍 %s\n", escapeMarkdown(orNA(opp.Location)))
	fmt.Fprintf(&b, "🤖 Match Score: %d/100\n", opp.Score)
	fmt.Fprintf(&b, "🏷 %s\n", escapeMarkdown(filter.CategoryLabel(opp.Category)))
	if opp.Analysis != nil {
		if opp.Analysis.TypeLabel != "" {
			fmt.Fprintf(&b, "🎯 %s\n", escapeMarkdown(opp.Analysis.TypeLabel))
		}
		fmt.Fprintf(&b, "⭐ %s\n", escapeMarkdown(opp.Analysis.Recommendation))
	}
	if opp.PostedAt != "" {
		fmt.Fprintf(&b, "📅 %s\n", escapeMarkdown(opp.PostedAt))
	}
	fmt.Fprintf(&b, "🔖 Source: %s\n", escapeMarkdown(orNA(opp.Source)))
	if opp.URL != "" {
		fmt.Fprintf(&b, "🔗 [View Opportunity](%s)\n", linkReplacer.Replace(opp.URL))
	}
	return b.String()
}

func (b *Bot) SendOpportunity(opp models.Opportunity) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatOpportunity(opp))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	if opp.URL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 View", opp.URL),
			),
		)
	}
	_, err := b.api.Send(msg)
	return err
}

// NotifyOpportunities sends up to MaxPerRun cards, best first, then a status
// line. Individual send failures are logged and do not stop the batch.
func (b *Bot) NotifyOpportunities(ctx context.Context, opps []models.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}
	batch := opps
	if len(batch) > b.max {
		batch = batch[:b.max]
	}

	sent := 0
	for i, opp := range batch {
		if i > 0 && b.pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.pause):
			}
		}
		log.Printf("  [%d/100] %s @ %s", opp.Score, opp.Title, opp.Company)
		if err := b.SendOpportunity(opp); err != nil {
			log.Printf("⚠️ Failed to send opportunity to Telegram: %v", err)
			continue
		}
		sent++
	}

	return b.SendStatus(fmt.Sprintf("Found %d new opportunities, sent %d.", len(opps), sent))
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}
