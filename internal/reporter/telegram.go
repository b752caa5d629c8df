package reporter

import (
	"fmt"
	"html"
	"strings"
	"time"

	"go-jobtrack/internal/config"
	"go-jobtrack/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramReporter pushes the due-reminder digest to a configured chat.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

// SendReminderDigest formats one message covering every due reminder, with
// its application context when the reminder is scoped to one.
func (t *TelegramReporter) SendReminderDigest(reminders []models.Reminder, apps map[string]models.JobApplication) error {
	if len(reminders) == 0 {
		return t.SendMessage("✅ No reminders due today.")
	}

	now := time.Now().UTC()
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ <b>%d reminder(s) due</b>\n\n", len(reminders))

	for _, rem := range reminders {
		line := fmt.Sprintf("• <b>%s</b> — %s", html.EscapeString(rem.Title), rem.ReminderDate.Format("Jan 02, 2006"))
		if rem.Overdue(now) {
			line += " ❗overdue"
		}
		b.WriteString(line + "\n")

		if rem.ApplicationID != nil {
			if app, ok := apps[*rem.ApplicationID]; ok {
				fmt.Fprintf(&b, "   🏢 %s — %s\n",
					html.EscapeString(app.CompanyName),
					html.EscapeString(app.PositionTitle))
			}
		}
		if rem.Description != nil && *rem.Description != "" {
			fmt.Fprintf(&b, "   📝 %s\n", html.EscapeString(*rem.Description))
		}
	}

	return t.SendMessage(b.String())
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>JobTrack Error</b>:\n%v", errReq)
	return t.SendMessage(text)
}
