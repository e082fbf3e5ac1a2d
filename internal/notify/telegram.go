package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends digests and alerts to the maintenance crew chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a Telegram notifier. An empty token yields an
// unconfigured notifier; callers check IsConfigured before sending.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return &Telegram{chatID: chatID}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)
	return &Telegram{api: api, chatID: chatID}, nil
}

// IsConfigured returns true if the notifier can actually send
func (t *Telegram) IsConfigured() bool {
	return t.api != nil && t.chatID != 0
}

// SendMessage sends an HTML-formatted message to the crew chat
func (t *Telegram) SendMessage(text string) error {
	if !t.IsConfigured() {
		return fmt.Errorf("telegram not configured")
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	_, err := t.api.Send(msg)
	return err
}
