package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram delivers alert messages, with an optional annotated frame, to a
// Telegram chat. Delivery is best-effort; the caller logs failures.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authenticates the bot. An invalid token fails here so a
// misconfigured deployment is caught at boot.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Send posts the message, followed by the annotated frame when present.
func (t *Telegram) Send(message string, imageJPEG []byte) error {
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, message)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if len(imageJPEG) == 0 {
		return nil
	}

	photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FileBytes{Name: "alert.jpg", Bytes: imageJPEG})
	if _, err := t.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}
