// Package crosspost mirrors published content to a Telegram channel.
package crosspost

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/copperkettle/backhouse/internal/models"
)

type Poster struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Poster, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram API: %w", err)
	}
	return &Poster{api: api, chatID: chatID}, nil
}

// PostAnnouncement sends the announcement to the channel and returns the
// channel message ID.
func (p *Poster) PostAnnouncement(a *models.Announcement) (int, error) {
	text := "📣 " + a.Title
	if a.Body != "" {
		text += "\n\n" + a.Body
	}

	msg := tgbotapi.NewMessage(p.chatID, text)
	sent, err := p.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send channel post: %w", err)
	}
	return sent.MessageID, nil
}
