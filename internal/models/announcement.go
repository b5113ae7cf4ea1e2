package models

import "time"

type Announcement struct {
	AnnouncementID     int        `json:"announcement_id"`
	Title              string     `json:"title"`
	Body               string     `json:"body"`
	PublishAt          *time.Time `json:"publish_at"`
	ExpiresAt          *time.Time `json:"expires_at"`
	Published          bool       `json:"published"`
	CrosspostMessageID *int       `json:"crosspost_message_id"` // Channel message ID once cross-posted
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsExpired returns true if the announcement has an expiry in the past.
func (a *Announcement) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}
