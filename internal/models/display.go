package models

import (
	"time"

	"github.com/google/uuid"
)

// Display is a registered signage TV. Token is the opaque credential the
// device uses to fetch its payload.
type Display struct {
	DisplayID         int        `json:"display_id"`
	Name              string     `json:"name"`
	Token             uuid.UUID  `json:"token"`
	RotationSeconds   int        `json:"rotation_seconds"`
	ShowSpecials      bool       `json:"show_specials"`
	ShowEvents        bool       `json:"show_events"`
	ShowAnnouncements bool       `json:"show_announcements"`
	ShowCampaigns     bool       `json:"show_campaigns"`
	LastSeenAt        *time.Time `json:"last_seen_at"`
	CreatedAt         time.Time  `json:"created_at"`
}
