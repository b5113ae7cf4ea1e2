package models

import "time"

// Campaign is a promotional slide shown on signage between content rotations.
type Campaign struct {
	CampaignID int        `json:"campaign_id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	ImageURL   string     `json:"image_url"`
	StartDate  *time.Time `json:"start_date"` // date only
	EndDate    *time.Time `json:"end_date"`   // date only
	Weight     int        `json:"weight"`     // higher shows more often
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
