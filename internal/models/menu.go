package models

import "time"

type MenuSection struct {
	SectionID int       `json:"section_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type MenuItem struct {
	ItemID      int       `json:"item_id"`
	SectionID   int       `json:"section_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"` // display text, e.g. "12.50" or "market price"
	Position    int       `json:"position"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
