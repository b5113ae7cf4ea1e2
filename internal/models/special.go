package models

import (
	"strings"
	"time"
)

// Special types
const (
	SpecialFood  = "food"
	SpecialDrink = "drink"
)

type Special struct {
	SpecialID int        `json:"special_id"`
	Title     string     `json:"title"`
	PriceNote string     `json:"price_note"`
	Type      string     `json:"type"`       // food | drink
	StartDate *time.Time `json:"start_date"` // date only
	EndDate   *time.Time `json:"end_date"`   // date only
	Weekdays  string     `json:"weekdays"`   // comma-separated weekday names, e.g. "Friday,Saturday"
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasWeekdays returns true if this special is driven by a weekday set.
func (s *Special) HasWeekdays() bool {
	return strings.TrimSpace(s.Weekdays) != ""
}

// WeekdaySet returns the weekday names this special applies on. Names are
// normalized to match time.Weekday.String() ("Friday"); empty entries are
// dropped.
func (s *Special) WeekdaySet() map[string]bool {
	set := make(map[string]bool)
	for _, d := range strings.Split(s.Weekdays, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		d = strings.ToLower(d)
		set[strings.ToUpper(d[:1])+d[1:]] = true
	}
	return set
}
