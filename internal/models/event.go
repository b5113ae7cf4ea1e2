package models

import "time"

type Event struct {
	EventID        int         `json:"event_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Location       string      `json:"location"`
	StartTime      *time.Time  `json:"start_time"` // First occurrence (anchor for RRULE calculation)
	EndTime        *time.Time  `json:"end_time"`
	RecurrenceRule string      `json:"recurrence_rule"` // RFC 5545 RRULE
	ExceptionDates []time.Time `json:"exception_dates"` // Calendar dates the series skips
	AllDay         bool        `json:"all_day"`
	Active         bool        `json:"active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsRecurring returns true if this event has a recurrence rule
func (e *Event) IsRecurring() bool {
	return e.RecurrenceRule != ""
}

// EffectiveEnd returns the end time, falling back to the start time when no
// explicit end is set. Nil when the event has no start either.
func (e *Event) EffectiveEnd() *time.Time {
	if e.EndTime != nil {
		return e.EndTime
	}
	return e.StartTime
}
