package schedule

import (
	"time"

	"github.com/copperkettle/backhouse/internal/models"
)

// Status is the derived lifecycle tag used as the primary sort key.
type Status string

const (
	StatusActive    Status = "active"
	StatusScheduled Status = "scheduled"
	StatusPast      Status = "past"
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusInactive  Status = "inactive"
)

// Priority maps a status to its sort tier. Lower sorts first.
func (s Status) Priority() int {
	switch s {
	case StatusActive, StatusPublished:
		return 0
	case StatusScheduled:
		return 1
	case StatusPast:
		return 2
	}
	return 3
}

// Classify derives an item's status from its flags and date fields at the
// given instant.
func Classify(it Item, now time.Time, loc *time.Location) Status {
	switch {
	case it.Event != nil:
		return classifyEvent(it.Event, now, loc)
	case it.Special != nil:
		return classifySpecial(it.Special, now, loc)
	case it.Announcement != nil:
		return classifyAnnouncement(it.Announcement, now)
	}
	return StatusInactive
}

func classifyEvent(e *models.Event, now time.Time, loc *time.Location) Status {
	if !e.Active {
		return StatusInactive
	}
	if e.StartTime == nil {
		return StatusDraft
	}

	if e.IsRecurring() {
		// A recurring series stays active as long as the rule still
		// produces occurrences; an exhausted or broken rule means the
		// series is over.
		next := nextEventOccurrence(e, now, loc)
		if next.Equal(Sentinel(now)) {
			return StatusPast
		}
		return StatusActive
	}

	end := *e.EffectiveEnd()
	if e.AllDay {
		end = endOfDay(end, loc)
	}
	switch {
	case end.Before(now):
		return StatusPast
	case e.StartTime.After(now):
		return StatusScheduled
	default:
		return StatusActive
	}
}

func classifySpecial(s *models.Special, now time.Time, loc *time.Location) Status {
	if !s.Active {
		return StatusInactive
	}
	if s.EndDate != nil && endOfDay(dateIn(*s.EndDate, loc), loc).Before(now) {
		return StatusPast
	}
	if s.StartDate != nil && startOfDay(dateIn(*s.StartDate, loc), loc).After(now) {
		return StatusScheduled
	}
	// Weekday-driven and always-on specials are active whenever their
	// bounds (if any) contain now.
	return StatusActive
}

func classifyAnnouncement(a *models.Announcement, now time.Time) Status {
	if !a.Published {
		return StatusDraft
	}
	if a.IsExpired(now) {
		return StatusPast
	}
	if a.PublishAt != nil && a.PublishAt.After(now) {
		return StatusScheduled
	}
	return StatusPublished
}
