package schedule

import (
	"time"

	"github.com/copperkettle/backhouse/internal/models"
	"github.com/copperkettle/backhouse/internal/rrule"
)

const (
	// occurrenceScanLimit bounds how many recurrence candidates are checked
	// before giving up (all of them excepted, or the rule drifts forever).
	occurrenceScanLimit = 10

	// weekdayScanDays bounds the day-by-day scan for weekday-driven specials.
	weekdayScanDays = 14

	dateLayout = "2006-01-02"
)

// Sentinel is the far-future date returned when an item has no determinable
// next occurrence. It sorts such items to the end of their status tier
// instead of colliding with genuinely past items.
func Sentinel(now time.Time) time.Time {
	return now.AddDate(100, 0, 0)
}

// NextOccurrence returns when the item is next relevant, for sorting purposes
// only. It never fails: unparsable rules and missing dates degrade to the
// far-future sentinel.
func NextOccurrence(it Item, now time.Time, loc *time.Location) time.Time {
	switch {
	case it.Event != nil:
		return nextEventOccurrence(it.Event, now, loc)
	case it.Special != nil:
		return nextSpecialOccurrence(it.Special, now, loc)
	case it.Announcement != nil:
		return nextAnnouncementOccurrence(it.Announcement, now)
	}
	return Sentinel(now)
}

func nextEventOccurrence(e *models.Event, now time.Time, loc *time.Location) time.Time {
	if e.StartTime == nil {
		return Sentinel(now)
	}
	if !e.IsRecurring() {
		return *e.StartTime
	}

	rule, err := rrule.ParseRule(e.RecurrenceRule, *e.StartTime, loc)
	if err != nil {
		return Sentinel(now)
	}

	// Exceptions are date-only, so occurrences are matched against them by
	// calendar-date string in the venue timezone, not by instant.
	skip := make(map[string]bool, len(e.ExceptionDates))
	for _, d := range e.ExceptionDates {
		skip[dateIn(d, loc).Format(dateLayout)] = true
	}

	cursor := now.In(loc)
	for i := 0; i < occurrenceScanLimit; i++ {
		next := rule.After(cursor, false)
		if next.IsZero() {
			break
		}
		if !skip[next.In(loc).Format(dateLayout)] {
			return next
		}
		cursor = next
	}
	return Sentinel(now)
}

func nextSpecialOccurrence(s *models.Special, now time.Time, loc *time.Location) time.Time {
	if s.HasWeekdays() {
		return nextWeekdayOccurrence(s, now, loc)
	}

	if s.StartDate == nil && s.EndDate == nil {
		return Sentinel(now)
	}

	start := s.StartDate
	if start == nil {
		start = s.EndDate
	}
	end := s.EndDate
	if end == nil {
		end = start
	}

	from := startOfDay(dateIn(*start, loc), loc)
	until := endOfDay(dateIn(*end, loc), loc)

	switch {
	case !now.Before(from) && !now.After(until):
		// Currently running; sorts ahead of upcoming items in its tier.
		return now
	case now.Before(from):
		return from
	default:
		return until
	}
}

func nextWeekdayOccurrence(s *models.Special, now time.Time, loc *time.Location) time.Time {
	set := s.WeekdaySet()
	for i := 0; i < weekdayScanDays; i++ {
		day := startOfDay(now.In(loc).AddDate(0, 0, i), loc)
		if !set[day.Weekday().String()] {
			continue
		}
		if s.StartDate != nil && day.Before(startOfDay(dateIn(*s.StartDate, loc), loc)) {
			continue
		}
		if s.EndDate != nil && day.After(endOfDay(dateIn(*s.EndDate, loc), loc)) {
			continue
		}
		return day
	}
	return Sentinel(now)
}

func nextAnnouncementOccurrence(a *models.Announcement, now time.Time) time.Time {
	if a.PublishAt != nil {
		return *a.PublishAt
	}
	// Undated announcements used to sort first; they now share the undated
	// specials behavior and go to the end of the tier.
	return Sentinel(now)
}
