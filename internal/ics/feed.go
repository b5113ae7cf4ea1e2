// Package ics renders upcoming event occurrences as an iCalendar feed.
package ics

import (
	"fmt"
	"log"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/copperkettle/backhouse/internal/models"
	apprrule "github.com/copperkettle/backhouse/internal/rrule"
)

const (
	// defaultWindow is how far ahead the feed looks.
	defaultWindow = 90 * 24 * time.Hour

	// maxOccurrencesPerEvent caps expansion of a single recurring series so
	// a dense rule cannot balloon the feed.
	maxOccurrencesPerEvent = 100
)

type Feed struct {
	loc    *time.Location
	window time.Duration
}

func NewFeed(loc *time.Location) *Feed {
	return &Feed{loc: loc, window: defaultWindow}
}

// Build serializes all occurrences of the given events between now and the
// end of the feed window. Events with unparsable rules are skipped, not
// fatal.
func (f *Feed) Build(events []*models.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)

	rangeEnd := now.Add(f.window)

	for _, e := range events {
		if !e.Active || e.StartTime == nil {
			continue
		}
		if !e.IsRecurring() {
			f.addOccurrence(cal, e, *e.StartTime)
			continue
		}
		for _, occ := range f.expand(e, now, rangeEnd) {
			f.addOccurrence(cal, e, occ)
		}
	}

	return cal.Serialize()
}

// expand returns the occurrences of a recurring event inside the window,
// with exception dates removed.
func (f *Feed) expand(e *models.Event, rangeStart, rangeEnd time.Time) []time.Time {
	rule, err := apprrule.ParseRule(e.RecurrenceRule, *e.StartTime, f.loc)
	if err != nil {
		log.Printf("calendar feed: skipping event %d, bad rule: %v", e.EventID, err)
		return nil
	}

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range e.ExceptionDates {
		// Exceptions are date-only; align them with the occurrence clock
		// so the set can match them.
		set.ExDate(time.Date(ex.Year(), ex.Month(), ex.Day(),
			rule.OrigOptions.Dtstart.Hour(), rule.OrigOptions.Dtstart.Minute(),
			rule.OrigOptions.Dtstart.Second(), 0, f.loc))
	}

	occurrences := set.Between(rangeStart.In(f.loc), rangeEnd.In(f.loc), true)
	if len(occurrences) > maxOccurrencesPerEvent {
		occurrences = occurrences[:maxOccurrencesPerEvent]
	}
	return occurrences
}

func (f *Feed) addOccurrence(cal *ical.Calendar, e *models.Event, start time.Time) {
	uid := fmt.Sprintf("event-%d-%d@backhouse", e.EventID, start.Unix())
	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(e.UpdatedAt)
	ev.SetSummary(e.Title)
	if e.Description != "" {
		ev.SetDescription(e.Description)
	}
	if e.Location != "" {
		ev.SetLocation(e.Location)
	}

	if e.AllDay {
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, f.loc)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		return
	}

	ev.SetStartAt(start)
	end := start.Add(f.duration(e))
	ev.SetEndAt(end)
}

// duration returns the event's per-occurrence length, defaulting to an hour.
func (f *Feed) duration(e *models.Event) time.Duration {
	if e.StartTime != nil && e.EndTime != nil && e.EndTime.After(*e.StartTime) {
		return e.EndTime.Sub(*e.StartTime)
	}
	return time.Hour
}
