// Package schedule decides when a piece of content is next relevant and how a
// mixed list of events, specials, and announcements should be ordered for
// display. All functions take the current time and timezone explicitly; nothing
// here reads the system clock.
package schedule

import (
	"time"

	"github.com/copperkettle/backhouse/internal/models"
)

// Kind tags the concrete type carried by an Item.
type Kind int

const (
	KindEvent Kind = iota
	KindSpecial
	KindAnnouncement
)

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindSpecial:
		return "special"
	case KindAnnouncement:
		return "announcement"
	}
	return "unknown"
}

// Item is one entry in a mixed content list. Exactly one field is set.
type Item struct {
	Event        *models.Event
	Special      *models.Special
	Announcement *models.Announcement
}

func EventItem(e *models.Event) Item              { return Item{Event: e} }
func SpecialItem(s *models.Special) Item          { return Item{Special: s} }
func AnnouncementItem(a *models.Announcement) Item { return Item{Announcement: a} }

func (it Item) Kind() Kind {
	switch {
	case it.Special != nil:
		return KindSpecial
	case it.Announcement != nil:
		return KindAnnouncement
	}
	return KindEvent
}

func (it Item) Title() string {
	switch {
	case it.Event != nil:
		return it.Event.Title
	case it.Special != nil:
		return it.Special.Title
	case it.Announcement != nil:
		return it.Announcement.Title
	}
	return ""
}

// DefaultLocation returns the venue timezone. Falls back to UTC if tzdata is
// unavailable.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		return time.UTC
	}
	return loc
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// endOfDay returns the last instant of t's calendar day in loc.
func endOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc)
}

// dateIn reinterprets a stored date-only value (UTC midnight from the
// database) as midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
