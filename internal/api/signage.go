package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/models"
	"github.com/copperkettle/backhouse/internal/schedule"
)

// upcomingEventLimit caps how many events a TV payload carries.
const upcomingEventLimit = 5

type signageAPI struct {
	displays      DisplayStore
	specials      SpecialStore
	events        EventStore
	announcements AnnouncementStore
	campaigns     CampaignStore
	loc           *time.Location
}

func registerSignageAPI(g *echo.Group, displays DisplayStore, specials SpecialStore, events EventStore, announcements AnnouncementStore, campaigns CampaignStore, loc *time.Location) {
	api := signageAPI{
		displays:      displays,
		specials:      specials,
		events:        events,
		announcements: announcements,
		campaigns:     campaigns,
		loc:           loc,
	}
	g.GET("/signage/:token", api.payload)
}

type signagePayload struct {
	Display         string                 `json:"display"`
	RotationSeconds int                    `json:"rotation_seconds"`
	GeneratedAt     time.Time              `json:"generated_at"`
	Specials        []*models.Special      `json:"specials,omitempty"`
	Events          []upcomingEvent        `json:"events,omitempty"`
	Announcements   []*models.Announcement `json:"announcements,omitempty"`
	Campaigns       []*models.Campaign     `json:"campaigns,omitempty"`
}

type upcomingEvent struct {
	*models.Event
	NextOccurrence time.Time `json:"next_occurrence"`
}

// payload assembles what one TV should be showing right now.
func (api *signageAPI) payload(ctx echo.Context) error {
	token, err := uuid.Parse(ctx.Param("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid token")
	}

	reqCtx := ctx.Request().Context()
	display, err := api.displays.GetByToken(reqCtx, token)
	if err != nil {
		return mapStoreErr(err)
	}

	now := time.Now()
	out := signagePayload{
		Display:         display.Name,
		RotationSeconds: display.RotationSeconds,
		GeneratedAt:     now,
	}

	if display.ShowSpecials {
		specials, err := api.specials.List(reqCtx, "")
		if err != nil {
			return err
		}
		for _, s := range specials {
			if schedule.Classify(schedule.SpecialItem(s), now, api.loc) == schedule.StatusActive {
				out.Specials = append(out.Specials, s)
			}
		}
	}

	if display.ShowEvents {
		events, err := api.events.List(reqCtx)
		if err != nil {
			return err
		}
		out.Events = api.upcoming(events, now)
	}

	if display.ShowAnnouncements {
		announcements, err := api.announcements.Published(reqCtx, now)
		if err != nil {
			return err
		}
		out.Announcements = announcements
	}

	if display.ShowCampaigns {
		today := time.Date(now.In(api.loc).Year(), now.In(api.loc).Month(), now.In(api.loc).Day(), 0, 0, 0, 0, api.loc)
		campaigns, err := api.campaigns.ActiveOn(reqCtx, today)
		if err != nil {
			return err
		}
		out.Campaigns = campaigns
	}

	if err := api.displays.TouchLastSeen(reqCtx, display.DisplayID, now); err != nil {
		// Payload delivery matters more than the bookkeeping.
		ctx.Logger().Warnf("failed to touch display %d: %v", display.DisplayID, err)
	}

	return ctx.JSON(http.StatusOK, out)
}

// upcoming picks the next few active events by resolved occurrence, dropping
// anything with no determinable future date.
func (api *signageAPI) upcoming(events []*models.Event, now time.Time) []upcomingEvent {
	sentinel := schedule.Sentinel(now)

	items := make([]schedule.Item, 0, len(events))
	for _, e := range events {
		if e.Active {
			items = append(items, schedule.EventItem(e))
		}
	}
	schedule.SortItems(items, schedule.OrderDate, now, api.loc)

	var out []upcomingEvent
	for _, it := range items {
		next := schedule.NextOccurrence(it, now, api.loc)
		if next.Before(now) || !next.Before(sentinel) {
			continue
		}
		out = append(out, upcomingEvent{Event: it.Event, NextOccurrence: next})
		if len(out) == upcomingEventLimit {
			break
		}
	}
	return out
}
