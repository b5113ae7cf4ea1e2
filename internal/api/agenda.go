package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/models"
	"github.com/copperkettle/backhouse/internal/schedule"
)

// agendaAPI serves the merged content list the admin dashboard opens on:
// every event, special, and announcement in one ordered feed.
type agendaAPI struct {
	events        EventStore
	specials      SpecialStore
	announcements AnnouncementStore
	loc           *time.Location
}

func registerAgendaAPI(g *echo.Group, events EventStore, specials SpecialStore, announcements AnnouncementStore, loc *time.Location) {
	api := agendaAPI{events: events, specials: specials, announcements: announcements, loc: loc}
	g.GET("/agenda", api.list)
}

type agendaEntry struct {
	Kind           string               `json:"kind"`
	Status         schedule.Status      `json:"status"`
	NextOccurrence time.Time            `json:"next_occurrence"`
	Event          *models.Event        `json:"event,omitempty"`
	Special        *models.Special      `json:"special,omitempty"`
	Announcement   *models.Announcement `json:"announcement,omitempty"`
}

func (api *agendaAPI) list(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	events, err := api.events.List(reqCtx)
	if err != nil {
		return err
	}
	specials, err := api.specials.List(reqCtx, "")
	if err != nil {
		return err
	}
	announcements, err := api.announcements.List(reqCtx)
	if err != nil {
		return err
	}

	items := make([]schedule.Item, 0, len(events)+len(specials)+len(announcements))
	for _, e := range events {
		items = append(items, schedule.EventItem(e))
	}
	for _, s := range specials {
		items = append(items, schedule.SpecialItem(s))
	}
	for _, a := range announcements {
		items = append(items, schedule.AnnouncementItem(a))
	}

	now := time.Now()
	schedule.SortItems(items, schedule.ParseOrder(ctx.QueryParam("sort")), now, api.loc)

	statusFilter := ctx.QueryParam("status")
	out := make([]agendaEntry, 0, len(items))
	for _, it := range items {
		status := schedule.Classify(it, now, api.loc)
		if statusFilter != "" && string(status) != statusFilter {
			continue
		}
		out = append(out, agendaEntry{
			Kind:           it.Kind().String(),
			Status:         status,
			NextOccurrence: schedule.NextOccurrence(it, now, api.loc),
			Event:          it.Event,
			Special:        it.Special,
			Announcement:   it.Announcement,
		})
	}
	return ctx.JSON(http.StatusOK, out)
}
