package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/models"
	"github.com/copperkettle/backhouse/internal/schedule"
)

type announcementAPI struct {
	store    AnnouncementStore
	loc      *time.Location
	notifier Notifier
}

func registerAnnouncementAPI(g *echo.Group, store AnnouncementStore, loc *time.Location, notifier Notifier) {
	api := announcementAPI{store: store, loc: loc, notifier: notifier}

	ag := g.Group("/announcements")
	ag.POST("", api.create)
	ag.GET("", api.list)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

type announcementRequest struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Body      string     `json:"body"`
	PublishAt *time.Time `json:"publish_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	Published *bool      `json:"published"`
}

func (data *announcementRequest) apply(a *models.Announcement) error {
	if data.PublishAt != nil && data.ExpiresAt != nil && data.ExpiresAt.Before(*data.PublishAt) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "expires_at is before publish_at")
	}
	a.Title = data.Title
	a.Body = data.Body
	a.PublishAt = data.PublishAt
	a.ExpiresAt = data.ExpiresAt
	if data.Published != nil {
		a.Published = *data.Published
	}
	return nil
}

type announcementResponse struct {
	*models.Announcement
	Status         schedule.Status `json:"status"`
	NextOccurrence time.Time       `json:"next_occurrence"`
}

func (api *announcementAPI) respond(a *models.Announcement, now time.Time) announcementResponse {
	it := schedule.AnnouncementItem(a)
	return announcementResponse{
		Announcement:   a,
		Status:         schedule.Classify(it, now, api.loc),
		NextOccurrence: schedule.NextOccurrence(it, now, api.loc),
	}
}

// wake nudges the scheduler so a freshly scheduled publish time is picked up
// without waiting out the tick interval.
func (api *announcementAPI) wake() {
	if api.notifier != nil {
		api.notifier.Notify()
	}
}

func (api *announcementAPI) create(ctx echo.Context) error {
	data := new(announcementRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	a := &models.Announcement{}
	if err := data.apply(a); err != nil {
		return err
	}
	if err := api.store.Create(ctx.Request().Context(), a); err != nil {
		return err
	}
	api.wake()
	return ctx.JSON(http.StatusCreated, api.respond(a, time.Now()))
}

func (api *announcementAPI) list(ctx echo.Context) error {
	announcements, err := api.store.List(ctx.Request().Context())
	if err != nil {
		return err
	}

	now := time.Now()
	items := make([]schedule.Item, 0, len(announcements))
	for _, a := range announcements {
		items = append(items, schedule.AnnouncementItem(a))
	}
	schedule.SortItems(items, schedule.ParseOrder(ctx.QueryParam("sort")), now, api.loc)

	out := make([]announcementResponse, 0, len(items))
	for _, it := range items {
		resp := api.respond(it.Announcement, now)
		if status := ctx.QueryParam("status"); status != "" && string(resp.Status) != status {
			continue
		}
		out = append(out, resp)
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *announcementAPI) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	a, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}
	return ctx.JSON(http.StatusOK, api.respond(a, time.Now()))
}

func (api *announcementAPI) update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	a, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}

	data := new(announcementRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	if err := data.apply(a); err != nil {
		return err
	}
	if err := api.store.Update(ctx.Request().Context(), a); err != nil {
		return err
	}
	api.wake()
	return ctx.JSON(http.StatusOK, api.respond(a, time.Now()))
}

func (api *announcementAPI) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.store.Delete(ctx.Request().Context(), id); err != nil {
		return mapStoreErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
