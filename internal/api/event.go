package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/ics"
	"github.com/copperkettle/backhouse/internal/models"
	"github.com/copperkettle/backhouse/internal/rrule"
	"github.com/copperkettle/backhouse/internal/schedule"
)

type eventAPI struct {
	store EventStore
	loc   *time.Location
	feed  *ics.Feed
}

func registerEventAPI(g *echo.Group, store EventStore, loc *time.Location, feed *ics.Feed) {
	api := eventAPI{store: store, loc: loc, feed: feed}

	eg := g.Group("/events")
	eg.POST("", api.create)
	eg.GET("", api.list)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.destroy)

	g.GET("/calendar.ics", api.calendarFeed)
}

type eventRequest struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description"`
	Location       string     `json:"location" validate:"max=200"`
	StartTime      *time.Time `json:"start_time" validate:"required"`
	EndTime        *time.Time `json:"end_time"`
	RecurrenceRule string     `json:"recurrence_rule"`
	ExceptionDates []string   `json:"exception_dates"` // YYYY-MM-DD
	AllDay         bool       `json:"all_day"`
	Active         *bool      `json:"active"`
}

// apply validates the request and copies it onto an event row.
func (data *eventRequest) apply(e *models.Event, loc *time.Location) error {
	if data.RecurrenceRule != "" {
		if _, err := rrule.ParseRule(data.RecurrenceRule, *data.StartTime, loc); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid recurrence_rule: "+err.Error())
		}
	}
	if data.EndTime != nil && data.StartTime != nil && data.EndTime.Before(*data.StartTime) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "end_time is before start_time")
	}

	exceptions := make([]time.Time, 0, len(data.ExceptionDates))
	for _, s := range data.ExceptionDates {
		d, err := parseDate(s, loc)
		if err != nil {
			return err
		}
		exceptions = append(exceptions, *d)
	}

	e.Title = data.Title
	e.Description = data.Description
	e.Location = data.Location
	e.StartTime = data.StartTime
	e.EndTime = data.EndTime
	e.RecurrenceRule = data.RecurrenceRule
	e.ExceptionDates = exceptions
	e.AllDay = data.AllDay
	e.Active = true
	if data.Active != nil {
		e.Active = *data.Active
	}
	return nil
}

type eventResponse struct {
	*models.Event
	Status         schedule.Status `json:"status"`
	NextOccurrence time.Time       `json:"next_occurrence"`
}

func (api *eventAPI) respond(e *models.Event, now time.Time) eventResponse {
	it := schedule.EventItem(e)
	return eventResponse{
		Event:          e,
		Status:         schedule.Classify(it, now, api.loc),
		NextOccurrence: schedule.NextOccurrence(it, now, api.loc),
	}
}

func (api *eventAPI) create(ctx echo.Context) error {
	data := new(eventRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	event := &models.Event{}
	if err := data.apply(event, api.loc); err != nil {
		return err
	}
	if err := api.store.Create(ctx.Request().Context(), event); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, api.respond(event, time.Now()))
}

func (api *eventAPI) list(ctx echo.Context) error {
	var (
		events []*models.Event
		err    error
	)
	if q := ctx.QueryParam("q"); q != "" {
		events, err = api.store.Search(ctx.Request().Context(), q)
	} else {
		events, err = api.store.List(ctx.Request().Context())
	}
	if err != nil {
		return err
	}

	now := time.Now()
	items := make([]schedule.Item, 0, len(events))
	for _, e := range events {
		items = append(items, schedule.EventItem(e))
	}
	schedule.SortItems(items, schedule.ParseOrder(ctx.QueryParam("sort")), now, api.loc)

	out := make([]eventResponse, 0, len(items))
	for _, it := range items {
		resp := api.respond(it.Event, now)
		if status := ctx.QueryParam("status"); status != "" && string(resp.Status) != status {
			continue
		}
		out = append(out, resp)
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *eventAPI) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	event, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}
	return ctx.JSON(http.StatusOK, api.respond(event, time.Now()))
}

func (api *eventAPI) update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	event, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}

	data := new(eventRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	if err := data.apply(event, api.loc); err != nil {
		return err
	}
	if err := api.store.Update(ctx.Request().Context(), event); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.respond(event, time.Now()))
}

func (api *eventAPI) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.store.Delete(ctx.Request().Context(), id); err != nil {
		return mapStoreErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *eventAPI) calendarFeed(ctx echo.Context) error {
	events, err := api.store.List(ctx.Request().Context())
	if err != nil {
		return err
	}
	body := api.feed.Build(events, time.Now())
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
