package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/models"
	"github.com/copperkettle/backhouse/internal/schedule"
)

type specialAPI struct {
	store SpecialStore
	loc   *time.Location
}

func registerSpecialAPI(g *echo.Group, store SpecialStore, loc *time.Location) {
	api := specialAPI{store: store, loc: loc}

	sg := g.Group("/specials")
	sg.POST("", api.create)
	sg.GET("", api.list)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

type specialRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	PriceNote string `json:"price_note" validate:"max=100"`
	Type      string `json:"type" validate:"required,oneof=food drink"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Weekdays  string `json:"weekdays"`   // "Friday,Saturday"
	Active    *bool  `json:"active"`
}

func (data *specialRequest) apply(s *models.Special, loc *time.Location) error {
	start, err := parseDate(data.StartDate, loc)
	if err != nil {
		return err
	}
	end, err := parseDate(data.EndDate, loc)
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.Before(*start) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "end_date is before start_date")
	}

	s.Title = data.Title
	s.PriceNote = data.PriceNote
	s.Type = data.Type
	s.StartDate = start
	s.EndDate = end
	s.Weekdays = data.Weekdays
	s.Active = true
	if data.Active != nil {
		s.Active = *data.Active
	}

	// Reject weekday names the resolver will never match.
	for name := range s.WeekdaySet() {
		if !validWeekdays[name] {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid weekday "+name)
		}
	}
	return nil
}

var validWeekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

type specialResponse struct {
	*models.Special
	Status         schedule.Status `json:"status"`
	NextOccurrence time.Time       `json:"next_occurrence"`
}

func (api *specialAPI) respond(s *models.Special, now time.Time) specialResponse {
	it := schedule.SpecialItem(s)
	return specialResponse{
		Special:        s,
		Status:         schedule.Classify(it, now, api.loc),
		NextOccurrence: schedule.NextOccurrence(it, now, api.loc),
	}
}

func (api *specialAPI) create(ctx echo.Context) error {
	data := new(specialRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	special := &models.Special{}
	if err := data.apply(special, api.loc); err != nil {
		return err
	}
	if err := api.store.Create(ctx.Request().Context(), special); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, api.respond(special, time.Now()))
}

func (api *specialAPI) list(ctx echo.Context) error {
	specialType := ctx.QueryParam("type")
	if specialType != "" && specialType != models.SpecialFood && specialType != models.SpecialDrink {
		return echo.NewHTTPError(http.StatusBadRequest, "type must be food or drink")
	}

	specials, err := api.store.List(ctx.Request().Context(), specialType)
	if err != nil {
		return err
	}

	now := time.Now()
	items := make([]schedule.Item, 0, len(specials))
	for _, s := range specials {
		items = append(items, schedule.SpecialItem(s))
	}
	schedule.SortItems(items, schedule.ParseOrder(ctx.QueryParam("sort")), now, api.loc)

	out := make([]specialResponse, 0, len(items))
	for _, it := range items {
		resp := api.respond(it.Special, now)
		if status := ctx.QueryParam("status"); status != "" && string(resp.Status) != status {
			continue
		}
		out = append(out, resp)
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *specialAPI) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	special, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}
	return ctx.JSON(http.StatusOK, api.respond(special, time.Now()))
}

func (api *specialAPI) update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	special, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}

	data := new(specialRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	if err := data.apply(special, api.loc); err != nil {
		return err
	}
	if err := api.store.Update(ctx.Request().Context(), special); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.respond(special, time.Now()))
}

func (api *specialAPI) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.store.Delete(ctx.Request().Context(), id); err != nil {
		return mapStoreErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
