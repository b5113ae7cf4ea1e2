package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/models"
)

type displayAPI struct {
	store DisplayStore
}

func registerDisplayAPI(g *echo.Group, store DisplayStore) {
	api := displayAPI{store: store}

	dg := g.Group("/displays")
	dg.POST("", api.create)
	dg.GET("", api.list)
	dg.GET("/:id", api.retrieve)
	dg.PUT("/:id", api.update)
	dg.DELETE("/:id", api.destroy)
}

type displayRequest struct {
	Name              string `json:"name" validate:"required,max=100"`
	RotationSeconds   int    `json:"rotation_seconds" validate:"omitempty,min=3,max=300"`
	ShowSpecials      *bool  `json:"show_specials"`
	ShowEvents        *bool  `json:"show_events"`
	ShowAnnouncements *bool  `json:"show_announcements"`
	ShowCampaigns     *bool  `json:"show_campaigns"`
}

func (data *displayRequest) apply(d *models.Display) {
	d.Name = data.Name
	d.RotationSeconds = data.RotationSeconds
	if d.RotationSeconds == 0 {
		d.RotationSeconds = 15
	}
	d.ShowSpecials = boolOr(data.ShowSpecials, true)
	d.ShowEvents = boolOr(data.ShowEvents, true)
	d.ShowAnnouncements = boolOr(data.ShowAnnouncements, true)
	d.ShowCampaigns = boolOr(data.ShowCampaigns, true)
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func (api *displayAPI) create(ctx echo.Context) error {
	data := new(displayRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	display := &models.Display{}
	data.apply(display)
	if err := api.store.Create(ctx.Request().Context(), display); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, display)
}

func (api *displayAPI) list(ctx echo.Context) error {
	displays, err := api.store.List(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, displays)
}

func (api *displayAPI) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	display, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}
	return ctx.JSON(http.StatusOK, display)
}

func (api *displayAPI) update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	display, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}

	data := new(displayRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	data.apply(display)
	if err := api.store.Update(ctx.Request().Context(), display); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, display)
}

func (api *displayAPI) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.store.Delete(ctx.Request().Context(), id); err != nil {
		return mapStoreErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
