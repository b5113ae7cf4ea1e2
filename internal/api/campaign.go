package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/models"
)

type campaignAPI struct {
	store CampaignStore
	loc   *time.Location
}

func registerCampaignAPI(g *echo.Group, store CampaignStore, loc *time.Location) {
	api := campaignAPI{store: store, loc: loc}

	cg := g.Group("/campaigns")
	cg.POST("", api.create)
	cg.GET("", api.list)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

type campaignRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body"`
	ImageURL  string `json:"image_url" validate:"omitempty,url"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Weight    int    `json:"weight" validate:"omitempty,min=1,max=100"`
	Active    *bool  `json:"active"`
}

func (data *campaignRequest) apply(c *models.Campaign, loc *time.Location) error {
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

	c.Title = data.Title
	c.Body = data.Body
	c.ImageURL = data.ImageURL
	c.StartDate = start
	c.EndDate = end
	c.Weight = data.Weight
	if c.Weight == 0 {
		c.Weight = 1
	}
	c.Active = true
	if data.Active != nil {
		c.Active = *data.Active
	}
	return nil
}

func (api *campaignAPI) create(ctx echo.Context) error {
	data := new(campaignRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	campaign := &models.Campaign{}
	if err := data.apply(campaign, api.loc); err != nil {
		return err
	}
	if err := api.store.Create(ctx.Request().Context(), campaign); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, campaign)
}

func (api *campaignAPI) list(ctx echo.Context) error {
	campaigns, err := api.store.List(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, campaigns)
}

func (api *campaignAPI) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	campaign, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}
	return ctx.JSON(http.StatusOK, campaign)
}

func (api *campaignAPI) update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	campaign, err := api.store.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}

	data := new(campaignRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	if err := data.apply(campaign, api.loc); err != nil {
		return err
	}
	if err := api.store.Update(ctx.Request().Context(), campaign); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, campaign)
}

func (api *campaignAPI) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.store.Delete(ctx.Request().Context(), id); err != nil {
		return mapStoreErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
