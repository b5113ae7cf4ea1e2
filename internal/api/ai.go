package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/ai"
)

type aiAPI struct {
	client *ai.Client
}

func registerAIAPI(g *echo.Group, client *ai.Client) {
	api := aiAPI{client: client}
	g.POST("/ai/suggest", api.suggest)
}

type suggestRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=special event announcement menu_item"`
	Subject string `json:"subject" validate:"required,max=200"`
	Notes   string `json:"notes" validate:"max=500"`
}

func (api *aiAPI) suggest(ctx echo.Context) error {
	if api.client == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "copy suggestions are not configured")
	}

	data := new(suggestRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	suggestion, err := api.client.SuggestCopy(ctx.Request().Context(), data.Kind, data.Subject, data.Notes)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "suggestion failed: "+err.Error())
	}
	return ctx.JSON(http.StatusOK, suggestion)
}
