package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/copperkettle/backhouse/internal/models"
)

type menuAPI struct {
	store MenuStore
}

func registerMenuAPI(g *echo.Group, store MenuStore) {
	api := menuAPI{store: store}

	mg := g.Group("/menu")
	mg.POST("/sections", api.createSection)
	mg.GET("/sections", api.listSections)
	mg.GET("/sections/:id", api.retrieveSection)
	mg.PUT("/sections/:id", api.updateSection)
	mg.DELETE("/sections/:id", api.destroySection)

	mg.POST("/sections/:id/items", api.createItem)
	mg.GET("/sections/:id/items", api.listItems)
	mg.GET("/items/:id", api.retrieveItem)
	mg.PUT("/items/:id", api.updateItem)
	mg.DELETE("/items/:id", api.destroyItem)
}

type sectionRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Position int    `json:"position"`
	Active   *bool  `json:"active"`
}

type itemRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"max=50"`
	Position    int    `json:"position"`
	Available   *bool  `json:"available"`
}

func (api *menuAPI) createSection(ctx echo.Context) error {
	data := new(sectionRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	section := &models.MenuSection{
		Name:     data.Name,
		Position: data.Position,
		Active:   true,
	}
	if data.Active != nil {
		section.Active = *data.Active
	}
	if err := api.store.CreateSection(ctx.Request().Context(), section); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, section)
}

func (api *menuAPI) listSections(ctx echo.Context) error {
	sections, err := api.store.ListSections(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sections)
}

func (api *menuAPI) retrieveSection(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	section, err := api.store.GetSection(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}
	return ctx.JSON(http.StatusOK, section)
}

func (api *menuAPI) updateSection(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	section, err := api.store.GetSection(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}

	data := new(sectionRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	section.Name = data.Name
	section.Position = data.Position
	if data.Active != nil {
		section.Active = *data.Active
	}
	if err := api.store.UpdateSection(ctx.Request().Context(), section); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, section)
}

func (api *menuAPI) destroySection(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.store.DeleteSection(ctx.Request().Context(), id); err != nil {
		return mapStoreErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *menuAPI) createItem(ctx echo.Context) error {
	sectionID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	// 404 before 422 when the section is gone.
	if _, err := api.store.GetSection(ctx.Request().Context(), sectionID); err != nil {
		return mapStoreErr(err)
	}

	data := new(itemRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	item := &models.MenuItem{
		SectionID:   sectionID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Position:    data.Position,
		Available:   true,
	}
	if data.Available != nil {
		item.Available = *data.Available
	}
	if err := api.store.CreateItem(ctx.Request().Context(), item); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *menuAPI) listItems(ctx echo.Context) error {
	sectionID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	items, err := api.store.ListItems(ctx.Request().Context(), sectionID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *menuAPI) retrieveItem(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	item, err := api.store.GetItem(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *menuAPI) updateItem(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	item, err := api.store.GetItem(ctx.Request().Context(), id)
	if err != nil {
		return mapStoreErr(err)
	}

	data := new(itemRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	item.Name = data.Name
	item.Description = data.Description
	item.Price = data.Price
	item.Position = data.Position
	if data.Available != nil {
		item.Available = *data.Available
	}
	if err := api.store.UpdateItem(ctx.Request().Context(), item); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *menuAPI) destroyItem(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.store.DeleteItem(ctx.Request().Context(), id); err != nil {
		return mapStoreErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
