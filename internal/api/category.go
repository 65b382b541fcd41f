package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
)

type CategoryHandler struct {
	catalog *service.CatalogService
}

// NewCategoryHandler creates a new instance of CategoryHandler
func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// GetCategories lists all categories --> GET /api/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.catalog.GetCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if categories == nil {
		categories = []*entity.Category{}
	}
	return c.JSON(200, categories)
}

// GetCategory fetches one category --> GET /api/categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	category, err := h.catalog.GetCategoryByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, category)
}

// CreateCategory creates a category --> POST /api/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	category := entity.Category{}
	if err := c.Bind(&category); err != nil {
		return message(c, 400, "invalid request payload")
	}

	created, err := h.catalog.CreateCategory(c.Request().Context(), &category)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, created)
}

// UpdateCategory updates a category --> PUT /api/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	category := entity.Category{}
	if err := c.Bind(&category); err != nil {
		return message(c, 400, "invalid request payload")
	}
	category.ID = id

	updated, err := h.catalog.UpdateCategory(c.Request().Context(), &category)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, updated)
}

// DeleteCategory deletes a category --> DELETE /api/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	if err := h.catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]bool{"ok": true})
}
