package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler creates a new instance of ProductHandler
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productRequest struct {
	Name                   string   `json:"name"`
	ImageURL               string   `json:"image_url"`
	Description            string   `json:"description"`
	PriceAgency            float64  `json:"price_agency"`
	PriceRetail            float64  `json:"price_retail"`
	PriceRetailWithInstall float64  `json:"price_retail_with_install"`
	Quantity               int      `json:"quantity"`
	CategoryID             *int     `json:"category_id"`
	Features               []string `json:"features"`
}

func (r *productRequest) toEntity() *entity.Product {
	return &entity.Product{
		Name:                   r.Name,
		ImageURL:               r.ImageURL,
		Description:            r.Description,
		PriceAgency:            r.PriceAgency,
		PriceRetail:            r.PriceRetail,
		PriceRetailWithInstall: r.PriceRetailWithInstall,
		Quantity:               r.Quantity,
		CategoryID:             r.CategoryID,
		Features:               r.Features,
	}
}

// GetProducts lists all products --> GET /api/products
func (h *ProductHandler) GetProducts(c echo.Context) error {
	products, err := h.catalog.GetProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if products == nil {
		products = []*entity.Product{}
	}
	return c.JSON(200, products)
}

// GetProduct fetches one product --> GET /api/products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	product, err := h.catalog.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, product)
}

// GetProductStock gets the stock of a product --> GET /api/products/:id/stock
func (h *ProductHandler) GetProductStock(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	stock, err := h.catalog.GetProductStock(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]int{"stock": stock})
}

// CreateProduct creates a product --> POST /api/products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	req := productRequest{}
	if err := c.Bind(&req); err != nil {
		return message(c, 400, "invalid request payload")
	}

	created, err := h.catalog.CreateProduct(c.Request().Context(), req.toEntity())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, created)
}

// UpdateProduct updates a product --> PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	req := productRequest{}
	if err := c.Bind(&req); err != nil {
		return message(c, 400, "invalid request payload")
	}
	product := req.toEntity()
	product.ID = id

	updated, err := h.catalog.UpdateProduct(c.Request().Context(), product)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, updated)
}

// DeleteProduct deletes a product --> DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]bool{"ok": true})
}

// WarmupCache pre-warms the product cache --> GET /api/products/warmup-cache
func (h *ProductHandler) WarmupCache(c echo.Context) error {
	if err := h.catalog.PreWarmCacheAsync(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "cache pre-warmed"})
}
