package api

import (
	"github.com/labstack/echo/v4"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
)

type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler creates a new instance of SearchHandler
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

type searchPrice struct {
	Agency            float64 `json:"agency"`
	Retail            float64 `json:"retail"`
	RetailWithInstall float64 `json:"retailWithInstall"`
}

type searchResult struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Image    string      `json:"image"`
	Category string      `json:"category"`
	Features []string    `json:"features"`
	Price    searchPrice `json:"price"`
}

// Search looks up products by free text --> GET /api/search?q=
func (h *SearchHandler) Search(c echo.Context) error {
	products, err := h.search.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}

	results := make([]searchResult, 0, len(products))
	for _, product := range products {
		results = append(results, formatSearchResult(product))
	}
	return c.JSON(200, results)
}

func formatSearchResult(product *entity.Product) searchResult {
	features := product.Features
	if features == nil {
		features = []string{}
	}
	return searchResult{
		ID:       product.ID,
		Name:     product.Name,
		Image:    product.ImageURL,
		Category: product.CategoryName,
		Features: features,
		Price: searchPrice{
			Agency:            product.PriceAgency,
			Retail:            product.PriceRetail,
			RetailWithInstall: product.PriceRetailWithInstall,
		},
	}
}
