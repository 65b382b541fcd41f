package service

import (
	"context"
	"strings"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
)

// searchLimit caps the total number of search results across all tiers.
const searchLimit = 10

// SearchStore is the tiered product lookup surface.
type SearchStore interface {
	SearchByNamePrefix(ctx context.Context, q string, limit int) ([]*entity.Product, error)
	SearchByNameContains(ctx context.Context, q string, exclude []int, limit int) ([]*entity.Product, error)
	SearchByDescriptionOrCategory(ctx context.Context, q string, exclude []int, limit int) ([]*entity.Product, error)
}

// SearchService ranks products by match specificity: name prefix first, then
// name substring, then description or category match. Results are
// deduplicated by product id across tiers.
type SearchService struct {
	products SearchStore
}

// NewSearchService creates a new instance of SearchService.
func NewSearchService(products SearchStore) *SearchService {
	return &SearchService{products: products}
}

func (s *SearchService) Search(ctx context.Context, q string) ([]*entity.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*entity.Product{}, nil
	}

	results := make([]*entity.Product, 0, searchLimit)
	seen := make(map[int]bool)

	appendResults := func(products []*entity.Product) {
		for _, product := range products {
			if len(results) >= searchLimit || seen[product.ID] {
				continue
			}
			seen[product.ID] = true
			results = append(results, product)
		}
	}

	prefixMatches, err := s.products.SearchByNamePrefix(ctx, q, searchLimit)
	if err != nil {
		logger.Error().Err(err).Msgf("Error searching name prefix for %q", q)
		return nil, err
	}
	appendResults(prefixMatches)

	if len(results) < searchLimit {
		containsMatches, err := s.products.SearchByNameContains(ctx, q, ids(seen), searchLimit-len(results))
		if err != nil {
			logger.Error().Err(err).Msgf("Error searching name substring for %q", q)
			return nil, err
		}
		appendResults(containsMatches)
	}

	if len(results) < searchLimit {
		otherMatches, err := s.products.SearchByDescriptionOrCategory(ctx, q, ids(seen), searchLimit-len(results))
		if err != nil {
			logger.Error().Err(err).Msgf("Error searching description/category for %q", q)
			return nil, err
		}
		appendResults(otherMatches)
	}

	return results, nil
}

func ids(seen map[int]bool) []int {
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}
