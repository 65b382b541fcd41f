package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
)

// fakeSearchStore serves canned tiers, honoring the exclusion list and
// limit the way the SQL queries do.
type fakeSearchStore struct {
	prefix   []*entity.Product
	contains []*entity.Product
	other    []*entity.Product
	calls    []string
}

func (f *fakeSearchStore) SearchByNamePrefix(ctx context.Context, q string, limit int) ([]*entity.Product, error) {
	f.calls = append(f.calls, "prefix")
	return capLimit(f.prefix, limit), nil
}

func (f *fakeSearchStore) SearchByNameContains(ctx context.Context, q string, exclude []int, limit int) ([]*entity.Product, error) {
	f.calls = append(f.calls, "contains")
	return capLimit(filterIDs(f.contains, exclude), limit), nil
}

func (f *fakeSearchStore) SearchByDescriptionOrCategory(ctx context.Context, q string, exclude []int, limit int) ([]*entity.Product, error) {
	f.calls = append(f.calls, "other")
	return capLimit(filterIDs(f.other, exclude), limit), nil
}

func capLimit(products []*entity.Product, limit int) []*entity.Product {
	if len(products) > limit {
		return products[:limit]
	}
	return products
}

func filterIDs(products []*entity.Product, exclude []int) []*entity.Product {
	excluded := make(map[int]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var out []*entity.Product
	for _, product := range products {
		if !excluded[product.ID] {
			out = append(out, product)
		}
	}
	return out
}

func product(id int, name string) *entity.Product {
	return &entity.Product{ID: id, Name: name}
}

func TestSearch_PrefixRanksBeforeSubstringAndDescription(t *testing.T) {
	store := &fakeSearchStore{
		prefix:   []*entity.Product{product(1, "Khóa vân tay K1")},
		contains: []*entity.Product{product(2, "Bộ Khóa cửa")},
		other:    []*entity.Product{product(3, "Chuông cửa")},
	}
	svc := NewSearchService(store)

	results, err := svc.Search(context.Background(), "khóa")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, 2, results[1].ID)
	assert.Equal(t, 3, results[2].ID)
}

func TestSearch_DeduplicatesAcrossTiers(t *testing.T) {
	shared := product(1, "Khóa vân tay K1")
	store := &fakeSearchStore{
		prefix:   []*entity.Product{shared},
		contains: []*entity.Product{shared, product(2, "Bộ Khóa cửa")},
		other:    []*entity.Product{shared},
	}
	svc := NewSearchService(store)

	results, err := svc.Search(context.Background(), "khóa")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, 2, results[1].ID)
}

func TestSearch_CapsResultsAtLimit(t *testing.T) {
	store := &fakeSearchStore{}
	for i := 1; i <= 8; i++ {
		store.prefix = append(store.prefix, product(i, fmt.Sprintf("Khóa %d", i)))
	}
	for i := 9; i <= 15; i++ {
		store.contains = append(store.contains, product(i, fmt.Sprintf("Bộ khóa %d", i)))
	}
	svc := NewSearchService(store)

	results, err := svc.Search(context.Background(), "khóa")

	require.NoError(t, err)
	assert.Len(t, results, searchLimit)
	// The later tier only fills the remaining slots.
	assert.Equal(t, 8, results[7].ID)
	assert.Equal(t, 9, results[8].ID)
	assert.Equal(t, 10, results[9].ID)
}

func TestSearch_SkipsLaterTiersWhenFull(t *testing.T) {
	store := &fakeSearchStore{}
	for i := 1; i <= 10; i++ {
		store.prefix = append(store.prefix, product(i, fmt.Sprintf("Khóa %d", i)))
	}
	svc := NewSearchService(store)

	results, err := svc.Search(context.Background(), "khóa")

	require.NoError(t, err)
	assert.Len(t, results, searchLimit)
	assert.Equal(t, []string{"prefix"}, store.calls)
}

func TestSearch_BlankQueryReturnsEmpty(t *testing.T) {
	store := &fakeSearchStore{prefix: []*entity.Product{product(1, "Khóa")}}
	svc := NewSearchService(store)

	results, err := svc.Search(context.Background(), "   ")

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, store.calls)
}
