package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/apperr"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
)

// fakeCategoryStore keeps categories in memory with a unique-name check.
type fakeCategoryStore struct {
	categories map[int]*entity.Category
	nextID     int
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: map[int]*entity.Category{}}
}

func (f *fakeCategoryStore) GetCategories(ctx context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, category := range f.categories {
		out = append(out, category)
	}
	return out, nil
}

func (f *fakeCategoryStore) GetCategoryByID(ctx context.Context, id int) (*entity.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

func (f *fakeCategoryStore) CreateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	for _, existing := range f.categories {
		if existing.Name == category.Name {
			return nil, apperr.Conflict("category name already exists")
		}
	}
	f.nextID++
	category.ID = f.nextID
	f.categories[category.ID] = category
	return category, nil
}

func (f *fakeCategoryStore) UpdateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if _, ok := f.categories[category.ID]; !ok {
		return nil, apperr.NotFound("category not found")
	}
	f.categories[category.ID] = category
	return category, nil
}

func (f *fakeCategoryStore) DeleteCategory(ctx context.Context, id int) error {
	if _, ok := f.categories[id]; !ok {
		return apperr.NotFound("category not found")
	}
	delete(f.categories, id)
	return nil
}

func newCategoryHandler(t *testing.T) (*CategoryHandler, *fakeCategoryStore) {
	t.Setenv("ENV", "test")
	store := newFakeCategoryStore()
	catalog := service.NewCatalogService(nil, store, nil)
	return NewCategoryHandler(catalog), store
}

func doRequest(handler echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for name, value := range params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
	_ = handler(c)
	return rec
}

func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestCreateCategory_Returns201(t *testing.T) {
	handler, store := newCategoryHandler(t)

	rec := doRequest(handler.CreateCategory, http.MethodPost, "/api/categories", `{"name":"Khóa vân tay","description":"Mở bằng vân tay"}`, nil)

	assert.Equal(t, 201, rec.Code)
	assert.Len(t, store.categories, 1)
}

func TestCreateCategory_EmptyNameIs400(t *testing.T) {
	handler, store := newCategoryHandler(t)

	rec := doRequest(handler.CreateCategory, http.MethodPost, "/api/categories", `{"name":"   "}`, nil)

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, responseMessage(t, rec), "name is required")
	assert.Len(t, store.categories, 0)
}

func TestCreateCategory_DuplicateNameIs409(t *testing.T) {
	handler, store := newCategoryHandler(t)

	first := doRequest(handler.CreateCategory, http.MethodPost, "/api/categories", `{"name":"Khóa vân tay"}`, nil)
	require.Equal(t, 201, first.Code)

	rec := doRequest(handler.CreateCategory, http.MethodPost, "/api/categories", `{"name":"Khóa vân tay"}`, nil)

	assert.Equal(t, 409, rec.Code)
	assert.Contains(t, responseMessage(t, rec), "already exists")
	// No duplicate row was written.
	assert.Len(t, store.categories, 1)
}

func TestGetCategory_MissingIs404(t *testing.T) {
	handler, _ := newCategoryHandler(t)

	rec := doRequest(handler.GetCategory, http.MethodGet, "/api/categories/99", "", map[string]string{"id": "99"})

	assert.Equal(t, 404, rec.Code)
}

func TestDeleteCategory_MissingIs404NotServerError(t *testing.T) {
	handler, _ := newCategoryHandler(t)

	rec := doRequest(handler.DeleteCategory, http.MethodDelete, "/api/categories/99", "", map[string]string{"id": "99"})

	assert.Equal(t, 404, rec.Code)
}

func TestGetCategory_BadIDIs400(t *testing.T) {
	handler, _ := newCategoryHandler(t)

	rec := doRequest(handler.GetCategory, http.MethodGet, "/api/categories/abc", "", map[string]string{"id": "abc"})

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, "invalid id", responseMessage(t, rec))
}
