package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/apperr"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
)

// fakeOrderStore mirrors the repository's checkout semantics against an
// in-memory product table.
type fakeOrderStore struct {
	products map[int]*entity.Product
	orders   map[int]*entity.Order
	nextID   int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		products: map[int]*entity.Product{
			1: {ID: 1, Name: "Khóa vân tay K1", Quantity: 5, PriceRetailWithInstall: 5000000},
			2: {ID: 2, Name: "Khóa mã số M2", Quantity: 10, PriceRetailWithInstall: 3000000},
		},
		orders: map[int]*entity.Order{},
	}
}

func (f *fakeOrderStore) Checkout(ctx context.Context, form entity.CheckoutForm, requests []entity.OrderLineRequest) (*entity.Order, error) {
	order, err := entity.AssembleOrder(form, requests, f.products)
	if err != nil {
		return nil, apperr.Invalid(err.Error())
	}
	for _, item := range order.Items {
		f.products[item.ProductID].Quantity -= item.Quantity
	}
	f.nextID++
	order.ID = f.nextID
	order.CreatedAt = time.Now()
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, order *entity.Order, requests []entity.OrderLineRequest) (*entity.Order, error) {
	f.nextID++
	order.ID = f.nextID
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderStore) UpdateOrder(ctx context.Context, id int, upd entity.OrderUpdate) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	if upd.Status != nil {
		order.Status = *upd.Status
	}
	return order, nil
}

func (f *fakeOrderStore) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}

func (f *fakeOrderStore) GetOrders(ctx context.Context) ([]*entity.OrderSummary, error) {
	var out []*entity.OrderSummary
	for _, order := range f.orders {
		out = append(out, &entity.OrderSummary{ID: order.ID, CustomerName: order.CustomerName, Status: order.Status, TotalAmount: order.TotalAmount, CreatedAt: order.CreatedAt})
	}
	return out, nil
}

func (f *fakeOrderStore) DeleteOrder(ctx context.Context, id int) error {
	if _, ok := f.orders[id]; !ok {
		return apperr.NotFound("order not found")
	}
	delete(f.orders, id)
	return nil
}

func newOrderHandler(t *testing.T) (*OrderHandler, *fakeOrderStore) {
	t.Setenv("ENV", "test")
	store := newFakeOrderStore()
	catalog := service.NewCatalogService(nil, nil, nil)
	orderService := service.NewOrderService(store, catalog, nil, nil)
	return NewOrderHandler(orderService), store
}

func TestCheckout_CartPricesAreIgnored(t *testing.T) {
	handler, store := newOrderHandler(t)

	// The client claims a 1-dong price; the server snapshots its own.
	body := `{
		"customer_name": "Nguyen Van A",
		"phone_number": "0900000000",
		"address": "1 Pham Van Dong",
		"items": [
			{"id": 1, "name": "Khóa vân tay K1", "quantity": 1, "price": 1},
			{"id": 2, "name": "Khóa mã số M2", "quantity": 2, "price": 1}
		]
	}`
	rec := doRequest(handler.Checkout, http.MethodPost, "/api/checkout", body, nil)

	require.Equal(t, 201, rec.Code)
	var order entity.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, 11000000.0, order.TotalAmount)
	assert.Equal(t, 4, store.products[1].Quantity)
	assert.Equal(t, 8, store.products[2].Quantity)
}

func TestCheckout_SingleProductForm(t *testing.T) {
	handler, store := newOrderHandler(t)

	body := `{
		"customer_name": "Nguyen Van A",
		"phone_number": "0900000000",
		"address": "1 Pham Van Dong",
		"product": {"product_id": 1, "quantity": 2}
	}`
	rec := doRequest(handler.Checkout, http.MethodPost, "/api/checkout", body, nil)

	require.Equal(t, 201, rec.Code)
	assert.Equal(t, 3, store.products[1].Quantity)
}

func TestCheckout_OutOfStockIs400NamingProduct(t *testing.T) {
	handler, store := newOrderHandler(t)

	body := `{
		"customer_name": "Nguyen Van A",
		"phone_number": "0900000000",
		"address": "1 Pham Van Dong",
		"product": {"product_id": 1, "quantity": 100}
	}`
	rec := doRequest(handler.Checkout, http.MethodPost, "/api/checkout", body, nil)

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, responseMessage(t, rec), "Khóa vân tay K1")
	assert.Equal(t, 5, store.products[1].Quantity)
	assert.Len(t, store.orders, 0)
}

func TestCheckout_DuplicateCartLinesStockCheckedAgainstSum(t *testing.T) {
	handler, store := newOrderHandler(t)

	// Each line fits in stock on its own; together they exceed it.
	body := `{
		"customer_name": "Nguyen Van A",
		"phone_number": "0900000000",
		"address": "1 Pham Van Dong",
		"items": [
			{"id": 1, "quantity": 3},
			{"id": 1, "quantity": 3}
		]
	}`
	rec := doRequest(handler.Checkout, http.MethodPost, "/api/checkout", body, nil)

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, responseMessage(t, rec), "Khóa vân tay K1")
	assert.Equal(t, 5, store.products[1].Quantity)
	assert.Len(t, store.orders, 0)
}

func TestCheckout_ProductAndCartLineForSameIDMerged(t *testing.T) {
	handler, store := newOrderHandler(t)

	body := `{
		"customer_name": "Nguyen Van A",
		"phone_number": "0900000000",
		"address": "1 Pham Van Dong",
		"product": {"product_id": 1, "quantity": 2},
		"items": [{"id": 1, "quantity": 3}]
	}`
	rec := doRequest(handler.Checkout, http.MethodPost, "/api/checkout", body, nil)

	require.Equal(t, 201, rec.Code)
	var order entity.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, 0, store.products[1].Quantity)
}

func TestCreateOrder_InvalidStatusIs400ListingAllowed(t *testing.T) {
	handler, _ := newOrderHandler(t)

	body := `{
		"customer_name": "Nguyen Van A",
		"phone_number": "0900000000",
		"address": "1 Pham Van Dong",
		"status": "shipped",
		"items": [{"product_id": 1, "quantity": 1}]
	}`
	rec := doRequest(handler.CreateOrder, http.MethodPost, "/api/orders", body, nil)

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, responseMessage(t, rec), "NEW, CONFIRMED, FINISHED, CANCELLED")
}

func TestUpdateOrder_MissingIs404(t *testing.T) {
	handler, _ := newOrderHandler(t)

	rec := doRequest(handler.UpdateOrder, http.MethodPut, "/api/orders/42", `{"status":"confirmed"}`, map[string]string{"id": "42"})

	assert.Equal(t, 404, rec.Code)
}

func TestDeleteOrder_MissingIs404(t *testing.T) {
	handler, _ := newOrderHandler(t)

	rec := doRequest(handler.DeleteOrder, http.MethodDelete, "/api/orders/42", "", map[string]string{"id": "42"})

	assert.Equal(t, 404, rec.Code)
}
