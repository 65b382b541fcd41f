package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() map[int]*Product {
	return map[int]*Product{
		1: {ID: 1, Name: "Khóa vân tay K1", Quantity: 5, PriceRetail: 6000000, PriceRetailWithInstall: 5000000},
		2: {ID: 2, Name: "Khóa mã số M2", Quantity: 10, PriceRetail: 3500000, PriceRetailWithInstall: 3000000},
	}
}

func testForm() CheckoutForm {
	return CheckoutForm{CustomerName: "Nguyen Van A", PhoneNumber: "0900000000", Address: "1 Pham Van Dong"}
}

func TestAssembleOrder_TotalEqualsSumOfLines(t *testing.T) {
	order, err := AssembleOrder(testForm(), []OrderLineRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 2},
	}, testProducts())

	require.NoError(t, err)
	assert.Equal(t, StatusNew, order.Status)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 11000000.0, order.TotalAmount)

	var sum float64
	for _, item := range order.Items {
		sum += item.PriceAtPurchase * float64(item.Quantity)
	}
	assert.Equal(t, order.TotalAmount, sum)
}

func TestAssembleOrder_SnapshotsCurrentSalePrice(t *testing.T) {
	order, err := AssembleOrder(testForm(), []OrderLineRequest{{ProductID: 1, Quantity: 1}}, testProducts())

	require.NoError(t, err)
	// The line carries the sale price, not the list price.
	assert.Equal(t, 5000000.0, order.Items[0].PriceAtPurchase)
}

func TestAssembleOrder_ClampsQuantityToOne(t *testing.T) {
	for _, quantity := range []int{0, -3} {
		order, err := AssembleOrder(testForm(), []OrderLineRequest{{ProductID: 2, Quantity: quantity}}, testProducts())

		require.NoError(t, err)
		assert.Equal(t, 1, order.Items[0].Quantity)
		assert.Equal(t, 3000000.0, order.TotalAmount)
	}
}

func TestAssembleOrder_InsufficientStockNamesProduct(t *testing.T) {
	_, err := AssembleOrder(testForm(), []OrderLineRequest{{ProductID: 1, Quantity: 6}}, testProducts())

	require.Error(t, err)
	assert.ErrorContains(t, err, "Khóa vân tay K1")
	assert.ErrorContains(t, err, "enough stock")
}

func TestAssembleOrder_MissingProductRejected(t *testing.T) {
	_, err := AssembleOrder(testForm(), []OrderLineRequest{{ProductID: 99, Quantity: 1}}, testProducts())

	require.Error(t, err)
	assert.ErrorContains(t, err, "product 99")
}

func TestAssembleOrder_DuplicateLinesCheckedAgainstAggregateStock(t *testing.T) {
	// Two lines for the same product must not each pass the stock check
	// individually while their sum exceeds what is on hand.
	_, err := AssembleOrder(testForm(), []OrderLineRequest{
		{ProductID: 1, Quantity: 3},
		{ProductID: 1, Quantity: 3},
	}, testProducts())

	require.Error(t, err)
	assert.ErrorContains(t, err, "Khóa vân tay K1")
	assert.ErrorContains(t, err, "enough stock")
}

func TestAssembleOrder_DuplicateLinesMergedIntoOneItem(t *testing.T) {
	order, err := AssembleOrder(testForm(), []OrderLineRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 3},
	}, testProducts())

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, 25000000.0, order.TotalAmount)
}

func TestAssembleOrder_ExactStockAccepted(t *testing.T) {
	order, err := AssembleOrder(testForm(), []OrderLineRequest{{ProductID: 1, Quantity: 5}}, testProducts())

	require.NoError(t, err)
	assert.Equal(t, 25000000.0, order.TotalAmount)
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, ClampQuantity(0))
	assert.Equal(t, 1, ClampQuantity(-1))
	assert.Equal(t, 1, ClampQuantity(1))
	assert.Equal(t, 7, ClampQuantity(7))
}
