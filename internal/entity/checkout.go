package entity

import "fmt"

// CheckoutForm is the contact block every order-creation entry point takes.
type CheckoutForm struct {
	CustomerName string `json:"customer_name"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
	Note         string `json:"note"`
}

// OrderLineRequest is what the client asks for: a product and a quantity.
// Prices are never taken from the client.
type OrderLineRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// CartItem mirrors one entry of the browser-local cart. Name, image and
// price are what the client saw at add-to-cart time; the server only uses
// ProductID and Quantity, everything else is display state.
type CartItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	ImageURL string  `json:"image_url"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ClampQuantity forces a requested quantity to at least 1.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// AssembleOrder builds an order header and its line items from the current
// product rows. Lines referencing the same product are merged so the stock
// comparison sees the aggregate quantity, per-line quantities are clamped to
// a minimum of 1, prices are snapshotted from the product's current sale
// price, and the total is the sum of snapshotted price times quantity. If
// any product is missing or has insufficient stock the assembly fails naming
// that product, before anything is written anywhere.
func AssembleOrder(form CheckoutForm, requests []OrderLineRequest, products map[int]*Product) (*Order, error) {
	order := &Order{
		CustomerName: form.CustomerName,
		PhoneNumber:  form.PhoneNumber,
		Address:      form.Address,
		Note:         form.Note,
		Status:       StatusNew,
	}

	merged := make(map[int]int, len(requests))
	var productIDs []int
	for _, req := range requests {
		if _, ok := merged[req.ProductID]; !ok {
			productIDs = append(productIDs, req.ProductID)
		}
		merged[req.ProductID] += ClampQuantity(req.Quantity)
	}

	for _, id := range productIDs {
		quantity := merged[id]

		product, ok := products[id]
		if !ok {
			return nil, fmt.Errorf("product %d does not exist", id)
		}
		if product.Quantity < quantity {
			return nil, fmt.Errorf("product %q does not have enough stock", product.Name)
		}

		unit := product.SalePrice()
		order.Items = append(order.Items, OrderItem{
			ProductID:       product.ID,
			Quantity:        quantity,
			PriceAtPurchase: unit,
		})
		order.TotalAmount += unit * float64(quantity)
	}

	return order, nil
}
