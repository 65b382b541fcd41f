package entity

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the admin-controlled lifecycle tag on an order.
type OrderStatus string

const (
	StatusNew       OrderStatus = "NEW"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusFinished  OrderStatus = "FINISHED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists every valid status in declaration order.
var OrderStatuses = []OrderStatus{StatusNew, StatusConfirmed, StatusFinished, StatusCancelled}

// ParseOrderStatus matches a status string case-insensitively. The error
// message lists the allowed values so the handler can return it verbatim.
func ParseOrderStatus(s string) (OrderStatus, error) {
	candidate := strings.TrimSpace(s)
	for _, status := range OrderStatuses {
		if strings.EqualFold(candidate, string(status)) {
			return status, nil
		}
	}
	allowed := make([]string, len(OrderStatuses))
	for i, status := range OrderStatuses {
		allowed[i] = string(status)
	}
	return "", fmt.Errorf("invalid status, allowed values: %s", strings.Join(allowed, ", "))
}

type Order struct {
	ID           int         `json:"id"`
	CustomerName string      `json:"customer_name"`
	PhoneNumber  string      `json:"phone_number"`
	Address      string      `json:"address"`
	Note         string      `json:"note,omitempty"`
	Status       OrderStatus `json:"status"`
	TotalAmount  float64     `json:"total_amount"`
	CreatedAt    time.Time   `json:"created_at"`
	Items        []OrderItem `json:"items,omitempty"`
}

// OrderItem is a line of an order. PriceAtPurchase is snapshotted when the
// order is written and never changes afterwards, so later price edits do not
// alter historical totals.
type OrderItem struct {
	ID              int     `json:"id"`
	OrderID         int     `json:"order_id"`
	ProductID       int     `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

// OrderSummary is the shape of the admin order list.
type OrderSummary struct {
	ID           int         `json:"id"`
	CustomerName string      `json:"customer_name"`
	Status       OrderStatus `json:"status"`
	TotalAmount  float64     `json:"total_amount"`
	CreatedAt    time.Time   `json:"created_at"`
}

// OrderUpdate carries an admin order edit. Nil fields are left untouched; a
// non-nil Items replaces the full line-item set.
type OrderUpdate struct {
	CustomerName *string
	PhoneNumber  *string
	Address      *string
	Status       *OrderStatus
	Items        []OrderLineRequest
}

/*
Mysql Tables

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	customer_name VARCHAR(255) NOT NULL,
	phone_number VARCHAR(20) NOT NULL,
	address VARCHAR(512) NOT NULL,
	note TEXT,
	status VARCHAR(20) NOT NULL DEFAULT 'NEW',
	total_amount DOUBLE NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL,
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	price_at_purchase DOUBLE NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

*/
