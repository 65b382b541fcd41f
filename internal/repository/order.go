package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/apperr"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// Checkout runs the order-placement transaction: lock the referenced product
// rows, validate stock, snapshot current sale prices into line items, write
// the order header and items, and decrement stock. Either every step commits
// or none of them do.
func (r *OrderRepository) Checkout(ctx context.Context, form entity.CheckoutForm, requests []entity.OrderLineRequest) (*entity.Order, error) {
	if len(requests) == 0 {
		return nil, apperr.Invalid("order has no items")
	}

	// Start a transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	// Lock and read the referenced products. FOR UPDATE keeps two
	// concurrent checkouts from both passing the stock check on the same
	// last unit.
	ids := make([]int, len(requests))
	for i, req := range requests {
		ids[i] = req.ProductID
	}
	productQuery := `SELECT id, name, quantity, price_retail_with_install FROM products
		WHERE id IN (?` + strings.Repeat(", ?", len(ids)-1) + `) FOR UPDATE`
	rows, err := tx.QueryContext(ctx, productQuery, excludeArgs(ids)...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	products := make(map[int]*entity.Product, len(ids))
	for rows.Next() {
		product := &entity.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Quantity, &product.PriceRetailWithInstall); err != nil {
			rows.Close()
			tx.Rollback()
			return nil, err
		}
		products[product.ID] = product
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		tx.Rollback()
		return nil, err
	}
	rows.Close()

	// Validate stock and snapshot prices before any write
	order, err := entity.AssembleOrder(form, requests, products)
	if err != nil {
		tx.Rollback()
		return nil, apperr.Invalid(err.Error())
	}

	// Insert order
	orderQuery := `INSERT INTO orders (customer_name, phone_number, address, note, status, total_amount) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.CustomerName, order.PhoneNumber, order.Address, order.Note, order.Status, order.TotalAmount)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	order.ID = int(orderID)

	if err := insertOrderItems(ctx, tx, order.ID, order.Items); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Decrement stock for each purchased product
	stockQuery := `UPDATE products SET quantity = quantity - ? WHERE id = ?`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, stockQuery, item.Quantity, item.ProductID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return order, nil
}

// CreateOrder is the admin path: it snapshots current sale prices and
// computes the total server-side, but does not touch stock.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order, requests []entity.OrderLineRequest) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	items, total, err := snapshotLines(ctx, tx, requests)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	order.TotalAmount = total

	orderQuery := `INSERT INTO orders (customer_name, phone_number, address, note, status, total_amount) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.CustomerName, order.PhoneNumber, order.Address, order.Note, order.Status, order.TotalAmount)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	order.ID = int(orderID)

	if err := insertOrderItems(ctx, tx, order.ID, items); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.Items = items
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return order, nil
}

// UpdateOrder applies an admin edit. A non-nil item set replaces every
// existing line (delete-all-then-recreate) and recomputes the total from
// current sale prices.
func (r *OrderRepository) UpdateOrder(ctx context.Context, id int, upd entity.OrderUpdate) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{}
	headQuery := `SELECT id, customer_name, phone_number, address, COALESCE(note, ''), status, total_amount, created_at FROM orders WHERE id = ? FOR UPDATE`
	err = tx.QueryRowContext(ctx, headQuery, id).Scan(&order.ID, &order.CustomerName, &order.PhoneNumber, &order.Address, &order.Note, &order.Status, &order.TotalAmount, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if upd.CustomerName != nil {
		order.CustomerName = *upd.CustomerName
	}
	if upd.PhoneNumber != nil {
		order.PhoneNumber = *upd.PhoneNumber
	}
	if upd.Address != nil {
		order.Address = *upd.Address
	}
	if upd.Status != nil {
		order.Status = *upd.Status
	}

	if upd.Items != nil {
		items, total, err := snapshotLines(ctx, tx, upd.Items)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		order.TotalAmount = total

		// Delete existing items and recreate the full set
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := insertOrderItems(ctx, tx, id, items); err != nil {
			tx.Rollback()
			return nil, err
		}
		order.Items = items
		for i := range order.Items {
			order.Items[i].OrderID = id
		}
	}

	updateQuery := `UPDATE orders SET customer_name = ?, phone_number = ?, address = ?, status = ?, total_amount = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, updateQuery, order.CustomerName, order.PhoneNumber, order.Address, order.Status, order.TotalAmount, id); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	orderQuery := `SELECT id, customer_name, phone_number, address, COALESCE(note, ''), status, total_amount, created_at FROM orders WHERE id = ?`
	itemQuery := `SELECT id, order_id, product_id, quantity, price_at_purchase FROM order_items WHERE order_id = ? ORDER BY id ASC`

	order := &entity.Order{}
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(&order.ID, &order.CustomerName, &order.PhoneNumber, &order.Address, &order.Note, &order.Status, &order.TotalAmount, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return order, rows.Err()
}

func (r *OrderRepository) GetOrders(ctx context.Context) ([]*entity.OrderSummary, error) {
	query := `SELECT id, customer_name, status, total_amount, created_at FROM orders ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.OrderSummary
	for rows.Next() {
		summary := &entity.OrderSummary{}
		if err := rows.Scan(&summary.ID, &summary.CustomerName, &summary.Status, &summary.TotalAmount, &summary.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, summary)
	}

	return orders, rows.Err()
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id int) error {
	// Start a transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Delete order items
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}

	// Delete order
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return apperr.NotFound("order not found")
	}

	return tx.Commit()
}

// snapshotLines resolves the current sale price for each requested line and
// returns the items with price_at_purchase filled in plus the new total.
// Unknown products snapshot at zero, matching the storefront's permissive
// admin behavior.
func snapshotLines(ctx context.Context, tx *sql.Tx, requests []entity.OrderLineRequest) ([]entity.OrderItem, float64, error) {
	if len(requests) == 0 {
		return nil, 0, nil
	}

	ids := make([]int, len(requests))
	for i, req := range requests {
		ids[i] = req.ProductID
	}

	priceQuery := `SELECT id, price_retail_with_install FROM products
		WHERE id IN (?` + strings.Repeat(", ?", len(ids)-1) + `)`
	rows, err := tx.QueryContext(ctx, priceQuery, excludeArgs(ids)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	prices := make(map[int]float64, len(ids))
	for rows.Next() {
		var id int
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, 0, err
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var items []entity.OrderItem
	var total float64
	for _, req := range requests {
		quantity := entity.ClampQuantity(req.Quantity)
		unit := prices[req.ProductID]
		items = append(items, entity.OrderItem{
			ProductID:       req.ProductID,
			Quantity:        quantity,
			PriceAtPurchase: unit,
		})
		total += unit * float64(quantity)
	}

	return items, total, nil
}

// insertOrderItems batch-inserts the line items for an order.
func insertOrderItems(ctx context.Context, tx *sql.Tx, orderID int, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	// Build the batch insert
	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase) VALUES `
	var values []interface{}
	for _, item := range items {
		itemQuery += "(?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.Quantity, item.PriceAtPurchase)
	}

	// Remove the trailing comma
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err := tx.ExecContext(ctx, itemQuery, values...)
	return err
}
