package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// checkoutRequest carries the customer contact form plus either a single
// product or the browser cart.
type checkoutRequest struct {
	CustomerName string                   `json:"customer_name"`
	PhoneNumber  string                   `json:"phone_number"`
	Address      string                   `json:"address"`
	Note         string                   `json:"note"`
	Product      *entity.OrderLineRequest `json:"product"`
	Items        []entity.CartItem        `json:"items"`
}

type orderCreateRequest struct {
	CustomerName string                    `json:"customer_name"`
	PhoneNumber  string                    `json:"phone_number"`
	Address      string                    `json:"address"`
	Note         string                    `json:"note"`
	Status       string                    `json:"status"`
	Items        []entity.OrderLineRequest `json:"items"`
}

type orderUpdateRequest struct {
	CustomerName *string                   `json:"customer_name"`
	PhoneNumber  *string                   `json:"phone_number"`
	Address      *string                   `json:"address"`
	Status       *string                   `json:"status"`
	Items        []entity.OrderLineRequest `json:"items"`
}

// Checkout places a customer order --> POST /api/checkout
func (h *OrderHandler) Checkout(c echo.Context) error {
	req := checkoutRequest{}
	if err := c.Bind(&req); err != nil {
		return message(c, 400, "invalid request payload")
	}

	form := entity.CheckoutForm{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		Note:         req.Note,
	}

	var requests []entity.OrderLineRequest
	if req.Product != nil {
		requests = append(requests, *req.Product)
	}
	for _, item := range req.Items {
		requests = append(requests, entity.OrderLineRequest{ProductID: item.ID, Quantity: item.Quantity})
	}

	idempotentKey := c.Request().Header.Get("Idempotent-Key")

	order, err := h.orderService.Checkout(c.Request().Context(), form, requests, idempotentKey)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, order)
}

// GetOrders lists all orders --> GET /api/orders
func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.orderService.GetOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if orders == nil {
		orders = []*entity.OrderSummary{}
	}
	return c.JSON(200, orders)
}

// GetOrder fetches one order with its items --> GET /api/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	order, err := h.orderService.GetOrderByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, order)
}

// CreateOrder creates an order from the admin panel --> POST /api/orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	req := orderCreateRequest{}
	if err := c.Bind(&req); err != nil {
		return message(c, 400, "invalid request payload")
	}

	order := &entity.Order{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		Note:         req.Note,
	}
	if req.Status != "" {
		status, err := entity.ParseOrderStatus(req.Status)
		if err != nil {
			return message(c, 400, err.Error())
		}
		order.Status = status
	}

	created, err := h.orderService.CreateOrder(c.Request().Context(), order, req.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, created)
}

// UpdateOrder updates an order, optionally replacing its full item set
// --> PUT /api/orders/:id
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	req := orderUpdateRequest{}
	if err := c.Bind(&req); err != nil {
		return message(c, 400, "invalid request payload")
	}

	upd := entity.OrderUpdate{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		Items:        req.Items,
	}
	if req.Status != nil {
		status, err := entity.ParseOrderStatus(*req.Status)
		if err != nil {
			return message(c, 400, err.Error())
		}
		upd.Status = &status
	}

	updated, err := h.orderService.UpdateOrder(c.Request().Context(), id, upd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, updated)
}

// DeleteOrder deletes an order and its items --> DELETE /api/orders/:id
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return message(c, 400, "invalid id")
	}

	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]bool{"ok": true})
}
