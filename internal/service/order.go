package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/apperr"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
)

// checkoutTimeout bounds the whole order-placement transaction, including
// the wait for the product row locks.
const checkoutTimeout = 5 * time.Second

// OrderStore is the order persistence surface, including the checkout
// transaction.
type OrderStore interface {
	Checkout(ctx context.Context, form entity.CheckoutForm, requests []entity.OrderLineRequest) (*entity.Order, error)
	CreateOrder(ctx context.Context, order *entity.Order, requests []entity.OrderLineRequest) (*entity.Order, error)
	UpdateOrder(ctx context.Context, id int, upd entity.OrderUpdate) (*entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	GetOrders(ctx context.Context) ([]*entity.OrderSummary, error)
	DeleteOrder(ctx context.Context, id int) error
}

// OrderService is a service that provides order-related operations.
type OrderService struct {
	orderRepo   OrderStore
	catalog     *CatalogService
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(orderRepo OrderStore, catalog *CatalogService, kafkaWriter *kafka.Writer, rdb *redis.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		catalog:     catalog,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

// Checkout places a customer order. Stock validation, price snapshotting,
// order/item writes and stock decrements happen atomically in the store; on
// success the affected product cache entries are invalidated and an order
// event is published.
func (s *OrderService) Checkout(ctx context.Context, form entity.CheckoutForm, requests []entity.OrderLineRequest, idempotentKey string) (*entity.Order, error) {
	if strings.TrimSpace(form.CustomerName) == "" || strings.TrimSpace(form.PhoneNumber) == "" || strings.TrimSpace(form.Address) == "" {
		return nil, apperr.Invalid("customer_name, phone_number and address are required")
	}
	if len(requests) == 0 {
		return nil, apperr.Invalid("order has no items")
	}

	if idempotentKey != "" {
		ok, err := s.validateIdempotentKey(ctx, idempotentKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.Conflict("order was already submitted")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, checkoutTimeout)
	defer cancel()

	order, err := s.orderRepo.Checkout(ctx, form, requests)
	if err != nil {
		if !errors.Is(err, apperr.ErrInvalid) {
			logger.Error().Err(err).Msg("Error creating order")
		}
		return nil, err
	}

	for _, item := range order.Items {
		s.catalog.InvalidateProduct(ctx, item.ProductID)
	}

	if err := s.publishOrderEvent(ctx, order, "created"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing created event for order %d", order.ID)
	}

	return order, nil
}

func (s *OrderService) GetOrders(ctx context.Context) ([]*entity.OrderSummary, error) {
	orders, err := s.orderRepo.GetOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting orders")
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting order by ID %d", id)
		}
		return nil, err
	}
	return order, nil
}

// CreateOrder is the admin path: totals and line prices are recomputed from
// current sale prices, stock is left alone.
func (s *OrderService) CreateOrder(ctx context.Context, order *entity.Order, requests []entity.OrderLineRequest) (*entity.Order, error) {
	if strings.TrimSpace(order.CustomerName) == "" || strings.TrimSpace(order.PhoneNumber) == "" || strings.TrimSpace(order.Address) == "" {
		return nil, apperr.Invalid("customer_name, phone_number and address are required")
	}
	if len(requests) == 0 {
		return nil, apperr.Invalid("order has no items")
	}
	if order.Status == "" {
		order.Status = entity.StatusNew
	}

	created, err := s.orderRepo.CreateOrder(ctx, order, requests)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	if err := s.publishOrderEvent(ctx, created, "created"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing created event for order %d", created.ID)
	}

	return created, nil
}

// UpdateOrder applies an admin edit; a replaced item set recomputes the
// total from current prices inside the store transaction.
func (s *OrderService) UpdateOrder(ctx context.Context, id int, upd entity.OrderUpdate) (*entity.Order, error) {
	updated, err := s.orderRepo.UpdateOrder(ctx, id, upd)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error updating order %d", id)
		}
		return nil, err
	}

	action := "updated"
	if upd.Status != nil && *upd.Status == entity.StatusCancelled {
		action = "cancelled"
	}
	if err := s.publishOrderEvent(ctx, updated, action); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event for order %d", action, id)
	}

	return updated, nil
}

// CancelOrder moves an order to CANCELLED.
func (s *OrderService) CancelOrder(ctx context.Context, id int) (*entity.Order, error) {
	status := entity.StatusCancelled
	return s.UpdateOrder(ctx, id, entity.OrderUpdate{Status: &status})
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error deleting order %d", id)
		}
		return err
	}

	if err := s.publishOrderEvent(ctx, order, "deleted"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing deleted event for order %d", id)
	}

	return nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, action string) error {
	// if env is set to test, skip publishing
	if os.Getenv("ENV") == "test" || s.kafkaWriter == nil {
		return nil
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	// order.created.1 or order.cancelled.1
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%d", action, order.ID)),
		Value: orderJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}

func (s *OrderService) validateIdempotentKey(ctx context.Context, key string) (bool, error) {
	// if env is set to test, accept the key
	if os.Getenv("ENV") == "test" || s.rdb == nil {
		return true, nil
	}

	// check if the key exists in the redis cache; a hit means this order
	// was already submitted
	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	val, err := s.rdb.Get(ctx, redisKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	if val != "" {
		return false, nil
	}

	if err := s.rdb.Set(ctx, redisKey, "exists", 24*time.Hour).Err(); err != nil {
		return false, err
	}

	return true, nil
}
