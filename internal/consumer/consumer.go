package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
)

// Consumer listens for order events and drops the cache entries of the
// affected products, so replicas that did not serve the order still read
// fresh stock.
type Consumer struct {
	catalog *service.CatalogService
	reader  *kafka.Reader
}

func NewConsumer(catalog *service.CatalogService, reader *kafka.Reader) *Consumer {
	return &Consumer{catalog: catalog, reader: reader}
}

// Start blocks reading order events until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage processes one order event from the topic.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	// key -> "order.created.1" or "order.cancelled.1"
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) < 2 {
		log.Error().Msgf("Unknown event key: %s", msg.Key)
		return
	}

	switch parts[1] {
	case "created", "updated", "cancelled", "deleted":
		for _, item := range order.Items {
			c.catalog.InvalidateProduct(ctx, item.ProductID)
		}
	default:
		log.Error().Msgf("Unknown order event: %s", parts[1])
	}
}
