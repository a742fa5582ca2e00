package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SaleRecorder books a paid order's lines against stock.
type SaleRecorder interface {
	RecordSale(ctx context.Context, lines []models.OrderLine) error
}

// OrderPaidConsumer drains the order events queue. SQS delivers at least
// once, so each order id is claimed in Redis before stock is touched.
type OrderPaidConsumer struct {
	queue    *aws_pkg.SQSConsumer
	recorder SaleRecorder
	redis    *redis.Client
	claimTTL time.Duration
	metrics  *aws_pkg.MetricsClient
}

func NewOrderPaidConsumer(queue *aws_pkg.SQSConsumer, recorder SaleRecorder, rdb *redis.Client, metrics *aws_pkg.MetricsClient) *OrderPaidConsumer {
	return &OrderPaidConsumer{
		queue:    queue,
		recorder: recorder,
		redis:    rdb,
		claimTTL: 7 * 24 * time.Hour,
		metrics:  metrics,
	}
}

// Start blocks until ctx is cancelled.
func (c *OrderPaidConsumer) Start(ctx context.Context) {
	zap.L().Info("order events consumer started")
	err := c.queue.StartPolling(ctx, c.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		zap.L().Error("order events consumer stopped", zap.Error(err))
	}
}

// Handle processes one queue message body. Malformed messages are dropped;
// recorder failures are returned so the message is redelivered.
func (c *OrderPaidConsumer) Handle(ctx context.Context, body string) error {
	// SNS-to-SQS subscriptions wrap the payload unless raw delivery is on.
	var envelope struct {
		Message           string `json:"Message"`
		MessageAttributes map[string]struct {
			Value string `json:"Value"`
		} `json:"MessageAttributes"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Message != "" {
		if attr, ok := envelope.MessageAttributes["event_type"]; ok && attr.Value != models.EventOrderPaid {
			return nil
		}
		body = envelope.Message
	}

	var evt models.OrderPaidEvent
	if err := json.Unmarshal([]byte(body), &evt); err != nil {
		zap.L().Warn("dropping malformed order event", zap.Error(err))
		return nil
	}
	if evt.OrderID == "" || len(evt.Lines) == 0 {
		zap.L().Warn("dropping order event without order id or lines", zap.String("order_id", evt.OrderID))
		return nil
	}

	claimed, err := c.claim(ctx, evt.OrderID)
	if err != nil {
		return err
	}
	if !claimed {
		zap.L().Info("order event already processed", zap.String("order_id", evt.OrderID))
		return nil
	}

	if err := c.recorder.RecordSale(ctx, evt.Lines); err != nil {
		c.release(ctx, evt.OrderID)
		return err
	}

	_ = c.metrics.RecordCount(ctx, aws_pkg.MetricSQSMessages, map[string]string{"Queue": "order-events"})
	zap.L().Info("stock booked for paid order", zap.String("order_id", evt.OrderID), zap.Int("lines", len(evt.Lines)))
	return nil
}

func (c *OrderPaidConsumer) claim(ctx context.Context, orderID string) (bool, error) {
	if c.redis == nil {
		return true, nil
	}
	return c.redis.SetNX(ctx, "sale:booked:"+orderID, 1, c.claimTTL).Result()
}

func (c *OrderPaidConsumer) release(ctx context.Context, orderID string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, "sale:booked:"+orderID).Err(); err != nil {
		zap.L().Warn("failed to release sale claim", zap.String("order_id", orderID), zap.Error(err))
	}
}
