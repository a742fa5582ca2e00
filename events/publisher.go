package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
)

// Publisher fans domain events out to SNS. A topic left empty disables that
// event; a nil Publisher disables all of them.
type Publisher struct {
	sns            aws_pkg.SNSPublisher
	orderTopic     string
	inventoryTopic string
}

func NewPublisher(sns aws_pkg.SNSPublisher, orderTopic, inventoryTopic string) *Publisher {
	return &Publisher{sns: sns, orderTopic: orderTopic, inventoryTopic: inventoryTopic}
}

func (p *Publisher) publish(ctx context.Context, topic, eventType string, payload interface{}) error {
	if p == nil || p.sns == nil || topic == "" {
		return nil
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return p.sns.Publish(ctx, topic, eventType, msg)
}

func (p *Publisher) OrderPaid(ctx context.Context, evt models.OrderPaidEvent) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, p.orderTopic, models.EventOrderPaid, evt)
}

func (p *Publisher) LowStock(ctx context.Context, evt models.LowStockEvent) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, p.inventoryTopic, models.EventInventoryLow, evt)
}
