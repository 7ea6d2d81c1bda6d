// internal/service/order/infrastructure/adapter/event_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"tienda/internal/pkg/mq"
	"tienda/internal/service/order/domain"
)

// 事件类型写在消息头里，消费方不用反序列化就能路由。
const (
	eventTypeHeader    = "event_type"
	eventStockReserved = "stock.reserved"
	eventOrderCanceled = "order.canceled"
)

// EventKafkaAdapter 是 port.EventPublisher 的 Kafka 实现。
// 以订单 ID 作为消息 Key，同一订单的事件落在同一分区内保序。
type EventKafkaAdapter struct {
	writer *kafka.Writer
}

func NewEventKafkaAdapter(writer *kafka.Writer) *EventKafkaAdapter {
	return &EventKafkaAdapter{writer: writer}
}

func (a *EventKafkaAdapter) PublishStockReserved(ctx context.Context, ev *domain.StockReserved) error {
	return a.publish(ctx, eventStockReserved, ev.OrderID, ev)
}

func (a *EventKafkaAdapter) PublishOrderCanceled(ctx context.Context, ev *domain.OrderCanceled) error {
	return a.publish(ctx, eventOrderCanceled, ev.OrderID, ev)
}

func (a *EventKafkaAdapter) publish(ctx context.Context, eventType string, orderID uint, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshal %s event", eventType)
	}
	key := []byte(strconv.FormatUint(uint64(orderID), 10))
	headers := mq.InjectHeaders(ctx, []kafka.Header{
		{Key: eventTypeHeader, Value: []byte(eventType)},
	})
	if err := mq.ProduceMessage(ctx, a.writer, key, value, headers...); err != nil {
		return errors.Wrapf(err, "produce %s event", eventType)
	}
	return nil
}
