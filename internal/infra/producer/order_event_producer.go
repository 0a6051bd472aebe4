package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model/event"
	"github.com/segmentio/kafka-go"
)

// IOrderEventProducer 訂單生命週期事件發佈
// 在transaction commit之後呼叫，失敗由呼叫端記log，不影響已完成的訂單
type IOrderEventProducer interface {
	ProduceOrderEvent(ctx context.Context, evt *event.OrderEvent) error
	Close() error
}

// 以order_id當key，同一張訂單的事件落在同一分區，消費端看到的順序正確
type OrderEventProducer struct {
	writer *kafka.Writer
}

func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  kafka.Snappy,
	}
	return &OrderEventProducer{writer: writer}
}

func (p *OrderEventProducer) ProduceOrderEvent(ctx context.Context, evt *event.OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: payload,
		Time:  evt.OccurredAt,
	})
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}

var _ IOrderEventProducer = (*OrderEventProducer)(nil)

// NoopOrderEventProducer 測試或未配置kafka時使用
type NoopOrderEventProducer struct{}

func (NoopOrderEventProducer) ProduceOrderEvent(ctx context.Context, evt *event.OrderEvent) error {
	return nil
}

func (NoopOrderEventProducer) Close() error { return nil }

var _ IOrderEventProducer = (*NoopOrderEventProducer)(nil)
