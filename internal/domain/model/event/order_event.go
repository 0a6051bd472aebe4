package event

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	OrderCreatedEventName   EventType = "OrderCreated"
	OrderConfirmedEventName EventType = "OrderConfirmed"
	OrderShippedEventName   EventType = "OrderShipped"
	OrderDeliveredEventName EventType = "OrderDelivered"
	OrderCancelledEventName EventType = "OrderCancelled"
	OrderRepeatedEventName  EventType = "OrderRepeated"
)

// 訂單生命週期通知事件，交易commit之後才發佈
// 只作下游通知用途，不是事件溯源，訂單真相在DB
type OrderEvent struct {
	EventID    string          `json:"event_id"`
	EventType  EventType       `json:"event_type"`
	OrderID    string          `json:"order_id"`
	UserID     uint            `json:"user_id"`
	OrderSum   decimal.Decimal `json:"order_sum"`
	FromStatus string          `json:"from_status,omitempty"`
	ToStatus   string          `json:"to_status"`
	OccurredAt time.Time       `json:"occurred_at"`
}
