package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"new to confirmed", OrderStatusNew, OrderStatusConfirmed, true},
		{"new to cancelled", OrderStatusNew, OrderStatusCancelled, true},
		{"new to shipped", OrderStatusNew, OrderStatusShipped, false},
		{"new to delivered", OrderStatusNew, OrderStatusDelivered, false},
		{"confirmed to shipped", OrderStatusConfirmed, OrderStatusShipped, true},
		{"confirmed to cancelled", OrderStatusConfirmed, OrderStatusCancelled, true},
		{"confirmed to delivered", OrderStatusConfirmed, OrderStatusDelivered, false},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"shipped to cancelled", OrderStatusShipped, OrderStatusCancelled, false},
		{"delivered to cancelled", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled to confirmed", OrderStatusCancelled, OrderStatusConfirmed, false},
		{"cancelled to cancelled", OrderStatusCancelled, OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	require.True(t, OrderStatusDelivered.IsTerminal())
	require.True(t, OrderStatusCancelled.IsTerminal())
	require.False(t, OrderStatusNew.IsTerminal())
	require.False(t, OrderStatusConfirmed.IsTerminal())
	require.False(t, OrderStatusShipped.IsTerminal())
}

func TestPaymentMethodValid(t *testing.T) {
	require.True(t, PaymentMethodCash.Valid())
	require.True(t, PaymentMethodCard.Valid())
	require.True(t, PaymentMethodSbp.Valid())
	require.False(t, PaymentMethod("bitcoin").Valid())
	require.False(t, PaymentMethod("").Valid())
}

func TestOrderSumItems(t *testing.T) {
	order := Order{
		OrderItems: []OrderItem{
			{
				PricePerUnit: decimal.RequireFromString("10.00"),
				Quantity:     2,
				TotalPrice:   decimal.RequireFromString("20.00"),
			},
			{
				PricePerUnit: decimal.RequireFromString("5.00"),
				Quantity:     1,
				TotalPrice:   decimal.RequireFromString("5.00"),
			},
		},
	}

	require.True(t, order.SumItems().Equal(decimal.RequireFromString("25.00")))
}

func TestOrderSumItemsEmpty(t *testing.T) {
	order := Order{}
	require.True(t, order.SumItems().IsZero())
}
