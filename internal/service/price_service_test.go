package service

import (
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	retailType = &model.PriceType{PriceTypeID: 1, Code: "retail"}
	promoType  = &model.PriceType{PriceTypeID: 2, Code: "promo"}
)

func mkPrice(id uint, value string, typ *model.PriceType, start time.Time, end *time.Time, active bool, priority int) model.Price {
	return model.Price{
		PriceID:     id,
		PriceTypeID: typ.PriceTypeID,
		PriceType:   typ,
		Value:       decimal.RequireFromString(value),
		StartDate:   start,
		EndDate:     end,
		IsActive:    active,
		Priority:    priority,
	}
}

func TestResolveCurrentPriceWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	expired := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 1, 0)

	prices := []model.Price{
		mkPrice(1, "100.00", retailType, past, &expired, true, 0),  // 已過期
		mkPrice(2, "90.00", retailType, future, nil, true, 0),      // 未開始
		mkPrice(3, "80.00", retailType, past, nil, false, 0),       // 停用
		mkPrice(4, "70.00", retailType, past, &future, true, 0),    // 生效中
	}

	got := ResolveCurrentPrice(prices, "retail", now)
	require.NotNil(t, got)
	require.Equal(t, uint(4), got.PriceID)
}

func TestResolveCurrentPricePriorityWins(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)

	prices := []model.Price{
		mkPrice(1, "100.00", retailType, past, nil, true, 0),
		mkPrice(2, "85.00", retailType, past, nil, true, 10),
		mkPrice(3, "95.00", retailType, past, nil, true, 5),
	}

	got := ResolveCurrentPrice(prices, "retail", now)
	require.NotNil(t, got)
	require.Equal(t, uint(2), got.PriceID)
	require.True(t, got.Value.Equal(decimal.RequireFromString("85.00")))
}

func TestResolveCurrentPriceStartDateTiebreak(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	older := now.AddDate(0, -2, 0)
	newer := now.AddDate(0, -1, 0)

	prices := []model.Price{
		mkPrice(1, "100.00", retailType, older, nil, true, 5),
		mkPrice(2, "90.00", retailType, newer, nil, true, 5),
	}

	got := ResolveCurrentPrice(prices, "retail", now)
	require.NotNil(t, got)
	require.Equal(t, uint(2), got.PriceID)
}

func TestResolveCurrentPricePriceIDTiebreak(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	start := now.AddDate(0, -1, 0)

	// priority與start_date完全相同，取price_id最小
	prices := []model.Price{
		mkPrice(9, "100.00", retailType, start, nil, true, 5),
		mkPrice(3, "90.00", retailType, start, nil, true, 5),
		mkPrice(7, "80.00", retailType, start, nil, true, 5),
	}

	got := ResolveCurrentPrice(prices, "retail", now)
	require.NotNil(t, got)
	require.Equal(t, uint(3), got.PriceID)
}

func TestResolveCurrentPriceTypeFilter(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)

	prices := []model.Price{
		mkPrice(1, "100.00", retailType, past, nil, true, 0),
		mkPrice(2, "60.00", promoType, past, nil, true, 10),
	}

	got := ResolveCurrentPrice(prices, "retail", now)
	require.NotNil(t, got)
	require.Equal(t, uint(1), got.PriceID)

	got = ResolveCurrentPrice(prices, "promo", now)
	require.NotNil(t, got)
	require.Equal(t, uint(2), got.PriceID)

	// 不指定類型時所有生效價格都參與，promo priority較高勝出
	got = ResolveCurrentPrice(prices, "", now)
	require.NotNil(t, got)
	require.Equal(t, uint(2), got.PriceID)
}

func TestResolveCurrentPriceNoMatch(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)

	prices := []model.Price{
		mkPrice(1, "100.00", retailType, future, nil, true, 0),
	}

	require.Nil(t, ResolveCurrentPrice(prices, "retail", now))
	require.Nil(t, ResolveCurrentPrice(nil, "retail", now))
}

func TestResolveCurrentPriceDeterministic(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)

	prices := []model.Price{
		mkPrice(5, "100.00", retailType, past, nil, true, 3),
		mkPrice(2, "90.00", retailType, past, nil, true, 3),
		mkPrice(8, "80.00", promoType, past, nil, true, 1),
	}

	first := ResolveCurrentPrice(prices, "", now)
	require.NotNil(t, first)
	for i := 0; i < 50; i++ {
		got := ResolveCurrentPrice(prices, "", now)
		require.Equal(t, first.PriceID, got.PriceID)
	}
}
