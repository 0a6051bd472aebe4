package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/shop/internal/apperr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newRetryTestService(maxRetry int) *OrderService {
	return NewOrderService(nil, nil, nil, zerolog.Nop(), maxRetry)
}

// 鎖競爭失敗兩次後成功，整個workflow被重跑而不是放棄
func TestRetryOnContention_RecoversWithinBudget(t *testing.T) {
	svc := newRetryTestService(3)

	calls := 0
	err := svc.retryOnContention(context.Background(), func() error {
		calls++
		if calls < 3 {
			return apperr.New(apperr.ContentionCode, "row lock contention")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

// 次數用盡後把最後一次的錯誤丟回呼叫端
func TestRetryOnContention_Exhausted(t *testing.T) {
	svc := newRetryTestService(3)

	calls := 0
	err := svc.retryOnContention(context.Background(), func() error {
		calls++
		return apperr.New(apperr.ContentionCode, "row lock contention")
	})

	require.True(t, apperr.IsCode(err, apperr.ContentionCode))
	require.Equal(t, 3, calls)
}

// 非鎖競爭的錯誤不重試
func TestRetryOnContention_NonRetryable(t *testing.T) {
	svc := newRetryTestService(3)

	calls := 0
	err := svc.retryOnContention(context.Background(), func() error {
		calls++
		return apperr.New(apperr.InvalidArgumentCode, "bad input")
	})

	require.True(t, apperr.IsCode(err, apperr.InvalidArgumentCode))
	require.Equal(t, 1, calls)
}

// context取消後不再等下一輪backoff
func TestRetryOnContention_ContextCancelled(t *testing.T) {
	svc := newRetryTestService(5)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := svc.retryOnContention(ctx, func() error {
		calls++
		cancel()
		return apperr.New(apperr.ContentionCode, "row lock contention")
	})

	require.True(t, apperr.IsCode(err, apperr.ContentionCode))
	require.Equal(t, 1, calls)
}

// maxRetry給0或負值時退回預設3次
func TestNewOrderServiceDefaultRetry(t *testing.T) {
	require.Equal(t, 3, newRetryTestService(0).maxRetry)
	require.Equal(t, 3, newRetryTestService(-1).maxRetry)
	require.Equal(t, 5, newRetryTestService(5).maxRetry)
}
