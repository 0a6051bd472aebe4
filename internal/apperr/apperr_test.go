package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	require.Equal(t, NotFoundCode, CodeOf(New(NotFoundCode, "gone")))
	require.Equal(t, InternalErrorCode, CodeOf(errors.New("plain")))
	require.Equal(t, InternalErrorCode, CodeOf(nil))

	// 包在外層也要找得到
	wrapped := fmt.Errorf("outer: %w", New(ContentionCode, "lock timeout"))
	require.Equal(t, ContentionCode, CodeOf(wrapped))
	require.True(t, IsCode(wrapped, ContentionCode))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(InternalErrorCode, "query failed", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "query failed")
	require.Contains(t, err.Error(), "db down")
}

func TestInsufficientStockError(t *testing.T) {
	insErr := &InsufficientStockError{
		ProductID:   1,
		ProductName: "Widget",
		Requested:   5,
		Available:   2,
	}

	appErr := insErr.AppErr()
	require.True(t, IsCode(appErr, InsufficientStockCode))
	require.Contains(t, appErr.Error(), "Widget")

	// 從AppError還原出結構化明細
	var out *InsufficientStockError
	require.True(t, errors.As(appErr, &out))
	require.Equal(t, 5, out.Requested)
	require.Equal(t, 2, out.Available)
}
