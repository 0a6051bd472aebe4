package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/RoyceAzure/lab/shop/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsContentionErr(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"serialization failure", "40001", true},
		{"deadlock detected", "40P01", true},
		{"lock not available", "55P03", true},
		{"unique violation", "23505", false},
		{"check violation", "23514", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.code}
			require.Equal(t, tt.want, isContentionErr(pgErr))
			// driver錯誤通常包在外層
			require.Equal(t, tt.want, isContentionErr(fmt.Errorf("exec: %w", pgErr)))
		})
	}

	require.False(t, isContentionErr(errors.New("plain")))
	require.False(t, isContentionErr(nil))
}

func TestTranslateDBErr(t *testing.T) {
	require.NoError(t, translateDBErr(nil))

	require.True(t, apperr.IsCode(translateDBErr(gorm.ErrRecordNotFound), apperr.NotFoundCode))

	// 鎖競爭的SQLSTATE對應到可重試的ContentionCode
	lockErr := translateDBErr(fmt.Errorf("exec: %w", &pgconn.PgError{Code: "55P03"}))
	require.True(t, apperr.IsCode(lockErr, apperr.ContentionCode))

	// 已經是AppError就原樣穿透，不再包一層
	appErr := apperr.New(apperr.InvalidArgumentCode, "bad input")
	require.Equal(t, error(appErr), translateDBErr(appErr))

	// 其他錯誤不動
	plain := errors.New("plain")
	require.Equal(t, plain, translateDBErr(plain))
}
