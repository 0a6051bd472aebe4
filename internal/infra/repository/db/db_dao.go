package db

import (
	"errors"

	"github.com/RoyceAzure/lab/shop/internal/apperr"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{
		DB: conn,
	}
}

// 初始化db schema
// 冪等性
func (d *DbDao) InitMigrate() error {
	return d.AutoMigrate(
		&model.User{},
		&model.Warehouse{},
		&model.Product{},
		&model.PriceType{},
		&model.Price{},
		&model.Stock{},
		&model.DeliveryAddress{},
		&model.Order{},
		&model.OrderItem{},
	)
}

// postgres鎖競爭相關的SQLSTATE
// 40001 serialization_failure, 40P01 deadlock_detected, 55P03 lock_not_available
func isContentionErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}

// translateDBErr 把driver層錯誤對應到應用層錯誤代碼
// 呼叫端看到ContentionCode要重試整個workflow，而不是單一步驟
func translateDBErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.NotFoundCode, "record not found", err)
	}
	if isContentionErr(err) {
		return apperr.Wrap(apperr.ContentionCode, "row lock contention", err)
	}
	return err
}
