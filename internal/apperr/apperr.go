package apperr

import (
	"errors"
	"fmt"
)

type Code int

const (
	InvalidArgumentCode    Code = 460 // 參數驗證錯誤
	UnauthorizedCode       Code = 403 // 權限不足
	NotFoundCode           Code = 404 // 資源不存在
	FailedPreconditionCode Code = 409 // 狀態機不允許的轉換
	ContentionCode         Code = 423 // 鎖競爭逾時，可重試整個呼叫
	InsufficientStockCode  Code = 452 // 庫存不足，業務上可恢復
	InternalErrorCode      Code = 500 // 內部處理錯誤
)

var ErrStrMap = map[Code]string{
	InvalidArgumentCode:    "invalid argument",
	UnauthorizedCode:       "permission denied",
	NotFoundCode:           "resource not found",
	FailedPreconditionCode: "operation not allowed in current state",
	ContentionCode:         "resource contention, please retry",
	InsufficientStockCode:  "insufficient stock",
	InternalErrorCode:      "internal server error",
}

type AppError struct {
	Code    Code
	Message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.err
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, err: err}
}

// CodeOf 取出錯誤代碼，非AppError一律視為InternalErrorCode
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return InternalErrorCode
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// InsufficientStockError 庫存不足，帶出商品與短缺數量讓呼叫端呈現
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// AppErr 轉成帶InsufficientStockCode的AppError
func (e *InsufficientStockError) AppErr() *AppError {
	return &AppError{Code: InsufficientStockCode, Message: e.Error(), err: e}
}
