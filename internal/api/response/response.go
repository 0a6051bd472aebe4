package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/apperr"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type ResponseError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func SuccessJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// ErrorJSON 依錯誤代碼決定HTTP status
// ContentionCode回429讓client知道整個呼叫可以重試
func ErrorJSON(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := apperr.ErrStrMap[apperr.InternalErrorCode]

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
		switch appErr.Code {
		case apperr.InvalidArgumentCode, apperr.InsufficientStockCode:
			status = http.StatusBadRequest
		case apperr.NotFoundCode:
			status = http.StatusNotFound
		case apperr.UnauthorizedCode:
			status = http.StatusForbidden
		case apperr.FailedPreconditionCode:
			status = http.StatusConflict
		case apperr.ContentionCode:
			status = http.StatusTooManyRequests
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ResponseError{Success: false, Error: msg})
}
