package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/shop/internal/constants"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
)

// ActorMiddleware 外層服務已經驗證過身分，這裡只把header還原成Actor
// X-User-Id: 數字, X-User-Staff: true/false
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseUint(r.Header.Get("X-User-Id"), 10, 64)
		if err != nil || userID == 0 {
			http.Error(w, "missing or invalid X-User-Id", http.StatusUnauthorized)
			return
		}
		isStaff, _ := strconv.ParseBool(r.Header.Get("X-User-Staff"))

		actor := model.Actor{UserID: uint(userID), IsStaff: isStaff}
		ctx := context.WithValue(r.Context(), constants.ActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor 從context取出Actor，沒有就是零值
func GetActor(ctx context.Context) model.Actor {
	if v := ctx.Value(constants.ActorKey); v != nil {
		if actor, ok := v.(model.Actor); ok {
			return actor
		}
	}
	return model.Actor{}
}
