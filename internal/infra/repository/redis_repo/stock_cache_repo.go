package redis_repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// IStockCacheRepository 庫存加總的redis投影
// 只服務商品列表的讀取，永遠不是真相來源，DB的stocks才是
type IStockCacheRepository interface {
	// GetStockTotal 取得商品庫存加總快取
	GetStockTotal(ctx context.Context, productID uint) (int, error)

	// SetStockTotal 寫入庫存加總快取
	SetStockTotal(ctx context.Context, productID uint, total int) error

	// DeleteStockTotal 刪除快取，下次讀取回DB重建
	DeleteStockTotal(ctx context.Context, productID uint) error
}

type StockCacheRepoError error

var (
	ErrCacheMiss StockCacheRepoError = errors.New("stock cache miss")
)

type StockCacheRepo struct {
	stockCache *redis.Client
	ttl        time.Duration
}

func NewStockCacheRepo(stockCache *redis.Client, ttl time.Duration) *StockCacheRepo {
	return &StockCacheRepo{stockCache: stockCache, ttl: ttl}
}

// redis 結構:
//
//	product:{id}:stock_total -> int, 帶TTL
func generateStockTotalKey(productID uint) string {
	return fmt.Sprintf("product:%d:stock_total", productID)
}

func (s *StockCacheRepo) GetStockTotal(ctx context.Context, productID uint) (int, error) {
	redisKey := generateStockTotalKey(productID)
	val, err := s.stockCache.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrCacheMiss
	}
	if err != nil {
		return 0, err
	}

	total, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (s *StockCacheRepo) SetStockTotal(ctx context.Context, productID uint, total int) error {
	redisKey := generateStockTotalKey(productID)
	return s.stockCache.Set(ctx, redisKey, total, s.ttl).Err()
}

func (s *StockCacheRepo) DeleteStockTotal(ctx context.Context, productID uint) error {
	redisKey := generateStockTotalKey(productID)
	return s.stockCache.Del(ctx, redisKey).Err()
}

var _ IStockCacheRepository = (*StockCacheRepo)(nil)
