package redis_repo

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testRedisAddr     = "localhost:6379"
	testRedisPassword = "password"
)

type StockCacheRepoTestSuite struct {
	suite.Suite
	repo *StockCacheRepo
}

func setupTestRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     testRedisAddr,
		Password: testRedisPassword,
		DB:       1, // 用測試DB
	})
}

func (suite *StockCacheRepoTestSuite) SetupTest() {
	rdb := setupTestRedis()
	rdb.FlushDB(context.Background())
	suite.repo = NewStockCacheRepo(rdb, 5*time.Minute)
}

func TestStockCacheRepoTestSuite(t *testing.T) {
	suite.Run(t, new(StockCacheRepoTestSuite))
}

func (suite *StockCacheRepoTestSuite) TestSetAndGetStockTotal() {
	ctx := context.Background()

	err := suite.repo.SetStockTotal(ctx, 1, 42)
	require.NoError(suite.T(), err)

	total, err := suite.repo.GetStockTotal(ctx, 1)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 42, total)
}

func (suite *StockCacheRepoTestSuite) TestGetStockTotal_Miss() {
	_, err := suite.repo.GetStockTotal(context.Background(), 999)
	require.ErrorIs(suite.T(), err, ErrCacheMiss)
}

func (suite *StockCacheRepoTestSuite) TestDeleteStockTotal() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.repo.SetStockTotal(ctx, 2, 10))
	require.NoError(suite.T(), suite.repo.DeleteStockTotal(ctx, 2))

	_, err := suite.repo.GetStockTotal(ctx, 2)
	require.ErrorIs(suite.T(), err, ErrCacheMiss)

	// 刪不存在的key不算錯
	require.NoError(suite.T(), suite.repo.DeleteStockTotal(ctx, 2))
}

func (suite *StockCacheRepoTestSuite) TestSetStockTotal_Overwrite() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.repo.SetStockTotal(ctx, 3, 5))
	require.NoError(suite.T(), suite.repo.SetStockTotal(ctx, 3, 8))

	total, err := suite.repo.GetStockTotal(ctx, 3)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 8, total)
}
