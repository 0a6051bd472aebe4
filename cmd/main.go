package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/api/handler"
	"github.com/RoyceAzure/lab/shop/internal/api/router"
	"github.com/RoyceAzure/lab/shop/internal/config"
	"github.com/RoyceAzure/lab/shop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/shop/internal/service"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cf := config.GetConfig()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "shop").Logger()

	conn, err := db.GetDbConn(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	if err != nil {
		log.Fatal(err)
	}
	store := db.NewStore(conn)
	if err := store.InitMigrate(); err != nil {
		log.Fatal(err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cf.RedisAddr,
		Password: cf.RedisPassword,
	})
	stockCache := redis_repo.NewStockCacheRepo(redisClient, time.Duration(cf.StockCacheTTLSecs)*time.Second)

	var eventProducer producer.IOrderEventProducer = producer.NoopOrderEventProducer{}
	if cf.KafkaBrokers != "" {
		eventProducer = producer.NewOrderEventProducer(strings.Split(cf.KafkaBrokers, ","), cf.OrderEventTopic)
	}

	orderService := service.NewOrderService(store, stockCache, eventProducer, logger, cf.CheckoutMaxRetry)
	productService := service.NewProductService(store, stockCache, logger)

	server := api.NewServer(
		handler.NewOrderHandler(orderService),
		handler.NewCatalogHandler(productService),
	)
	r := router.SetupRouter(server, &logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cf.ServerPort),
		Handler: r,
	}

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutDownCompleted := make(chan struct{}, 1)
	go func() {
		<-sigChan
		logger.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
		if err := eventProducer.Close(); err != nil {
			logger.Error().Err(err).Msg("producer close error")
		}
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}

		shutDownCompleted <- struct{}{}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal(err)
	}
	<-shutDownCompleted
	logger.Info().Msg("closed completed")
}
