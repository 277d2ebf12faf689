package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	app "github.com/lions-mane/tracer-ome/internal/app/engine"
	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
	matchpublisher "github.com/lions-mane/tracer-ome/internal/usecase/match-publisher"
	orderreader "github.com/lions-mane/tracer-ome/internal/usecase/order-reader"
	orderbook "github.com/lions-mane/tracer-ome/internal/usecase/orderbook"
	settlement "github.com/lions-mane/tracer-ome/internal/usecase/settlement"
	snapshot "github.com/lions-mane/tracer-ome/internal/usecase/snapshot"
	"github.com/lions-mane/tracer-ome/pkg/config"
	"github.com/lions-mane/tracer-ome/pkg/logger"
	"github.com/lions-mane/tracer-ome/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	market, err := orderbookv1.ParseAddress(cfg.Market)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "parse_market",
		})
		return
	}

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = strings.Split(cfg.Redis.Addrs, ",")
	redisConfig.Password = cfg.Redis.Password
	redisConfig.Username = cfg.Redis.Username
	redisConfig.DB = cfg.Redis.DB

	rclient := redis.NewClient(log, redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	// Initialize components
	book := orderbook.NewBook(market, log)
	oReader := orderreader.NewReader(cfg.OrderIngest, log)
	mPublisher := matchpublisher.NewPublisher(cfg.MatchPublisher, log)
	sClient := settlement.NewClient(cfg.Settlement, log)
	snapshotStore := snapshot.NewSnapshotStore(rclient, market.Hex(), log)

	engine := app.NewEngine(
		book,
		oReader,
		mPublisher,
		sClient,
		snapshotStore,
		log,
		cfg,
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Order matching engine started", logger.Field{
		Key:   "market",
		Value: market.Hex(),
	})

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := mPublisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_match_publisher",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Order matching engine shutdown complete")
}
