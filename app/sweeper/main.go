package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/database/mongoclient"
	"github.com/bidhaus/goapi/base/database/redisclient"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/base/sweeper"
	mmiddleware "github.com/bidhaus/goapi/middleware"
	"github.com/bidhaus/goapi/service/query"
	auction_repository "github.com/bidhaus/goapi/stores/auction/repository"
	auction_usecase "github.com/bidhaus/goapi/stores/auction/usecase"
	bid_repository "github.com/bidhaus/goapi/stores/bid/repository"
	"github.com/bidhaus/goapi/stores/notification/publisher"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/sweeper/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())

	// start server to pass health checks
	startEchoServer()

	sweepInterval := viper.GetDuration("sweeper.sweepInterval")
	countdownInterval := viper.GetDuration("sweeper.countdownInterval")

	ctx.WithFields(log.Fields{
		"sweepInterval":     sweepInterval,
		"countdownInterval": countdownInterval,
	}).Info("config")

	ctx.Info("init mongo")
	q := initMongo()

	ctx.Info("init redis")
	redisURI := viper.GetString("redis.uri")
	redisPwd := viper.GetString("redis.password")
	redisPoolMultiplier := viper.GetFloat64("redis.poolMultiplier")
	redisPool := redisclient.MustConnectRedis(redisURI, redisPwd, redisclient.RedisParam{
		PoolMultiplier: redisPoolMultiplier,
		Retry:          true,
	})

	errCh := make(chan error, 10)

	auctionRepo := auction_repository.NewAuctionRepo(q)
	approvalRepo := auction_repository.NewApprovalRepo(q)
	bidRepo := bid_repository.NewBidRepo(q)
	notifier := publisher.New(redisPool)

	auction := auction_usecase.New(&auction_usecase.Cfg{
		AuctionRepo:  auctionRepo,
		ApprovalRepo: approvalRepo,
		BidRepo:      bidRepo,
		Publisher:    notifier,
	})

	statusSweeper := sweeper.NewStatusSweeper(&sweeper.StatusSweeperCfg{
		Auction:  auction,
		Interval: sweepInterval,
		ErrorCh:  errCh,
	})
	countdownNotifier := sweeper.NewCountdownNotifier(&sweeper.CountdownNotifierCfg{
		Auction:   auction,
		Publisher: notifier,
		Interval:  countdownInterval,
		ErrorCh:   errCh,
	})

	statusSweeper.Start(ctx)
	countdownNotifier.Start(ctx)

	go func() {
		for err := range errCh {
			ctx.WithField("err", err).Error("sweep error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")

	cancel()
	statusSweeper.Wait()
	countdownNotifier.Wait()
}

func startEchoServer() {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}

func initMongo() query.Mongo {
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	return query.New(mongoClient, checkIndex)
}
