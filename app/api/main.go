package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/database/mongoclient"
	"github.com/bidhaus/goapi/base/database/redisclient"
	"github.com/bidhaus/goapi/base/log"
	bValidator "github.com/bidhaus/goapi/base/validator"
	mmiddleware "github.com/bidhaus/goapi/middleware"
	"github.com/bidhaus/goapi/service/cache"
	"github.com/bidhaus/goapi/service/cache/provider/primitive"
	"github.com/bidhaus/goapi/service/query"
	account_delivery "github.com/bidhaus/goapi/stores/account/delivery/http"
	account_repository "github.com/bidhaus/goapi/stores/account/repository"
	account_usecase "github.com/bidhaus/goapi/stores/account/usecase"
	auction_delivery "github.com/bidhaus/goapi/stores/auction/delivery/http"
	auction_repository "github.com/bidhaus/goapi/stores/auction/repository"
	auction_usecase "github.com/bidhaus/goapi/stores/auction/usecase"
	bid_delivery "github.com/bidhaus/goapi/stores/bid/delivery/http"
	bid_repository "github.com/bidhaus/goapi/stores/bid/repository"
	bid_usecase "github.com/bidhaus/goapi/stores/bid/usecase"
	hc_delivery "github.com/bidhaus/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/bidhaus/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/bidhaus/goapi/stores/healthcheck/usecase"
	"github.com/bidhaus/goapi/stores/notification/publisher"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/api/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis pool for pub/sub notifications
	context.Info("init redis")
	redisURI := viper.GetString("redis.uri")
	redisPwd := viper.GetString("redis.password")
	redisPoolMultiplier := viper.GetFloat64("redis.poolMultiplier")
	redisPool := redisclient.MustConnectRedis(redisURI, redisPwd, redisclient.RedisParam{
		PoolMultiplier: redisPoolMultiplier,
		Retry:          true,
	})

	mmiddleware.SetupCache()

	auctionCacheTTL := viper.GetDuration("cache.auctionTTL")
	auctionCache := cache.New(cache.ServiceConfig{
		Ttl:   auctionCacheTTL,
		Pfx:   "auctionDisplay",
		Cache: primitive.NewPrimitive("auctionDisplay", 1024),
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisPool)
	accountRepo := account_repository.New(q)
	auctionRepo := auction_repository.NewAuctionRepo(q)
	approvalRepo := auction_repository.NewApprovalRepo(q)
	bidRepo := bid_repository.NewBidRepo(q)

	notifier := publisher.New(redisPool)

	hc := hc_usecase.New(hcRepo)
	account := account_usecase.New(&account_usecase.Cfg{
		AccountRepo: accountRepo,
	})
	auction := auction_usecase.New(&auction_usecase.Cfg{
		AuctionRepo:  auctionRepo,
		ApprovalRepo: approvalRepo,
		BidRepo:      bidRepo,
		Publisher:    notifier,
		Cache:        auctionCache,
	})
	bid := bid_usecase.New(&bid_usecase.Cfg{
		AuctionRepo:  auctionRepo,
		ApprovalRepo: approvalRepo,
		BidRepo:      bidRepo,
		Auction:      auction,
		Publisher:    notifier,
	})

	hc_delivery.New(e, hc)
	account_delivery.New(e, account)
	auction_delivery.New(e, auction)
	bid_delivery.New(e, bid, account)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
