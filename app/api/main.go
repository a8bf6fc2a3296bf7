package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/database/mongoclient"
	"github.com/glazehouse/potteryapi/base/database/redisclient"
	"github.com/glazehouse/potteryapi/base/goroutine"
	"github.com/glazehouse/potteryapi/base/log"
	"github.com/glazehouse/potteryapi/base/metrics"
	bValidator "github.com/glazehouse/potteryapi/base/validator"
	mmiddleware "github.com/glazehouse/potteryapi/middleware"
	"github.com/glazehouse/potteryapi/service/query"
	"github.com/glazehouse/potteryapi/service/redis"
	account_delivery "github.com/glazehouse/potteryapi/stores/account/delivery/http"
	account_repository "github.com/glazehouse/potteryapi/stores/account/repository"
	account_usecase "github.com/glazehouse/potteryapi/stores/account/usecase"
	auction_delivery "github.com/glazehouse/potteryapi/stores/auction/delivery/http"
	auction_repository "github.com/glazehouse/potteryapi/stores/auction/repository"
	auction_usecase "github.com/glazehouse/potteryapi/stores/auction/usecase"
	auth_middleware "github.com/glazehouse/potteryapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/glazehouse/potteryapi/stores/auth/usecase"
	bid_delivery "github.com/glazehouse/potteryapi/stores/bid/delivery/http"
	bid_repository "github.com/glazehouse/potteryapi/stores/bid/repository"
	bid_usecase "github.com/glazehouse/potteryapi/stores/bid/usecase"
	commission_delivery "github.com/glazehouse/potteryapi/stores/commission/delivery/http"
	commission_repository "github.com/glazehouse/potteryapi/stores/commission/repository"
	commission_usecase "github.com/glazehouse/potteryapi/stores/commission/usecase"
	hc_delivery "github.com/glazehouse/potteryapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/glazehouse/potteryapi/stores/healthcheck/repository"
	hc_usecase "github.com/glazehouse/potteryapi/stores/healthcheck/usecase"
	item_delivery "github.com/glazehouse/potteryapi/stores/item/delivery/http"
	item_repository "github.com/glazehouse/potteryapi/stores/item/repository"
	item_usecase "github.com/glazehouse/potteryapi/stores/item/usecase"
)

func init() {
	configFile := pflag.String("config", "configs/config.yaml", "config file path")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
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

	// init redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), redisCachePool)

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	accountRepo := account_repository.NewAccount(q)
	auctionRepo := auction_repository.NewAuction(q, redisCache)
	itemRepo := item_repository.NewItem(q, redisCache)
	bidRepo := bid_repository.NewBid(q)
	commissionRepo := commission_repository.NewCommission(q)

	hc := hc_usecase.New(hcRepo)
	account := account_usecase.NewAccount(accountRepo)
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), accountRepo)
	auction := auction_usecase.NewAuction(q, auctionRepo, itemRepo, bidRepo)
	item := item_usecase.NewItem(q, itemRepo, auctionRepo, bidRepo)
	bid := bid_usecase.NewBid(bidRepo, itemRepo, auctionRepo)
	commission := commission_usecase.NewCommission(commissionRepo)

	authMiddleware := auth_middleware.New(auth)

	hc_delivery.New(e, hc)
	account_delivery.New(e, account, auth, authMiddleware)
	auction_delivery.New(e, auction, authMiddleware)
	item_delivery.New(e, item, authMiddleware)
	bid_delivery.New(e, bid, authMiddleware)
	commission_delivery.New(e, commission, authMiddleware)

	// expiry sweep transitions overdue auctions to ended
	sweepDone := make(chan struct{})
	if viper.GetBool("auction.autoClose") {
		interval := viper.GetDuration("auction.sweepInterval")
		if interval <= 0 {
			interval = time.Minute
		}
		goroutine.RecoverableGo(func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-sweepDone:
					return
				case <-ticker.C:
					sweepCtx := ctx.Background()
					if closed, err := auction.CloseExpired(sweepCtx, time.Now()); err == nil && closed > 0 {
						sweepCtx.WithField("closed", closed).Info("closed expired auctions")
					}
				}
			}
		})
	}

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
	close(sweepDone)
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
