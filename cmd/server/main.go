package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/config"
	"github.com/scrapbid/marketplace/internal/database"
	"github.com/scrapbid/marketplace/internal/handler"
	"github.com/scrapbid/marketplace/internal/logger"
	"github.com/scrapbid/marketplace/internal/middleware"
	"github.com/scrapbid/marketplace/internal/queue"
	"github.com/scrapbid/marketplace/internal/repository"
	"github.com/scrapbid/marketplace/internal/router"
	"github.com/scrapbid/marketplace/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema migration failed: %v", err)
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	scrap := repository.NewScrapRepo(db)
	auctions := repository.NewAuctionRepo(db)
	bids := repository.NewBidRepo(db)
	payments := repository.NewPaymentRepo(db)
	transactions := repository.NewTransactionRepo(db)
	subs := repository.NewSubscriptionRepo(db)

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting and response caching. Both degrade to
	// no-ops when Redis is unreachable.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterAuctions(e, handler.NewAuctionHandler(auctions, bids, scrap), cfg.JWTSecret)
	router.RegisterBids(e, handler.NewBidHandler(bids, auctions), cfg.JWTSecret)
	router.RegisterScrap(e, handler.NewScrapHandler(scrap), cfg.JWTSecret)
	router.RegisterLedger(e, handler.NewPaymentHandler(payments), handler.NewTransactionHandler(transactions), cfg.JWTSecret)
	router.RegisterUsers(e, handler.NewUserHandler(users), cfg.JWTSecret)
	router.RegisterSubscriptions(e, handler.NewSubscriptionHandler(subs), cfg.JWTSecret)

	// Background jobs: expired-auction sweeper, digest dispatcher and the
	// broker consumer that writes domain events to logs/.
	go worker.NewSweeper(auctions, bids, cfg.SweepInterval).Run(ctx)
	go worker.NewDigestDispatcher(subs, auctions, bids, cfg.DigestInterval).Run(ctx)
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			logger.Error("event consumer stopped", map[string]any{"error": err.Error()})
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server starting", map[string]any{"addr": addr, "env": cfg.Env})

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
