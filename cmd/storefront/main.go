package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/simpledough/storefront/internal/api"
	"github.com/simpledough/storefront/internal/api/handler"
	"github.com/simpledough/storefront/internal/api/metrics"
	"github.com/simpledough/storefront/internal/core/service"
	mongodb "github.com/simpledough/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/simpledough/storefront/internal/infrastructure/db/redis"
	"github.com/simpledough/storefront/internal/infrastructure/identity"
	"github.com/simpledough/storefront/internal/pkg/config"
	"github.com/simpledough/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure mongo indexes")
	}

	redisCfg := redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, KeyPrefix: cfg.Redis.KeyPrefix}
	redisClient, err := redisdb.Connect(ctx, redisCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}

	provider, err := identity.NewProvider(
		mongodb.NewUserStore(db),
		redisdb.NewTokenRevocations(redisClient, redisCfg),
		identity.Config{
			Secret:              cfg.Session.JWTSecret,
			SessionTTL:          cfg.Session.TTL,
			RequireConfirmation: cfg.Session.RequireConfirmation,
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build identity provider")
	}

	kv := redisdb.NewKVStore(redisClient, redisCfg)
	customers := mongodb.NewCustomerRepository(db)

	session := service.NewSessionManager(provider, customers, kv, cfg.Session.HydrationTimeout, logger.Component("session"))

	cart := service.NewCartStore(kv, logger.Component("cart"))
	session.Subscribe(cart)
	if err := cart.SwitchIdentity(ctx, nil); err != nil {
		log.Warn().Err(err).Msg("load guest cart")
	}

	gate := service.NewProfileGate(session, session, logger.Component("profile"))
	session.Subscribe(gate)

	history := service.NewOrderHistoryService(session, customers, mongodb.NewOrderRepository(db), logger.Component("orders"))
	catalog := service.NewCatalogService(mongodb.NewProductRepository(db), logger.Component("catalog"))

	state := session.Hydrate(ctx)
	metrics.SessionHydrationsTotal.WithLabelValues(string(state)).Inc()
	log.Info().Str("session", string(state)).Msg("session hydrated")

	e := api.NewRouter(api.Dependencies{
		Session: session,
		Profile: gate,
		Catalog: catalog,
		Cart:    cart,
		Orders:  history,
		Health: map[string]handler.Pinger{
			"mongo": mongodb.NewPinger(mongoClient),
			"redis": redisdb.NewPinger(redisClient),
		},
		Log: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
	log.Info().Msg("stopped")
}
