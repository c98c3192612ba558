package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/transferbooking/api"
	"github.com/Domenick1991/transferbooking/config"
	"github.com/Domenick1991/transferbooking/internal/bootstrap"
	"github.com/Domenick1991/transferbooking/internal/cache"
	"github.com/Domenick1991/transferbooking/internal/kafka"
	"github.com/Domenick1991/transferbooking/internal/logger"
	"github.com/Domenick1991/transferbooking/internal/repository"
	"github.com/Domenick1991/transferbooking/internal/service/cart"
	"github.com/Domenick1991/transferbooking/internal/service/options"
	"github.com/Domenick1991/transferbooking/internal/service/pricing"
	"github.com/Domenick1991/transferbooking/internal/service/routes"
	"github.com/Domenick1991/transferbooking/internal/service/schedule"
	"github.com/Domenick1991/transferbooking/internal/service/wizard"
	"github.com/Domenick1991/transferbooking/migrations"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log)
	gin.SetMode(gin.ReleaseMode)

	loc, err := cfg.Transfer.Location()
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		applied, err := migrations.Apply(ctx, pool)
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.WithField("files", applied).Info("database schema applied")
	}

	redisCache := cache.NewRedisCache(cfg.Redis, config.Seconds(cfg.Transfer.RoutesCacheTTLSeconds))
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log.WithField("component", "kafka"))
	defer producer.Close()

	routeService := routes.NewRouteService(
		repository.NewRouteRepository(pool),
		log.WithField("component", "routes"),
		routes.WithCache(redisCache),
		routes.WithRetry(cfg.Transfer.RouteFetchAttempts, 200*time.Millisecond),
	)
	optionService := options.NewOptionService(repository.NewOptionRepository(pool), redisCache, log.WithField("component", "options"))

	var pricingOpts []pricing.PricingServiceOption
	if cfg.Pricing.QuoteURL != "" {
		pricingOpts = append(pricingOpts, pricing.WithQuoter(pricing.NewHTTPQuoter(cfg.Pricing.QuoteURL, config.Seconds(cfg.Pricing.QuoteTimeoutSeconds))))
	}
	pricingService := pricing.NewPricingService(log.WithField("component", "pricing"), pricingOpts...)

	validator := schedule.NewValidator(schedule.Rules{
		MinLeadTime:         config.Minutes(cfg.Transfer.MinLeadTimeMinutes),
		MinReturnGap:        config.Minutes(cfg.Transfer.MinReturnGapMinutes),
		MaxReturnWindowDays: cfg.Transfer.MaxReturnWindowDays,
		SlotInterval:        config.Minutes(cfg.Transfer.SlotIntervalMinutes),
	}, loc)

	wizardService := wizard.NewWizardService(
		redisCache,
		routeService,
		optionService,
		pricingService,
		validator,
		log.WithField("component", "wizard"),
		wizard.WithSettings(wizard.Settings{
			DraftTTL:  config.Minutes(cfg.Transfer.DraftTTLMinutes),
			LockTTL:   config.Seconds(cfg.Transfer.DraftLockSeconds),
			ResumeTTL: config.Minutes(cfg.Transfer.ResumeSnapshotTTLMinutes),
		}),
	)
	cartService := cart.NewService(
		wizardService,
		repository.NewCartRepository(pool),
		redisCache,
		log.WithField("component", "cart"),
		cart.WithProducer(producer, cfg.Kafka.CartEventsTopic),
		cart.WithHoldTTL(config.Minutes(cfg.Cart.HoldTTLMinutes)),
		cart.WithLockTTL(config.Seconds(cfg.Cart.SubmitLockSeconds)),
	)

	router := bootstrap.NewRouter(cfg, log, bootstrap.Handlers{
		Routes:           api.NewRouteHandler(routeService),
		Options:          api.NewOptionHandler(optionService),
		TransferBookings: api.NewTransferBookingHandler(wizardService, cartService),
		CartItems:        api.NewCartItemHandler(cartService),
	},
		bootstrap.HealthCheck{Name: "postgres", Check: pool.Ping},
		bootstrap.HealthCheck{Name: "redis", Check: redisCache.Ping},
		bootstrap.HealthCheck{Name: "kafka", Check: producer.CheckConnection},
	)

	if err := bootstrap.Run(ctx, cfg, log, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
