package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/transferbooking/config"
	"github.com/Domenick1991/transferbooking/internal/email"
	"github.com/Domenick1991/transferbooking/internal/kafka"
	"github.com/Domenick1991/transferbooking/internal/logger"
	"github.com/Domenick1991/transferbooking/internal/repository"
	"github.com/Domenick1991/transferbooking/internal/service/cart"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log.WithField("component", "kafka"))
	defer producer.Close()

	// The sweep never submits, so the cart service runs without drafts or locks.
	cartService := cart.NewService(nil, repository.NewCartRepository(pool), nil,
		log.WithField("component", "cart"),
		cart.WithProducer(producer, cfg.Kafka.CartEventsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.CartEventsTopic)
	defer consumer.Close()

	sender := email.NewSender(log.WithField("component", "email"))

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			event, err := kafka.DecodeCartEvent(msg)
			if err != nil {
				log.WithError(err).Warn("skipping undecodable event")
				return nil
			}
			return sender.Send(ctx, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("consumer stopped")
		}
	}()

	ticker := time.NewTicker(config.Minutes(cfg.Worker.ExpirationSweepMinutes))
	defer ticker.Stop()

	log.Info("worker started")
	for {
		select {
		case <-ticker.C:
			if _, err := cartService.ExpireHeldItems(ctx); err != nil {
				log.WithError(err).Error("expire held cart items")
			}
		case <-ctx.Done():
			log.Info("worker shutting down")
			return
		}
	}
}
