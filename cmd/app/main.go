package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avdeenkov/homebook-checkout/config"
	"github.com/avdeenkov/homebook-checkout/internal/bootstrap"
	"github.com/avdeenkov/homebook-checkout/internal/checkout"
	"github.com/avdeenkov/homebook-checkout/internal/client"
	"github.com/avdeenkov/homebook-checkout/internal/kafka"
	"github.com/avdeenkov/homebook-checkout/internal/repository"
	"github.com/avdeenkov/homebook-checkout/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisStore := store.NewRedisStore(cfg.Redis, time.Duration(cfg.Checkout.SessionTTLMinutes)*time.Minute)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	attemptRepo := repository.NewAttemptRepository(pool)
	cartClient := client.NewCartClient(cfg.Services.CartURL)
	authClient := client.NewAuthClient(cfg.Services.AuthURL)
	paymentClient := client.NewPaymentClient(cfg.Services.PaymentURL)

	checkoutService := checkout.NewCheckoutService(
		redisStore,
		redisStore,
		cartClient,
		authClient,
		paymentClient,
		attemptRepo,
		producer,
		cfg.Kafka.CheckoutTopic,
		cfg.Services.ReturnURL,
		time.Duration(cfg.Checkout.AttemptTTLMinutes)*time.Minute,
		checkout.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, checkoutService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
