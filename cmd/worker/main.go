package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/email"
	"github.com/Domenick1991/skybook/internal/kafka"
	"github.com/Domenick1991/skybook/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if len(cfg.Kafka.Brokers) == 0 {
		zl.Fatal("kafka brokers not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zl.Named("kafka"))
	defer consumer.Close()

	sender := email.NewSender(zl.Named("email"))

	zl.Info("notification worker started", zap.String("topic", cfg.Kafka.NotificationsTopic))
	if err := consumer.ConsumeEvents(ctx, sender.Send); err != nil {
		zl.Error("consumer stopped", zap.Error(err))
		return
	}
	zl.Info("notification worker stopped")
}
