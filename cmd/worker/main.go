package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamaudevs/sokoapi/common/logger"
	"github.com/kamaudevs/sokoapi/config"
	"github.com/kamaudevs/sokoapi/database"
	"github.com/kamaudevs/sokoapi/kafka"
	"github.com/kamaudevs/sokoapi/models"
	"github.com/kamaudevs/sokoapi/repository"
	"github.com/kamaudevs/sokoapi/sender"
	"github.com/kamaudevs/sokoapi/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	if len(cfg.KafkaBrokers) == 0 {
		logger.Log.Fatal("KAFKA_BROKERS is required for the notification worker")
	}

	db, err := database.Connect(cfg, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := models.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	store := repository.NewGormStore(db)
	dispatcher := buildDispatcher(cfg, store)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.OrderEventsTopic, cfg.WorkerGroupID)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = consumer.Run(ctx, func(ctx context.Context, eventType string, orderID uuid.UUID) {
		if eventType != models.EventOrderCreated {
			logger.Warn(ctx, "Unknown event type skipped", zap.String("event_type", eventType))
			return
		}
		dispatcher.Dispatch(ctx, orderID)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Fatal("Consumer stopped", zap.Error(err))
	}

	logger.Log.Info("Notification worker shut down")
}

func buildDispatcher(cfg *config.Config, store repository.Store) *services.Dispatcher {
	var sms sender.SMSSender
	if cfg.SMSAPIKey != "" {
		s, err := sender.NewAfricasTalkingSender(cfg.SMSAPIKey, cfg.SMSUsername, cfg.SMSSenderID)
		if err != nil {
			logger.Log.Warn("SMS sender unavailable", zap.Error(err))
		} else {
			sms = s
		}
	}

	var email sender.EmailSender
	if cfg.SMTPHost != "" {
		e, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		if err != nil {
			logger.Log.Warn("Email sender unavailable", zap.Error(err))
		} else {
			email = e
		}
	}

	return services.NewDispatcher(store, sms, email, cfg.AdminEmail, cfg.SMSCountryCode)
}
