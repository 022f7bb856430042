package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kamaudevs/sokoapi/common/logger"
	"github.com/kamaudevs/sokoapi/config"
	"github.com/kamaudevs/sokoapi/controllers"
	"github.com/kamaudevs/sokoapi/database"
	"github.com/kamaudevs/sokoapi/kafka"
	"github.com/kamaudevs/sokoapi/models"
	"github.com/kamaudevs/sokoapi/oauth"
	"github.com/kamaudevs/sokoapi/repository"
	"github.com/kamaudevs/sokoapi/routes"
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

	db, err := database.Connect(cfg, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := models.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	store := repository.NewGormStore(db)

	tokens, err := oauth.NewTokenService(cfg.OIDCPrivateKeyPEM, cfg.BaseURL)
	if err != nil {
		logger.Log.Fatal("Failed to initialise token service", zap.Error(err))
	}

	customers := services.NewCustomerService(store)
	catalog := services.NewCatalogService(store)
	orders := services.NewOrderService(store, buildEnqueuer(cfg, store))

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	routes.Register(r, tokens, routes.Controllers{
		Auth:     controllers.NewAuthController(customers),
		OAuth:    controllers.NewOAuthController(customers, store.OAuthClients(), tokens, cfg.BaseURL),
		Orders:   controllers.NewOrderController(orders),
		Products: controllers.NewProductController(catalog),
		Category: controllers.NewCategoryController(catalog),
	})

	logger.Log.Info("API server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server exited", zap.Error(err))
	}
}

// buildEnqueuer prefers the broker-backed producer; without brokers (or when
// NOTIFICATIONS_EAGER is set) notifications are dispatched in-process.
func buildEnqueuer(cfg *config.Config, store repository.Store) services.Enqueuer {
	if len(cfg.KafkaBrokers) > 0 && !cfg.NotificationEager {
		logger.Log.Info("Order events will be published to Kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.OrderEventsTopic),
		)
		return kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic)
	}

	logger.Log.Info("Order events will be dispatched in-process")
	return services.NewEagerEnqueuer(buildDispatcher(cfg, store))
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
