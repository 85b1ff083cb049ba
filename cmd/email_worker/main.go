// The email worker consumes article approval events from Kafka and
// runs the notification fan-out outside the web process. It shares the
// web server's configuration and database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"newsroom_backend/internal/config"
	"newsroom_backend/internal/dispatch"
	"newsroom_backend/internal/email"
	"newsroom_backend/internal/logger"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services"
)

const consumerGroupID = "email-worker"

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	if cfg.Dispatcher.Mode != "kafka" {
		logger.Fatal("email worker requires dispatcher.mode=kafka", "mode", cfg.Dispatcher.Mode)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}

	emailService := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
		Timeout:   time.Duration(cfg.Email.TimeoutSec) * time.Second,
	}, email.NewTemplateManager())

	userRepo := repositories.NewUserRepository(gormDB)
	articleRepo := repositories.NewArticleRepository(gormDB)
	publisherRepo := repositories.NewPublisherRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)

	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, publisherRepo)
	notificationService := services.NewNotificationService(notificationRepo, articleRepo, userRepo, subscriptionService, emailService)

	consumer := dispatch.NewApprovalConsumer(
		cfg.Dispatcher.Brokers,
		cfg.Dispatcher.Topic,
		consumerGroupID,
		notificationService.FanOutApproval,
	)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Email worker consuming approval events",
		"topic", cfg.Dispatcher.Topic, "group", consumerGroupID)

	if err := consumer.Run(ctx); err != nil {
		logger.Fatal("Consumer stopped with error", "error", err)
	}

	logger.Info("Email worker stopped")
}
