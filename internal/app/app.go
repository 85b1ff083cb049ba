package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"newsroom_backend/internal/auth"
	"newsroom_backend/internal/cache"
	"newsroom_backend/internal/config"
	"newsroom_backend/internal/dispatch"
	"newsroom_backend/internal/email"
	"newsroom_backend/internal/handlers"
	"newsroom_backend/internal/logger"
	"newsroom_backend/internal/middleware"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/routes"
	"newsroom_backend/internal/services"
	"newsroom_backend/internal/social"
	"newsroom_backend/internal/validator"
	"newsroom_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstEditor(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first editor user", "error", err)
	}

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB, sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupWorker := workers.NewCleanupWorker(
		serviceContainer.NotificationService,
		cfg.Retention.NotificationDays,
		time.Duration(cfg.Retention.IntervalHours)*time.Hour,
	)
	cleanupWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Publisher{},
		&models.Category{},
		&models.Article{},
		&models.Notification{},
		&models.Newsletter{},
		&models.ContactMessage{},
	)
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) (*gin.Engine, *services.ServiceContainer) {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	kv := cache.Connect(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

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

	var poster social.Poster = social.NopPoster{}
	if cfg.Social.XAPIKey != "" || cfg.Social.FacebookAccessToken != "" {
		poster = social.NewHTTPPoster(social.Config{
			XAPIKey:             cfg.Social.XAPIKey,
			FacebookPageID:      cfg.Social.FacebookPageID,
			FacebookAccessToken: cfg.Social.FacebookAccessToken,
			Timeout:             time.Duration(cfg.Social.TimeoutSec) * time.Second,
		})
	}

	userRepo := repositories.NewUserRepository(gormDB)
	articleRepo := repositories.NewArticleRepository(gormDB)
	publisherRepo := repositories.NewPublisherRepository(gormDB)
	categoryRepo := repositories.NewCategoryRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)
	contactRepo := repositories.NewContactRepository(gormDB)
	newsletterRepo := repositories.NewNewsletterRepository(gormDB)

	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userRepo, userService)
	publisherService := services.NewPublisherService(publisherRepo, userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, publisherRepo)
	notificationService := services.NewNotificationService(notificationRepo, articleRepo, userRepo, subscriptionService, emailService)
	trackingService := services.NewTrackingService(notificationRepo, kv)
	contactService := services.NewContactService(contactRepo, notificationService)
	newsletterService := services.NewNewsletterService(newsletterRepo, subscriptionRepo, userRepo, emailService)

	// The article service publishes approval events; the fan-out engine
	// consumes them. In inline mode both halves live in this process.
	var dispatcher dispatch.NotificationDispatcher
	if cfg.Dispatcher.Mode == "kafka" {
		dispatcher = dispatch.NewKafkaDispatcher(cfg.Dispatcher.Brokers, cfg.Dispatcher.Topic)
		logger.Info("Using Kafka approval dispatcher", "topic", cfg.Dispatcher.Topic)
	} else {
		dispatcher = dispatch.NewInlineDispatcher(notificationService.FanOutApproval)
	}

	articleService := services.NewArticleService(articleRepo, userRepo, dispatcher, poster)

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         userService,
		ArticleService:      articleService,
		PublisherService:    publisherService,
		CategoryService:     categoryService,
		NewsletterService:   newsletterService,
		SubscriptionService: subscriptionService,
		NotificationService: notificationService,
		TrackingService:     trackingService,
		ContactService:      contactService,
		EmailService:        emailService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, services.UserService),
		ArticleHandler:      handlers.NewArticleHandler(baseHandler, services.ArticleService),
		PublisherHandler:    handlers.NewPublisherHandler(baseHandler, services.PublisherService),
		CategoryHandler:     handlers.NewCategoryHandler(baseHandler, services.CategoryService),
		NewsletterHandler:   handlers.NewNewsletterHandler(baseHandler, services.NewsletterService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(baseHandler, services.SubscriptionService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		TrackingHandler:     handlers.NewTrackingHandler(baseHandler, services.TrackingService),
		ContactHandler:      handlers.NewContactHandler(baseHandler, services.ContactService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstEditor creates the bootstrap editor account on first start so
// the approval workflow is usable on a fresh database.
func seedFirstEditor(db *gorm.DB, cfg *config.Config) error {
	editorEmail := cfg.FirstEditorEmail
	editorPassword := cfg.FirstEditorPassword

	if editorEmail == "" || editorPassword == "" {
		logger.Warn("FIRST_EDITOR_EMAIL or FIRST_EDITOR_PASSWORD is not set. Skipping editor seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var editor models.User
	result := tx.Where("email = ?", editorEmail).First(&editor)

	if result.Error == nil {
		logger.Info("Editor user already exists. Skipping creation.", "email", editorEmail)
		tx.Rollback()
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for editor user: %w", result.Error)
	}

	logger.Warn("No editor user found with specified email. Creating first editor...", "email", editorEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(editorPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash editor password: %w", err)
	}

	newEditor := &models.User{
		Email:        editorEmail,
		Username:     "editor",
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleEditor,
	}

	if err := tx.Create(newEditor).Error; err != nil {
		return fmt.Errorf("failed to create editor user in database: %w", err)
	}

	// Attach the editor role group so group-derived permissions work
	// from the very first login.
	permissions, err := json.Marshal(auth.Permissions[models.UserRoleEditor])
	if err != nil {
		return fmt.Errorf("failed to encode editor permissions: %w", err)
	}

	group := models.Group{Name: models.GroupEditors}
	if err := tx.Where("name = ?", models.GroupEditors).
		Assign(models.Group{Permissions: datatypes.JSON(permissions)}).
		FirstOrCreate(&group).Error; err != nil {
		return fmt.Errorf("failed to upsert editor group: %w", err)
	}

	if err := tx.Model(newEditor).Association("Groups").Replace(&group); err != nil {
		return fmt.Errorf("failed to assign editor group: %w", err)
	}

	logger.Info("Successfully created first editor user", "email", editorEmail)

	return tx.Commit().Error
}
