package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"newsroom_backend/internal/handlers"
	"newsroom_backend/internal/middleware"
	"newsroom_backend/internal/models"
)

// Login throttling: 10 attempts per minute per IP with a small burst.
const (
	loginRateInterval = time.Minute / 10
	loginBurst        = 5
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Email-facing endpoints live outside the API group: their URLs are
	// baked into sent emails and must stay short and stable.
	tracking := ginRouter.Group("/notifications")
	{
		tracking.GET("/track-email/:token", appHandlers.TrackingHandler.TrackEmail)
		tracking.GET("/mark-read/:id", appHandlers.TrackingHandler.MarkRead)
	}

	api := ginRouter.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", appHandlers.AuthHandler.Register)
			auth.POST("/login", middleware.LoginRateLimiter(rate.Every(loginRateInterval), loginBurst), appHandlers.AuthHandler.Login)
			auth.GET("/me", middleware.AuthMiddleware(), appHandlers.AuthHandler.Me)
		}

		articles := api.Group("/articles")
		{
			articles.GET("", appHandlers.ArticleHandler.List)
			articles.GET("/:slug", appHandlers.ArticleHandler.GetBySlug)

			authored := articles.Group("")
			authored.Use(middleware.AuthMiddleware())
			authored.Use(middleware.RequireRoles(models.UserRoleJournalist, models.UserRoleEditor))
			{
				authored.POST("", appHandlers.ArticleHandler.Create)
				authored.PATCH("/id/:id", appHandlers.ArticleHandler.Update)
				authored.DELETE("/id/:id", appHandlers.ArticleHandler.Delete)
				authored.POST("/id/:id/submit", appHandlers.ArticleHandler.Submit)
			}
		}

		editorial := api.Group("/editorial")
		editorial.Use(middleware.AuthMiddleware())
		editorial.Use(middleware.RequireRoles(models.UserRoleEditor))
		{
			editorial.GET("/queue", appHandlers.ArticleHandler.Queue)
			editorial.GET("/stats", appHandlers.ArticleHandler.DashboardStats)
			editorial.POST("/articles/:id/approve", appHandlers.ArticleHandler.Approve)
			editorial.POST("/articles/:id/reject", appHandlers.ArticleHandler.Reject)
			editorial.POST("/articles/:id/mark-pending", appHandlers.ArticleHandler.MarkPending)
			editorial.POST("/articles/bulk", appHandlers.ArticleHandler.BulkApply)
			editorial.GET("/contact-messages", appHandlers.ContactHandler.List)
		}

		api.GET("/journalists", appHandlers.UserHandler.ListJournalists)

		users := api.Group("/users")
		users.Use(middleware.AuthMiddleware())
		users.Use(middleware.RequireRoles(models.UserRoleEditor))
		{
			users.PATCH("/:id/role", appHandlers.UserHandler.ChangeRole)
		}

		publishers := api.Group("/publishers")
		{
			publishers.GET("", appHandlers.PublisherHandler.List)
			publishers.GET("/:id", appHandlers.PublisherHandler.Get)

			managed := publishers.Group("")
			managed.Use(middleware.AuthMiddleware())
			managed.Use(middleware.RequireRoles(models.UserRoleEditor))
			{
				managed.POST("", appHandlers.PublisherHandler.Create)
				managed.DELETE("/:id", appHandlers.PublisherHandler.Delete)
			}
		}

		categories := api.Group("/categories")
		{
			categories.GET("", appHandlers.CategoryHandler.List)
			categories.GET("/:slug", appHandlers.CategoryHandler.GetBySlug)

			curated := categories.Group("")
			curated.Use(middleware.AuthMiddleware())
			curated.Use(middleware.RequireRoles(models.UserRoleEditor))
			{
				curated.POST("", appHandlers.CategoryHandler.Create)
				curated.DELETE("/:slug", appHandlers.CategoryHandler.Delete)
			}
		}

		subscriptions := api.Group("/subscriptions")
		subscriptions.Use(middleware.AuthMiddleware())
		{
			subscriptions.GET("", appHandlers.SubscriptionHandler.List)
			subscriptions.POST("/publishers/:id", appHandlers.SubscriptionHandler.SubscribePublisher)
			subscriptions.DELETE("/publishers/:id", appHandlers.SubscriptionHandler.UnsubscribePublisher)
			subscriptions.POST("/journalists/:id", appHandlers.SubscriptionHandler.SubscribeJournalist)
			subscriptions.DELETE("/journalists/:id", appHandlers.SubscriptionHandler.UnsubscribeJournalist)
		}

		newsletters := api.Group("/newsletters")
		newsletters.Use(middleware.AuthMiddleware())
		newsletters.Use(middleware.RequireRoles(models.UserRoleJournalist, models.UserRoleEditor))
		{
			newsletters.GET("", appHandlers.NewsletterHandler.List)
			newsletters.POST("", appHandlers.NewsletterHandler.Create)
			newsletters.POST("/:id/send", appHandlers.NewsletterHandler.Send)
			newsletters.DELETE("/:id", appHandlers.NewsletterHandler.Delete)
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.AuthMiddleware())
		{
			notifications.GET("", appHandlers.NotificationHandler.List)
			notifications.POST("/:id/read", appHandlers.NotificationHandler.MarkRead)
			notifications.POST("/read-all", appHandlers.NotificationHandler.MarkAllRead)
		}

		api.POST("/contact", appHandlers.ContactHandler.Submit)
	}
}
