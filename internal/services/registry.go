package services

import (
	"newsroom_backend/internal/email"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ArticleService      ArticleService
	PublisherService    PublisherService
	CategoryService     CategoryService
	NewsletterService   NewsletterService
	SubscriptionService SubscriptionService
	NotificationService NotificationService
	TrackingService     TrackingService
	ContactService      ContactService
	EmailService        email.Provider
}
