package handlers

// AppHandlers holds all HTTP handlers of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ArticleHandler      *ArticleHandler
	PublisherHandler    *PublisherHandler
	CategoryHandler     *CategoryHandler
	NewsletterHandler   *NewsletterHandler
	SubscriptionHandler *SubscriptionHandler
	NotificationHandler *NotificationHandler
	TrackingHandler     *TrackingHandler
	ContactHandler      *ContactHandler
}
