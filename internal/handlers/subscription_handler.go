package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom_backend/internal/services"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

// List godoc
// @Summary List the caller's subscriptions
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SubscriptionListResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.subscriptionService.ListSubscriptions(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SubscribePublisher godoc
// @Summary Subscribe to a publisher
// @Tags subscriptions
// @Security BearerAuth
// @Param id path string true "Publisher ID"
// @Router /subscriptions/publishers/{id} [post]
func (h *SubscriptionHandler) SubscribePublisher(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.SubscribeToPublisher(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscribed"})
}

// UnsubscribePublisher godoc
// @Summary Unsubscribe from a publisher
// @Tags subscriptions
// @Security BearerAuth
// @Param id path string true "Publisher ID"
// @Router /subscriptions/publishers/{id} [delete]
func (h *SubscriptionHandler) UnsubscribePublisher(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.UnsubscribeFromPublisher(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Unsubscribed"})
}

// SubscribeJournalist godoc
// @Summary Subscribe to a journalist
// @Tags subscriptions
// @Security BearerAuth
// @Param id path string true "Journalist ID"
// @Router /subscriptions/journalists/{id} [post]
func (h *SubscriptionHandler) SubscribeJournalist(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.SubscribeToJournalist(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscribed"})
}

// UnsubscribeJournalist godoc
// @Summary Unsubscribe from a journalist
// @Tags subscriptions
// @Security BearerAuth
// @Param id path string true "Journalist ID"
// @Router /subscriptions/journalists/{id} [delete]
func (h *SubscriptionHandler) UnsubscribeJournalist(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.UnsubscribeFromJournalist(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Unsubscribed"})
}
