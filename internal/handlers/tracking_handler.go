package handlers

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom_backend/internal/services"
	"newsroom_backend/pkg/apperrors"
)

// trackingPixel is a 1x1 transparent GIF.
var trackingPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21,
	0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00,
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44,
	0x01, 0x00, 0x3b,
}

// TrackingHandler serves the unauthenticated endpoints referenced from
// notification emails.
type TrackingHandler struct {
	*BaseHandler
	trackingService services.TrackingService
}

func NewTrackingHandler(base *BaseHandler, trackingService services.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		BaseHandler:     base,
		trackingService: trackingService,
	}
}

// TrackEmail serves the open-tracking pixel. The response is always the
// same 200 GIF regardless of token validity or rate limiting, so the
// endpoint leaks nothing about which tokens exist.
//
// @Summary Email open-tracking pixel
// @Tags tracking
// @Produce image/gif
// @Param token path string true "Read token"
// @Success 200
// @Router /notifications/track-email/{token} [get]
func (h *TrackingHandler) TrackEmail(c *gin.Context) {
	h.trackingService.TrackOpen(c.Request.Context(), c.Param("token"), c.ClientIP())

	// Mail clients must re-fetch on every open, and crawlers must stay
	// away from token URLs.
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("X-Robots-Tag", "noindex, nofollow")

	c.Data(http.StatusOK, "image/gif", trackingPixel)
}

// MarkRead handles the "mark as read" link from notification emails.
// It renders a small HTML page rather than JSON because it is opened in
// a browser from the email client.
//
// @Summary Mark a notification read from an email link
// @Tags tracking
// @Produce html
// @Param id path int true "Notification ID"
// @Success 200
// @Router /notifications/mark-read/{id} [get]
func (h *TrackingHandler) MarkRead(c *gin.Context) {
	id, err := ParseParamInt64(c, "id")
	if err != nil {
		h.renderPage(c, http.StatusBadRequest, "Invalid link",
			"This link is malformed. Please use the link from your email.")
		return
	}

	notification, err := h.trackingService.MarkReadByID(c.Request.Context(), id, c.ClientIP())
	if err != nil {
		appErr, ok := apperrors.AsAppError(err)
		if !ok {
			h.renderPage(c, http.StatusInternalServerError, "Something went wrong",
				"Please try again later.")
			return
		}

		switch appErr.HTTPCode {
		case http.StatusNotFound:
			h.renderPage(c, http.StatusNotFound, "Notification not found",
				"This notification no longer exists.")
		case http.StatusTooManyRequests:
			h.renderPage(c, http.StatusTooManyRequests, "Too many requests",
				"Please wait a moment before trying again.")
		default:
			h.renderPage(c, appErr.HTTPCode, "Something went wrong",
				"Please try again later.")
		}
		return
	}

	h.renderPage(c, http.StatusOK, "Notification marked as read",
		fmt.Sprintf("%q has been marked as read. You can close this page.", html.EscapeString(notification.Title)))
}

func (h *TrackingHandler) renderPage(c *gin.Context, status int, title, body string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding-top: 4em;">
  <h1>%s</h1>
  <p>%s</p>
</body>
</html>`, title, title, body)

	c.Data(status, "text/html; charset=utf-8", []byte(page))
}
