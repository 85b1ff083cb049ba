package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom_backend/internal/services"
	"newsroom_backend/internal/services/dto"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

// Submit godoc
// @Summary Submit a contact form message
// @Tags contact
// @Accept json
// @Param request body dto.ContactRequest true "Message"
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.contactService.SubmitMessage(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Thank you for your message"})
}

// List godoc
// @Summary List contact messages
// @Tags contact
// @Security BearerAuth
// @Router /contact [get]
func (h *ContactHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	messages, total, err := h.contactService.ListMessages(pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":  messages,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
