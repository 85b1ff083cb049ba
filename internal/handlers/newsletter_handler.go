package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom_backend/internal/services"
	"newsroom_backend/internal/services/dto"
)

type NewsletterHandler struct {
	*BaseHandler
	newsletterService services.NewsletterService
}

func NewNewsletterHandler(base *BaseHandler, newsletterService services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		BaseHandler:       base,
		newsletterService: newsletterService,
	}
}

// Create godoc
// @Summary Create a newsletter issue
// @Tags newsletters
// @Security BearerAuth
// @Param request body dto.CreateNewsletterRequest true "Newsletter data"
// @Success 201 {object} dto.NewsletterResponse
// @Router /newsletters [post]
func (h *NewsletterHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateNewsletterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.newsletterService.CreateNewsletter(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// List godoc
// @Summary List my newsletter issues
// @Tags newsletters
// @Security BearerAuth
// @Success 200 {array} dto.NewsletterResponse
// @Router /newsletters [get]
func (h *NewsletterHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	newsletters, err := h.newsletterService.ListMyNewsletters(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"newsletters": newsletters,
		"page":        page,
		"page_size":   pageSize,
	})
}

// Send godoc
// @Summary Send a newsletter issue to subscribers
// @Tags newsletters
// @Security BearerAuth
// @Param id path string true "Newsletter ID"
// @Success 200 {object} dto.SendNewsletterResult
// @Router /newsletters/{id}/send [post]
func (h *NewsletterHandler) Send(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.newsletterService.SendNewsletter(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// Delete godoc
// @Summary Delete a newsletter issue
// @Tags newsletters
// @Security BearerAuth
// @Param id path string true "Newsletter ID"
// @Router /newsletters/{id} [delete]
func (h *NewsletterHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.newsletterService.DeleteNewsletter(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Newsletter deleted"})
}
