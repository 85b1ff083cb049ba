package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom_backend/internal/services"
	"newsroom_backend/internal/services/dto"
)

type PublisherHandler struct {
	*BaseHandler
	publisherService services.PublisherService
}

func NewPublisherHandler(base *BaseHandler, publisherService services.PublisherService) *PublisherHandler {
	return &PublisherHandler{
		BaseHandler:      base,
		publisherService: publisherService,
	}
}

// List godoc
// @Summary List publishers
// @Tags publishers
// @Produce json
// @Success 200 {array} dto.PublisherResponse
// @Router /publishers [get]
func (h *PublisherHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	publishers, total, err := h.publisherService.ListPublishers(pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publishers": publishers,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

// Get godoc
// @Summary Get a publisher
// @Tags publishers
// @Produce json
// @Param id path string true "Publisher ID"
// @Success 200 {object} dto.PublisherResponse
// @Router /publishers/{id} [get]
func (h *PublisherHandler) Get(c *gin.Context) {
	response, err := h.publisherService.GetPublisher(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary Create a publisher
// @Tags publishers
// @Security BearerAuth
// @Param request body dto.CreatePublisherRequest true "Publisher data"
// @Success 201 {object} dto.PublisherResponse
// @Router /publishers [post]
func (h *PublisherHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePublisherRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.publisherService.CreatePublisher(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Delete godoc
// @Summary Delete a publisher
// @Tags publishers
// @Security BearerAuth
// @Param id path string true "Publisher ID"
// @Router /publishers/{id} [delete]
func (h *PublisherHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.publisherService.DeletePublisher(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Publisher deleted"})
}
