package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom_backend/internal/services"
	"newsroom_backend/internal/services/dto"
)

type ArticleHandler struct {
	*BaseHandler
	articleService services.ArticleService
}

func NewArticleHandler(base *BaseHandler, articleService services.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		BaseHandler:    base,
		articleService: articleService,
	}
}

// List godoc
// @Summary List approved articles
// @Tags articles
// @Produce json
// @Param status query string false "Filter by status"
// @Param category_id query string false "Filter by category"
// @Param search query string false "Title/summary search"
// @Success 200 {object} dto.ArticleListResponse
// @Router /articles [get]
func (h *ArticleHandler) List(c *gin.Context) {
	var query dto.ArticleListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.articleService.ListArticles(&query, false)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBySlug godoc
// @Summary Get an article by slug
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} dto.ArticleResponse
// @Router /articles/{slug} [get]
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	response, err := h.articleService.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary Create an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateArticleRequest true "Article data"
// @Success 201 {object} dto.ArticleResponse
// @Router /articles [post]
func (h *ArticleHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateArticleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.articleService.CreateArticle(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Update godoc
// @Summary Update an article
// @Tags articles
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Router /articles/{id} [patch]
func (h *ArticleHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateArticleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.articleService.UpdateArticle(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Delete godoc
// @Summary Delete an article
// @Tags articles
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Router /articles/{id} [delete]
func (h *ArticleHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Article deleted"})
}

// Submit godoc
// @Summary Submit an article for editorial review
// @Tags articles
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Router /articles/{id}/submit [post]
func (h *ArticleHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.articleService.SubmitForReview(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Article submitted for review"})
}

// --- Editorial actions ---

// Queue godoc
// @Summary List articles awaiting review
// @Tags editorial
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ArticleListResponse
// @Router /editorial/queue [get]
func (h *ArticleHandler) Queue(c *gin.Context) {
	var query dto.ArticleListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	if query.Status == "" {
		query.Status = "pending"
	}

	response, err := h.articleService.ListArticles(&query, true)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Approve godoc
// @Summary Approve and publish an article
// @Tags editorial
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Router /editorial/articles/{id}/approve [post]
func (h *ArticleHandler) Approve(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.articleService.Approve(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Article approved and published",
		"article": response,
	})
}

// Reject godoc
// @Summary Reject an article
// @Tags editorial
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param request body dto.RejectArticleRequest false "Rejection reason"
// @Router /editorial/articles/{id}/reject [post]
func (h *ArticleHandler) Reject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectArticleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.articleService.Reject(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Article rejected",
		"article": response,
	})
}

// MarkPending godoc
// @Summary Return an article to the review queue
// @Tags editorial
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Router /editorial/articles/{id}/mark-pending [post]
func (h *ArticleHandler) MarkPending(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.articleService.MarkPending(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Article returned to review queue",
		"article": response,
	})
}

// BulkApply godoc
// @Summary Apply an editorial action to several articles
// @Tags editorial
// @Security BearerAuth
// @Param request body dto.BulkApprovalRequest true "Bulk action"
// @Router /editorial/articles/bulk [post]
func (h *ArticleHandler) BulkApply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BulkApprovalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.articleService.BulkApply(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// DashboardStats godoc
// @Summary Editorial dashboard counters
// @Tags editorial
// @Security BearerAuth
// @Router /editorial/stats [get]
func (h *ArticleHandler) DashboardStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.articleService.DashboardStats(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
