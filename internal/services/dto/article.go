package dto

import (
	"time"

	"newsroom_backend/internal/models"
)

type CreateArticleRequest struct {
	Title          string  `json:"title" validate:"required,max=300,english=0.8"`
	Content        string  `json:"content" validate:"required,english=0.6"`
	Summary        string  `json:"summary" validate:"max=500"`
	CategoryID     *string `json:"category_id"`
	Tags           string  `json:"tags" validate:"max=200"`
	FeaturedImage  string  `json:"featured_image" validate:"omitempty,url"`
	SourceURL      string  `json:"source_url" validate:"omitempty,url"`
	SourceImageURL string  `json:"source_image_url" validate:"omitempty,url"`
	IsIndependent  bool    `json:"is_independent"`
	SubmitForReview bool   `json:"submit_for_review"`
}

type UpdateArticleRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=300,english=0.8"`
	Content       *string `json:"content" validate:"omitempty,english=0.6"`
	Summary       *string `json:"summary" validate:"omitempty,max=500"`
	CategoryID    *string `json:"category_id"`
	Tags          *string `json:"tags" validate:"omitempty,max=200"`
	FeaturedImage *string `json:"featured_image" validate:"omitempty,url"`
	IsIndependent *bool   `json:"is_independent"`
}

type RejectArticleRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// BulkApprovalRequest applies one editorial action to a set of articles.
type BulkApprovalRequest struct {
	ArticleIDs []string `json:"article_ids" validate:"required,min=1"`
	Action     string   `json:"action" validate:"required,oneof=approve reject mark_pending"`
	Reason     string   `json:"reason" validate:"max=1000"`
}

type BulkApprovalResult struct {
	Processed int      `json:"processed"`
	Failed    []string `json:"failed,omitempty"`
}

type ArticleListQuery struct {
	Status     string `form:"status" validate:"omitempty,is-article-status"`
	CategoryID string `form:"category_id"`
	Publisher  string `form:"publisher_id"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" validate:"omitempty,max=100"`
}

type ArticleResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Slug            string               `json:"slug"`
	Content         string               `json:"content,omitempty"`
	Summary         string               `json:"summary,omitempty"`
	AuthorID        string               `json:"author_id"`
	AuthorName      string               `json:"author_name,omitempty"`
	PublisherID     *string              `json:"publisher_id,omitempty"`
	PublisherName   string               `json:"publisher_name,omitempty"`
	CategoryID      *string              `json:"category_id,omitempty"`
	Status          models.ArticleStatus `json:"status"`
	IsApproved      bool                 `json:"is_approved"`
	ApprovedByID    *string              `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time           `json:"approved_at,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	IsIndependent   bool                 `json:"is_independent"`
	FeaturedImage   string               `json:"featured_image,omitempty"`
	Tags            string               `json:"tags,omitempty"`
	ViewsCount      int                  `json:"views_count"`
	PublishedAt     *time.Time           `json:"published_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func ToArticleResponse(article *models.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:              article.ID,
		Title:           article.Title,
		Slug:            article.Slug,
		Content:         article.Content,
		Summary:         article.Summary,
		AuthorID:        article.AuthorID,
		PublisherID:     article.PublisherID,
		CategoryID:      article.CategoryID,
		Status:          article.Status,
		IsApproved:      article.IsApproved,
		ApprovedByID:    article.ApprovedByID,
		ApprovedAt:      article.ApprovedAt,
		RejectionReason: article.RejectionReason,
		IsIndependent:   article.IsIndependent,
		FeaturedImage:   article.FeaturedImage,
		Tags:            article.Tags,
		ViewsCount:      article.ViewsCount,
		PublishedAt:     article.PublishedAt,
		CreatedAt:       article.CreatedAt,
	}

	if article.Author.ID != "" {
		resp.AuthorName = article.Author.DisplayName()
	}
	if article.Publisher != nil {
		resp.PublisherName = article.Publisher.Name
	}

	return resp
}
