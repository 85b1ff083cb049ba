package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"newsroom_backend/internal/models"
)

var ErrArticleNotFound = errors.New("article not found")

type ArticleRepository interface {
	FindByID(id string) (*models.Article, error)
	FindBySlug(slug string) (*models.Article, error)
	Create(article *models.Article) error
	Update(article *models.Article) error
	Delete(id string) error
	FindWithFilter(criteria ArticleFilter) ([]models.Article, int64, error)
	IncrementViews(id string) error

	// Approval state operations. The field set is written atomically so
	// status and its projections cannot drift.
	SetApprovalState(id string, fields map[string]interface{}) error
	CountByStatus(status models.ArticleStatus) (int64, error)
	ApprovalStats(editorID string) (*ApprovalStats, error)
}

type ArticleFilter struct {
	Status      models.ArticleStatus
	AuthorID    string
	PublisherID string
	CategoryID  string
	// ApprovedOnly narrows to publicly visible articles.
	ApprovedOnly bool
	Search       string
	Page         int
	PageSize     int
}

type ApprovalStats struct {
	Pending    int64 `json:"pending"`
	Approved   int64 `json:"approved"`
	Rejected   int64 `json:"rejected"`
	ApprovedBy int64 `json:"approved_by_me"`
}

type ArticleRepositoryImpl struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &ArticleRepositoryImpl{db: db}
}

func (r *ArticleRepositoryImpl) FindByID(id string) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").Preload("Publisher").Preload("Category").Preload("ApprovedBy").
		First(&article, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepositoryImpl) FindBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").Preload("Publisher").Preload("Category").
		First(&article, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepositoryImpl) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *ArticleRepositoryImpl) Update(article *models.Article) error {
	result := r.db.Model(article).Updates(map[string]interface{}{
		"title":            article.Title,
		"content":          article.Content,
		"summary":          article.Summary,
		"category_id":      article.CategoryID,
		"tags":             article.Tags,
		"featured_image":   article.FeaturedImage,
		"source_url":       article.SourceURL,
		"source_image_url": article.SourceImageURL,
		"is_independent":   article.IsIndependent,
		"updated_at":       time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Article{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepositoryImpl) FindWithFilter(criteria ArticleFilter) ([]models.Article, int64, error) {
	var articles []models.Article
	query := r.db.Model(&models.Article{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.AuthorID != "" {
		query = query.Where("author_id = ?", criteria.AuthorID)
	}
	if criteria.PublisherID != "" {
		query = query.Where("publisher_id = ?", criteria.PublisherID)
	}
	if criteria.CategoryID != "" {
		query = query.Where("category_id = ?", criteria.CategoryID)
	}
	if criteria.ApprovedOnly {
		query = query.Where("is_approved = ?", true)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("title ILIKE ? OR summary ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	if limit <= 0 {
		limit = 20
	}
	page := criteria.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	err := query.Preload("Author").Preload("Publisher").Preload("Category").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&articles).Error

	return articles, total, err
}

func (r *ArticleRepositoryImpl) IncrementViews(id string) error {
	return r.db.Model(&models.Article{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *ArticleRepositoryImpl) SetApprovalState(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()

	result := r.db.Model(&models.Article{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepositoryImpl) CountByStatus(status models.ArticleStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ApprovalStats summarizes the editor dashboard counters.
func (r *ArticleRepositoryImpl) ApprovalStats(editorID string) (*ApprovalStats, error) {
	var stats ApprovalStats

	counts := []struct {
		status models.ArticleStatus
		dest   *int64
	}{
		{models.ArticleStatusPending, &stats.Pending},
		{models.ArticleStatusApproved, &stats.Approved},
		{models.ArticleStatusRejected, &stats.Rejected},
	}

	for _, c := range counts {
		if err := r.db.Model(&models.Article{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if editorID != "" {
		if err := r.db.Model(&models.Article{}).
			Where("approved_by_id = ?", editorID).Count(&stats.ApprovedBy).Error; err != nil {
			return nil, err
		}
	}

	return &stats, nil
}
