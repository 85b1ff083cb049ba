package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsroom_backend/internal/config"
	"newsroom_backend/internal/dispatch"
	"newsroom_backend/internal/logger"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/internal/social"
	"newsroom_backend/pkg/apperrors"
)

type ArticleService interface {
	CreateArticle(authorID string, req *dto.CreateArticleRequest) (*dto.ArticleResponse, error)
	UpdateArticle(userID, articleID string, req *dto.UpdateArticleRequest) (*dto.ArticleResponse, error)
	DeleteArticle(userID, articleID string) error
	GetArticle(articleID string) (*dto.ArticleResponse, error)
	GetArticleBySlug(slug string) (*dto.ArticleResponse, error)
	ListArticles(query *dto.ArticleListQuery, includeUnapproved bool) (*dto.ArticleListResponse, error)
	SubmitForReview(userID, articleID string) error

	// Editorial actions. All require the editor role and forbid acting
	// on the editor's own articles.
	Approve(ctx context.Context, editorID, articleID string) (*dto.ArticleResponse, error)
	Reject(ctx context.Context, editorID, articleID string, reason string) (*dto.ArticleResponse, error)
	MarkPending(ctx context.Context, editorID, articleID string) (*dto.ArticleResponse, error)
	BulkApply(ctx context.Context, editorID string, req *dto.BulkApprovalRequest) (*dto.BulkApprovalResult, error)
	DashboardStats(editorID string) (*repositories.ApprovalStats, error)
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	userRepo    repositories.UserRepository
	dispatcher  dispatch.NotificationDispatcher
	poster      social.Poster
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	dispatcher dispatch.NotificationDispatcher,
	poster social.Poster,
) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		poster:      poster,
	}
}

func (s *articleService) CreateArticle(authorID string, req *dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if !author.IsJournalist() && !author.IsEditor() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	article := &models.Article{
		Title:          req.Title,
		Content:        req.Content,
		Summary:        req.Summary,
		AuthorID:       author.ID,
		CategoryID:     req.CategoryID,
		Tags:           req.Tags,
		FeaturedImage:  req.FeaturedImage,
		SourceURL:      req.SourceURL,
		SourceImageURL: req.SourceImageURL,
		IsIndependent:  req.IsIndependent,
		Status:         models.ArticleStatusDraft,
	}

	// Staff journalists publish under their publisher unless they mark
	// the piece independent.
	if !req.IsIndependent && author.PublisherID != nil {
		article.PublisherID = author.PublisherID
	}

	if req.SubmitForReview {
		article.Status = models.ArticleStatusPending
	}

	if err := s.articleRepo.Create(article); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

func (s *articleService) UpdateArticle(userID, articleID string, req *dto.UpdateArticleRequest) (*dto.ArticleResponse, error) {
	article, err := s.findArticle(articleID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Unknown user")
	}

	if article.AuthorID != userID && !user.IsEditor() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Summary != nil {
		article.Summary = *req.Summary
	}
	if req.CategoryID != nil {
		article.CategoryID = req.CategoryID
	}
	if req.Tags != nil {
		article.Tags = *req.Tags
	}
	if req.FeaturedImage != nil {
		article.FeaturedImage = *req.FeaturedImage
	}
	if req.IsIndependent != nil {
		article.IsIndependent = *req.IsIndependent
	}

	if err := s.articleRepo.Update(article); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

func (s *articleService) DeleteArticle(userID, articleID string) error {
	article, err := s.findArticle(articleID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewUnauthorizedError("Unknown user")
	}

	if article.AuthorID != userID && !user.IsEditor() {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.articleRepo.Delete(articleID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *articleService) GetArticle(articleID string) (*dto.ArticleResponse, error) {
	article, err := s.findArticle(articleID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

func (s *articleService) GetArticleBySlug(slug string) (*dto.ArticleResponse, error) {
	article, err := s.articleRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrArticleNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	_ = s.articleRepo.IncrementViews(article.ID)

	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

func (s *articleService) ListArticles(query *dto.ArticleListQuery, includeUnapproved bool) (*dto.ArticleListResponse, error) {
	filter := repositories.ArticleFilter{
		Status:       models.ArticleStatus(query.Status),
		PublisherID:  query.Publisher,
		CategoryID:   query.CategoryID,
		Search:       query.Search,
		Page:         query.Page,
		PageSize:     query.PageSize,
		ApprovedOnly: !includeUnapproved,
	}

	articles, total, err := s.articleRepo.FindWithFilter(filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ArticleListResponse{
		Total:    total,
		Page:     max(query.Page, 1),
		PageSize: query.PageSize,
		Articles: make([]dto.ArticleResponse, 0, len(articles)),
	}
	for i := range articles {
		resp.Articles = append(resp.Articles, dto.ToArticleResponse(&articles[i]))
	}

	return resp, nil
}

func (s *articleService) SubmitForReview(userID, articleID string) error {
	article, err := s.findArticle(articleID)
	if err != nil {
		return err
	}

	if article.AuthorID != userID {
		return apperrors.ErrInsufficientPermissions
	}

	if article.Status != models.ArticleStatusDraft && article.Status != models.ArticleStatusRejected {
		return apperrors.ErrInvalidStatus("editorial",
			fmt.Sprintf("Cannot submit an article in status %q for review", article.Status))
	}

	fields := map[string]interface{}{
		"status":           models.ArticleStatusPending,
		"is_approved":      false,
		"approved_by_id":   nil,
		"approved_at":      nil,
		"rejection_reason": "",
	}

	if err := s.articleRepo.SetApprovalState(articleID, fields); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Approve publishes the article. Approving an already-approved article
// is a no-op and does not re-notify subscribers.
func (s *articleService) Approve(ctx context.Context, editorID, articleID string) (*dto.ArticleResponse, error) {
	article, err := s.authorizeEditorial(editorID, articleID)
	if err != nil {
		return nil, err
	}

	if article.Status == models.ArticleStatusApproved && article.IsApproved {
		resp := dto.ToArticleResponse(article)
		return &resp, nil
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":           models.ArticleStatusApproved,
		"is_approved":      true,
		"approved_by_id":   editorID,
		"approved_at":      now,
		"rejection_reason": "",
	}
	if article.PublishedAt == nil {
		fields["published_at"] = now
	}

	if err := s.articleRepo.SetApprovalState(articleID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "article approved",
		"article_id", articleID, "editor_id", editorID)

	event := dispatch.ApprovalEvent{
		ArticleID:  articleID,
		ApprovedBy: editorID,
		ApprovedAt: now,
	}
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		// The approval stands; subscribers just miss this round.
		logger.CtxWithError(ctx, "failed to dispatch approval event", err, "article_id", articleID)
	}

	s.poster.PostArticle(ctx, article.Title, s.articleURL(article))

	article, err = s.findArticle(articleID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

func (s *articleService) Reject(ctx context.Context, editorID, articleID string, reason string) (*dto.ArticleResponse, error) {
	article, err := s.authorizeEditorial(editorID, articleID)
	if err != nil {
		return nil, err
	}

	if article.Status == models.ArticleStatusRejected {
		resp := dto.ToArticleResponse(article)
		return &resp, nil
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":           models.ArticleStatusRejected,
		"is_approved":      false,
		"approved_by_id":   editorID,
		"approved_at":      now, // decision time, approval or not
		"rejection_reason": reason,
	}

	if err := s.articleRepo.SetApprovalState(articleID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "article rejected",
		"article_id", articleID, "editor_id", editorID)

	article, err = s.findArticle(articleID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

// MarkPending returns the article to the review queue, clearing every
// trace of the previous decision.
func (s *articleService) MarkPending(ctx context.Context, editorID, articleID string) (*dto.ArticleResponse, error) {
	article, err := s.authorizeEditorial(editorID, articleID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":           models.ArticleStatusPending,
		"is_approved":      false,
		"approved_by_id":   nil,
		"approved_at":      nil,
		"rejection_reason": "",
		"published_at":     nil,
	}

	if err := s.articleRepo.SetApprovalState(article.ID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "article returned to review queue",
		"article_id", articleID, "editor_id", editorID)

	article, err = s.findArticle(articleID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

// BulkApply runs one editorial action over a set of articles. Each
// article succeeds or fails on its own; a self-approval in the batch
// does not poison the rest.
func (s *articleService) BulkApply(ctx context.Context, editorID string, req *dto.BulkApprovalRequest) (*dto.BulkApprovalResult, error) {
	result := &dto.BulkApprovalResult{}

	for _, articleID := range req.ArticleIDs {
		var err error
		switch req.Action {
		case "approve":
			_, err = s.Approve(ctx, editorID, articleID)
		case "reject":
			_, err = s.Reject(ctx, editorID, articleID, req.Reason)
		case "mark_pending":
			_, err = s.MarkPending(ctx, editorID, articleID)
		default:
			return nil, apperrors.ErrInvalidOperation("editorial",
				fmt.Sprintf("Unknown bulk action %q", req.Action))
		}

		if err != nil {
			logger.CtxWarn(ctx, "bulk editorial action failed for article",
				"article_id", articleID, "action", req.Action, "error", err.Error())
			result.Failed = append(result.Failed, articleID)
			continue
		}
		result.Processed++
	}

	return result, nil
}

func (s *articleService) DashboardStats(editorID string) (*repositories.ApprovalStats, error) {
	editor, err := s.userRepo.FindByID(editorID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Unknown user")
	}
	if !editor.IsEditor() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	stats, err := s.articleRepo.ApprovalStats(editorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

// authorizeEditorial loads the article and checks that the caller is an
// editor acting on someone else's work.
func (s *articleService) authorizeEditorial(editorID, articleID string) (*models.Article, error) {
	editor, err := s.userRepo.FindByID(editorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Unknown user")
		}
		return nil, apperrors.InternalError(err)
	}

	if !editor.IsEditor() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	article, err := s.findArticle(articleID)
	if err != nil {
		return nil, err
	}

	if article.AuthorID == editorID {
		return nil, apperrors.ErrSelfApproval
	}

	return article, nil
}

func (s *articleService) findArticle(articleID string) (*models.Article, error) {
	article, err := s.articleRepo.FindByID(articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrArticleNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return article, nil
}

func (s *articleService) articleURL(article *models.Article) string {
	return fmt.Sprintf("%s/articles/%s/", config.GetConfig().Server.BaseURL, article.Slug)
}
