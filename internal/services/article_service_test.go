package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom_backend/internal/models"
	"newsroom_backend/internal/services"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/pkg/apperrors"
)

func newEditorialFixture(articles ...*models.Article) (services.ArticleService, *fakeArticleRepo, *fakeDispatcher, *fakePoster) {
	editor := &models.User{
		BaseModel: models.BaseModel{ID: "editor-1"},
		Username:  "chief",
		Email:     "chief@newsroom.test",
		Role:      models.UserRoleEditor,
	}
	journalist := &models.User{
		BaseModel: models.BaseModel{ID: "journalist-1"},
		Username:  "scoop",
		Email:     "scoop@newsroom.test",
		Role:      models.UserRoleJournalist,
	}

	articleRepo := newFakeArticleRepo(articles...)
	dispatcher := &fakeDispatcher{}
	poster := &fakePoster{}
	svc := services.NewArticleService(articleRepo, newFakeUserRepo(editor, journalist), dispatcher, poster)
	return svc, articleRepo, dispatcher, poster
}

func pendingArticle(id string) *models.Article {
	return &models.Article{
		BaseModel: models.BaseModel{ID: id},
		Title:     "Local elections recap",
		Slug:      id,
		Content:   "Results are in.",
		AuthorID:  "journalist-1",
		Status:    models.ArticleStatusPending,
	}
}

func TestApprove_SetsFullApprovalState(t *testing.T) {
	t.Parallel()

	svc, repo, dispatcher, poster := newEditorialFixture(pendingArticle("a1"))

	resp, err := svc.Approve(context.Background(), "editor-1", "a1")
	require.NoError(t, err)

	assert.Equal(t, models.ArticleStatusApproved, resp.Status)
	assert.True(t, resp.IsApproved)
	require.NotNil(t, resp.ApprovedByID)
	assert.Equal(t, "editor-1", *resp.ApprovedByID)
	assert.NotNil(t, resp.ApprovedAt)
	assert.NotNil(t, resp.PublishedAt)
	assert.Empty(t, resp.RejectionReason)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, "a1", dispatcher.events[0].ArticleID)
	assert.Equal(t, "editor-1", dispatcher.events[0].ApprovedBy)

	assert.Len(t, poster.posts, 1)
	assert.Equal(t, 1, repo.stateWrites["a1"])
}

func TestApprove_IsIdempotent(t *testing.T) {
	t.Parallel()

	svc, repo, dispatcher, _ := newEditorialFixture(pendingArticle("a1"))

	_, err := svc.Approve(context.Background(), "editor-1", "a1")
	require.NoError(t, err)
	first, _ := repo.FindByID("a1")

	// Second approval must not rewrite state or notify again.
	resp, err := svc.Approve(context.Background(), "editor-1", "a1")
	require.NoError(t, err)

	assert.Equal(t, models.ArticleStatusApproved, resp.Status)
	assert.Equal(t, 1, repo.stateWrites["a1"])
	assert.Len(t, dispatcher.events, 1)
	assert.Equal(t, first.ApprovedAt.Unix(), resp.ApprovedAt.Unix())
}

func TestApprove_KeepsOriginalPublishedAt(t *testing.T) {
	t.Parallel()

	firstPublished := time.Now().Add(-48 * time.Hour)
	article := pendingArticle("a1")
	article.PublishedAt = &firstPublished

	svc, _, _, _ := newEditorialFixture(article)

	resp, err := svc.Approve(context.Background(), "editor-1", "a1")
	require.NoError(t, err)

	// Re-approving after a mark-pending that predates this behavior, or
	// approving an imported article, must not move the original date.
	require.NotNil(t, resp.PublishedAt)
	assert.Equal(t, firstPublished.Unix(), resp.PublishedAt.Unix())
}

func TestApprove_OwnArticleForbidden(t *testing.T) {
	t.Parallel()

	article := pendingArticle("a1")
	article.AuthorID = "editor-1"

	svc, repo, dispatcher, _ := newEditorialFixture(article)

	_, err := svc.Approve(context.Background(), "editor-1", "a1")
	require.ErrorIs(t, err, apperrors.ErrSelfApproval)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)

	stored, _ := repo.FindByID("a1")
	assert.Equal(t, models.ArticleStatusPending, stored.Status)
	assert.Empty(t, dispatcher.events)
}

func TestApprove_NonEditorForbidden(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newEditorialFixture(pendingArticle("a1"))

	_, err := svc.Approve(context.Background(), "journalist-1", "a1")
	require.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestApprove_DispatchFailureDoesNotFailApproval(t *testing.T) {
	t.Parallel()

	svc, repo, dispatcher, _ := newEditorialFixture(pendingArticle("a1"))
	dispatcher.err = assert.AnError

	resp, err := svc.Approve(context.Background(), "editor-1", "a1")
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)

	stored, _ := repo.FindByID("a1")
	assert.Equal(t, models.ArticleStatusApproved, stored.Status)
}

func TestReject_PersistsReasonAndDecisionTime(t *testing.T) {
	t.Parallel()

	svc, _, dispatcher, _ := newEditorialFixture(pendingArticle("a1"))

	resp, err := svc.Reject(context.Background(), "editor-1", "a1", "Unverified sources")
	require.NoError(t, err)

	assert.Equal(t, models.ArticleStatusRejected, resp.Status)
	assert.False(t, resp.IsApproved)
	assert.Equal(t, "Unverified sources", resp.RejectionReason)
	require.NotNil(t, resp.ApprovedByID)
	assert.Equal(t, "editor-1", *resp.ApprovedByID)
	assert.NotNil(t, resp.ApprovedAt)
	assert.Nil(t, resp.PublishedAt)

	// Rejections never reach subscribers.
	assert.Empty(t, dispatcher.events)
}

func TestApproveAfterReject_ClearsRejectionReason(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newEditorialFixture(pendingArticle("a1"))

	_, err := svc.Reject(context.Background(), "editor-1", "a1", "Too thin")
	require.NoError(t, err)

	resp, err := svc.Approve(context.Background(), "editor-1", "a1")
	require.NoError(t, err)
	assert.Empty(t, resp.RejectionReason)
	assert.True(t, resp.IsApproved)
}

func TestMarkPending_ClearsDecisionAndPublication(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newEditorialFixture(pendingArticle("a1"))

	_, err := svc.Approve(context.Background(), "editor-1", "a1")
	require.NoError(t, err)

	resp, err := svc.MarkPending(context.Background(), "editor-1", "a1")
	require.NoError(t, err)

	assert.Equal(t, models.ArticleStatusPending, resp.Status)
	assert.False(t, resp.IsApproved)
	assert.Nil(t, resp.ApprovedByID)
	assert.Nil(t, resp.ApprovedAt)
	assert.Nil(t, resp.PublishedAt)
	assert.Empty(t, resp.RejectionReason)
}

func TestBulkApply_IsolatesFailures(t *testing.T) {
	t.Parallel()

	own := pendingArticle("mine")
	own.AuthorID = "editor-1"

	svc, repo, _, _ := newEditorialFixture(pendingArticle("a1"), own, pendingArticle("a3"))

	result, err := svc.BulkApply(context.Background(), "editor-1", &dto.BulkApprovalRequest{
		ArticleIDs: []string{"a1", "mine", "missing", "a3"},
		Action:     "approve",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.ElementsMatch(t, []string{"mine", "missing"}, result.Failed)

	a1, _ := repo.FindByID("a1")
	a3, _ := repo.FindByID("a3")
	assert.True(t, a1.IsApproved)
	assert.True(t, a3.IsApproved)

	mine, _ := repo.FindByID("mine")
	assert.False(t, mine.IsApproved)
}

func TestBulkApply_UnknownActionRejected(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newEditorialFixture(pendingArticle("a1"))

	_, err := svc.BulkApply(context.Background(), "editor-1", &dto.BulkApprovalRequest{
		ArticleIDs: []string{"a1"},
		Action:     "publish",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestSubmitForReview_OnlyFromDraftOrRejected(t *testing.T) {
	t.Parallel()

	draft := pendingArticle("draft")
	draft.Status = models.ArticleStatusDraft
	approved := pendingArticle("approved")
	approved.Status = models.ArticleStatusApproved
	approved.IsApproved = true

	svc, repo, _, _ := newEditorialFixture(draft, approved)

	require.NoError(t, svc.SubmitForReview("journalist-1", "draft"))
	stored, _ := repo.FindByID("draft")
	assert.Equal(t, models.ArticleStatusPending, stored.Status)

	err := svc.SubmitForReview("journalist-1", "approved")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestCreateArticle_ReaderForbidden(t *testing.T) {
	t.Parallel()

	reader := &models.User{
		BaseModel: models.BaseModel{ID: "reader-1"},
		Username:  "lurker",
		Role:      models.UserRoleReader,
	}
	svc := services.NewArticleService(newFakeArticleRepo(), newFakeUserRepo(reader), &fakeDispatcher{}, &fakePoster{})

	_, err := svc.CreateArticle("reader-1", &dto.CreateArticleRequest{
		Title:   "Breaking news",
		Content: "Something happened.",
	})
	require.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestCreateArticle_InheritsPublisherUnlessIndependent(t *testing.T) {
	t.Parallel()

	publisherID := "pub-1"
	journalist := &models.User{
		BaseModel:   models.BaseModel{ID: "journalist-1"},
		Username:    "scoop",
		Role:        models.UserRoleJournalist,
		PublisherID: &publisherID,
	}
	svc := services.NewArticleService(newFakeArticleRepo(), newFakeUserRepo(journalist), &fakeDispatcher{}, &fakePoster{})

	staffPiece, err := svc.CreateArticle("journalist-1", &dto.CreateArticleRequest{
		Title:   "Staff piece",
		Content: "Published under the banner.",
	})
	require.NoError(t, err)
	require.NotNil(t, staffPiece.PublisherID)
	assert.Equal(t, publisherID, *staffPiece.PublisherID)

	soloPiece, err := svc.CreateArticle("journalist-1", &dto.CreateArticleRequest{
		Title:         "Solo piece",
		Content:       "On my own.",
		IsIndependent: true,
	})
	require.NoError(t, err)
	assert.Nil(t, soloPiece.PublisherID)
}

func TestCreateArticle_SubmitForReviewSkipsDraft(t *testing.T) {
	t.Parallel()

	journalist := &models.User{
		BaseModel: models.BaseModel{ID: "journalist-1"},
		Username:  "scoop",
		Role:      models.UserRoleJournalist,
	}
	svc := services.NewArticleService(newFakeArticleRepo(), newFakeUserRepo(journalist), &fakeDispatcher{}, &fakePoster{})

	resp, err := svc.CreateArticle("journalist-1", &dto.CreateArticleRequest{
		Title:           "Straight to review",
		Content:         "No draft stage.",
		SubmitForReview: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusPending, resp.Status)
}
