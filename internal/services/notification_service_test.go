package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom_backend/internal/dispatch"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/services"
	"newsroom_backend/pkg/apperrors"
)

type fanoutFixture struct {
	svc              services.NotificationService
	notificationRepo *fakeNotificationRepo
	articleRepo      *fakeArticleRepo
	subscriptionRepo *fakeSubscriptionRepo
	provider         *fakeEmailProvider
}

func newFanoutFixture(articles ...*models.Article) *fanoutFixture {
	author := &models.User{
		BaseModel: models.BaseModel{ID: "journalist-1"},
		Username:  "scoop",
		Role:      models.UserRoleJournalist,
	}
	publisher := &models.Publisher{
		BaseModel: models.BaseModel{ID: "pub-1"},
		Name:      "Daily Planet",
	}

	notificationRepo := newFakeNotificationRepo()
	articleRepo := newFakeArticleRepo(articles...)
	subscriptionRepo := newFakeSubscriptionRepo()
	userRepo := newFakeUserRepo(author)
	provider := &fakeEmailProvider{}

	subscriptionSvc := services.NewSubscriptionService(subscriptionRepo, userRepo, newFakePublisherRepo(publisher))
	svc := services.NewNotificationService(notificationRepo, articleRepo, userRepo, subscriptionSvc, provider)

	return &fanoutFixture{
		svc:              svc,
		notificationRepo: notificationRepo,
		articleRepo:      articleRepo,
		subscriptionRepo: subscriptionRepo,
		provider:         provider,
	}
}

func approvedArticle(id string, approvedAt time.Time) *models.Article {
	publisherID := "pub-1"
	return &models.Article{
		BaseModel:   models.BaseModel{ID: id},
		Title:       "Local elections recap",
		Slug:        id,
		Summary:     "Results are in.",
		AuthorID:    "journalist-1",
		PublisherID: &publisherID,
		Status:      models.ArticleStatusApproved,
		IsApproved:  true,
		ApprovedAt:  &approvedAt,
	}
}

func approvalEvent(articleID string) dispatch.ApprovalEvent {
	return dispatch.ApprovalEvent{
		ArticleID:  articleID,
		ApprovedBy: "editor-1",
		ApprovedAt: time.Now(),
	}
}

func reader(id string) models.User {
	return models.User{
		BaseModel: models.BaseModel{ID: id},
		Username:  id,
		Email:     id + "@readers.test",
		Role:      models.UserRoleReader,
	}
}

func TestFanOutApproval_OneNotificationAndEmailPerRecipient(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture(approvedArticle("a1", time.Now()))
	f.subscriptionRepo.publisherSubs["pub-1"] = []models.User{reader("alice")}
	f.subscriptionRepo.journalistSubs["journalist-1"] = []models.User{reader("bob")}

	err := f.svc.FanOutApproval(context.Background(), approvalEvent("a1"))
	require.NoError(t, err)

	require.Len(t, f.notificationRepo.notifications, 2)
	require.Len(t, f.provider.sent, 2)

	for _, n := range f.notificationRepo.notifications {
		assert.NotEmpty(t, n.ReadToken)
		assert.False(t, n.IsRead)
		assert.Equal(t, "Local elections recap", n.Message)
	}

	// The email links must reference the notification that was created
	// for that very send.
	for _, data := range f.provider.sentData {
		require.Contains(t, data, "MarkReadURL")
		require.Contains(t, data, "TrackingPixelURL")
	}
}

func TestFanOutApproval_SkipsStaleApproval(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture(approvedArticle("a1", time.Now().Add(-time.Minute)))
	f.subscriptionRepo.publisherSubs["pub-1"] = []models.User{reader("alice")}

	err := f.svc.FanOutApproval(context.Background(), approvalEvent("a1"))
	require.NoError(t, err)

	assert.Empty(t, f.notificationRepo.notifications)
	assert.Empty(t, f.provider.sent)
}

func TestFanOutApproval_SkipsUnapprovedArticle(t *testing.T) {
	t.Parallel()

	article := approvedArticle("a1", time.Now())
	article.IsApproved = false
	article.Status = models.ArticleStatusPending
	article.ApprovedAt = nil

	f := newFanoutFixture(article)
	f.subscriptionRepo.publisherSubs["pub-1"] = []models.User{reader("alice")}

	err := f.svc.FanOutApproval(context.Background(), approvalEvent("a1"))
	require.NoError(t, err)
	assert.Empty(t, f.notificationRepo.notifications)
}

func TestFanOutApproval_MissingArticleIsNotAnError(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()

	err := f.svc.FanOutApproval(context.Background(), approvalEvent("ghost"))
	require.NoError(t, err)
	assert.Empty(t, f.notificationRepo.notifications)
}

func TestFanOutApproval_EmailFailureKeepsNotification(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture(approvedArticle("a1", time.Now()))
	f.subscriptionRepo.publisherSubs["pub-1"] = []models.User{reader("alice"), reader("bob")}
	f.provider.failFor = "alice@readers.test"

	err := f.svc.FanOutApproval(context.Background(), approvalEvent("a1"))
	require.NoError(t, err)

	// Both in-app notifications exist even though one email bounced.
	assert.Len(t, f.notificationRepo.notifications, 2)
	assert.Len(t, f.provider.sent, 1)
}

func TestFanOutApproval_DedupAcrossSources(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture(approvedArticle("a1", time.Now()))
	f.subscriptionRepo.publisherSubs["pub-1"] = []models.User{reader("alice")}
	f.subscriptionRepo.journalistSubs["journalist-1"] = []models.User{reader("alice")}

	err := f.svc.FanOutApproval(context.Background(), approvalEvent("a1"))
	require.NoError(t, err)

	require.Len(t, f.notificationRepo.notifications, 1)
	for _, n := range f.notificationRepo.notifications {
		assert.Equal(t, models.NotificationTypePublisher, n.NotificationType)
		assert.Equal(t, "New article from Daily Planet", n.Title)
	}
}

func TestMarkRead_RequiresOwnership(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	n := &models.Notification{RecipientID: "alice", Title: "hello"}
	require.NoError(t, f.notificationRepo.Create(n))

	err := f.svc.MarkRead("mallory", n.ID)
	require.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	require.NoError(t, f.svc.MarkRead("alice", n.ID))
	stored, _ := f.notificationRepo.FindByID(n.ID)
	assert.True(t, stored.IsRead)
}

func TestCleanupOld_RemovesOnlyOldReadNotifications(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()

	oldRead := &models.Notification{RecipientID: "alice", Title: "old read", IsRead: true}
	oldUnread := &models.Notification{RecipientID: "alice", Title: "old unread"}
	fresh := &models.Notification{RecipientID: "alice", Title: "fresh", IsRead: true}
	require.NoError(t, f.notificationRepo.Create(oldRead))
	require.NoError(t, f.notificationRepo.Create(oldUnread))
	require.NoError(t, f.notificationRepo.Create(fresh))

	ancient := time.Now().AddDate(0, 0, -120)
	f.notificationRepo.notifications[oldRead.ID].CreatedAt = ancient
	f.notificationRepo.notifications[oldUnread.ID].CreatedAt = ancient

	removed, err := f.svc.CleanupOld(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = f.notificationRepo.FindByID(oldRead.ID)
	assert.Error(t, err)
	_, err = f.notificationRepo.FindByID(oldUnread.ID)
	assert.NoError(t, err)
	_, err = f.notificationRepo.FindByID(fresh.ID)
	assert.NoError(t, err)
}

func TestNotifyEditorsOfContact_ReachesEveryEditor(t *testing.T) {
	t.Parallel()

	editorA := &models.User{BaseModel: models.BaseModel{ID: "ed-a"}, Username: "eda", Email: "eda@newsroom.test", Role: models.UserRoleEditor}
	editorB := &models.User{BaseModel: models.BaseModel{ID: "ed-b"}, Username: "edb", Email: "edb@newsroom.test", Role: models.UserRoleEditor}

	notificationRepo := newFakeNotificationRepo()
	provider := &fakeEmailProvider{}
	userRepo := newFakeUserRepo(editorA, editorB)
	subscriptionSvc := services.NewSubscriptionService(newFakeSubscriptionRepo(), userRepo, newFakePublisherRepo())
	svc := services.NewNotificationService(notificationRepo, newFakeArticleRepo(), userRepo, subscriptionSvc, provider)

	err := svc.NotifyEditorsOfContact(context.Background(), &models.ContactMessage{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Message: "I have a correction.",
	})
	require.NoError(t, err)

	assert.Len(t, notificationRepo.notifications, 2)
	assert.Len(t, provider.sent, 2)
}
