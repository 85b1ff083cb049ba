package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom_backend/internal/models"
	"newsroom_backend/internal/services"
	"newsroom_backend/pkg/apperrors"
)

func subscriptionFixture() (services.SubscriptionService, *fakeSubscriptionRepo, *fakeUserRepo, *fakePublisherRepo) {
	reader := &models.User{
		BaseModel: models.BaseModel{ID: "reader-1"},
		Username:  "avid",
		Role:      models.UserRoleReader,
	}
	journalist := &models.User{
		BaseModel: models.BaseModel{ID: "journalist-1"},
		Username:  "scoop",
		FirstName: "Sam",
		LastName:  "Reporter",
		Role:      models.UserRoleJournalist,
	}
	editor := &models.User{
		BaseModel: models.BaseModel{ID: "editor-1"},
		Username:  "chief",
		Role:      models.UserRoleEditor,
	}
	publisher := &models.Publisher{
		BaseModel: models.BaseModel{ID: "pub-1"},
		Name:      "Daily Planet",
	}

	subscriptionRepo := newFakeSubscriptionRepo()
	userRepo := newFakeUserRepo(reader, journalist, editor)
	publisherRepo := newFakePublisherRepo(publisher)
	svc := services.NewSubscriptionService(subscriptionRepo, userRepo, publisherRepo)
	return svc, subscriptionRepo, userRepo, publisherRepo
}

func TestSubscribe_ReaderOnly(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := subscriptionFixture()

	require.NoError(t, svc.SubscribeToPublisher("reader-1", "pub-1"))

	err := svc.SubscribeToPublisher("journalist-1", "pub-1")
	require.ErrorIs(t, err, apperrors.ErrInvalidUserRole)

	err = svc.SubscribeToJournalist("editor-1", "journalist-1")
	require.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestSubscribeToJournalist_TargetMustBeJournalist(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := subscriptionFixture()

	err := svc.SubscribeToJournalist("reader-1", "editor-1")
	require.ErrorIs(t, err, apperrors.ErrInvalidUserRole)

	err = svc.SubscribeToJournalist("reader-1", "nobody")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	require.NoError(t, svc.SubscribeToJournalist("reader-1", "journalist-1"))
}

func TestSubscribeToPublisher_UnknownPublisher(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := subscriptionFixture()

	err := svc.SubscribeToPublisher("reader-1", "nope")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestUnsubscribe_UnknownTargetNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := subscriptionFixture()

	err := svc.UnsubscribeFromPublisher("reader-1", "no-such-publisher")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	err = svc.UnsubscribeFromJournalist("reader-1", "nobody")
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	// Removing an edge that was never there is still fine when the
	// target exists.
	require.NoError(t, svc.UnsubscribeFromPublisher("reader-1", "pub-1"))
	require.NoError(t, svc.UnsubscribeFromJournalist("reader-1", "journalist-1"))
}

func TestAudienceFor_SkipsRecipientsWithoutEmail(t *testing.T) {
	t.Parallel()

	svc, subscriptionRepo, _, _ := subscriptionFixture()

	require.NoError(t, subscriptionRepo.SubscribeToPublisher("with-email", "pub-1"))
	subscriptionRepo.publisherSubs["pub-1"] = append(subscriptionRepo.publisherSubs["pub-1"],
		models.User{BaseModel: models.BaseModel{ID: "no-email"}})
	subscriptionRepo.journalistSubs["journalist-1"] = append(subscriptionRepo.journalistSubs["journalist-1"],
		models.User{BaseModel: models.BaseModel{ID: "silent-follower"}})

	publisherID := "pub-1"
	article := &models.Article{
		BaseModel:   models.BaseModel{ID: "a1"},
		AuthorID:    "journalist-1",
		PublisherID: &publisherID,
	}

	audience, err := svc.AudienceFor(article)
	require.NoError(t, err)
	require.Len(t, audience, 1)
	assert.Equal(t, "with-email", audience[0].User.ID)
}

func TestAudienceFor_PublisherAttributionWins(t *testing.T) {
	t.Parallel()

	svc, subscriptionRepo, _, _ := subscriptionFixture()

	// One reader subscribed to both the publisher and the author, one to
	// the publisher only, one following the author only.
	require.NoError(t, subscriptionRepo.SubscribeToPublisher("both", "pub-1"))
	require.NoError(t, subscriptionRepo.SubscribeToPublisher("pub-only", "pub-1"))
	require.NoError(t, subscriptionRepo.SubscribeToJournalist("both", "journalist-1"))
	require.NoError(t, subscriptionRepo.SubscribeToJournalist("author-only", "journalist-1"))

	publisherID := "pub-1"
	article := &models.Article{
		BaseModel:   models.BaseModel{ID: "a1"},
		AuthorID:    "journalist-1",
		PublisherID: &publisherID,
	}

	audience, err := svc.AudienceFor(article)
	require.NoError(t, err)
	require.Len(t, audience, 3)

	byID := make(map[string]services.Recipient)
	for _, r := range audience {
		byID[r.User.ID] = r
	}

	assert.Equal(t, models.NotificationTypePublisher, byID["both"].Type)
	assert.Equal(t, "Daily Planet", byID["both"].SourceName)
	assert.Equal(t, models.NotificationTypePublisher, byID["pub-only"].Type)
	assert.Equal(t, models.NotificationTypeJournalist, byID["author-only"].Type)
	assert.Equal(t, "Sam Reporter", byID["author-only"].SourceName)
}

func TestAudienceFor_IndependentArticleHasNoPublisherAudience(t *testing.T) {
	t.Parallel()

	svc, subscriptionRepo, _, _ := subscriptionFixture()

	require.NoError(t, subscriptionRepo.SubscribeToPublisher("pub-only", "pub-1"))
	require.NoError(t, subscriptionRepo.SubscribeToJournalist("follower", "journalist-1"))

	article := &models.Article{
		BaseModel: models.BaseModel{ID: "a1"},
		AuthorID:  "journalist-1",
	}

	audience, err := svc.AudienceFor(article)
	require.NoError(t, err)
	require.Len(t, audience, 1)
	assert.Equal(t, "follower", audience[0].User.ID)
	assert.Equal(t, models.NotificationTypeJournalist, audience[0].Type)
}

func TestAudienceFor_EmptyWhenNoSubscribers(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := subscriptionFixture()

	publisherID := "pub-1"
	article := &models.Article{
		BaseModel:   models.BaseModel{ID: "a1"},
		AuthorID:    "journalist-1",
		PublisherID: &publisherID,
	}

	audience, err := svc.AudienceFor(article)
	require.NoError(t, err)
	assert.Empty(t, audience)
}
