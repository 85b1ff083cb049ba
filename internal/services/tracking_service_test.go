package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom_backend/internal/cache"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/services"
	"newsroom_backend/pkg/apperrors"
)

func trackingFixture() (services.TrackingService, *fakeNotificationRepo, *cache.MemoryKV) {
	notificationRepo := newFakeNotificationRepo()
	kv := cache.NewMemoryKV()
	svc := services.NewTrackingService(notificationRepo, kv)
	return svc, notificationRepo, kv
}

func seedNotification(t *testing.T, repo *fakeNotificationRepo) *models.Notification {
	t.Helper()
	n := &models.Notification{RecipientID: "alice", Title: "New article from Daily Planet"}
	require.NoError(t, repo.Create(n))
	return n
}

func TestTrackOpen_RecordsFirstOpen(t *testing.T) {
	t.Parallel()

	svc, repo, _ := trackingFixture()
	n := seedNotification(t, repo)

	svc.TrackOpen(context.Background(), n.ReadToken, "198.51.100.7")

	stored, err := repo.FindByID(n.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
	require.NotNil(t, stored.EmailOpenedAt)
}

func TestTrackOpen_FirstOpenTimestampWins(t *testing.T) {
	t.Parallel()

	svc, repo, kv := trackingFixture()
	n := seedNotification(t, repo)

	svc.TrackOpen(context.Background(), n.ReadToken, "198.51.100.7")
	first, _ := repo.FindByID(n.ID)

	// Clear the opened cache so the second open reaches the repository;
	// the repository must still keep the original timestamp.
	require.NoError(t, kv.Delete(context.Background(), "track:opened:"+n.ReadToken))
	svc.TrackOpen(context.Background(), n.ReadToken, "198.51.100.7")

	second, _ := repo.FindByID(n.ID)
	assert.Equal(t, first.EmailOpenedAt.UnixNano(), second.EmailOpenedAt.UnixNano())
}

func TestTrackOpen_UnknownTokenIsSilent(t *testing.T) {
	t.Parallel()

	svc, _, kv := trackingFixture()

	// Must not panic or error; the pixel endpoint has no error channel.
	svc.TrackOpen(context.Background(), "no-such-token", "198.51.100.7")

	// The dead token lands in the negative cache.
	_, hit, err := kv.Get(context.Background(), "track:neg:no-such-token")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestTrackOpen_NegativeCacheShortCircuits(t *testing.T) {
	t.Parallel()

	svc, repo, _ := trackingFixture()

	// Token is probed before it exists, so it gets negative-cached.
	svc.TrackOpen(context.Background(), "late-token", "198.51.100.7")

	n := &models.Notification{RecipientID: "alice", Title: "hello", ReadToken: "late-token"}
	require.NoError(t, repo.Create(n))

	// The cached miss still wins until it expires.
	svc.TrackOpen(context.Background(), "late-token", "198.51.100.7")
	stored, _ := repo.FindByID(n.ID)
	assert.False(t, stored.IsRead)
}

func TestTrackOpen_RateLimitDropsSilently(t *testing.T) {
	t.Parallel()

	svc, repo, _ := trackingFixture()
	n := seedNotification(t, repo)

	// Exhaust the per-IP budget against a bogus token, then hit the real
	// one from the same IP with a different token: only the per-token
	// budget of the real token applies.
	for i := 0; i < 15; i++ {
		svc.TrackOpen(context.Background(), "bogus", "203.0.113.5")
	}
	svc.TrackOpen(context.Background(), n.ReadToken, "203.0.113.5")
	stored, _ := repo.FindByID(n.ID)
	assert.True(t, stored.IsRead)

	// Hammering one token from one IP past the limit stops writes.
	repo2 := newFakeNotificationRepo()
	kv2 := cache.NewMemoryKV()
	svc2 := services.NewTrackingService(repo2, kv2)
	n2 := seedNotification(t, repo2)

	for i := 0; i < 10; i++ {
		require.NoError(t, kv2.Delete(context.Background(), "track:opened:"+n2.ReadToken))
		svc2.TrackOpen(context.Background(), n2.ReadToken, "203.0.113.5")
	}
	require.NoError(t, kv2.Delete(context.Background(), "track:opened:"+n2.ReadToken))

	// 11th request in the window: over the limit of 10, silently dropped.
	before, _ := repo2.FindByID(n2.ID)
	beforeOpened := before.EmailOpenedAt
	svc2.TrackOpen(context.Background(), n2.ReadToken, "203.0.113.5")
	after, _ := repo2.FindByID(n2.ID)
	assert.Equal(t, beforeOpened.UnixNano(), after.EmailOpenedAt.UnixNano())
}

func TestMarkReadByID_MarksAndReturnsNotification(t *testing.T) {
	t.Parallel()

	svc, repo, _ := trackingFixture()
	n := seedNotification(t, repo)

	got, err := svc.MarkReadByID(context.Background(), n.ID, "198.51.100.7")
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)

	stored, _ := repo.FindByID(n.ID)
	assert.True(t, stored.IsRead)

	// Clicking the email link again is fine.
	_, err = svc.MarkReadByID(context.Background(), n.ID, "198.51.100.7")
	require.NoError(t, err)
}

func TestMarkReadByID_UnknownID(t *testing.T) {
	t.Parallel()

	svc, _, _ := trackingFixture()

	_, err := svc.MarkReadByID(context.Background(), 9999, "198.51.100.7")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestMarkReadByID_RateLimited(t *testing.T) {
	t.Parallel()

	svc, repo, _ := trackingFixture()
	n := seedNotification(t, repo)

	ip := "203.0.113.9"
	for i := 0; i < 20; i++ {
		_, err := svc.MarkReadByID(context.Background(), n.ID, ip)
		require.NoError(t, err, fmt.Sprintf("request %d should be within the limit", i+1))
	}

	_, err := svc.MarkReadByID(context.Background(), n.ID, ip)
	require.ErrorIs(t, err, apperrors.ErrRateLimited)

	// A different client is unaffected.
	_, err = svc.MarkReadByID(context.Background(), n.ID, "198.51.100.99")
	require.NoError(t, err)
}
