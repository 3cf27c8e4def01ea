package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/academia/internal/domain"
	"github.com/example/academia/internal/events"
	"github.com/example/academia/internal/service"
	pkglog "github.com/example/academia/pkg/log"
)

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []interface{}
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func TestCompleteOnboarding_UpdatesProfile(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users, domain.User{TikTokUserID: "open-1", DisplayName: "TikTok User", LanguagePreference: "es"})
	publisher := &fakePublisher{}
	svc := service.NewUserService(pkglog.New("test"), users, newFakeVideoRepo(), publisher)

	updated, err := svc.CompleteOnboarding(context.Background(), "trace-1", user.ID, service.OnboardingInput{
		DisplayName:        "  Ana  ",
		Category:           "Fitness",
		LanguagePreference: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.DisplayName)
	require.NotNil(t, updated.CreatorCategory)
	assert.Equal(t, "Fitness", *updated.CreatorCategory)
	assert.Equal(t, "en", updated.LanguagePreference)

	require.Len(t, publisher.subjects, 1)
	assert.Equal(t, events.UserOnboarded, publisher.subjects[0])
}

func TestCompleteOnboarding_BlankOptionalFieldsKeepStored(t *testing.T) {
	users := newFakeUserRepo()
	category := "Beauty"
	user := seedUser(t, users, domain.User{TikTokUserID: "open-1", CreatorCategory: &category, LanguagePreference: "es"})
	svc := service.NewUserService(pkglog.New("test"), users, newFakeVideoRepo(), nil)

	updated, err := svc.CompleteOnboarding(context.Background(), "trace-1", user.ID, service.OnboardingInput{
		DisplayName: "Ana",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CreatorCategory)
	assert.Equal(t, "Beauty", *updated.CreatorCategory)
	assert.Equal(t, "es", updated.LanguagePreference)
}

func TestCompleteOnboarding_UnknownUser(t *testing.T) {
	svc := service.NewUserService(pkglog.New("test"), newFakeUserRepo(), newFakeVideoRepo(), nil)

	_, err := svc.CompleteOnboarding(context.Background(), "trace-1", "missing", service.OnboardingInput{DisplayName: "Ana"})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserData_ReturnsUserAndVideos(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users, domain.User{TikTokUserID: "open-1"})
	videos := newFakeVideoRepo()
	require.NoError(t, videos.UpsertBatch(context.Background(), []domain.CreatorVideo{
		{ID: "row-1", VideoID: "v-1", UserID: user.ID},
	}))
	svc := service.NewUserService(pkglog.New("test"), users, videos, nil)

	data, err := svc.UserData(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, data.User.ID)
	require.Len(t, data.Videos, 1)
	assert.Equal(t, "v-1", data.Videos[0].VideoID)
}

func TestUserData_NoVideosIsNotNil(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users, domain.User{TikTokUserID: "open-1"})
	svc := service.NewUserService(pkglog.New("test"), users, newFakeVideoRepo(), nil)

	data, err := svc.UserData(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, data.Videos)
	assert.Len(t, data.Videos, 0)
}
