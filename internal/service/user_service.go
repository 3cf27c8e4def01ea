package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/example/academia/internal/adapters/broker"
	"github.com/example/academia/internal/domain"
	"github.com/example/academia/internal/events"
	"github.com/example/academia/internal/repo"
	pkglog "github.com/example/academia/pkg/log"
)

type OnboardingInput struct {
	DisplayName        string
	Category           string
	LanguagePreference string
}

// UserData is the diagnostics view of a logged-in user: the stored row plus
// every hydrated video.
type UserData struct {
	User   *domain.User          `json:"user"`
	Videos []domain.CreatorVideo `json:"videos"`
}

type UserService interface {
	CompleteOnboarding(ctx context.Context, traceID, userID string, in OnboardingInput) (*domain.User, error)
	UserData(ctx context.Context, userID string) (*UserData, error)
}

type userService struct {
	logger    pkglog.Logger
	users     repo.UserRepository
	videos    repo.VideoRepository
	publisher broker.Publisher
}

func NewUserService(logger pkglog.Logger, users repo.UserRepository, videos repo.VideoRepository, publisher broker.Publisher) UserService {
	return &userService{logger: logger, users: users, videos: videos, publisher: publisher}
}

func (s *userService) CompleteOnboarding(ctx context.Context, traceID, userID string, in OnboardingInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.DisplayName = strings.TrimSpace(in.DisplayName)
	if category := strings.TrimSpace(in.Category); category != "" {
		user.CreatorCategory = &category
	}
	if language := strings.TrimSpace(in.LanguagePreference); language != "" {
		user.LanguagePreference = language
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.UserOnboarded, events.NewUserEvent(events.UserOnboarded, user.ID, user.TikTokUserID, traceID)); err != nil {
			s.logger.Warn().Err(err).Str("trace_id", traceID).Msg("event publish failed")
		}
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("onboarding completed")
	return user, nil
}

func (s *userService) UserData(ctx context.Context, userID string) (*UserData, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	videos, err := s.videos.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []domain.CreatorVideo{}
	}
	return &UserData{User: user, Videos: videos}, nil
}
