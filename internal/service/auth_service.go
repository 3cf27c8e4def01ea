package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/example/academia/config"
	"github.com/example/academia/internal/adapters/broker"
	"github.com/example/academia/internal/adapters/tiktok"
	"github.com/example/academia/internal/domain"
	"github.com/example/academia/internal/events"
	"github.com/example/academia/internal/repo"
	pkglog "github.com/example/academia/pkg/log"
)

// Error codes surfaced as the ?error= query parameter on the landing page.
const (
	CodeInvalidState   = "invalid_state"
	CodeNoCode         = "no_code"
	CodeTokenFailed    = "token_failed"
	CodeNoAccessToken  = "no_access_token"
	CodeUserInfoFailed = "user_info_failed"
	CodeNoUserData     = "no_user_data"
	CodeDBError        = "db_error"
	CodeDBUpdateFailed = "db_update_failed"
	CodeDBInsertFailed = "db_insert_failed"
	CodeOAuthFailed    = "oauth_failed"
)

// FlowError aborts the login flow with a machine-readable code and an
// optional details blob for the error redirect.
type FlowError struct {
	Code    string
	Details string
	cause   error
}

func (e *FlowError) Error() string {
	if e.cause != nil {
		return e.Code + ": " + e.cause.Error()
	}
	return e.Code
}

func (e *FlowError) Unwrap() error {
	return e.cause
}

func newFlowError(code, details string, cause error) *FlowError {
	return &FlowError{Code: code, Details: details, cause: cause}
}

// LoginResult is the outcome of a completed callback: the resolved user, the
// provider token for the session, and whether this was a first login.
type LoginResult struct {
	User        *domain.User
	AccessToken string
	NewUser     bool
}

type AuthService interface {
	LoginURL(state string) string
	CompleteLogin(ctx context.Context, traceID, code string) (*LoginResult, error)
}

type authService struct {
	cfg       *config.Config
	logger    pkglog.Logger
	users     repo.UserRepository
	videos    repo.VideoRepository
	tiktok    tiktok.Client
	publisher broker.Publisher
}

func NewAuthService(
	cfg *config.Config,
	logger pkglog.Logger,
	users repo.UserRepository,
	videos repo.VideoRepository,
	tiktokClient tiktok.Client,
	publisher broker.Publisher,
) AuthService {
	return &authService{
		cfg:       cfg,
		logger:    logger,
		users:     users,
		videos:    videos,
		tiktok:    tiktokClient,
		publisher: publisher,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.tiktok.AuthorizeURL(state)
}

// CompleteLogin runs the exchange -> profile -> upsert -> hydrate sequence.
// Video hydration is best-effort; everything before it aborts the flow with
// a FlowError carrying the redirect code.
func (s *authService) CompleteLogin(ctx context.Context, traceID, code string) (*LoginResult, error) {
	token, err := s.tiktok.ExchangeCode(ctx, code)
	if err != nil {
		var statusErr *tiktok.StatusError
		if errors.As(err, &statusErr) {
			return nil, newFlowError(CodeTokenFailed, statusErr.Body, err)
		}
		return nil, newFlowError(CodeOAuthFailed, "", err)
	}
	if token.AccessToken == "" {
		s.logger.Error().Str("trace_id", traceID).Msg("token response carried no access token")
		return nil, newFlowError(CodeNoAccessToken, "", nil)
	}

	info, err := s.tiktok.FetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		var statusErr *tiktok.StatusError
		if errors.As(err, &statusErr) {
			return nil, newFlowError(CodeUserInfoFailed, statusErr.Body, err)
		}
		return nil, newFlowError(CodeOAuthFailed, "", err)
	}
	if info == nil || info.OpenID == "" {
		return nil, newFlowError(CodeNoUserData, "", nil)
	}

	user, newUser, err := s.upsertUser(ctx, info)
	if err != nil {
		return nil, err
	}

	// Best-effort: a failed video fetch or upsert must not abort the login.
	s.hydrateVideos(ctx, traceID, user.ID, token.AccessToken)

	s.publishLoginEvent(ctx, traceID, user, newUser)
	s.logger.Info().
		Str("trace_id", traceID).
		Str("user_id", user.ID).
		Bool("new_user", newUser).
		Msg("login completed")

	return &LoginResult{User: user, AccessToken: token.AccessToken, NewUser: newUser}, nil
}

func (s *authService) upsertUser(ctx context.Context, info *tiktok.UserInfo) (*domain.User, bool, error) {
	existing, err := s.users.FindByTikTokUserID(ctx, info.OpenID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, newFlowError(CodeDBError, err.Error(), err)
	}

	if existing != nil {
		existing.ApplyProviderUpdate(info.DisplayName, info.Username, info.BestAvatarURL())
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, false, newFlowError(CodeDBUpdateFailed, err.Error(), err)
		}
		return existing, false, nil
	}

	user := domain.NewUserFromProvider(info.OpenID, info.DisplayName, info.Username, info.BestAvatarURL())
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, newFlowError(CodeDBInsertFailed, err.Error(), err)
	}
	return user, true, nil
}

func (s *authService) hydrateVideos(ctx context.Context, traceID, userID, accessToken string) {
	videos, err := s.tiktok.ListVideos(ctx, accessToken, s.cfg.VideoFetchCount)
	if err != nil {
		s.logger.Error().Err(err).Str("trace_id", traceID).Str("user_id", userID).Msg("video list fetch failed")
		return
	}
	if len(videos) == 0 {
		return
	}
	records := make([]domain.CreatorVideo, 0, len(videos))
	for _, v := range videos {
		records = append(records, mapVideo(userID, v))
	}
	if err := s.videos.UpsertBatch(ctx, records); err != nil {
		s.logger.Error().Err(err).Str("trace_id", traceID).Str("user_id", userID).Msg("video upsert failed")
		return
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", userID).Int("count", len(records)).Msg("videos stored")
}

func mapVideo(userID string, v tiktok.Video) domain.CreatorVideo {
	record := domain.CreatorVideo{
		UserID:        userID,
		VideoID:       v.ID,
		VideoURL:      v.ShareURL,
		CoverImageURL: v.CoverImageURL,
		ViewCount:     v.ViewCount,
		LikeCount:     v.LikeCount,
		CommentCount:  v.CommentCount,
		ShareCount:    v.ShareCount,
		PostedAt:      time.Now().UTC(),
	}
	if record.VideoURL == "" {
		record.VideoURL = v.EmbedLink
	}
	if v.Title != "" {
		title := v.Title
		record.Title = &title
	} else if v.VideoDescription != "" {
		title := v.VideoDescription
		record.Title = &title
	}
	if v.VideoDescription != "" {
		description := v.VideoDescription
		record.Description = &description
	}
	if v.Duration > 0 {
		duration := v.Duration
		record.DurationSeconds = &duration
	}
	if v.CreateTime > 0 {
		record.PostedAt = time.Unix(v.CreateTime, 0).UTC()
	}
	return record
}

func (s *authService) publishLoginEvent(ctx context.Context, traceID string, user *domain.User, newUser bool) {
	if s.publisher == nil {
		return
	}
	eventType := events.UserLoggedIn
	if newUser {
		eventType = events.UserCreated
	}
	if err := s.publisher.Publish(ctx, eventType, events.NewUserEvent(eventType, user.ID, user.TikTokUserID, traceID)); err != nil {
		s.logger.Warn().Err(err).Str("trace_id", traceID).Msg("event publish failed")
	}
}
