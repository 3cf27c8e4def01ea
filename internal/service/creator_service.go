package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/academia/config"
	"github.com/example/academia/internal/adapters/refreshfn"
	"github.com/example/academia/internal/domain"
	"github.com/example/academia/internal/repo"
	pkglog "github.com/example/academia/pkg/log"
)

var ErrUserNotFound = errors.New("user not found")

// MaxPageSize is the hard cap the creators API enforces per page.
const MaxPageSize = 10

type CreatorQuery struct {
	Refresh  bool
	Page     int
	PageSize int
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

type SimilarCreatorsResult struct {
	Creators   []domain.EchoTikCreator `json:"creators"`
	Pagination Pagination              `json:"pagination"`
	Filters    repo.CreatorFilter      `json:"filters"`
}

type CreatorService interface {
	SimilarCreators(ctx context.Context, userID string, query CreatorQuery) (*SimilarCreatorsResult, error)
}

type creatorService struct {
	cfg      *config.Config
	logger   pkglog.Logger
	users    repo.UserRepository
	creators repo.CreatorRepository
	refresh  refreshfn.Client
}

func NewCreatorService(
	cfg *config.Config,
	logger pkglog.Logger,
	users repo.UserRepository,
	creators repo.CreatorRepository,
	refresh refreshfn.Client,
) CreatorService {
	return &creatorService{
		cfg:      cfg,
		logger:   logger,
		users:    users,
		creators: creators,
		refresh:  refresh,
	}
}

func (s *creatorService) SimilarCreators(ctx context.Context, userID string, query CreatorQuery) (*SimilarCreatorsResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	page, pageSize := NormalizePaging(query.Page, query.PageSize)
	filter := repo.CreatorFilter{
		Category: user.CategoryOrDefault(s.cfg.DefaultCategory),
		Language: user.LanguageOrDefault(s.cfg.DefaultLanguage),
		Region:   s.cfg.DefaultRegion,
	}

	if query.Refresh {
		s.triggerRefresh(ctx, filter, page, pageSize)
	}

	offset := (page - 1) * pageSize
	creators, count, err := s.creators.ListByFilter(ctx, filter, offset, pageSize)
	if err != nil {
		return nil, err
	}
	if creators == nil {
		creators = []domain.EchoTikCreator{}
	}

	return &SimilarCreatorsResult{
		Creators:   creators,
		Pagination: NewPagination(page, pageSize, count),
		Filters:    filter,
	}, nil
}

// triggerRefresh invokes the refresh function; its result is discarded
// except for logging and failures never block the subsequent read.
func (s *creatorService) triggerRefresh(ctx context.Context, filter repo.CreatorFilter, page, pageSize int) {
	result, err := s.refresh.Trigger(ctx, refreshfn.Request{
		Category: filter.Category,
		Region:   filter.Region,
		Language: filter.Language,
		PageNum:  page,
		PageSize: pageSize,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("category", filter.Category).Msg("creator refresh failed")
		return
	}
	s.logger.Info().Int("count", result.Count).Str("category", filter.Category).Msg("creator refresh completed")
}

// NormalizePaging applies the 1-based page default and the page-size cap.
func NormalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = MaxPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// NewPagination computes the page metadata: totalPages = ceil(total/pageSize),
// hasMore = page < totalPages.
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
