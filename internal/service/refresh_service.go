package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/datatypes"

	"github.com/example/academia/config"
	"github.com/example/academia/internal/adapters/echotik"
	"github.com/example/academia/internal/domain"
	"github.com/example/academia/internal/repo"
	pkglog "github.com/example/academia/pkg/log"
)

var ErrCategoryRequired = errors.New("category is required")

type RefreshRequest struct {
	Category string
	Region   string
	Language string
	PageNum  int
	PageSize int
}

// RefreshService syncs the echotik_creators table from the EchoTik API. It
// is the in-process body of the refresh function route; EchoTik is reached
// from nowhere else.
type RefreshService interface {
	RefreshCreators(ctx context.Context, req RefreshRequest) (int, error)
}

type refreshService struct {
	cfg      *config.Config
	logger   pkglog.Logger
	echotik  echotik.Client
	creators repo.CreatorRepository
}

func NewRefreshService(cfg *config.Config, logger pkglog.Logger, echotikClient echotik.Client, creators repo.CreatorRepository) RefreshService {
	return &refreshService{cfg: cfg, logger: logger, echotik: echotikClient, creators: creators}
}

func (s *refreshService) RefreshCreators(ctx context.Context, req RefreshRequest) (int, error) {
	if strings.TrimSpace(req.Category) == "" {
		return 0, ErrCategoryRequired
	}
	if req.Region == "" {
		req.Region = s.cfg.DefaultRegion
	}
	if req.Language == "" {
		req.Language = s.cfg.DefaultLanguage
	}
	if req.PageNum < 1 {
		req.PageNum = 1
	}
	if req.PageSize < 1 || req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}

	influencers, err := s.echotik.ListInfluencers(ctx, echotik.Query{
		Category: req.Category,
		Region:   req.Region,
		Language: req.Language,
		PageNum:  req.PageNum,
		PageSize: req.PageSize,
	})
	if err != nil {
		return 0, err
	}
	if len(influencers) == 0 {
		return 0, nil
	}

	creators := make([]domain.EchoTikCreator, 0, len(influencers))
	avatars := make([]string, 0, len(influencers))
	for _, influencer := range influencers {
		creator := MapEchoTikCreator(influencer)
		creators = append(creators, creator)
		avatars = append(avatars, creator.AvatarOriginalURL)
	}

	// Temporary URLs for EchoTik-hosted avatars; failures fall back to the
	// original URL.
	urlMap, err := s.echotik.BatchCoverDownload(ctx, avatars)
	if err != nil {
		s.logger.Warn().Err(err).Msg("avatar url resolution failed")
		urlMap = map[string]string{}
	}
	for i := range creators {
		if temp, ok := urlMap[creators[i].AvatarOriginalURL]; ok {
			creators[i].AvatarURL = temp
		} else {
			creators[i].AvatarURL = creators[i].AvatarOriginalURL
		}
	}

	if err := s.creators.UpsertBatch(ctx, creators); err != nil {
		return 0, err
	}
	s.logger.Info().Int("count", len(creators)).Str("category", req.Category).Msg("creators synced")
	return len(creators), nil
}

// MapEchoTikCreator converts an API item to the persisted schema. The 1d/7d/
// 90d GMV columns carry the digg counters; the table has always been filled
// that way and readers sort on the 30d column only.
func MapEchoTikCreator(c echotik.Creator) domain.EchoTikCreator {
	return domain.EchoTikCreator{
		UserID:            c.UserID,
		UniqueID:          c.UniqueID,
		Nickname:          c.NickName,
		AvatarOriginalURL: c.Avatar,
		Signature:         c.Signature,
		Region:            c.Region,
		Language:          c.Language,
		Category:          c.Category,

		TotalFollowersCnt:      c.TotalFollowersCnt,
		FollowerCntIncrease1D:  c.TotalFollowers1DCnt,
		FollowerCntIncrease7D:  c.TotalFollowers7DCnt,
		FollowerCntIncrease30D: c.TotalFollowers30DCnt,
		FollowerCntIncrease90D: c.TotalFollowers90DCnt,

		TotalVideoCnt:   c.TotalPostVideoCnt,
		TotalViewsCnt:   c.TotalViewsCnt,
		TotalDiggCnt:    c.TotalDiggCnt,
		InteractionRate: c.InteractionRate,

		TotalSaleGmvAmt:    c.TotalSaleGmvAmt,
		TotalSaleGmv1DAmt:  float64(c.TotalDigg1DCnt),
		TotalSaleGmv7DAmt:  float64(c.TotalDigg7DCnt),
		TotalSaleGmv30DAmt: c.TotalSaleGmv30DAmt,
		TotalSaleGmv90DAmt: float64(c.TotalDigg90DCnt),
		ECScore:            c.ECScore,

		TotalProductCnt:           c.TotalProductCnt,
		MostCategoryProduct:       parseJSONField(c.MostCategoryProduct, "[]"),
		MostVideoDurationRange:    parseJSONField(c.InfluencerVideoDurationLevel, "{}"),
		MostVideoPublishTimeRange: parseJSONField(c.InfluencerVideoPublishHour, "{}"),
	}
}

// parseJSONField keeps a provider field only when it holds a non-empty,
// non-sentinel, valid JSON document.
func parseJSONField(raw, emptySentinel string) datatypes.JSON {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == emptySentinel || !json.Valid([]byte(trimmed)) {
		return nil
	}
	return datatypes.JSON(trimmed)
}
