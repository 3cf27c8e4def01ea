package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/example/academia/internal/domain"
	"github.com/example/academia/internal/repo"
	pkglog "github.com/example/academia/pkg/log"
)

const (
	topVideosPerCreator = 3
	topProductsPerVideo = 3
)

type VideoWithProducts struct {
	domain.CreatorVideo
	Products []domain.VideoProduct `json:"products"`
}

type SimilarCreatorDetail struct {
	domain.User
	SimilarityScore float64             `json:"similarity_score"`
	TopVideos       []VideoWithProducts `json:"top_videos"`
}

type DashboardResult struct {
	User            *domain.User           `json:"user"`
	SimilarCreators []SimilarCreatorDetail `json:"similarCreators"`
}

type DashboardService interface {
	Dashboard(ctx context.Context, userID string) (*DashboardResult, error)
}

type dashboardService struct {
	logger     pkglog.Logger
	users      repo.UserRepository
	videos     repo.VideoRepository
	products   repo.ProductRepository
	similarity repo.SimilarityRepository
}

func NewDashboardService(
	logger pkglog.Logger,
	users repo.UserRepository,
	videos repo.VideoRepository,
	products repo.ProductRepository,
	similarity repo.SimilarityRepository,
) DashboardService {
	return &dashboardService{
		logger:     logger,
		users:      users,
		videos:     videos,
		products:   products,
		similarity: similarity,
	}
}

// Dashboard assembles the creator + top-videos + top-products aggregate. The
// per-creator and per-video lookups are batched into IN-queries; the output
// shape stays creator -> top-3 videos -> top-3 products.
func (s *dashboardService) Dashboard(ctx context.Context, userID string) (*DashboardResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	result := &DashboardResult{User: user, SimilarCreators: []SimilarCreatorDetail{}}

	edges, err := s.similarity.ListForUser(ctx, userID)
	if err != nil {
		// Degrades to an empty list, same as an empty edge table.
		s.logger.Error().Err(err).Str("user_id", userID).Msg("similarity edges fetch failed")
		return result, nil
	}
	if len(edges) == 0 {
		return result, nil
	}

	creatorIDs := make([]string, 0, len(edges))
	scores := make(map[string]float64, len(edges))
	for _, edge := range edges {
		creatorIDs = append(creatorIDs, edge.SimilarCreatorID)
		scores[edge.SimilarCreatorID] = edge.SimilarityScore
	}

	creators, err := s.users.FindByIDs(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	videosByCreator, err := s.videos.TopByUsers(ctx, creatorIDs, topVideosPerCreator)
	if err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, len(creatorIDs)*topVideosPerCreator)
	for _, videos := range videosByCreator {
		for _, video := range videos {
			videoIDs = append(videoIDs, video.ID)
		}
	}
	productsByVideo, err := s.products.TopByVideos(ctx, videoIDs, topProductsPerVideo)
	if err != nil {
		return nil, err
	}

	for _, creator := range creators {
		detail := SimilarCreatorDetail{
			User:            creator,
			SimilarityScore: scores[creator.ID],
			TopVideos:       []VideoWithProducts{},
		}
		for _, video := range videosByCreator[creator.ID] {
			products := productsByVideo[video.ID]
			rankProducts(products)
			if products == nil {
				products = []domain.VideoProduct{}
			}
			detail.TopVideos = append(detail.TopVideos, VideoWithProducts{
				CreatorVideo: video,
				Products:     products,
			})
		}
		result.SimilarCreators = append(result.SimilarCreators, detail)
	}
	return result, nil
}

// rankProducts orders by sales count, breaking ties with the composite
// performance score.
func rankProducts(products []domain.VideoProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].SalesCount != products[j].SalesCount {
			return products[i].SalesCount > products[j].SalesCount
		}
		return ProductScore(products[i]) > ProductScore(products[j])
	})
}
