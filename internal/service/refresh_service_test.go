package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/academia/internal/adapters/echotik"
	"github.com/example/academia/internal/service"
	pkglog "github.com/example/academia/pkg/log"
)

type fakeEchoTikClient struct {
	listCalls int
	lastQuery echotik.Query
	creators  []echotik.Creator
	listErr   error

	coverCalls int
	coverMap   map[string]string
	coverErr   error
}

func (f *fakeEchoTikClient) ListInfluencers(ctx context.Context, q echotik.Query) ([]echotik.Creator, error) {
	f.listCalls++
	f.lastQuery = q
	return f.creators, f.listErr
}

func (f *fakeEchoTikClient) BatchCoverDownload(ctx context.Context, coverURLs []string) (map[string]string, error) {
	f.coverCalls++
	if f.coverErr != nil {
		return nil, f.coverErr
	}
	if f.coverMap == nil {
		return map[string]string{}, nil
	}
	return f.coverMap, nil
}

func newRefreshFixture(client *fakeEchoTikClient) (service.RefreshService, *fakeCreatorRepo) {
	creators := &fakeCreatorRepo{}
	svc := service.NewRefreshService(testConfig(), pkglog.New("test"), client, creators)
	return svc, creators
}

func TestRefreshCreators_CategoryRequired(t *testing.T) {
	client := &fakeEchoTikClient{}
	svc, _ := newRefreshFixture(client)

	_, err := svc.RefreshCreators(context.Background(), service.RefreshRequest{Category: "  "})
	assert.ErrorIs(t, err, service.ErrCategoryRequired)
	assert.Equal(t, 0, client.listCalls)
}

func TestRefreshCreators_AppliesQueryDefaults(t *testing.T) {
	client := &fakeEchoTikClient{}
	svc, _ := newRefreshFixture(client)

	count, err := svc.RefreshCreators(context.Background(), service.RefreshRequest{Category: "Beauty", PageSize: 99})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, echotik.Query{
		Category: "Beauty",
		Region:   "US",
		Language: "es",
		PageNum:  1,
		PageSize: 10,
	}, client.lastQuery)
}

func TestRefreshCreators_StoresMappedCreators(t *testing.T) {
	client := &fakeEchoTikClient{
		creators: []echotik.Creator{
			{UserID: "c-1", NickName: "Uno", Avatar: "https://cdn/a.jpg"},
			{UserID: "c-2", NickName: "Dos", Avatar: "https://cdn/b.jpg"},
		},
	}
	svc, creators := newRefreshFixture(client)

	count, err := svc.RefreshCreators(context.Background(), service.RefreshRequest{Category: "Beauty"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, creators.upserted, 2)
	assert.Equal(t, "Uno", creators.upserted[0].Nickname)
}

func TestRefreshCreators_AvatarFallsBackWhenUnresolved(t *testing.T) {
	client := &fakeEchoTikClient{
		creators: []echotik.Creator{
			{UserID: "c-1", Avatar: "https://echosell-images.tos-ap-southeast-1.volces.com/a.jpg"},
			{UserID: "c-2", Avatar: "https://cdn/b.jpg"},
		},
		coverMap: map[string]string{
			"https://echosell-images.tos-ap-southeast-1.volces.com/a.jpg": "https://tmp/a.jpg",
		},
	}
	svc, creators := newRefreshFixture(client)

	_, err := svc.RefreshCreators(context.Background(), service.RefreshRequest{Category: "Beauty"})
	require.NoError(t, err)
	require.Len(t, creators.upserted, 2)
	assert.Equal(t, "https://tmp/a.jpg", creators.upserted[0].AvatarURL)
	assert.Equal(t, "https://cdn/b.jpg", creators.upserted[1].AvatarURL)
}

func TestRefreshCreators_CoverFailureDoesNotAbortSync(t *testing.T) {
	client := &fakeEchoTikClient{
		creators: []echotik.Creator{{UserID: "c-1", Avatar: "https://cdn/a.jpg"}},
		coverErr: errors.New("timeout"),
	}
	svc, creators := newRefreshFixture(client)

	count, err := svc.RefreshCreators(context.Background(), service.RefreshRequest{Category: "Beauty"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "https://cdn/a.jpg", creators.upserted[0].AvatarURL)
}

func TestMapEchoTikCreator_DiggCountersFillShortWindowGmv(t *testing.T) {
	creator := service.MapEchoTikCreator(echotik.Creator{
		UserID:             "c-1",
		TotalDigg1DCnt:     11,
		TotalDigg7DCnt:     77,
		TotalDigg90DCnt:    900,
		TotalSaleGmv30DAmt: 1234.5,
		TotalSaleGmvAmt:    9999.9,
	})
	assert.Equal(t, float64(11), creator.TotalSaleGmv1DAmt)
	assert.Equal(t, float64(77), creator.TotalSaleGmv7DAmt)
	assert.Equal(t, float64(900), creator.TotalSaleGmv90DAmt)
	assert.Equal(t, 1234.5, creator.TotalSaleGmv30DAmt)
	assert.Equal(t, 9999.9, creator.TotalSaleGmvAmt)
}

func TestMapEchoTikCreator_JSONFields(t *testing.T) {
	creator := service.MapEchoTikCreator(echotik.Creator{
		UserID:                       "c-1",
		MostCategoryProduct:          `[{"name":"Skincare"}]`,
		InfluencerVideoDurationLevel: "{}",
		InfluencerVideoPublishHour:   "not json",
	})
	assert.JSONEq(t, `[{"name":"Skincare"}]`, string(creator.MostCategoryProduct))
	assert.Nil(t, creator.MostVideoDurationRange, "empty sentinel must be dropped")
	assert.Nil(t, creator.MostVideoPublishTimeRange, "invalid payloads must be dropped")
}
