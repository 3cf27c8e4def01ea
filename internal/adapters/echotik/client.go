package echotik

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	influencerListPath = "/api/v2/influencer/listV2"
	coverDownloadPath  = "/batch/cover/download"

	// The cover download endpoint accepts at most this many URLs per call.
	coverBatchSize = 10

	// Only covers hosted on EchoTik's object store need temporary URLs.
	echotikImageHost = "echosell-images.tos-ap-southeast-1.volces.com"
)

// Creator mirrors the influencer listV2 response item. Several fields arrive
// as JSON-encoded strings and are parsed downstream.
type Creator struct {
	Avatar                        string  `json:"avatar"`
	Category                      string  `json:"category"`
	ECScore                       float64 `json:"ec_score"`
	InteractionRate               float64 `json:"interaction_rate"`
	Language                      string  `json:"language"`
	MostCategoryProduct           string  `json:"most_category_product"`
	InfluencerVideoDurationLevel  string  `json:"influencer_video_duration_level"`
	InfluencerVideoPublishHour    string  `json:"influencer_video_publish_hour"`
	NickName                      string  `json:"nick_name"`
	Region                        string  `json:"region"`
	Signature                     string  `json:"signature"`
	TotalDiggCnt                  int64   `json:"total_digg_cnt"`
	TotalDigg1DCnt                int64   `json:"total_digg_1d_cnt"`
	TotalDigg7DCnt                int64   `json:"total_digg_7d_cnt"`
	TotalDigg90DCnt               int64   `json:"total_digg_90d_cnt"`
	TotalFollowersCnt             int64   `json:"total_followers_cnt"`
	TotalFollowers1DCnt           int64   `json:"total_followers_1d_cnt"`
	TotalFollowers7DCnt           int64   `json:"total_followers_7d_cnt"`
	TotalFollowers30DCnt          int64   `json:"total_followers_30d_cnt"`
	TotalFollowers90DCnt          int64   `json:"total_followers_90d_cnt"`
	TotalPostVideoCnt             int64   `json:"total_post_video_cnt"`
	TotalProductCnt               int64   `json:"total_product_cnt"`
	TotalSaleGmv30DAmt            float64 `json:"total_sale_gmv_30d_amt"`
	TotalSaleGmvAmt               float64 `json:"total_sale_gmv_amt"`
	TotalViewsCnt                 int64   `json:"total_views_cnt"`
	UniqueID                      string  `json:"unique_id"`
	UserID                        string  `json:"user_id"`
}

type listResponse struct {
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	Data      []Creator `json:"data"`
	RequestID string    `json:"requestId"`
}

type Query struct {
	Category string
	Region   string
	Language string
	PageNum  int
	PageSize int
}

type Client interface {
	ListInfluencers(ctx context.Context, q Query) ([]Creator, error)
	BatchCoverDownload(ctx context.Context, coverURLs []string) (map[string]string, error)
}

type httpClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

func NewHTTPClient(baseURL, username, password string, timeout time.Duration) Client {
	return &httpClient{
		baseURL:  baseURL,
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}
}

// ListInfluencers queries the influencer listV2 endpoint with basic auth.
// PageSize above 10 is rejected by the API and clamped here.
func (c *httpClient) ListInfluencers(ctx context.Context, q Query) ([]Creator, error) {
	pageSize := q.PageSize
	if pageSize > 10 {
		pageSize = 10
	}
	params := url.Values{}
	params.Set("influencer_category_name", q.Category)
	params.Set("region", q.Region)
	params.Set("language", q.Language)
	params.Set("page_num", strconv.Itoa(q.PageNum))
	params.Set("page_size", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+influencerListPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("echotik: list error: status %d", res.StatusCode)
	}
	var payload listResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Code != 0 {
		return nil, fmt.Errorf("echotik: api error: %s", payload.Message)
	}
	return payload.Data, nil
}

// BatchCoverDownload resolves temporary URLs for EchoTik-hosted covers in
// batches. Per-batch failures are skipped so one bad batch does not void the
// rest of the map.
func (c *httpClient) BatchCoverDownload(ctx context.Context, coverURLs []string) (map[string]string, error) {
	urlMap := make(map[string]string)

	hosted := make([]string, 0, len(coverURLs))
	for _, u := range coverURLs {
		if u != "" && strings.Contains(u, echotikImageHost) {
			hosted = append(hosted, u)
		}
	}
	if len(hosted) == 0 {
		return urlMap, nil
	}

	for i := 0; i < len(hosted); i += coverBatchSize {
		end := i + coverBatchSize
		if end > len(hosted) {
			end = len(hosted)
		}
		batch, err := c.downloadBatch(ctx, hosted[i:end])
		if err != nil {
			continue
		}
		for src, dst := range batch {
			urlMap[src] = dst
		}
	}
	return urlMap, nil
}

func (c *httpClient) downloadBatch(ctx context.Context, batch []string) (map[string]string, error) {
	result := make(map[string]string, len(batch))

	op := func() error {
		params := url.Values{}
		params.Set("cover_urls", strings.Join(batch, ","))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+coverDownloadPath+"?"+params.Encode(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.SetBasicAuth(c.username, c.password)

		res, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode >= 400 {
			return fmt.Errorf("echotik: cover download: status %d", res.StatusCode)
		}
		var items []struct {
			SourceCoverURL string `json:"source_cover_url"`
			DestCoverURL   string `json:"dest_cover_url"`
		}
		if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
			return backoff.Permanent(err)
		}
		for _, item := range items {
			if item.SourceCoverURL != "" && item.DestCoverURL != "" {
				result[item.SourceCoverURL] = item.DestCoverURL
			}
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 3 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return result, nil
}
