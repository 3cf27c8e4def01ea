package echotik_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/academia/internal/adapters/echotik"
)

const hostedPrefix = "https://echosell-images.tos-ap-southeast-1.volces.com/"

func TestListInfluencers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/influencer/listV2", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user-1", user)
		assert.Equal(t, "pass-1", pass)

		q := r.URL.Query()
		assert.Equal(t, "Beauty", q.Get("influencer_category_name"))
		assert.Equal(t, "10", q.Get("page_size"), "page size above 10 must be clamped")

		_, _ = w.Write([]byte(`{"code":0,"data":[{"user_id":"c-1","nick_name":"Uno"}]}`))
	}))
	defer server.Close()

	client := echotik.NewHTTPClient(server.URL, "user-1", "pass-1", 2*time.Second)
	creators, err := client.ListInfluencers(context.Background(), echotik.Query{Category: "Beauty", PageNum: 1, PageSize: 50})
	require.NoError(t, err)
	require.Len(t, creators, 1)
	assert.Equal(t, "c-1", creators[0].UserID)
}

func TestListInfluencers_APIErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1001,"message":"quota exceeded"}`))
	}))
	defer server.Close()

	client := echotik.NewHTTPClient(server.URL, "user-1", "pass-1", 2*time.Second)
	_, err := client.ListInfluencers(context.Background(), echotik.Query{Category: "Beauty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestBatchCoverDownload_SkipsForeignHosts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := echotik.NewHTTPClient(server.URL, "user-1", "pass-1", 2*time.Second)
	urlMap, err := client.BatchCoverDownload(context.Background(), []string{"https://cdn.other.com/a.jpg", ""})
	require.NoError(t, err)
	assert.Empty(t, urlMap)
	assert.Equal(t, 0, calls, "no request may be made when nothing is hosted on the image store")
}

func TestBatchCoverDownload_BatchesOfTen(t *testing.T) {
	var batches []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urls := strings.Split(r.URL.Query().Get("cover_urls"), ",")
		batches = append(batches, len(urls))

		var sb strings.Builder
		sb.WriteString("[")
		for i, u := range urls {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(`{"source_cover_url":"` + u + `","dest_cover_url":"` + u + `?signed"}`)
		}
		sb.WriteString("]")
		_, _ = w.Write([]byte(sb.String()))
	}))
	defer server.Close()

	urls := make([]string, 0, 13)
	for i := 0; i < 13; i++ {
		urls = append(urls, hostedPrefix+string(rune('a'+i))+".jpg")
	}

	client := echotik.NewHTTPClient(server.URL, "user-1", "pass-1", 2*time.Second)
	urlMap, err := client.BatchCoverDownload(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 3}, batches)
	assert.Len(t, urlMap, 13)
	assert.Equal(t, urls[0]+"?signed", urlMap[urls[0]])
}

func TestBatchCoverDownload_FailedBatchIsSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urls := strings.Split(r.URL.Query().Get("cover_urls"), ",")
		if len(urls) == 10 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var sb strings.Builder
		sb.WriteString("[")
		for i, u := range urls {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(`{"source_cover_url":"` + u + `","dest_cover_url":"` + u + `?signed"}`)
		}
		sb.WriteString("]")
		_, _ = w.Write([]byte(sb.String()))
	}))
	defer server.Close()

	urls := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		urls = append(urls, hostedPrefix+string(rune('a'+i))+".jpg")
	}

	client := echotik.NewHTTPClient(server.URL, "user-1", "pass-1", 2*time.Second)
	urlMap, err := client.BatchCoverDownload(context.Background(), urls)
	require.NoError(t, err, "a failed batch must not fail the whole resolution")
	assert.Len(t, urlMap, 2)
}
