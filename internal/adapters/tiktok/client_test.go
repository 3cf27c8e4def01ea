package tiktok_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/academia/internal/adapters/tiktok"
)

func newClient(serverURL string) tiktok.Client {
	return tiktok.NewHTTPClient(tiktok.Config{
		ClientKey:    "key-1",
		ClientSecret: "secret-1",
		RedirectURI:  "https://app.example.com/api/auth/tiktok/callback",
		APIBaseURL:   serverURL,
		AuthURL:      "https://www.tiktok.com/v2/auth/authorize/",
	}, 2*time.Second)
}

func TestAuthorizeURL(t *testing.T) {
	client := newClient("https://open.tiktokapis.com")

	raw := client.AuthorizeURL("state-1")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "key-1", q.Get("client_key"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, tiktok.Scopes, q.Get("scope"))
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/oauth/token/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "code-1", r.PostForm.Get("code"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-1","open_id":"open-1","expires_in":86400}`))
	}))
	defer server.Close()

	token, err := newClient(server.URL).ExchangeCode(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token.AccessToken)
	assert.Equal(t, "open-1", token.OpenID)
}

func TestExchangeCode_Non2xxCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).ExchangeCode(context.Background(), "bad-code")
	var statusErr *tiktok.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, `{"error":"invalid_grant"}`, statusErr.Body)
}

func TestFetchUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/user/info/", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("fields"), "open_id")
		_, _ = w.Write([]byte(`{"data":{"user":{"open_id":"open-1","display_name":"Ana","avatar_large_url":"https://img/large.jpg"}}}`))
	}))
	defer server.Close()

	info, err := newClient(server.URL).FetchUserInfo(context.Background(), "token-1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "open-1", info.OpenID)
	assert.Equal(t, "https://img/large.jpg", info.BestAvatarURL(), "large avatar is the fallback when the small one is absent")
}

func TestFetchUserInfo_EmptySuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	info, err := newClient(server.URL).FetchUserInfo(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestListVideos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/video/list/", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"videos":[{"id":"v-1","share_url":"https://t/v1","view_count":42}]}}`))
	}))
	defer server.Close()

	videos, err := newClient(server.URL).ListVideos(context.Background(), "token-1", 20)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "v-1", videos[0].ID)
	assert.EqualValues(t, 42, videos[0].ViewCount)
}
