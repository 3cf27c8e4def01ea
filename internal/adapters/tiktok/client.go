package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	tokenPath     = "/v2/oauth/token/"
	userInfoPath  = "/v2/user/info/"
	videoListPath = "/v2/video/list/"

	// OAuth scopes requested at login. user.info.basic carries display_name
	// and open_id, user.info.profile the avatar fields, video.list the
	// creator's own videos.
	Scopes = "user.info.basic,user.info.profile,video.list"

	userInfoFields  = "open_id,display_name,avatar_url,avatar_large_url,username,bio_description,profile_deep_link"
	videoListFields = "id,create_time,cover_image_url,share_url,video_description,duration,height,width,title,embed_html,embed_link,like_count,comment_count,share_count,view_count"
)

// StatusError carries a non-2xx provider response. Body is the raw payload,
// surfaced URL-encoded in the error redirect.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tiktok: status %d: %s", e.StatusCode, e.Body)
}

type TokenResult struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	OpenID           string `json:"open_id"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	Scope            string `json:"scope"`
	TokenType        string `json:"token_type"`
}

type UserInfo struct {
	OpenID          string `json:"open_id"`
	DisplayName     string `json:"display_name"`
	Username        string `json:"username"`
	AvatarURL       string `json:"avatar_url"`
	AvatarLargeURL  string `json:"avatar_large_url"`
	BioDescription  string `json:"bio_description"`
	ProfileDeepLink string `json:"profile_deep_link"`
}

// BestAvatarURL prefers the regular avatar, falling back to the large one.
func (u *UserInfo) BestAvatarURL() string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return u.AvatarLargeURL
}

type Video struct {
	ID               string `json:"id"`
	CreateTime       int64  `json:"create_time"`
	CoverImageURL    string `json:"cover_image_url"`
	ShareURL         string `json:"share_url"`
	VideoDescription string `json:"video_description"`
	Duration         int    `json:"duration"`
	Title            string `json:"title"`
	EmbedLink        string `json:"embed_link"`
	LikeCount        int64  `json:"like_count"`
	CommentCount     int64  `json:"comment_count"`
	ShareCount       int64  `json:"share_count"`
	ViewCount        int64  `json:"view_count"`
}

type Client interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*TokenResult, error)
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
	ListVideos(ctx context.Context, accessToken string, maxCount int) ([]Video, error)
}

type Config struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	APIBaseURL   string
	AuthURL      string
}

type httpClient struct {
	cfg    Config
	client *http.Client
}

func NewHTTPClient(cfg Config, timeout time.Duration) Client {
	return &httpClient{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// AuthorizeURL builds the provider login URL carrying the CSRF state.
func (c *httpClient) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_key", c.cfg.ClientKey)
	params.Set("scope", Scopes)
	params.Set("response_type", "code")
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("state", state)
	return c.cfg.AuthURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for an access token. Single
// attempt, no retry; a non-2xx response comes back as *StatusError.
func (c *httpClient) ExchangeCode(ctx context.Context, code string) (*TokenResult, error) {
	form := url.Values{}
	form.Set("client_key", c.cfg.ClientKey)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}
	var token TokenResult
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// FetchUserInfo requests the explicit field set for the authenticated user.
// Returns (nil, nil) when the provider answered 2xx without a user object.
func (c *httpClient) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	endpoint := c.cfg.APIBaseURL + userInfoPath + "?fields=" + url.QueryEscape(userInfoFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}
	var payload struct {
		Data struct {
			User *UserInfo `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload.Data.User, nil
}

// ListVideos fetches up to maxCount of the actor's videos.
func (c *httpClient) ListVideos(ctx context.Context, accessToken string, maxCount int) ([]Video, error) {
	endpoint := c.cfg.APIBaseURL + videoListPath + "?fields=" + url.QueryEscape(videoListFields)
	reqBody, err := json.Marshal(map[string]int{"max_count": maxCount})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}
	var payload struct {
		Data struct {
			Videos []Video `json:"videos"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload.Data.Videos, nil
}
