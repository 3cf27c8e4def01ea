package refreshfn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Request mirrors the creator-refresh function payload.
type Request struct {
	Category string `json:"category"`
	Region   string `json:"region"`
	Language string `json:"language"`
	PageNum  int    `json:"pageNum"`
	PageSize int    `json:"pageSize"`
}

type Result struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// Client invokes the separately-routed refresh function. Failures never block
// the caller's read path; results matter only for logging.
type Client interface {
	Trigger(ctx context.Context, req Request) (*Result, error)
}

type httpClient struct {
	endpoint string
	anonKey  string
	client   *http.Client
}

func NewHTTPClient(endpoint, anonKey string, timeout time.Duration) Client {
	return &httpClient{
		endpoint: endpoint,
		anonKey:  anonKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Trigger(ctx context.Context, request Request) (*Result, error) {
	var result Result

	op := func() error {
		reqBody, err := json.Marshal(request)
		if err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
		req.Header.Set("apikey", c.anonKey)

		res, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode >= 400 {
			return fmt.Errorf("refreshfn: status %d", res.StatusCode)
		}
		if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return &result, nil
}
