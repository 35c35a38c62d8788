package leaderboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/stats"
)

// Client is a Store backed by the leaderboard HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// BestScore implements Store.
func (c *Client) BestScore(ctx context.Context, identity string) (*model.Score, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/scores/"+url.PathEscape(identity), nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var score model.Score
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return nil, fmt.Errorf("failed to decode score: %w", err)
	}
	return &score, nil
}

// SubmitScore implements Store.
func (c *Client) SubmitScore(ctx context.Context, score model.Score) error {
	body, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, "/api/v1/scores", body)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	return checkStatus(resp)
}

// ListTop implements Store.
func (c *Client) ListTop(ctx context.Context, n int) ([]model.Score, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/leaderboard?limit="+strconv.Itoa(n), nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var scores []model.Score
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return scores, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach leaderboard: %w", err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusConflict {
		return stats.ErrNotPersonalBest
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("leaderboard returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
}

func closeBody(resp *http.Response) {
	if cerr := resp.Body.Close(); cerr != nil {
		// Best-effort body close.
		_ = cerr
	}
}
