package jotform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"umzug/internal/config"
)

// Client talks to the JotForm REST API. Authentication is a query
// parameter, the response is always wrapped in the same envelope.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type apiResponse struct {
	ResponseCode int             `json:"responseCode"`
	Message      string          `json:"message"`
	Content      json.RawMessage `json:"content"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.JotformTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.JotformRateLimitRPS),
	}
}

// ListSubmissions fetches up to limit submissions of the configured
// form, newest first.
func (c *Client) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	if err := c.cfg.Require("JOTFORM_FORM_ID", c.cfg.JotformFormID); err != nil {
		return nil, err
	}
	body, err := c.fetchJSON(ctx, "form/"+c.cfg.JotformFormID+"/submissions", map[string]string{
		"limit":   strconv.Itoa(limit),
		"orderby": "created_at",
	})
	if err != nil {
		return nil, err
	}
	var out []Submission
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	return out, nil
}

// GetSubmission fetches a single submission by its id.
func (c *Client) GetSubmission(ctx context.Context, id string) (Submission, error) {
	body, err := c.fetchJSON(ctx, "submission/"+url.PathEscape(id), nil)
	if err != nil {
		return Submission{}, err
	}
	var out Submission
	if err := json.Unmarshal(body, &out); err != nil {
		return Submission{}, fmt.Errorf("decode submission %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.JotformAPIKey) == "" {
		return nil, errors.New("missing JOTFORM_API_KEY")
	}

	baseURL := strings.TrimRight(c.cfg.JotformAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("apiKey", c.cfg.JotformAPIKey)
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("jotform status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("jotform api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, err
		}
		if apiResp.ResponseCode != http.StatusOK {
			return nil, fmt.Errorf("jotform api unsuccessful: code=%d message=%s", apiResp.ResponseCode, apiResp.Message)
		}
		return apiResp.Content, nil
	}

	if lastErr == nil {
		lastErr = errors.New("jotform request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
