// Package codacy implements the client for the Codacy v3 analysis API.
package codacy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aiden-perkins/codacy-repo-export/config"
)

const (
	defaultBaseURL = "https://app.codacy.com"

	repositoriesPathFormat = "%s/api/v3/analysis/organizations/%s/%s/repositories"
)

// Response is the outcome of one API call. Non-2xx statuses are not
// errors: the API's error payload is returned for reporting like any
// other body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Text returns the raw response body as text.
func (r *Response) Text() string {
	return string(r.Body)
}

// Client performs authenticated requests against the Codacy API.
type Client struct {
	config     config.CodacyConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Codacy API client
func NewClient(cfg config.CodacyConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ListOrganizationRepositories performs one GET against the repository
// listing endpoint. Provider and organization are substituted into the
// path verbatim, matching the API's expectation of raw path segments.
//
// Transport failures are retried at most MaxRetries times; responses,
// whatever their status code, are never retried.
func (c *Client) ListOrganizationRepositories(ctx context.Context, provider, organization string) (*Response, error) {
	if provider == "" {
		return nil, NewClientError(ErrorKindRequest, "provider must not be empty", nil)
	}
	if organization == "" {
		return nil, NewClientError(ErrorKindRequest, "organization must not be empty", nil)
	}

	url := fmt.Sprintf(repositoriesPathFormat, c.config.BaseURL, provider, organization)

	logger := c.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("provider", provider),
		zap.String("organization", organization),
	)
	logger.Debug("listing organization repositories", zap.String("url", url))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewClientError(ErrorKindRequest, "failed to create request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-token", c.config.APIToken)

	var httpResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("retrying after transport failure",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, NewClientError(ErrorKindTransport, "request canceled", ctx.Err())
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
		}

		httpResp, lastErr = c.httpClient.Do(httpReq)
		if lastErr == nil {
			break
		}
	}

	if lastErr != nil {
		return nil, NewClientError(ErrorKindTransport, "request failed", lastErr)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewClientError(ErrorKindTransport, "failed to read response body", err)
	}

	logger.Info("request completed",
		zap.Int("status", httpResp.StatusCode),
		zap.Int("body_bytes", len(body)),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
	}, nil
}
