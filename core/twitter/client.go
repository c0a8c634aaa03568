package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"list-sync/core/credentials"
	"list-sync/core/retry"

	"github.com/dghubble/oauth1"
	"go.uber.org/zap"
)

// Client is an OAuth 1.0a user-context client for the v2 API.
// Every call goes through the configured retry policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      retry.Config
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a signed API client for the user owning the credentials.
func NewClient(cfg Config, creds *credentials.Credentials, policy retry.Config, logger *zap.Logger) (*Client, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: no credentials", credentials.ErrIncomplete)
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeoutDuration := timeout(cfg)

	// Base transport with strict timeouts; oauth1 signs on top of it.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	oauthConfig := oauth1.NewConfig(creds.APIKey, creds.APISecretKey)
	token := oauth1.NewToken(creds.OAuthKey, creds.OAuthSecret)

	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{Transport: transport})
	httpClient := oauthConfig.Client(ctx, token)
	httpClient.Timeout = timeoutDuration

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retry:      policy,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func timeout(cfg Config) time.Duration {
	secs := cfg.TimeoutSeconds
	if secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}

// envelope is the common v2 response body.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Meta   *pageMeta       `json:"meta"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

type pageMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

func (e *envelope) hasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// do performs one logical API call, retrying transient failures.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out *envelope) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	return retry.Do(ctx, c.retry, func() error {
		return c.send(ctx, method, path, query, payload, out)
	}, func(err error, wait time.Duration) {
		c.logger.Warn("Retrying API call",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out *envelope) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", method, path, newAPIError(resp, body, c.now()))
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}

	// Lookups of missing resources answer 200 with only an errors array.
	if !out.hasData() && len(out.Errors) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, &APIError{
			StatusCode: resp.StatusCode,
			Title:      out.Errors[0].Title,
			Detail:     out.Errors[0].Detail,
		})
	}

	return nil
}

// collectIDs walks every page of a user collection and returns the user ids.
func (c *Client) collectIDs(ctx context.Context, path string, pageSize int) ([]string, error) {
	ids := []string{}
	token := ""

	for {
		query := url.Values{}
		query.Set("max_results", strconv.Itoa(pageSize))
		if token != "" {
			query.Set("pagination_token", token)
		}

		var env envelope
		if err := c.do(ctx, http.MethodGet, path, query, nil, &env); err != nil {
			return nil, err
		}

		if env.hasData() {
			var users []User
			if err := json.Unmarshal(env.Data, &users); err != nil {
				return nil, fmt.Errorf("GET %s: failed to decode users: %w", path, err)
			}
			for _, u := range users {
				ids = append(ids, u.ID)
			}
		}

		if env.Meta == nil || env.Meta.NextToken == "" {
			break
		}
		token = env.Meta.NextToken
	}

	return ids, nil
}
