// Package lookup fetches a single historical bet by identifier.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

// ErrEmptyBetID is returned when Lookup is called without an identifier.
var ErrEmptyBetID = errors.New("bet id cannot be empty")

// Looker resolves a bet identifier to its details.
type Looker interface {
	Lookup(ctx context.Context, betID string, accessToken string) (*Bet, error)
}

// Client issues BetLookup queries against the GraphQL endpoint. It never retries.
type Client struct {
	url    string
	client *resty.Client
	logger *zap.Logger
}

// ClientConfig holds configuration for the lookup client.
type ClientConfig struct {
	URL     string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a new lookup client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("url cannot be empty")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{
		url:    cfg.URL,
		client: client,
		logger: cfg.Logger,
	}, nil
}

// Lookup fetches betID. The remote's first GraphQL error message is returned
// as the error; a null bet yields types.ErrBetNotFound.
func (c *Client) Lookup(ctx context.Context, betID string, accessToken string) (*Bet, error) {
	betID = strings.TrimSpace(betID)
	if betID == "" {
		return nil, ErrEmptyBetID
	}
	if accessToken == "" {
		return nil, types.ErrMissingCredentials
	}

	start := time.Now()
	defer func() {
		LookupDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	var result betLookupResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/graphql+json, application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Access-Token", accessToken).
		SetHeader("X-Language", "en").
		SetBody(graphQLRequest{
			Query:         betLookupQuery,
			OperationName: "BetLookup",
			Variables:     map[string]any{"betId": betID},
		}).
		SetResult(&result).
		SetError(&result).
		Post(c.url)
	if err != nil {
		LookupRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("send bet lookup: %w", err)
	}

	if len(result.Errors) > 0 {
		LookupRequestsTotal.WithLabelValues("remote_error").Inc()
		c.logger.Warn("bet-lookup-failed",
			zap.String("bet_id", betID),
			zap.Int("status", resp.StatusCode()),
			zap.String("message", result.Errors[0].Message))
		return nil, fmt.Errorf("bet lookup: %s", result.Errors[0].Message)
	}

	if resp.IsError() {
		LookupRequestsTotal.WithLabelValues("http_error").Inc()
		return nil, fmt.Errorf("bet lookup: unexpected status %d", resp.StatusCode())
	}

	if result.Data == nil || result.Data.Bet == nil {
		LookupRequestsTotal.WithLabelValues("not_found").Inc()
		return nil, types.ErrBetNotFound
	}

	LookupRequestsTotal.WithLabelValues("found").Inc()
	c.logger.Debug("bet-lookup-succeeded",
		zap.String("bet_id", betID),
		zap.String("iid", result.Data.Bet.IID))

	return result.Data.Bet, nil
}
