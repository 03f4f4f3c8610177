package wager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

const (
	maxErrorBodyLen    = 400
	maxResponseBodyLen = 1 << 20 // bodies beyond this are cut and fail to parse
)

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Executor issues a single wager and resolves it to a response or a terminal failure.
type Executor interface {
	Execute(ctx context.Context, req types.WagerRequest, creds types.Credentials) (*types.WagerResponse, error)
}

// Client posts wagers to the packs bet endpoint, retrying transient failures.
type Client struct {
	url         string
	referrer    string
	timeout     time.Duration
	maxAttempts int
	backoff     Backoff
	httpClient  Doer
	sleep       SleepFunc
	logger      *zap.Logger
}

// ClientConfig holds configuration for the wager client.
type ClientConfig struct {
	URL         string
	Referrer    string
	Timeout     time.Duration // per-attempt hard timeout
	MaxAttempts int
	Backoff     Backoff
	HTTPClient  Doer      // optional, defaults to a plain *http.Client
	Sleep       SleepFunc // optional, defaults to Sleep
	Logger      *zap.Logger
}

// NewClient creates a new wager client.
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
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	return &Client{
		url:         cfg.URL,
		referrer:    cfg.Referrer,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		httpClient:  httpClient,
		sleep:       sleep,
		logger:      cfg.Logger,
	}, nil
}

// attemptResult is the outcome of one HTTP round trip.
type attemptResult struct {
	class    types.Classification
	status   int
	response *types.WagerResponse
	message  string
	err      error
}

// Execute places one wager. Success returns the parsed body. Fatal classifications
// return immediately. Retryable classifications back off and retry until
// maxAttempts, after which the last failure is returned as a *types.WagerError.
func (c *Client) Execute(ctx context.Context, req types.WagerRequest, creds types.Credentials) (*types.WagerResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &types.WagerError{Kind: types.FatalOther, Err: fmt.Errorf("marshal request: %w", err)}
	}

	var last attemptResult
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		last = c.attempt(ctx, body, creds)
		AttemptsTotal.WithLabelValues(last.class.String()).Inc()

		if last.class == types.Success {
			return last.response, nil
		}

		if !last.class.IsRetryable() {
			return nil, c.terminal(last, attempt)
		}

		c.logger.Warn("wager-attempt-failed",
			zap.String("identifier", req.Identifier),
			zap.Int("attempt", attempt),
			zap.Int("max-attempts", c.maxAttempts),
			zap.String("classification", last.class.String()),
			zap.Int("status", last.status),
			zap.String("message", last.message),
			zap.Error(last.err))

		if attempt == c.maxAttempts {
			break
		}

		delay := c.backoff.Delay(attempt)
		BackoffSeconds.Observe(delay.Seconds())
		RetriesTotal.Inc()

		err = c.sleep(ctx, delay)
		if err != nil {
			return nil, c.terminal(attemptResult{
				class:  types.FatalOther,
				status: last.status,
				err:    fmt.Errorf("backoff interrupted: %w", err),
			}, attempt)
		}
	}

	return nil, c.terminal(last, c.maxAttempts)
}

func (c *Client) terminal(res attemptResult, attempts int) *types.WagerError {
	TerminalFailuresTotal.WithLabelValues(res.class.String()).Inc()
	return &types.WagerError{
		Kind:     res.class,
		Status:   res.status,
		Attempts: attempts,
		Message:  res.message,
		Err:      res.err,
	}
}

// attempt performs a single POST under the per-attempt timeout.
func (c *Client) attempt(ctx context.Context, body []byte, creds types.Credentials) attemptResult {
	start := time.Now()
	defer func() {
		RequestDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return attemptResult{class: types.FatalOther, err: fmt.Errorf("create request: %w", err)}
	}

	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")
	httpReq.Header.Set("Pragma", "no-cache")
	httpReq.Header.Set("X-Access-Token", creds.AccessToken)
	httpReq.Header.Set("X-Lockdown-Token", creds.LockdownToken)
	if c.referrer != "" {
		httpReq.Header.Set("Referer", c.referrer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.transportFailure(ctx, attemptCtx, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := readBody(resp.Body)
	if err != nil {
		return c.transportFailure(ctx, attemptCtx, fmt.Errorf("read response: %w", err))
	}

	// Non-JSON bodies carry no structured errors; classification falls back to the status.
	parsed := &types.WagerResponse{}
	if len(raw) > 0 {
		err = json.Unmarshal(raw, parsed)
		if err != nil {
			c.logger.Debug("wager-response-not-json",
				zap.Int("status", resp.StatusCode),
				zap.Error(err))
			parsed = &types.WagerResponse{}
		}
	}

	class := Classify(resp.StatusCode, parsed.Errors)
	result := attemptResult{
		class:    class,
		status:   resp.StatusCode,
		response: parsed,
	}

	if class != types.Success {
		result.message = errorMessage(parsed, raw)
		result.err = fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return result
}

// transportFailure classifies a failed round trip. A cancelled parent context is
// terminal; an expired attempt deadline is a retryable timeout.
func (c *Client) transportFailure(parent, attemptCtx context.Context, err error) attemptResult {
	if parent.Err() != nil {
		return attemptResult{class: types.FatalOther, err: fmt.Errorf("%w: %w", err, parent.Err())}
	}

	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return attemptResult{class: types.NetworkTimeout, err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return attemptResult{class: types.NetworkTimeout, err: err}
	}

	return attemptResult{class: types.NetworkError, err: err}
}

func errorMessage(parsed *types.WagerResponse, raw []byte) string {
	if len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
		return parsed.Errors[0].Message
	}
	return truncate(raw, maxErrorBodyLen)
}

func readBody(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxResponseBodyLen))
}

// truncate cuts raw to at most n bytes without splitting a UTF-8 sequence.
func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return string(raw[:cut])
}
