package brainus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/brainus-ai/brainus-go/pkg/config"
	"github.com/brainus-ai/brainus-go/pkg/logger"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const queryPath = "/v1/query"

// Client talks to the BrainUs API over HTTP. It performs exactly one network
// call per SubmitQuery; retry and fallback orchestration live in the dispatch
// layer.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

// NewClient builds a client from configuration. The API key is required.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	apiKey := cfg.API.Key.Value()
	if apiKey == "" {
		return nil, NewError(
			ErrCodeAuthentication,
			"API key is required (set BRAINUS_API_KEY or api.key in config)",
		)
	}

	httpClient := resty.New().
		SetBaseURL(cfg.API.BaseURL).
		SetTimeout(cfg.API.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey).
		SetRetryCount(0)

	var limiter *rate.Limiter
	if cfg.API.RequestsPerSecond > 0 {
		burst := cfg.API.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.API.RequestsPerSecond), burst)
	}

	return &Client{http: httpClient, limiter: limiter}, nil
}

// queryRequest is the wire shape of a query submission.
type queryRequest struct {
	Query   string         `json:"query"`
	StoreID string         `json:"store_id"`
	Filters map[string]any `json:"filters,omitempty"`
}

// apiErrorBody is the error envelope the service returns on failures.
type apiErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b *apiErrorBody) text() string {
	if b == nil {
		return ""
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// SubmitQuery issues a single query against the given store.
func (c *Client) SubmitQuery(ctx context.Context, text, storeID string) (*QueryResult, error) {
	q := Query{Text: text, StoreID: storeID}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classifyTransportError(ctx, err)
		}
	}

	log := logger.FromContext(ctx)
	var result QueryResult
	var errBody apiErrorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(queryRequest{Query: q.Text, StoreID: q.Store()}).
		SetResult(&result).
		SetError(&errBody).
		Post(queryPath)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	if resp.IsSuccess() {
		log.Debug("query succeeded",
			"store", q.Store(),
			"status", resp.StatusCode(),
			"citations", len(result.Citations),
		)
		return &result, nil
	}
	return nil, classifyStatus(resp, errBody.text())
}

// Close releases idle transport connections. Safe to call more than once.
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return WrapError(ErrCodeTimeout, "request deadline exceeded", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return WrapError(ErrCodeAPI, "request failed", err)
}

func classifyStatus(resp *resty.Response, message string) error {
	status := resp.StatusCode()
	if message == "" {
		message = http.StatusText(status)
	}
	switch status {
	case http.StatusUnauthorized:
		return &Error{Code: ErrCodeAuthentication, Message: message, StatusCode: status}
	case http.StatusPaymentRequired, http.StatusForbidden:
		return &Error{Code: ErrCodeQuotaExceeded, Message: message, StatusCode: status}
	case http.StatusTooManyRequests:
		return &Error{
			Code:       ErrCodeRateLimited,
			Message:    message,
			StatusCode: status,
			RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After")),
		}
	default:
		return &Error{Code: ErrCodeAPI, Message: message, StatusCode: status}
	}
}

// parseRetryAfter understands both delta-seconds and HTTP-date forms.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
