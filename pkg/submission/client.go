package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// ErrTransport marks failures where no usable response reached the client:
// network errors, unreadable bodies and bodies that are not the expected JSON.
var ErrTransport = errors.New("submission: transport failure")

// Result is the prediction service response: either a prediction or an error
// message.
type Result struct {
	Prediction *float64 `json:"prediction,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Predictor posts a serialised submission and decodes the service response.
type Predictor interface {
	Predict(ctx context.Context, payload url.Values) (Result, error)
}

// PredictorFunc adapts a function into a Predictor.
type PredictorFunc func(ctx context.Context, payload url.Values) (Result, error)

// Predict calls the underlying function.
func (fn PredictorFunc) Predict(ctx context.Context, payload url.Values) (Result, error) {
	return fn(ctx, payload)
}

// ClientOption configures the HTTP client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each prediction request. Zero disables the bound.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithClientLogger routes request traces to logger.
func WithClientLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client posts form-encoded submissions to the prediction endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
}

var _ Predictor = (*Client)(nil)

// NewClient builds a client for endpoint.
func NewClient(endpoint string, options ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     http.DefaultClient,
		timeout:  15 * time.Second,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Endpoint reports the URL submissions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict posts payload as application/x-www-form-urlencoded and decodes the
// JSON body whatever the status code, so server-reported errors surface
// verbatim. Anything that is not JSON is reported as ErrTransport.
func (c *Client) Predict(ctx context.Context, payload url.Values) (Result, error) {
	if c.endpoint == "" {
		return Result{}, fmt.Errorf("%w: endpoint is not configured", ErrTransport)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("prediction response",
		zap.String("endpoint", c.endpoint),
		zap.Int("status", resp.StatusCode),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return DecodeResult(body)
}

// DecodeResult parses a service body. A body is usable when it is a JSON
// object carrying either a non-empty error or a numeric prediction.
func DecodeResult(body []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return Result{}, fmt.Errorf("%w: decode body: %v", ErrTransport, err)
	}
	if strings.TrimSpace(result.Error) == "" && result.Prediction == nil {
		return Result{}, fmt.Errorf("%w: body carries neither prediction nor error", ErrTransport)
	}
	return result, nil
}
