// Package http is the transport of the EspoCRM client: a thin layer over
// go-retryablehttp that sends fully prepared requests and returns buffered
// responses.
package http

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/espocrm-client/internal/constants"
)

// Logger is the structured logger used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is a fully prepared outgoing request.
type Request struct {
	Method  string
	URL     string
	Headers nethttp.Header
	Body    []byte
}

// Response is a response with its body read into memory.
type Response struct {
	StatusCode int
	Status     string
	Headers    nethttp.Header
	Body       []byte
}

// Client sends requests. It is safe for concurrent use.
type Client struct {
	retryClient *retryablehttp.Client
	logger      Logger
	debug       bool
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.retryClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables per-request debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent sent when a request carries none.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the timeout of a single HTTP exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a transport. Every request is sent exactly once and an
// error status is returned as a response.
func NewClient(opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient = &nethttp.Client{Timeout: constants.DefaultHTTPTimeout}

	client := &Client{
		retryClient: retryClient,
		userAgent:   constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do sends req and reads the whole response body.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var body interface{}
	if len(req.Body) > 0 {
		body = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if httpReq.Header.Get(constants.HeaderUserAgent) == "" && c.userAgent != "" {
		httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)
	}

	start := time.Now()

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})
	}

	resp, err := c.retryClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP response", map[string]interface{}{
			"method":      req.Method,
			"url":         req.URL,
			"status_code": resp.StatusCode,
			"duration":    time.Since(start).String(),
			"body_size":   len(respBody),
		})
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		fields[key] = keysAndValues[i+1]
	}

	return fields
}
