package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/espocrm-client/internal/auth"
	"github.com/fivetwenty-io/espocrm-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/espocrm-client/internal/http"
	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

// Client implements the espo.Client interface. It is immutable after New and
// safe for concurrent use.
type Client struct {
	httpClient    *internalhttp.Client
	authenticator *auth.Authenticator
	baseURL       string
	logger        espo.Logger
	debug         bool
	interceptors  *espo.InterceptorChain
}

var _ espo.Client = (*Client)(nil)

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *espo.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithTimeout(config.HTTPTimeout))
	}

	return httpOpts
}

// New validates config, resolves the authentication scheme and builds the
// transport.
func New(config *espo.Config) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	var logger espo.Logger = espo.NopLogger{}
	if config.Logger != nil {
		logger = config.Logger
	}

	credentials := auth.Credentials{
		Username:  config.Username,
		Password:  config.Password,
		APIKey:    config.APIKey,
		SecretKey: config.SecretKey,
	}

	authenticator := auth.Resolve(credentials)
	if authenticator.Scheme() == auth.SchemeNone && !credentials.IsEmpty() {
		logger.Warn("Credentials complete no authentication scheme, requests are sent unauthenticated", map[string]interface{}{
			"username_set":   credentials.Username != "",
			"password_set":   credentials.Password != "",
			"secret_key_set": credentials.SecretKey != "",
		})
	}

	return &Client{
		httpClient:    internalhttp.NewClient(createHTTPClientOptions(config)...),
		authenticator: authenticator,
		baseURL:       strings.TrimSuffix(config.URL, "/"),
		logger:        logger,
		debug:         config.Debug,
		interceptors:  config.Interceptors,
	}, nil
}

// Scheme returns the authentication scheme resolved at construction.
func (c *Client) Scheme() auth.Scheme {
	return c.authenticator.Scheme()
}

// NormalizeURL implements espo.Client.NormalizeURL.
func (c *Client) NormalizeURL(action string) string {
	return c.baseURL + constants.APIPath + action
}

// Request implements espo.Client.Request.
func (c *Client) Request(ctx context.Context, method espo.Method, action string, params *espo.Params, payload interface{}) (*espo.Response, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", espo.ErrUnsupportedMethod, string(method))
	}

	req, err := c.prepare(method, action, params, payload)
	if err != nil {
		return nil, err
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method:  string(req.Method),
		URL:     req.URL,
		Headers: req.Headers,
		Body:    req.Body,
	})
	if err != nil {
		transportErr := &espo.TransportError{Method: string(method), URL: req.URL, Err: err}

		interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, req, nil, transportErr)
		if interceptErr != nil {
			c.logger.Warn("response interceptor failed after transport error", map[string]interface{}{
				"error": interceptErr.Error(),
			})
		}

		return nil, transportErr
	}

	resp := &espo.Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Headers,
		Body:       httpResp.Body,
	}

	if c.debug {
		c.logger.Debug("EspoCRM response", map[string]interface{}{
			"method":      string(method),
			"url":         req.URL,
			"status_code": resp.StatusCode,
		})
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, req, resp, nil)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// prepare composes the URL, body and headers of a request. Everything here
// completes before the send begins.
func (c *Client) prepare(method espo.Method, action string, params *espo.Params, payload interface{}) (*espo.Request, error) {
	url := c.NormalizeURL(action)
	headers := make(http.Header)
	headers.Set(constants.HeaderAccept, constants.ContentTypeJSON)

	var body []byte

	if method == espo.MethodGet {
		err := params.Validate()
		if err != nil {
			return nil, &espo.EncodingError{Op: "params", Err: err}
		}

		query, err := espo.Serialize(params)
		if err != nil {
			return nil, err
		}

		if query != "" {
			url += "?" + query
		}
	} else if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &espo.EncodingError{Op: "body", Err: err}
		}

		body = encoded

		headers.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}

	authHeaders, err := c.authenticator.Headers(string(method), action)
	if err != nil {
		return nil, err
	}

	for key, values := range authHeaders {
		headers[key] = values
	}

	if c.debug {
		c.logger.Debug("EspoCRM request", map[string]interface{}{
			"method": string(method),
			"url":    url,
			"auth":   c.authenticator.Scheme().String(),
		})
	}

	return &espo.Request{
		Method:   method,
		Action:   action,
		URL:      url,
		Headers:  headers,
		Body:     body,
		Metadata: make(map[string]interface{}),
	}, nil
}

// Get implements espo.Client.Get.
func (c *Client) Get(ctx context.Context, action string, params *espo.Params) (*espo.Response, error) {
	return c.Request(ctx, espo.MethodGet, action, params, nil)
}

// Post implements espo.Client.Post.
func (c *Client) Post(ctx context.Context, action string, payload interface{}) (*espo.Response, error) {
	return c.Request(ctx, espo.MethodPost, action, nil, payload)
}

// Put implements espo.Client.Put.
func (c *Client) Put(ctx context.Context, action string, payload interface{}) (*espo.Response, error) {
	return c.Request(ctx, espo.MethodPut, action, nil, payload)
}

// Delete implements espo.Client.Delete.
func (c *Client) Delete(ctx context.Context, action string, payload interface{}) (*espo.Response, error) {
	return c.Request(ctx, espo.MethodDelete, action, nil, payload)
}
