package espo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Method is an HTTP verb accepted by the EspoCRM API.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// ParseMethod parses a verb case-insensitively.
func ParseMethod(s string) (Method, error) {
	method := Method(strings.ToUpper(s))
	if !method.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}

	return method, nil
}

// Valid reports whether m is one of GET, POST, PUT or DELETE.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}

// Client sends requests to the EspoCRM API.
type Client interface {
	// Request sends a request for action, the path after "/api/v1/" (e.g.
	// "Contact" or "Contact/<id>"). For GET, params are serialized into the
	// query string. For other methods a non-nil payload is sent as JSON.
	Request(ctx context.Context, method Method, action string, params *Params, payload interface{}) (*Response, error)

	Get(ctx context.Context, action string, params *Params) (*Response, error)
	Post(ctx context.Context, action string, payload interface{}) (*Response, error)
	Put(ctx context.Context, action string, payload interface{}) (*Response, error)
	Delete(ctx context.Context, action string, payload interface{}) (*Response, error)

	// NormalizeURL returns the absolute URL of action.
	NormalizeURL(action string) string
}

// Config represents client configuration for building a Client.
//
// # Authentication precedence
//
// Exactly one scheme is used, chosen in this order:
//  1. Username + Password: HTTP Basic authentication.
//  2. APIKey + SecretKey: HMAC-SHA256 signature in X-Hmac-Authorization.
//  3. APIKey: sent verbatim in X-Api-Key.
//  4. No credentials: requests are sent unauthenticated.
//
// Credentials that complete no scheme, such as a SecretKey without an APIKey
// or a Username without a Password, leave requests unauthenticated. The
// client logs a warning when that happens.
//
// Each request is sent once; there are no retries. The client never
// interprets response bodies.
type Config struct {
	// URL: base URL of the EspoCRM instance (e.g., "https://crm.example.com").
	// A trailing slash is removed.
	URL string

	// Username and Password for HTTP Basic authentication.
	Username string
	Password string
	// APIKey of an API user. Used alone for API key authentication or
	// together with SecretKey for HMAC authentication.
	APIKey string
	// SecretKey signs requests when HMAC authentication is used.
	SecretKey string

	// HTTPTimeout: overall timeout of a single HTTP exchange. Zero uses the default.
	HTTPTimeout time.Duration
	// Debug: enables verbose request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Interceptors: optional hooks run around every request.
	Interceptors *InterceptorChain
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigurationError{Err: ErrConfigRequired}
	}

	err := validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required.Error(ErrURLRequired.Error()), validation.By(validateBaseURL)),
		validation.Field(&c.HTTPTimeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return &ConfigurationError{Err: err}
	}

	return nil
}

func validateBaseURL(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}

// Response is the raw result of a request. Non-2xx responses are returned as
// responses, not errors.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusReason returns the X-Status-Reason header EspoCRM sets on errors.
func (r *Response) StatusReason() string {
	return r.Headers.Get("X-Status-Reason")
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return ErrEmptyResponse
	}

	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}

// ListResult is the envelope of EspoCRM list responses.
type ListResult[T any] struct {
	Total int `json:"total" yaml:"total"`
	List  []T `json:"list"  yaml:"list"`
}
