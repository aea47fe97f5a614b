package espo

import (
	"errors"
	"fmt"
)

// Error classes. Typed errors below match these with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrEncoding      = errors.New("encoding error")
	ErrTransport     = errors.New("transport error")
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrURLRequired          = errors.New("URL is required")
	ErrInvalidURL           = errors.New("invalid URL")
	ErrUnsupportedMethod    = errors.New("unsupported HTTP method")
	ErrUnknownFilterType    = errors.New("unknown filter type")
	ErrUnknownOrder         = errors.New("unknown order")
	ErrInvalidUTF8          = errors.New("string is not valid UTF-8")
	ErrUnsupportedValueType = errors.New("unsupported value type")
	ErrIntegerOverflow      = errors.New("integer overflows int64")
	ErrAttributeRequired    = errors.New("attribute is required")
	ErrEmptyResponse        = errors.New("response has no body")
)

// ConfigurationError reports missing or invalid client configuration. It is
// never retryable.
type ConfigurationError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}

	return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// EncodingError reports a failure to serialize a query string or request body.
type EncodingError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrEncoding.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// TransportError wraps a failure returned by the HTTP transport. The cause is
// passed through unchanged.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsEncodingError checks if the error is an encoding error.
func IsEncodingError(err error) bool {
	return errors.Is(err, ErrEncoding)
}

// IsTransportError checks if the error is a transport error.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}
