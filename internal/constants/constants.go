package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// EspoCRM API layout.
const (
	// APIPath is inserted between the base URL and the action.
	APIPath = "/api/v1/"

	// DefaultUserAgent is sent when the configuration sets none.
	DefaultUserAgent = "espocrm-client-go"

	// ContentTypeJSON is the media type of request and response bodies.
	ContentTypeJSON = "application/json"
)

// Header names.
const (
	HeaderAuthorization     = "Authorization"
	HeaderHmacAuthorization = "X-Hmac-Authorization"
	HeaderAPIKey            = "X-Api-Key"
	HeaderStatusReason      = "X-Status-Reason"
	HeaderContentType       = "Content-Type"
	HeaderAccept            = "Accept"
	HeaderUserAgent         = "User-Agent"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 5
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// UI and display constants.
const (
	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// None is used when no value is present.
	None = "none"
)
