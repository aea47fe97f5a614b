package constants

import "errors"

// CLI errors.
var (
	ErrNoURLConfigured     = errors.New("no EspoCRM URL configured, use --url or 'espo config set url <url>'")
	ErrInvalidWhereFlag    = errors.New("invalid --where flag, expected type:attribute[=value]")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrUnsupportedFormat   = errors.New("unsupported output format")
	ErrInvalidRequestData  = errors.New("invalid --data, expected a JSON document")
	ErrPasswordPromptEmpty = errors.New("no password entered")
	ErrRequestFailed       = errors.New("request failed")
)
