// Package espoclient provides the main entry point for creating EspoCRM API clients
package espoclient

import (
	"fmt"

	"github.com/fivetwenty-io/espocrm-client/internal/client"
	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

// New creates a new EspoCRM API client. The authentication scheme is chosen
// once from the credentials in config; see espo.Config.
func New(config *espo.Config) (espo.Client, error) {
	c, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithURL creates an unauthenticated client.
func NewWithURL(url string) (espo.Client, error) {
	return New(&espo.Config{URL: url})
}

// NewWithAPIKey creates a client authenticating with the X-Api-Key header.
func NewWithAPIKey(url, apiKey string) (espo.Client, error) {
	return New(&espo.Config{
		URL:    url,
		APIKey: apiKey,
	})
}

// NewWithHMAC creates a client signing every request with secretKey.
func NewWithHMAC(url, apiKey, secretKey string) (espo.Client, error) {
	return New(&espo.Config{
		URL:       url,
		APIKey:    apiKey,
		SecretKey: secretKey,
	})
}

// NewWithPassword creates a client using HTTP Basic authentication.
func NewWithPassword(url, username, password string) (espo.Client, error) {
	return New(&espo.Config{
		URL:      url,
		Username: username,
		Password: password,
	})
}
