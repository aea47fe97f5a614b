// Package auth resolves EspoCRM credentials into the headers that
// authenticate a request.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/espocrm-client/internal/constants"
)

// Scheme identifies the authentication method of a client.
type Scheme int

const (
	SchemeNone Scheme = iota
	SchemeBasic
	SchemeHMAC
	SchemeAPIKey
)

// String implements fmt.Stringer.
func (s Scheme) String() string {
	switch s {
	case SchemeBasic:
		return "basic"
	case SchemeHMAC:
		return "hmac"
	case SchemeAPIKey:
		return "api-key"
	default:
		return constants.None
	}
}

// Credentials is the raw credential set of a client. Empty strings are unset.
type Credentials struct {
	Username  string
	Password  string
	APIKey    string
	SecretKey string
}

// IsEmpty reports whether no credential is set.
func (c Credentials) IsEmpty() bool {
	return c.Username == "" && c.Password == "" && c.APIKey == "" && c.SecretKey == ""
}

// Authenticator produces the authentication headers of a request. It is
// immutable and safe for concurrent use.
type Authenticator struct {
	scheme    Scheme
	username  string
	password  string
	apiKey    string
	secretKey []byte
}

// Resolve picks the scheme for creds: Basic, then HMAC, then API key, then
// none. Credentials that complete no scheme, such as a secret key without an
// API key, resolve to SchemeNone.
func Resolve(creds Credentials) *Authenticator {
	switch {
	case creds.Username != "" && creds.Password != "":
		return &Authenticator{scheme: SchemeBasic, username: creds.Username, password: creds.Password}
	case creds.APIKey != "" && creds.SecretKey != "":
		return &Authenticator{scheme: SchemeHMAC, apiKey: creds.APIKey, secretKey: []byte(creds.SecretKey)}
	case creds.APIKey != "":
		return &Authenticator{scheme: SchemeAPIKey, apiKey: creds.APIKey}
	default:
		return &Authenticator{scheme: SchemeNone}
	}
}

// Scheme returns the resolved scheme.
func (a *Authenticator) Scheme() Scheme {
	return a.scheme
}

// Headers returns the authentication headers of a request for action. The
// result is empty for SchemeNone.
func (a *Authenticator) Headers(method, action string) (http.Header, error) {
	headers := make(http.Header)

	switch a.scheme {
	case SchemeBasic:
		credentials := base64.StdEncoding.EncodeToString([]byte(a.username + ":" + a.password))
		headers.Set(constants.HeaderAuthorization, "Basic "+credentials)
	case SchemeHMAC:
		signature, err := Sign(a.secretKey, method, action)
		if err != nil {
			return nil, err
		}

		headers.Set(constants.HeaderHmacAuthorization, HMACHeaderValue(a.apiKey, signature))
	case SchemeAPIKey:
		headers.Set(constants.HeaderAPIKey, a.apiKey)
	case SchemeNone:
	}

	return headers, nil
}

// SigningString returns the canonical string signed by HMAC authentication:
// the uppercase method, a space, a slash and the action.
func SigningString(method, action string) string {
	return strings.ToUpper(method) + " /" + action
}

// Sign computes HMAC-SHA256 of the signing string keyed by secret.
func Sign(secret []byte, method, action string) ([]byte, error) {
	mac := hmac.New(sha256.New, secret)

	_, err := mac.Write([]byte(SigningString(method, action)))
	if err != nil {
		return nil, fmt.Errorf("signing request: %w", err)
	}

	return mac.Sum(nil), nil
}

// HMACHeaderValue renders base64(apiKey) + ":" + base64(signature).
func HMACHeaderValue(apiKey string, signature []byte) string {
	return base64.StdEncoding.EncodeToString([]byte(apiKey)) + ":" + base64.StdEncoding.EncodeToString(signature)
}
