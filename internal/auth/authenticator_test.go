package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/espocrm-client/internal/auth"
)

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		creds    auth.Credentials
		expected auth.Scheme
	}{
		{
			name:     "no credentials",
			creds:    auth.Credentials{},
			expected: auth.SchemeNone,
		},
		{
			name:     "api key only",
			creds:    auth.Credentials{APIKey: "key"},
			expected: auth.SchemeAPIKey,
		},
		{
			name:     "api key and secret",
			creds:    auth.Credentials{APIKey: "key", SecretKey: "secret"},
			expected: auth.SchemeHMAC,
		},
		{
			name:     "username and password",
			creds:    auth.Credentials{Username: "admin", Password: "pass"},
			expected: auth.SchemeBasic,
		},
		{
			name: "basic wins over everything",
			creds: auth.Credentials{
				Username:  "admin",
				Password:  "pass",
				APIKey:    "key",
				SecretKey: "secret",
			},
			expected: auth.SchemeBasic,
		},
		{
			name:     "username without password falls through to api key",
			creds:    auth.Credentials{Username: "admin", APIKey: "key"},
			expected: auth.SchemeAPIKey,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, auth.Resolve(tt.creds).Scheme())
		})
	}
}

func TestResolve_IncompleteCredentialsSendUnauthenticated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		creds auth.Credentials
	}{
		{name: "secret without api key", creds: auth.Credentials{SecretKey: "secret"}},
		{name: "username only", creds: auth.Credentials{Username: "admin"}},
		{name: "password only", creds: auth.Credentials{Password: "pass"}},
		{name: "username and secret", creds: auth.Credentials{Username: "admin", SecretKey: "secret"}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			authenticator := auth.Resolve(tt.creds)
			require.NotNil(t, authenticator)
			assert.Equal(t, auth.SchemeNone, authenticator.Scheme())

			headers, err := authenticator.Headers("GET", "Contact")
			require.NoError(t, err)
			assert.Empty(t, headers)
		})
	}
}

func TestAuthenticator_Headers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		creds    auth.Credentials
		method   string
		action   string
		expected map[string]string
	}{
		{
			name:   "basic",
			creds:  auth.Credentials{Username: "admin", Password: "pass"},
			method: "GET",
			action: "Contact",
			expected: map[string]string{
				"Authorization": "Basic YWRtaW46cGFzcw==",
			},
		},
		{
			name:   "hmac get",
			creds:  auth.Credentials{APIKey: "key", SecretKey: "secret"},
			method: "GET",
			action: "Contact",
			expected: map[string]string{
				"X-Hmac-Authorization": "a2V5:eb0zA385O5NOEx+7ARre0qV2s3Nz2+6yHxB51LM8zCA=",
			},
		},
		{
			name:   "hmac lowercase method is signed uppercase",
			creds:  auth.Credentials{APIKey: "key", SecretKey: "secret"},
			method: "post",
			action: "Lead/abc",
			expected: map[string]string{
				"X-Hmac-Authorization": "a2V5:EAP5tZOS/y/qfPWKGKDtlBTS/NnjTUqP5I0HawlIemw=",
			},
		},
		{
			name:   "api key",
			creds:  auth.Credentials{APIKey: "key"},
			method: "GET",
			action: "Contact",
			expected: map[string]string{
				"X-Api-Key": "key",
			},
		},
		{
			name:     "none",
			creds:    auth.Credentials{},
			method:   "GET",
			action:   "Contact",
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			headers, err := auth.Resolve(tt.creds).Headers(tt.method, tt.action)
			require.NoError(t, err)
			assert.Len(t, headers, len(tt.expected))

			for key, value := range tt.expected {
				assert.Equal(t, value, headers.Get(key))
			}
		})
	}
}

func TestSigningString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GET /Contact", auth.SigningString("get", "Contact"))
	assert.Equal(t, "DELETE /Account/1", auth.SigningString("DELETE", "Account/1"))
}

func TestSign_DependsOnMethodAndAction(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	get, err := auth.Sign(secret, "GET", "Contact")
	require.NoError(t, err)

	post, err := auth.Sign(secret, "POST", "Contact")
	require.NoError(t, err)

	other, err := auth.Sign(secret, "GET", "Account")
	require.NoError(t, err)

	assert.Len(t, get, 32)
	assert.NotEqual(t, get, post)
	assert.NotEqual(t, get, other)
}

func TestScheme_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", auth.SchemeNone.String())
	assert.Equal(t, "basic", auth.SchemeBasic.String())
	assert.Equal(t, "hmac", auth.SchemeHMAC.String())
	assert.Equal(t, "api-key", auth.SchemeAPIKey.String())
}
