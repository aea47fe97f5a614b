package espoclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
	"github.com/fivetwenty-io/espocrm-client/pkg/espoclient"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := espoclient.New(nil)
		require.Error(t, err)
		assert.True(t, espo.IsConfigurationError(err))
	})

	t.Run("normalizes URL", func(t *testing.T) {
		t.Parallel()

		cli, err := espoclient.NewWithURL("https://crm.example.com/")
		require.NoError(t, err)
		assert.Equal(t, "https://crm.example.com/api/v1/Contact", cli.NormalizeURL("Contact"))
	})
}

func TestConstructors_SendExpectedHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		build  func(url string) (espo.Client, error)
		header string
	}{
		{
			name:   "api key",
			build:  func(url string) (espo.Client, error) { return espoclient.NewWithAPIKey(url, "key") },
			header: "X-Api-Key",
		},
		{
			name:   "hmac",
			build:  func(url string) (espo.Client, error) { return espoclient.NewWithHMAC(url, "key", "secret") },
			header: "X-Hmac-Authorization",
		},
		{
			name:   "password",
			build:  func(url string) (espo.Client, error) { return espoclient.NewWithPassword(url, "admin", "pass") },
			header: "Authorization",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got http.Header

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
			}))
			defer server.Close()

			cli, err := tt.build(server.URL)
			require.NoError(t, err)

			_, err = cli.Get(context.Background(), "App/user", nil)
			require.NoError(t, err)
			assert.NotEmpty(t, got.Get(tt.header))
		})
	}
}
