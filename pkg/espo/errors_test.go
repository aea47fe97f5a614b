package espo_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")

	tests := []struct {
		name          string
		err           error
		configuration bool
		encoding      bool
		transport     bool
		message       string
	}{
		{
			name:          "configuration",
			err:           &espo.ConfigurationError{Field: "URL", Err: espo.ErrURLRequired},
			configuration: true,
			message:       "configuration: URL: URL is required",
		},
		{
			name:     "encoding",
			err:      &espo.EncodingError{Op: "where[0]", Err: espo.ErrUnknownFilterType},
			encoding: true,
			message:  "encoding where[0]: unknown filter type",
		},
		{
			name:      "transport",
			err:       fmt.Errorf("listing: %w", &espo.TransportError{Method: "GET", URL: "https://crm/api/v1/Contact", Err: cause}),
			transport: true,
			message:   "listing: GET https://crm/api/v1/Contact: connection refused",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.configuration, espo.IsConfigurationError(tt.err))
			assert.Equal(t, tt.encoding, espo.IsEncodingError(tt.err))
			assert.Equal(t, tt.transport, espo.IsTransportError(tt.err))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}

	assert.ErrorIs(t, &espo.TransportError{Err: cause}, cause)
}
