package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		expectErr string
	}{
		{
			name:      "missing base url",
			cfg:       Config{},
			expectErr: "base_url is required",
		},
		{
			name:      "unsupported scheme",
			cfg:       Config{BaseURL: "ftp://converter.example.com"},
			expectErr: "must use http or https",
		},
		{
			name: "valid https url",
			cfg:  Config{BaseURL: "https://converter.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, client)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://converter.example.com"})
	require.NoError(t, err)

	assert.Equal(t, DefaultConvertPath, client.convertPath)
	assert.Equal(t, DefaultFormatsPath, client.formatsPath)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.Equal(t, "gateway(converter.example.com)", client.Name())
}

func TestNewClient_CustomTimeout(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL: "http://converter.example.com",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestNewClient_BasicAuth(t *testing.T) {
	t.Run("username and password", func(t *testing.T) {
		client, err := NewClient(Config{
			BaseURL: "http://converter.example.com",
			Auth:    &AuthConfig{Basic: &BasicAuthConfig{Username: "user", Password: "pass"}},
		})
		require.NoError(t, err)
		// base64("user:pass")
		assert.Equal(t, "Basic dXNlcjpwYXNz", client.headers["Authorization"])
	})

	t.Run("pre-encoded", func(t *testing.T) {
		client, err := NewClient(Config{
			BaseURL: "http://converter.example.com",
			Auth:    &AuthConfig{Basic: &BasicAuthConfig{Encoded: "AAAA"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Basic AAAA", client.headers["Authorization"])
	})
}

func TestNewClient_HeaderMerging(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL: "http://converter.example.com",
		Headers: map[string]string{
			"User-Agent": "custom-agent",
			"X-Custom":   "value",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "custom-agent", client.headers["User-Agent"])
	assert.Equal(t, "value", client.headers["X-Custom"])
	assert.Equal(t, "application/json", client.headers["Accept"])
}
