package http_test

import (
	"testing"

	"github.com/fwojciec/pyrip"
	pyriphttp "github.com/fwojciec/pyrip/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	// These tests touch process environment, so no t.Parallel.

	t.Run("fails without API key and issues no network call", func(t *testing.T) {
		t.Setenv(pyriphttp.EnvAPIKey, "")

		client, err := pyriphttp.NewClient()
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, pyrip.EINVALID, pyrip.ErrorCode(err))
	})

	t.Run("reads API key from environment", func(t *testing.T) {
		t.Setenv(pyriphttp.EnvAPIKey, "env-key")

		client, err := pyriphttp.NewClient()
		require.NoError(t, err)
		assert.Equal(t, "env-key", client.APIKey())
	})

	t.Run("explicit API key wins over environment", func(t *testing.T) {
		t.Setenv(pyriphttp.EnvAPIKey, "env-key")

		client, err := pyriphttp.NewClient(pyriphttp.WithAPIKey("arg-key"))
		require.NoError(t, err)
		assert.Equal(t, "arg-key", client.APIKey())
	})

	t.Run("defaults to production base URL", func(t *testing.T) {
		t.Setenv(pyriphttp.EnvAPIURL, "")

		client, err := pyriphttp.NewClient(pyriphttp.WithAPIKey("key"))
		require.NoError(t, err)
		assert.Equal(t, pyriphttp.DefaultBaseURL, client.BaseURL())
	})

	t.Run("reads base URL from environment", func(t *testing.T) {
		t.Setenv(pyriphttp.EnvAPIURL, "https://staging.pyrip.dev")

		client, err := pyriphttp.NewClient(pyriphttp.WithAPIKey("key"))
		require.NoError(t, err)
		assert.Equal(t, "https://staging.pyrip.dev", client.BaseURL())
	})

	t.Run("explicit base URL wins and trailing slash is trimmed", func(t *testing.T) {
		t.Setenv(pyriphttp.EnvAPIURL, "https://staging.pyrip.dev")

		client, err := pyriphttp.NewClient(
			pyriphttp.WithAPIKey("key"),
			pyriphttp.WithBaseURL("https://local.pyrip.dev/"),
		)
		require.NoError(t, err)
		assert.Equal(t, "https://local.pyrip.dev", client.BaseURL())
	})
}
