package e2e

import (
	"testing"

	"github.com/gotrs-io/boardcheck/internal/scenario"
	"github.com/gotrs-io/boardcheck/tests/e2e/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	cfg := helpers.LoadConfig(t)
	suite, err := scenario.Load(cfg.Scenarios)
	require.NoError(t, err)

	browser := helpers.NewBrowserHelper(t, cfg)

	t.Run("valid credentials reach the board", func(t *testing.T) {
		page := browser.Setup(t)
		auth := helpers.NewAuthHelper(page, cfg)

		require.NoError(t, auth.Login(suite.Credentials))
		assert.NoError(t, auth.ExpectLoggedIn())
	})

	t.Run("wrong password stays on the login form", func(t *testing.T) {
		page := browser.Setup(t)
		auth := helpers.NewAuthHelper(page, cfg)

		creds := suite.Credentials
		creds.Password += "-wrong"
		require.NoError(t, auth.Login(creds))
		assert.Error(t, auth.ExpectLoggedIn())
	})
}
