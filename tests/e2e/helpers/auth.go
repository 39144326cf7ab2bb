package helpers

import (
	"fmt"

	"github.com/gotrs-io/boardcheck/internal/config"
	"github.com/gotrs-io/boardcheck/internal/pages"
	"github.com/gotrs-io/boardcheck/internal/scenario"
	"github.com/playwright-community/playwright-go"
)

// AuthHelper provides authentication utilities for tests
type AuthHelper struct {
	login *pages.LoginPage
}

// NewAuthHelper creates an authentication helper for page.
func NewAuthHelper(page playwright.Page, cfg *config.Config) *AuthHelper {
	return &AuthHelper{login: pages.NewLoginPage(page, cfg.PageOptions()...)}
}

// Login opens the login form and submits creds.
func (a *AuthHelper) Login(creds scenario.Credentials) error {
	if err := a.login.Goto(); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	return a.login.Login(creds.Email, creds.Password)
}

// ExpectLoggedIn asserts the browser left the login page.
func (a *AuthHelper) ExpectLoggedIn() error {
	return a.login.ExpectLoggedIn()
}
