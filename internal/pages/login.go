package pages

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
)

// LoginLabels names the accessible labels of the login form.
type LoginLabels struct {
	Username string
	Password string
	Submit   string
	// Landing is text that must be visible once signed in.
	Landing string
}

// DefaultLoginLabels matches the demo application.
var DefaultLoginLabels = LoginLabels{
	Username: "Username",
	Password: "Password",
	Submit:   "Sign in",
	Landing:  "Projects",
}

var loginURL = regexp.MustCompile(`(?i)login`)

// LoginPage drives the sign-in form.
type LoginPage struct {
	page   playwright.Page
	labels LoginLabels
	expect playwright.PlaywrightAssertions
}

// NewLoginPage creates a login page object with the default labels.
func NewLoginPage(page playwright.Page, opts ...Option) *LoginPage {
	o := newOptions(opts)
	return &LoginPage{
		page:   page,
		labels: o.login,
		expect: playwright.NewPlaywrightAssertions(o.assertTimeout),
	}
}

// Goto opens the application root, which serves the login form.
func (l *LoginPage) Goto() error {
	if _, err := l.page.Goto("/"); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	return nil
}

// Login fills the credentials and submits the form. It does not check the
// outcome; see ExpectLoggedIn.
func (l *LoginPage) Login(identifier, secret string) error {
	if err := l.page.GetByLabel(l.labels.Username).Fill(identifier); err != nil {
		return notFound("control", l.labels.Username, err, "Login field %q not found", l.labels.Username)
	}
	if err := l.page.GetByLabel(l.labels.Password).Fill(secret); err != nil {
		return notFound("control", l.labels.Password, err, "Login field %q not found", l.labels.Password)
	}
	submit := l.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
		Name: l.labels.Submit,
	})
	if err := submit.Click(); err != nil {
		return notFound("control", l.labels.Submit, err, "Button %q not found", l.labels.Submit)
	}
	return nil
}

// ExpectLoggedIn asserts the browser left the login URL and shows the
// landing text.
func (l *LoginPage) ExpectLoggedIn() error {
	if err := l.expect.Page(l.page).Not().ToHaveURL(loginURL); err != nil {
		return timedOut("page", "login", err, "Still on login page (%s)", l.page.URL())
	}
	landing := l.page.GetByText(l.labels.Landing).First()
	if err := l.expect.Locator(landing).ToBeVisible(); err != nil {
		return notFound("text", l.labels.Landing, err, "Text %q not visible after login", l.labels.Landing)
	}
	return nil
}
