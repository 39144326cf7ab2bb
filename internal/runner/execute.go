package runner

import (
	"fmt"

	"github.com/gotrs-io/boardcheck/internal/pages"
	"github.com/gotrs-io/boardcheck/internal/scenario"
	"github.com/playwright-community/playwright-go"
)

// ScenarioFunc performs one scenario on a freshly opened page.
type ScenarioFunc func(page playwright.Page, creds scenario.Credentials, sc scenario.Scenario, opts ...pages.Option) error

// ExecuteScenario logs in, switches to the scenario's project when one is
// named, then checks the card and its tags. It stops at the first failure.
func ExecuteScenario(page playwright.Page, creds scenario.Credentials, sc scenario.Scenario, opts ...pages.Option) error {
	login := pages.NewLoginPage(page, opts...)
	if err := login.Goto(); err != nil {
		return err
	}
	if err := login.Login(creds.Email, creds.Password); err != nil {
		return fmt.Errorf("login as %q: %w", creds.Email, err)
	}
	if err := login.ExpectLoggedIn(); err != nil {
		return fmt.Errorf("login as %q: %w", creds.Email, err)
	}

	board := pages.NewBoardPage(page, opts...)
	if sc.Board != "" {
		if err := board.GoToProject(sc.Board); err != nil {
			return err
		}
	}
	if err := board.ExpectCardInColumn(sc.Column, sc.CardTitle); err != nil {
		return err
	}
	return board.ExpectTagsOnCard(sc.Column, sc.CardTitle, sc.Tags)
}
