package runner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gotrs-io/boardcheck/internal/browser"
	"github.com/gotrs-io/boardcheck/internal/pages"
	"github.com/gotrs-io/boardcheck/internal/report"
	"github.com/gotrs-io/boardcheck/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureLauncher serves the page object fixtures and launches a headless
// browser against them, skipping when none is available.
func fixtureLauncher(t *testing.T) *browser.Launcher {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests skipped in short mode")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/board", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "../pages/testdata/board.html")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "../pages/testdata/login.html")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	launcher, err := browser.Launch(browser.Options{
		Headless:     true,
		BaseURL:      srv.URL,
		ArtifactsDir: t.TempDir(),
		Preinstalled: true,
	}, nil)
	if err != nil {
		t.Skipf("browser not available: %v", err)
	}
	t.Cleanup(func() { _ = launcher.Close() })
	return launcher
}

func TestRunAgainstFixture(t *testing.T) {
	launcher := fixtureLauncher(t)

	suite := &scenario.Suite{
		Credentials: scenario.Credentials{Email: "user@demo.test", Password: "pass123"},
		Scenarios: []scenario.Scenario{
			{Name: "tagged card", Board: "Web Application", Column: "In Progress", CardTitle: "Fix header bug", Tags: []string{"Urgent", "Frontend"}},
			{Name: "current project", Column: "To Do", CardTitle: "Write release notes"},
			{Name: "unknown project", Board: "Finance", Column: "To Do", CardTitle: "Budget"},
			{Name: "missing tag", Column: "Done", CardTitle: "Update docs", Tags: []string{"Urgent"}},
		},
	}

	r := New(FromLauncher(launcher), WithPageOptions(
		pages.WithAssertTimeout(1500*time.Millisecond),
		pages.WithNavigationTimeout(2*time.Second),
	))
	summary := r.Run(context.Background(), suite)

	require.Len(t, summary.Results, 4)
	assert.Equal(t, report.StatusPassed, summary.Results[0].Status, summary.Results[0].Error)
	assert.Equal(t, report.StatusPassed, summary.Results[1].Status, summary.Results[1].Error)
	assert.Equal(t, report.StatusFailed, summary.Results[2].Status)
	assert.Contains(t, summary.Results[2].Error, `Sidebar project "Finance"`)
	assert.Equal(t, report.StatusFailed, summary.Results[3].Status)
	assert.Contains(t, summary.Results[3].Error, `Missing tag "Urgent" on "Update docs" in "Done"`)
}

func TestExecuteScenarioBadCredentials(t *testing.T) {
	launcher := fixtureLauncher(t)
	session, err := launcher.NewSession(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close(t.Failed()) })

	err = ExecuteScenario(session.Page(),
		scenario.Credentials{Email: "user@demo.test", Password: "wrong"},
		scenario.Scenario{Name: "x", Column: "To Do", CardTitle: "Write release notes"},
		pages.WithAssertTimeout(time.Second), pages.WithNavigationTimeout(time.Second))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `login as "user@demo.test"`)
	var rerr *pages.ResolveError
	assert.True(t, errors.As(err, &rerr))
}
