package pages

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gotrs-io/boardcheck/internal/browser"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

// Short timeouts keep the negative cases fast against the static fixture.
var fixtureOpts = []Option{
	WithAssertTimeout(1500 * time.Millisecond),
	WithNavigationTimeout(2 * time.Second),
}

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	serve := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			body, err := os.ReadFile(filepath.Join("testdata", name))
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(body)
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/board", serve("board.html"))
	mux.HandleFunc("/", serve("login.html"))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// fixturePage launches a headless browser against the fixture server and
// skips the test when no browser is available.
func fixturePage(t *testing.T, path string) playwright.Page {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests skipped in short mode")
	}
	srv := fixtureServer(t)

	launcher, err := browser.Launch(browser.Options{
		Headless:     true,
		BaseURL:      srv.URL,
		Preinstalled: true,
	}, nil)
	if err != nil {
		t.Skipf("browser not available: %v", err)
	}
	t.Cleanup(func() { _ = launcher.Close() })

	session, err := launcher.NewSession(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close(t.Failed()) })

	if path != "" {
		_, err = session.Page().Goto(path)
		require.NoError(t, err)
	}
	return session.Page()
}
