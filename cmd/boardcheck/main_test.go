package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gotrs-io/boardcheck/internal/config"
	"github.com/gotrs-io/boardcheck/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suiteJSON = `{
  "credentials": {"email": "user@demo.test", "password": "pass123"},
  "scenarios": [
    {"name": "Web: header bug", "column": "In Progress", "cardTitle": "Fix header bug"},
    {"name": "Mobile: push", "column": "Done", "cardTitle": "Push notification system"}
  ]
}`

func TestLoadSuiteFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.json")
	require.NoError(t, os.WriteFile(path, []byte(suiteJSON), 0o644))

	suite, err := loadSuite(&config.Config{Scenarios: path, Filter: "web:*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Web: header bug"}, suite.Names())

	_, err = loadSuite(&config.Config{Scenarios: path, Filter: "finance*"})
	assert.EqualError(t, err, `no scenarios match "finance*"`)
}

func TestMetricsMux(t *testing.T) {
	srv := httptest.NewServer(metricsMux(metrics.New()))
	defer srv.Close()

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0f8fad5b", shortID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "validate", "list", "check", "schedule", "watch", "history", "install", "version"} {
		assert.Contains(t, names, want)
	}
}
