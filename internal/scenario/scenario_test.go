package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	suite, err := Load(filepath.Join("testdata", "scenarios.json"))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, suite.Version)
	assert.Equal(t, "user@demo.test", suite.Credentials.Email)
	assert.Equal(t, "pass123", suite.Credentials.Password)
	require.Len(t, suite.Scenarios, 3)

	first := suite.Scenarios[0]
	assert.Equal(t, "Web Application", first.Board)
	assert.Equal(t, "In Progress", first.Column)
	assert.Equal(t, "Fix header bug", first.CardTitle)
	assert.Equal(t, []string{"Urgent", "Frontend"}, first.Tags)

	second := suite.Scenarios[1]
	assert.Empty(t, second.Board, "absent board means stay on the current project")
	assert.Nil(t, second.Tags)
}

func TestLoadYAML(t *testing.T) {
	suite, err := Load(filepath.Join("testdata", "scenarios.yaml"))
	require.NoError(t, err)

	require.Len(t, suite.Scenarios, 2)
	assert.Equal(t, "Design (v2) mockups", suite.Scenarios[1].CardTitle)
	assert.Equal(t, []string{"Urgent", "Frontend"}, suite.Scenarios[0].Tags)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSuite)

	var problems ValidationErrors
	require.True(t, errors.As(err, &problems))

	fields := make([]string, len(problems))
	for i, p := range problems {
		fields[i] = p.Field
	}
	joined := strings.Join(fields, ",")
	assert.Contains(t, joined, "credentials")
	assert.Contains(t, joined, "scenarios.0")
	assert.Contains(t, joined, "scenarios.1.column")
	assert.Contains(t, joined, "scenarios.1.tags.0")
	assert.Contains(t, joined, "scenarios.2")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "minimal",
			doc:  `{"credentials":{"email":"a@b.c","password":"x"},"scenarios":[]}`,
		},
		{
			name:    "missing scenarios",
			doc:     `{"credentials":{"email":"a@b.c","password":"x"}}`,
			wantErr: "scenarios is required",
		},
		{
			name:    "unknown version",
			doc:     `{"version":7,"credentials":{"email":"a@b.c","password":"x"},"scenarios":[]}`,
			wantErr: "unsupported suite version 7",
		},
		{
			name:    "fractional version",
			doc:     `{"version":1.5,"credentials":{"email":"a@b.c","password":"x"},"scenarios":[]}`,
			wantErr: "version must be an integer",
		},
		{
			name: "duplicate names after case folding",
			doc: `{"credentials":{"email":"a@b.c","password":"x"},"scenarios":[
				{"name":"Header bug","column":"To Do","cardTitle":"a"},
				{"name":"HEADER BUG ","column":"Done","cardTitle":"b"}]}`,
			wantErr: "duplicate scenario name",
		},
		{
			name:    "empty document",
			doc:     `null`,
			wantErr: "document is empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, err := Decode([]byte(tt.doc), FormatJSON)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, suite)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSuite)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"credentials":`), FormatJSON)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSuite)
	assert.Contains(t, err.Error(), "failed to parse json")
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("data/scenarios.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatFor("scenarios.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFor("scenarios.toml")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFilter(t *testing.T) {
	suite, err := Load(filepath.Join("testdata", "scenarios.json"))
	require.NoError(t, err)

	t.Run("empty pattern keeps all", func(t *testing.T) {
		out, err := suite.Filter("")
		require.NoError(t, err)
		assert.Equal(t, suite.Names(), out.Names())
	})

	t.Run("glob is case-insensitive", func(t *testing.T) {
		out, err := suite.Filter("web app:*")
		require.NoError(t, err)
		assert.Equal(t, []string{"Web App: header bug in progress", "Web App: release notes to do"}, out.Names())
	})

	t.Run("no match", func(t *testing.T) {
		out, err := suite.Filter("Finance*")
		require.NoError(t, err)
		assert.Empty(t, out.Scenarios)
	})

	t.Run("source suite untouched", func(t *testing.T) {
		_, err := suite.Filter("Mobile*")
		require.NoError(t, err)
		assert.Len(t, suite.Scenarios, 3)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := suite.Filter("[")
		assert.Error(t, err)
	})
}

func TestSchemaRegistryVersions(t *testing.T) {
	sr := NewSchemaRegistry()
	assert.Equal(t, []int{1}, sr.Versions())

	require.NoError(t, sr.Register(2, map[string]any{"type": "object"}))
	assert.Equal(t, []int{1, 2}, sr.Versions())

	problems, err := sr.Validate(map[string]any{"version": 2, "anything": true})
	require.NoError(t, err)
	assert.Empty(t, problems)
}
