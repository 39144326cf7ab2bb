package report

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *Summary {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewSummary("http://localhost:3000", start)
	s.Add(Result{Name: "Web card", Status: StatusPassed, Started: start, Duration: 1200 * time.Millisecond})
	s.Add(Result{Name: "Tags | pipe", Status: StatusFailed, Started: start, Duration: 800 * time.Millisecond,
		Error: "Missing tag \"Urgent\" on \"Fix header bug\" in \"In Progress\"\nsecond line"})
	s.Add(Result{Name: "Later", Status: StatusSkipped})
	s.Finished = start.Add(3 * time.Second)
	return s
}

func TestSummaryCounts(t *testing.T) {
	s := sampleSummary()
	assert.Equal(t, 1, s.Passed())
	assert.Equal(t, 1, s.Failed())
	assert.Equal(t, 1, s.Skipped())
	assert.False(t, s.OK())
	assert.Equal(t, 3*time.Second, s.Duration())
	assert.Len(t, s.RunID, 36)
}

func TestSummaryOK(t *testing.T) {
	s := NewSummary("", time.Now())
	assert.False(t, s.OK(), "empty run is not OK")

	s.Add(Result{Name: "a", Status: StatusPassed})
	assert.True(t, s.OK())
	assert.Zero(t, s.Duration())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleSummary(), FormatText))

	out := buf.String()
	assert.Contains(t, out, "✅ Web card (1.2s)")
	assert.Contains(t, out, "❌ Tags | pipe")
	assert.Contains(t, out, "\n   second line")
	assert.Contains(t, out, "Later (skipped)")
	assert.Contains(t, out, "1 passed, 1 failed, 1 skipped in 3s")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	s := sampleSummary()
	require.NoError(t, Write(&buf, s, FormatJSON))

	var got Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, s.RunID, got.RunID)
	require.Len(t, got.Results, 3)
	assert.Equal(t, StatusFailed, got.Results[1].Status)
}

func TestWriteJUnit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleSummary(), FormatJUnit))

	var got junitSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Suites, 1)

	suite := got.Suites[0]
	assert.Equal(t, 3, suite.Tests)
	assert.Equal(t, 1, suite.Failures)
	assert.Equal(t, 1, suite.Skipped)
	assert.Equal(t, "3.000", suite.Time)
	require.Len(t, suite.Cases, 3)
	assert.Nil(t, suite.Cases[0].Failure)
	require.NotNil(t, suite.Cases[1].Failure)
	assert.Equal(t, `Missing tag "Urgent" on "Fix header bug" in "In Progress"`, suite.Cases[1].Failure.Message)
	assert.NotNil(t, suite.Cases[2].Skipped)
}

func TestMarkdownEscapesCells(t *testing.T) {
	md := Markdown(sampleSummary())
	assert.Contains(t, md, `| Tags \| pipe | ❌ failed |`)
	assert.Contains(t, md, "**1 passed, 1 failed, 1 skipped**")
	assert.NotContains(t, md, "second line")
}

func TestWriteHTMLSanitises(t *testing.T) {
	s := NewSummary("http://localhost", time.Now())
	s.Add(Result{Name: "<script>alert(1)</script>", Status: StatusFailed, Error: "boom"})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, FormatHTML))

	out := buf.String()
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "boom")
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleSummary(), Format("pdf"))
	assert.EqualError(t, err, `unknown report format "pdf"`)
}
