package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders the summary as a GitHub flavoured Markdown table.
func Markdown(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Board checks\n\n")
	fmt.Fprintf(&b, "Run `%s` against %s: **%d passed, %d failed, %d skipped** in %s.\n\n",
		s.RunID, s.BaseURL, s.Passed(), s.Failed(), s.Skipped(), round(s.Duration()))
	b.WriteString("| Scenario | Status | Duration | Error |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range s.Results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(r.Name), statusLabel(r.Status), round(r.Duration), cell(firstLine(r.Error)))
	}
	return b.String()
}

// WriteHTML renders the Markdown report to a sanitised HTML page.
func WriteHTML(w io.Writer, s *Summary) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(s)), &buf); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	body := bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes())

	_, err := fmt.Fprintf(w, "<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>Board checks</title></head>\n<body>\n%s</body></html>\n", body)
	return err
}

func statusLabel(s Status) string {
	switch s {
	case StatusPassed:
		return "✅ passed"
	case StatusFailed:
		return "❌ failed"
	default:
		return "⏭️ skipped"
	}
}

// cell escapes text for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, "\n", " ")
}
