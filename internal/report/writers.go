package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// Format names an output format understood by Write.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatJUnit    Format = "junit"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatJUnit, FormatMarkdown, FormatHTML}

// Write renders s to w in the given format.
func Write(w io.Writer, s *Summary, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, s)
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatJUnit:
		return WriteJUnit(w, s)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(s))
		return err
	case FormatHTML:
		return WriteHTML(w, s)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteText prints one line per scenario followed by the totals.
func WriteText(w io.Writer, s *Summary) error {
	var b strings.Builder
	for _, r := range s.Results {
		switch r.Status {
		case StatusPassed:
			fmt.Fprintf(&b, "✅ %s (%s)\n", r.Name, round(r.Duration))
		case StatusFailed:
			fmt.Fprintf(&b, "❌ %s (%s)\n   %s\n", r.Name, round(r.Duration), indent(r.Error))
		case StatusSkipped:
			fmt.Fprintf(&b, "⏭️  %s (skipped)\n", r.Name)
		}
	}
	fmt.Fprintf(&b, "\n%d passed, %d failed, %d skipped in %s\n", s.Passed(), s.Failed(), s.Skipped(), round(s.Duration()))
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the summary as indented JSON.
func WriteJSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Skipped   int         `xml:"skipped,attr"`
	Time      string      `xml:"time,attr"`
	Timestamp string      `xml:"timestamp,attr"`
	Cases     []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *struct{}     `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

// WriteJUnit writes a JUnit XML report for CI systems.
func WriteJUnit(w io.Writer, s *Summary) error {
	suite := junitSuite{
		Name:      "Board checks",
		Tests:     len(s.Results),
		Failures:  s.Failed(),
		Skipped:   s.Skipped(),
		Time:      seconds(s.Duration()),
		Timestamp: s.Started.UTC().Format(time.RFC3339),
	}
	for _, r := range s.Results {
		c := junitCase{Name: r.Name, Classname: "boardcheck", Time: seconds(r.Duration)}
		switch r.Status {
		case StatusFailed:
			c.Failure = &junitFailure{Message: firstLine(r.Error), Body: r.Error}
		case StatusSkipped:
			c.Skipped = &struct{}{}
		}
		suite.Cases = append(suite.Cases, c)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(junitSuites{Suites: []junitSuite{suite}}); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n   ")
}
