package scenario

import (
	"fmt"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
)

// Filter returns a copy of the suite holding only the scenarios whose name
// matches the glob pattern, compared case-insensitively. An empty pattern
// keeps every scenario.
func (s *Suite) Filter(pattern string) (*Suite, error) {
	out := *s
	if pattern == "" {
		out.Scenarios = append([]Scenario(nil), s.Scenarios...)
		return &out, nil
	}

	fold := cases.Fold()
	g, err := glob.Compile(fold.String(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid scenario filter %q: %w", pattern, err)
	}

	out.Scenarios = nil
	for _, sc := range s.Scenarios {
		if g.Match(fold.String(sc.Name)) {
			out.Scenarios = append(out.Scenarios, sc)
		}
	}
	return &out, nil
}

// Names lists scenario names in file order.
func (s *Suite) Names() []string {
	names := make([]string, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		names[i] = sc.Name
	}
	return names
}
