// Package scenario loads and validates the declarative board scenarios.
package scenario

// Credentials are used for every scenario of a run.
type Credentials struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// Scenario is one board check. Board is optional; when empty the scenario
// stays on whatever project the board opens with.
type Scenario struct {
	Name      string   `json:"name" yaml:"name"`
	Board     string   `json:"board,omitempty" yaml:"board,omitempty"`
	Column    string   `json:"column" yaml:"column"`
	CardTitle string   `json:"cardTitle" yaml:"cardTitle"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Suite is the full scenario file. It is read-only once loaded.
type Suite struct {
	Version     int         `json:"version,omitempty" yaml:"version,omitempty"`
	Credentials Credentials `json:"credentials" yaml:"credentials"`
	Scenarios   []Scenario  `json:"scenarios" yaml:"scenarios"`
}

// CurrentVersion is assumed when a file does not declare one.
const CurrentVersion = 1
