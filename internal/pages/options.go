package pages

import "time"

// Timeouts used when none are configured.
const (
	DefaultAssertTimeout     = 5 * time.Second
	DefaultNavigationTimeout = 10 * time.Second
)

type options struct {
	assertTimeout     float64
	navigationTimeout float64
	login             LoginLabels
	board             BoardSelectors
}

// Option customises a page object.
type Option func(*options)

// WithAssertTimeout sets how long visibility and count assertions poll.
func WithAssertTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.assertTimeout = float64(d.Milliseconds())
		}
	}
}

// WithNavigationTimeout sets how long a project switch may take to show
// in the main header.
func WithNavigationTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.navigationTimeout = float64(d.Milliseconds())
		}
	}
}

// WithLoginLabels overrides the login form labels.
func WithLoginLabels(l LoginLabels) Option {
	return func(o *options) { o.login = l }
}

// WithBoardSelectors overrides the board selectors and container
// strategies.
func WithBoardSelectors(s BoardSelectors) Option {
	return func(o *options) { o.board = s }
}

func newOptions(opts []Option) options {
	o := options{
		assertTimeout:     float64(DefaultAssertTimeout.Milliseconds()),
		navigationTimeout: float64(DefaultNavigationTimeout.Milliseconds()),
		login:             DefaultLoginLabels,
		board:             DefaultBoardSelectors,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
