package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// ContainerStrategy lists the element names accepted as the enclosing
// container of a piece of text, in priority order.
type ContainerStrategy []string

var (
	// ColumnContainers prefers a sectioning element over a plain div.
	ColumnContainers = ContainerStrategy{"section", "div"}
	// CardContainers prefers article, then list item, then div.
	CardContainers = ContainerStrategy{"article", "li", "div"}
)

// ResolveBoundary climbs from label to the nearest ancestor named by the
// first strategy entry that has one. It returns false when no entry
// matches.
func ResolveBoundary(label playwright.Locator, strategy ContainerStrategy) (playwright.Locator, bool, error) {
	return ResolveBoundaryWithin(label, nil, strategy)
}

// ResolveBoundaryWithin is ResolveBoundary restricted to ancestors strictly
// inside scope. A nearer ancestor outside scope rules its element name out
// and the next strategy entry is tried. A nil scope means the whole page.
func ResolveBoundaryWithin(label, scope playwright.Locator, strategy ContainerStrategy) (playwright.Locator, bool, error) {
	for _, tag := range strategy {
		candidate := label.Locator(fmt.Sprintf("xpath=ancestor::%s[1]", tag))
		if scope != nil {
			candidate = candidate.And(scope.Locator(tag))
		}
		n, err := candidate.Count()
		if err != nil {
			return nil, false, err
		}
		if n > 0 {
			return candidate.First(), true, nil
		}
	}
	return nil, false, nil
}
