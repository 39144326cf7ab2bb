package pages

import (
	"github.com/gotrs-io/boardcheck/internal/textmatch"
	"github.com/playwright-community/playwright-go"
)

// BoardSelectors describes the fixed DOM shape of the board UI.
type BoardSelectors struct {
	Sidebar       string // first match is the project navigation
	ProjectButton string // clickable project entry inside the sidebar
	ProjectTitle  string // heading inside a project button
	MainHeader    string // header that shows the selected project
	TagChip       string // inline element carrying a single tag
	Columns       ContainerStrategy
	Cards         ContainerStrategy
}

// DefaultBoardSelectors matches the demo application.
var DefaultBoardSelectors = BoardSelectors{
	Sidebar:       `nav,aside,[role="navigation"]`,
	ProjectButton: "button:has(h2)",
	ProjectTitle:  "h2",
	MainHeader:    "h1.text-xl.font-semibold",
	TagChip:       "span",
	Columns:       ColumnContainers,
	Cards:         CardContainers,
}

// BoardPage resolves projects, columns, cards and tags by their visible
// text.
type BoardPage struct {
	page              playwright.Page
	sel               BoardSelectors
	expect            playwright.PlaywrightAssertions
	assertTimeout     float64
	navigationTimeout float64
}

// NewBoardPage creates a board page object.
func NewBoardPage(page playwright.Page, opts ...Option) *BoardPage {
	o := newOptions(opts)
	return &BoardPage{
		page:              page,
		sel:               o.board,
		expect:            playwright.NewPlaywrightAssertions(o.assertTimeout),
		assertTimeout:     o.assertTimeout,
		navigationTimeout: o.navigationTimeout,
	}
}

// GoToProject selects a project from the sidebar and waits until the main
// header shows it. Exactly one sidebar entry must match name.
func (b *BoardPage) GoToProject(name string) error {
	exact := textmatch.Exact(name)

	sidebar := b.page.Locator(b.sel.Sidebar).First()
	buttons := sidebar.Locator(b.sel.ProjectButton).Filter(playwright.LocatorFilterOptions{
		Has: b.page.Locator(b.sel.ProjectTitle, playwright.PageLocatorOptions{HasText: exact}),
	})

	if err := b.expect.Locator(buttons).ToHaveCount(1, playwright.LocatorAssertionsToHaveCountOptions{
		Timeout: playwright.Float(b.assertTimeout),
	}); err != nil {
		if n, cerr := buttons.Count(); cerr == nil && n > 1 {
			return ambiguous("project", name, err, "Sidebar project %q is ambiguous (%d matches)", name, n)
		}
		return notFound("project", name, err, "Sidebar project %q not found or ambiguous", name)
	}

	btn := buttons.First()
	if err := btn.ScrollIntoViewIfNeeded(); err != nil {
		return notFound("project", name, err, "Sidebar project %q could not be scrolled into view", name)
	}
	if err := btn.Click(); err != nil {
		return notFound("project", name, err, "Sidebar project %q could not be clicked", name)
	}

	header := b.page.Locator(b.sel.MainHeader).Filter(playwright.LocatorFilterOptions{
		HasText: textmatch.Contains(name),
	}).First()
	if err := b.expect.Locator(header).ToBeVisible(playwright.LocatorAssertionsToBeVisibleOptions{
		Timeout: playwright.Float(b.navigationTimeout),
	}); err != nil {
		return timedOut("header", name, err, "Main project header %q not visible", name)
	}
	return nil
}

// column finds a column label and returns its enclosing container. The
// first matching label wins; duplicate column names are not detected.
// card only feeds the failure message.
func (b *BoardPage) column(name, card string) (playwright.Locator, error) {
	label := b.page.GetByText(textmatch.Word(name)).First()
	if err := b.expect.Locator(label).ToBeVisible(); err != nil {
		return nil, notFound("column", name, err, "Column label %q not found (looking for card %q)", name, card)
	}

	container, ok, err := ResolveBoundary(label, b.sel.Columns)
	if err == nil && ok {
		err = b.expect.Locator(container).ToBeVisible()
	}
	if err != nil || !ok {
		return nil, notFound("column", name, err, "Column container not found for %q (looking for card %q)", name, card)
	}
	return container, nil
}

// cardIn finds a card title inside column and returns the card container.
// Both the title search and the container climb stay inside the column, so
// equally named cards elsewhere and wrappers around the column are never
// taken for the card.
func (b *BoardPage) cardIn(column playwright.Locator, columnName, title string) (playwright.Locator, error) {
	titleEl := column.GetByText(textmatch.Contains(title)).First()
	if err := b.expect.Locator(titleEl).ToBeVisible(); err != nil {
		return nil, notFound("card", title, err, "Card title %q not found in %q", title, columnName)
	}

	container, ok, err := ResolveBoundaryWithin(titleEl, column, b.sel.Cards)
	if err == nil && ok {
		err = b.expect.Locator(container).ToBeVisible()
	}
	if err != nil || !ok {
		return nil, notFound("card", title, err, "Card container not found for %q in %q", title, columnName)
	}
	return container, nil
}

func (b *BoardPage) card(columnName, title string) (playwright.Locator, error) {
	col, err := b.column(columnName, title)
	if err != nil {
		return nil, err
	}
	return b.cardIn(col, columnName, title)
}

// ExpectCardInColumn asserts that a card titled title is visible in the
// named column.
func (b *BoardPage) ExpectCardInColumn(columnName, title string) error {
	card, err := b.card(columnName, title)
	if err != nil {
		return err
	}
	if err := b.expect.Locator(card).ToBeVisible(); err != nil {
		return notFound("card", title, err, "Card %q not visible in %q", title, columnName)
	}
	return nil
}

// ExpectTagsOnCard asserts that every tag is shown as a chip on the card.
// Each tag is checked on its own and the first missing one is reported.
func (b *BoardPage) ExpectTagsOnCard(columnName, title string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	card, err := b.card(columnName, title)
	if err != nil {
		return err
	}

	for _, tag := range tags {
		chip := card.Locator(b.sel.TagChip).Filter(playwright.LocatorFilterOptions{
			HasText: textmatch.Exact(tag),
		}).First()
		if err := b.expect.Locator(chip).ToBeVisible(); err != nil {
			return notFound("tag", tag, err, "Missing tag %q on %q in %q", tag, title, columnName)
		}
	}
	return nil
}
