// Package pages holds the page objects used by the board scenarios.
//
// The board application exposes no test ids, so every element is addressed
// by its visible text ("text-addressed UI resolution"): a scenario string is
// turned into a case-insensitive pattern, the matching text node is found,
// and the enclosing column or card is inferred by climbing to the nearest
// container element allowed by a ContainerStrategy. The known failure mode
// is duplicate text. Project selection guards against it by requiring
// exactly one match; column and card lookups take the first match.
package pages
