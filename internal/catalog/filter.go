package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Criteria selects the visible subset of the menu.
type Criteria struct {
	Category Category
	Search   string
}

// ParseCriteria builds criteria from raw user input. An empty category means all.
func ParseCriteria(category, search string) Criteria {
	cat := Category(strings.TrimSpace(category))
	if cat == "" {
		cat = CategoryAll
	}
	return Criteria{Category: cat, Search: search}
}

// IsZero reports whether the criteria select the whole menu.
func (c Criteria) IsZero() bool {
	return (c.Category == "" || c.Category == CategoryAll) && c.Search == ""
}

// Filter keeps the items passing both the category and the search predicate.
// Order is preserved.
func Filter(items []MenuItem, criteria Criteria) []MenuItem {
	fold := cases.Fold()
	needle := fold.String(criteria.Search)
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if !matchesCategory(it, criteria.Category) {
			continue
		}
		if !matchesSearch(it, fold, needle, criteria.Search) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchesCategory(it MenuItem, cat Category) bool {
	return cat == "" || cat == CategoryAll || it.Category == cat
}

// English fields are compared case-folded, Arabic fields as raw substrings.
func matchesSearch(it MenuItem, fold cases.Caser, foldedNeedle, rawNeedle string) bool {
	if rawNeedle == "" {
		return true
	}
	return strings.Contains(fold.String(it.Name.EN), foldedNeedle) ||
		strings.Contains(it.Name.AR, rawNeedle) ||
		strings.Contains(fold.String(it.Description.EN), foldedNeedle) ||
		strings.Contains(it.Description.AR, rawNeedle)
}
