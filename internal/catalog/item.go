package catalog

import "strings"

// Category is one of the closed set of menu sections.
type Category string

const (
	CategoryAll        Category = "all"
	CategoryAppetizers Category = "appetizers"
	CategoryMains      Category = "mains"
	CategoryDesserts   Category = "desserts"
	CategoryDrinks     Category = "drinks"
)

// Categories in display order, excluding the "all" pseudo category.
var knownCategories = []Category{CategoryAppetizers, CategoryMains, CategoryDesserts, CategoryDrinks}

// Valid reports whether c names a real menu section.
func (c Category) Valid() bool {
	for _, k := range knownCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Text is a display string in both supported languages.
type Text struct {
	EN string `yaml:"en"`
	AR string `yaml:"ar"`
}

// In returns the value for lang, defaulting to English.
func (t Text) In(lang string) string {
	if isArabic(lang) {
		return t.AR
	}
	return t.EN
}

// List is an ordered list of short strings in both supported languages.
type List struct {
	EN []string `yaml:"en"`
	AR []string `yaml:"ar"`
}

// In returns the list for lang, defaulting to English.
func (l List) In(lang string) []string {
	if isArabic(lang) {
		return l.AR
	}
	return l.EN
}

// OptionalBool distinguishes an absent flag from an explicit false.
type OptionalBool struct {
	Present bool
	Value   bool
}

// Some wraps v as a present optional.
func Some(v bool) OptionalBool { return OptionalBool{Present: true, Value: v} }

// Get returns the value, or false when absent.
func (o OptionalBool) Get() bool { return o.Present && o.Value }

// MenuItem is a single purchasable dish. Price is in minor units (cents).
type MenuItem struct {
	ID          string
	Name        Text
	Description Text
	Ingredients List
	Price       int64
	Category    Category
	Image       string
	Featured    OptionalBool
}

// IsFeatured reports the featured flag, treating absence as false.
func (m MenuItem) IsFeatured() bool { return m.Featured.Get() }

// CategoryLabel pairs a category id with its display name.
type CategoryLabel struct {
	ID   Category
	Name Text
}

func isArabic(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	return lang == "ar" || strings.HasPrefix(lang, "ar-")
}
