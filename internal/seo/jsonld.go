package seo

import (
	"encoding/json"
	"html/template"

	"github.com/hadeerens/ember-bloom-menu/internal/catalog"
	"github.com/hadeerens/ember-bloom-menu/internal/format"
)

// JSON marshals v for a <script type="application/ld+json"> block. It returns
// an empty string on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// Restaurant returns a minimal Restaurant schema.
func Restaurant(name, url, phone, address string) map[string]any {
	m := map[string]any{
		"@context":            "https://schema.org",
		"@type":               "Restaurant",
		"name":                name,
		"acceptsReservations": false,
	}
	if url != "" {
		m["url"] = url
		m["hasMenu"] = url + "#menu"
	}
	if phone != "" {
		m["telephone"] = phone
	}
	if address != "" {
		m["address"] = address
	}
	return m
}

// Menu describes the catalog as a schema.org Menu with one section per category.
func Menu(c *catalog.Catalog, lang string) map[string]any {
	sections := []map[string]any{}
	for _, label := range c.Categories() {
		if label.ID == catalog.CategoryAll {
			continue
		}
		items := []map[string]any{}
		for _, it := range c.View(catalog.Criteria{Category: label.ID}) {
			items = append(items, map[string]any{
				"@type":       "MenuItem",
				"name":        it.Name.In(lang),
				"description": it.Description.In(lang),
				"offers": map[string]any{
					"@type":         "Offer",
					"price":         format.Decimal(it.Price),
					"priceCurrency": c.Currency(),
				},
			})
		}
		sections = append(sections, map[string]any{
			"@type":       "MenuSection",
			"name":        label.Name.In(lang),
			"hasMenuItem": items,
		})
	}
	return map[string]any{
		"@context":       "https://schema.org",
		"@type":          "Menu",
		"inLanguage":     lang,
		"hasMenuSection": sections,
	}
}
