package nav

import (
	"net/url"
	"strings"
)

// Item is an in-page navigation target.
type Item struct {
	Anchor   string // element id, e.g. "menu"
	LabelKey string // i18n key, e.g. "nav.menu"
	Icon     string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	Anchor   string
	LabelKey string
	Icon     string
}

// Header is the desktop navigation.
var Header = []Item{
	{Anchor: "menu", LabelKey: "nav.menu"},
	{Anchor: "categories", LabelKey: "nav.categories"},
	{Anchor: "about", LabelKey: "nav.about"},
	{Anchor: "contact", LabelKey: "nav.contact"},
}

// Mobile is the bottom bar shown on small screens.
var Mobile = []Item{
	{Anchor: "hero", LabelKey: "nav.home", Icon: "home"},
	{Anchor: "menu", LabelKey: "nav.menu", Icon: "utensils"},
	{Anchor: "categories", LabelKey: "nav.categories", Icon: "grid"},
	{Anchor: "about", LabelKey: "nav.about", Icon: "info"},
}

// Build renders items as fragment links.
func Build(items []Item) []RenderedItem {
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		out = append(out, RenderedItem{
			Href:     "#" + it.Anchor,
			Anchor:   it.Anchor,
			LabelKey: it.LabelKey,
			Icon:     it.Icon,
		})
	}
	return out
}

// LangURL returns the current page URL with hl set to lang. Other query
// parameters (category, search) are kept so switching language keeps the view.
func LangURL(current *url.URL, lang string) string {
	if current == nil {
		return "/?hl=" + url.QueryEscape(lang)
	}
	q := current.Query()
	q.Set("hl", lang)
	p := current.Path
	if p == "" || !strings.HasPrefix(p, "/") {
		p = "/"
	}
	return p + "?" + q.Encode()
}

// MenuURL builds the shareable URL for a filtered menu view.
func MenuURL(base, category, search string) string {
	q := url.Values{}
	if category != "" && category != "all" {
		q.Set("category", category)
	}
	if s := strings.TrimSpace(search); s != "" {
		q.Set("q", s)
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}
