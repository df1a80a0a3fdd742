package seo

// OpenGraph holds og:* values.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	Locale      string
}

// Alternate is an hreflang link.
type Alternate struct {
	Lang string
	Href string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Alternates  []Alternate
}

// OGLocale maps a site language to an og:locale value.
func OGLocale(lang string) string {
	switch lang {
	case "ar":
		return "ar_EG"
	default:
		return "en_US"
	}
}
