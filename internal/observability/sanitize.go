package observability

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxRouteLength = 180

// methods bounds the method label so junk verbs cannot grow the metric set.
var methods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeRoute strips control characters and truncates long paths. An empty
// route becomes "/".
func SanitizeRoute(route string) string {
	route = stripControl(route)
	if route == "" {
		return "/"
	}
	if utf8.RuneCountInString(route) > maxRouteLength {
		route = string([]rune(route)[:maxRouteLength])
	}
	return route
}

// SanitizeMethod upper-cases the method and reports unknown verbs as OTHER.
func SanitizeMethod(method string) string {
	m := strings.ToUpper(stripControl(method))
	if _, ok := methods[m]; ok {
		return m
	}
	return "OTHER"
}
