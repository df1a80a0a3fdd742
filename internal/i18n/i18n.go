package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

const (
	// DefaultLang is the language served when nothing better matches.
	DefaultLang = "en"
	// Arabic is the only right-to-left language the site ships.
	Arabic = "ar"
)

// SupportedLangs lists the shipped translation tables, default first.
var SupportedLangs = []string{DefaultLang, Arabic}

type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported map[string]struct{}
	matcher   language.Matcher
	order     []string
}

// Default loads the translation tables compiled into the binary.
func Default() (*Bundle, error) {
	return LoadFS(embedded, "locales", DefaultLang, SupportedLangs)
}

// Embedded exposes the compiled-in tables, rooted above "locales".
func Embedded() fs.FS { return embedded }

// Load reads <lang>.json tables from a directory on disk.
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
	return LoadFS(os.DirFS(dir), ".", fallback, supported)
}

// LoadFS reads <lang>.json tables under dir in fsys. The fallback table is
// mandatory, other tables may be missing.
func LoadFS(fsys fs.FS, dir string, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = SupportedLangs
	}
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	b := &Bundle{
		dict:      map[string]map[string]string{},
		fallback:  fallback,
		supported: map[string]struct{}{},
	}
	// matcher treats the first tag as the default
	order := []string{fallback}
	for _, l := range supported {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != fallback {
			order = append(order, l)
		}
	}
	tags := make([]language.Tag, 0, len(order))
	for _, l := range order {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", l, err)
		}
		tags = append(tags, tag)
		b.supported[l] = struct{}{}

		raw, err := fs.ReadFile(fsys, joinPath(dir, l+".json"))
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
	}
	b.order = order
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.supported))
	for k := range b.supported {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang has a table.
func (b *Bundle) IsSupported(lang string) bool {
	_, ok := b.supported[lang]
	return ok
}

// Normalize maps a user supplied code ("AR", "ar-EG") to a supported language,
// or returns "" when nothing matches.
func (b *Bundle) Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return ""
	}
	if b.IsSupported(lang) {
		return lang
	}
	if dash := strings.IndexAny(lang, "-_"); dash > 0 && b.IsSupported(lang[:dash]) {
		return lang[:dash]
	}
	return ""
}

// T returns the translation for key in lang. Keys missing from that table come
// back verbatim. Unsupported languages read from the fallback table.
func (b *Bundle) T(lang, key string) string {
	table, ok := b.dict[b.Normalize(lang)]
	if !ok {
		table = b.dict[b.fallback]
	}
	if v, ok := table[key]; ok {
		return v
	}
	return key
}

// Resolve chooses the best supported language from an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(b.order) {
		return b.fallback
	}
	return b.order[idx]
}

func joinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}
