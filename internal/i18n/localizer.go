package i18n

// Direction is the text direction of a language.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// DirectionOf returns RTL for Arabic and LTR for everything else.
func DirectionOf(lang string) Direction {
	if lang == Arabic {
		return RTL
	}
	return LTR
}

// Localizer is the language state of one visitor.
type Localizer struct {
	bundle *Bundle
	lang   string
}

// NewLocalizer binds lang to a bundle. Unsupported languages fall back to the
// bundle default.
func NewLocalizer(b *Bundle, lang string) *Localizer {
	norm := b.Normalize(lang)
	if norm == "" {
		norm = b.Fallback()
	}
	return &Localizer{bundle: b, lang: norm}
}

func (l *Localizer) Lang() string   { return l.lang }
func (l *Localizer) Dir() Direction { return DirectionOf(l.lang) }

// T translates key in the current language.
func (l *Localizer) T(key string) string { return l.bundle.T(l.lang, key) }

// Other returns the language the toggle switches to.
func (l *Localizer) Other() string {
	if l.lang == Arabic {
		return DefaultLang
	}
	return Arabic
}

// SetLang switches the language. Unsupported values are ignored.
func (l *Localizer) SetLang(lang string) bool {
	norm := l.bundle.Normalize(lang)
	if norm == "" {
		return false
	}
	l.lang = norm
	return true
}
