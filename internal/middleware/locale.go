package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hadeerens/ember-bloom-menu/internal/i18n"
	"github.com/hadeerens/ember-bloom-menu/internal/requestctx"
)

const langCookieName = "hl"

// Locale resolves the visitor language and stores it in the session and the
// `hl` cookie. Precedence: ?hl=, session, `hl` cookie, Accept-Language.
func Locale(bundle *i18n.Bundle, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			if q := bundle.Normalize(r.URL.Query().Get("hl")); q != "" {
				if s.Locale != q {
					s.Locale = q
					s.MarkDirty()
				}
				http.SetCookie(w, &http.Cookie{
					Name:     langCookieName,
					Value:    q,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			} else if bundle.Normalize(s.Locale) == "" {
				lang := ""
				if c, err := r.Cookie(langCookieName); err == nil {
					lang = bundle.Normalize(c.Value)
				}
				if lang == "" {
					lang = bundle.Resolve(r.Header.Get("Accept-Language"))
				}
				s.Locale = lang
				s.MarkDirty()
			}

			loc := i18n.NewLocalizer(bundle, s.Locale)
			w.Header().Set("Content-Language", loc.Lang())
			w.Header().Add("Vary", "Accept-Language")
			ctx := requestctx.With(WithLocalizer(r.Context(), loc), zap.String("lang", loc.Lang()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Lang returns the current language, falling back to English outside the
// Locale middleware.
func Lang(r *http.Request) string {
	if l := LocalizerFrom(r.Context()); l != nil {
		return l.Lang()
	}
	return i18n.DefaultLang
}
