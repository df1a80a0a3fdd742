package middleware

import (
	"context"

	"github.com/hadeerens/ember-bloom-menu/internal/i18n"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyIsHTMX    ctxKey = "is_htmx"
	ctxKeySession   ctxKey = "session"
	ctxKeyLocalizer ctxKey = "localizer"
)

// WithHTMX marks request as HTMX
func WithHTMX(ctx context.Context, is bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, is)
}

// IsHTMX returns whether this is an htmx request
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return v
}

// WithLocalizer stores the visitor's language state.
func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKeyLocalizer, l)
}

// LocalizerFrom returns the localizer set by Locale, or nil.
func LocalizerFrom(ctx context.Context) *i18n.Localizer {
	l, _ := ctx.Value(ctxKeyLocalizer).(*i18n.Localizer)
	return l
}
