package middleware

import (
	"encoding/json"
	"net/http"
)

// HTMX marks requests coming from htmx so handlers/middlewares can adapt responses
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		if is {
			w.Header().Add("Vary", "HX-Request")
		}
		ctx := WithHTMX(r.Context(), is)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Toast tones understood by the page script.
const (
	ToneSuccess = "success"
	ToneError   = "error"
	ToneInfo    = "info"
)

// Events is an HX-Trigger payload keyed by event name.
type Events map[string]any

// Toast adds a toast notification.
func (e Events) Toast(tone, message string) Events {
	e["toast"] = map[string]string{"tone": tone, "message": message}
	return e
}

// Trigger writes events to the HX-Trigger header. Call before WriteHeader.
func Trigger(w http.ResponseWriter, events Events) {
	if len(events) == 0 {
		return
	}
	b, err := json.Marshal(events)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}

// PushURL asks htmx to record url in the browser history.
func PushURL(w http.ResponseWriter, url string) {
	w.Header().Set("HX-Push-Url", url)
}
