package main

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mw "github.com/hadeerens/ember-bloom-menu/internal/middleware"
	"github.com/hadeerens/ember-bloom-menu/internal/observability"
)

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	r.Use(middleware.RealIP)
	r.Use(observability.InjectLoggerMiddleware(a.logger))
	r.Use(observability.TraceMiddleware())
	r.Use(observability.RequestLoggerMiddleware(a.metrics))
	r.Use(observability.RecoveryMiddleware(a.logger))
	r.Use(middleware.Compress(5))
	if a.cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.cfg.Server.RequestTimeout))
	}
	r.Use(mw.HTMX)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/metrics", a.metrics.Handler())
	r.Handle("/assets/*", assetsHandler())

	r.Group(func(r chi.Router) {
		r.Use(a.sessions.Middleware)
		r.Use(mw.Locale(a.bundle, a.sessions.Secure()))
		r.Use(mw.CSRF(a.sessions.Secure()))

		r.Get("/", a.homeHandler)
		r.Get("/menu/items", a.menuGridFrag)
		r.Get("/menu/items/{id}", a.productModalFrag)

		r.Get("/cart", a.cartDrawerFrag)
		r.Post("/cart/items/{id}", a.cartAddHandler)
		r.Post("/cart/items/{id}/quantity", a.cartQuantityHandler)
		r.Post("/cart/items/{id}/remove", a.cartRemoveHandler)
		r.Post("/cart/clear", a.cartClearHandler)
		r.Post("/cart/checkout", a.checkoutHandler)

		r.Get("/waiter", a.waiterModalFrag)
		r.Post("/waiter/call", a.waiterCallHandler)
	})

	return r
}
