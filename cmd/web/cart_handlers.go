package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hadeerens/ember-bloom-menu/internal/cart"
	"github.com/hadeerens/ember-bloom-menu/internal/checkout"
	"github.com/hadeerens/ember-bloom-menu/internal/format"
	mw "github.com/hadeerens/ember-bloom-menu/internal/middleware"
	"github.com/hadeerens/ember-bloom-menu/internal/observability"
)

// cartDrawerFrag renders the drawer. Without htmx the page is shown with the
// drawer open.
func (a *app) cartDrawerFrag(w http.ResponseWriter, r *http.Request) {
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/?cart=open", http.StatusSeeOther)
		return
	}
	loc := mw.LocalizerFrom(r.Context())
	a.render(w, r, http.StatusOK, "cart_drawer", a.buildCartView(loc, mw.CSRFToken(r), a.loadCart(r)))
}

// cartAddHandler adds one unit of an item.
func (a *app) cartAddHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	store := a.loadCart(r)
	if err := store.Add(id); err != nil {
		a.cartError(w, r, err)
		return
	}
	a.saveCart(r, store)
	loc := mw.LocalizerFrom(r.Context())
	a.cartResponse(w, r, store, "add", mw.Events{}.Toast(mw.ToneSuccess, loc.T("cart.added")))
}

// cartQuantityHandler overwrites the quantity of a line. Zero removes it.
func (a *app) cartQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	qty, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || qty > cart.MaxQuantity {
		a.fail(w, r, http.StatusUnprocessableEntity, "cart.invalidQuantity")
		return
	}
	store := a.loadCart(r)
	if err := store.SetQuantity(id, qty); err != nil {
		a.cartError(w, r, err)
		return
	}
	a.saveCart(r, store)
	a.cartResponse(w, r, store, "set_quantity", mw.Events{})
}

// cartRemoveHandler drops a line. Removing an absent line succeeds.
func (a *app) cartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	store := a.loadCart(r)
	store.Remove(chi.URLParam(r, "id"))
	a.saveCart(r, store)
	a.cartResponse(w, r, store, "remove", mw.Events{})
}

func (a *app) cartClearHandler(w http.ResponseWriter, r *http.Request) {
	store := a.loadCart(r)
	store.Clear()
	a.saveCart(r, store)
	loc := mw.LocalizerFrom(r.Context())
	a.cartResponse(w, r, store, "clear", mw.Events{}.Toast(mw.ToneInfo, loc.T("cart.cleared")))
}

// checkoutHandler builds the WhatsApp link. The cart is kept so the order can
// be sent again.
func (a *app) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	order, err := a.checkout.Build(a.loadCart(r), lang)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			a.fail(w, r, http.StatusUnprocessableEntity, "cart.checkoutEmpty")
			return
		}
		observability.FromContext(r.Context()).Error("checkout failed", zap.Error(err))
		a.fail(w, r, http.StatusInternalServerError, "error.generic")
		return
	}
	a.metrics.CheckoutLink(lang)
	observability.FromContext(r.Context()).Info("checkout link built",
		zap.String("lang", lang),
		zap.Int("items", order.Items),
		zap.Int64("total_minor", order.Total),
	)

	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, order.URL, http.StatusSeeOther)
		return
	}
	mw.Trigger(w, mw.Events{"checkout:open": map[string]string{"url": order.URL}})
	w.WriteHeader(http.StatusNoContent)
}

// cartResponse answers a successful mutation with the refreshed drawer and
// the new badge count.
func (a *app) cartResponse(w http.ResponseWriter, r *http.Request, store *cart.Store, action string, events mw.Events) {
	a.metrics.CartMutation(action)
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/?cart=open", http.StatusSeeOther)
		return
	}
	events["cart:updated"] = map[string]any{
		"count": store.TotalQuantity(),
		"label": format.Count(store.TotalQuantity()),
	}
	mw.Trigger(w, events)
	loc := mw.LocalizerFrom(r.Context())
	a.render(w, r, http.StatusOK, "cart_drawer", a.buildCartView(loc, mw.CSRFToken(r), store))
}

func (a *app) cartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrUnknownItem):
		a.fail(w, r, http.StatusNotFound, "cart.unknownItem")
		return
	case errors.Is(err, cart.ErrQuantityLimit):
		a.fail(w, r, http.StatusUnprocessableEntity, "cart.limitReached")
		return
	}
	observability.FromContext(r.Context()).Error("cart mutation failed", zap.Error(err))
	a.fail(w, r, http.StatusInternalServerError, "error.generic")
}

// fail reports a localized error: a toast for htmx plus the status and message
// in the body.
func (a *app) fail(w http.ResponseWriter, r *http.Request, status int, key string) {
	msg := a.bundle.T(mw.Lang(r), key)
	if mw.IsHTMX(r.Context()) {
		mw.Trigger(w, mw.Events{}.Toast(mw.ToneError, msg))
	}
	mw.WriteError(w, r, status, msg)
}
