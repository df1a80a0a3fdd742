package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/hadeerens/ember-bloom-menu/internal/middleware"
	"github.com/hadeerens/ember-bloom-menu/internal/nav"
)

// homeHandler renders the whole page. ?cart=open shows the drawer.
func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	page := a.buildPage(r)
	page.CartOpen = r.URL.Query().Get("cart") == "open"
	a.render(w, r, http.StatusOK, "base", page)
}

// menuGridFrag renders the filtered grid and records the view in the URL.
func (a *app) menuGridFrag(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromRequest(r)
	share := nav.MenuURL("/", string(criteria.Category), criteria.Search)
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, share, http.StatusSeeOther)
		return
	}
	mw.PushURL(w, share)
	loc := mw.LocalizerFrom(r.Context())
	a.render(w, r, http.StatusOK, "menu_grid", a.buildMenuView(loc, mw.CSRFToken(r), criteria, false))
}

// productModalFrag renders the detail modal, or the page with the modal open
// for plain navigation.
func (a *app) productModalFrag(w http.ResponseWriter, r *http.Request) {
	item, ok := a.catalog.Lookup(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, r, http.StatusNotFound, "cart.unknownItem")
		return
	}
	loc := mw.LocalizerFrom(r.Context())
	csrf := mw.CSRFToken(r)
	view := &ProductView{
		L:      loc,
		CSRF:   csrf,
		Item:   a.cardView(loc, csrf, item),
		InCart: a.loadCart(r).Quantity(item.ID),
	}
	if mw.IsHTMX(r.Context()) {
		a.render(w, r, http.StatusOK, "product_modal", view)
		return
	}
	page := a.buildPage(r)
	page.Product = view
	a.render(w, r, http.StatusOK, "base", page)
}
