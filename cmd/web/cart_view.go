package main

import (
	"net/http"

	"github.com/hadeerens/ember-bloom-menu/internal/cart"
	"github.com/hadeerens/ember-bloom-menu/internal/format"
	"github.com/hadeerens/ember-bloom-menu/internal/i18n"
	mw "github.com/hadeerens/ember-bloom-menu/internal/middleware"
)

// CartView drives the floating button and the drawer.
type CartView struct {
	L          *i18n.Localizer
	CSRF       string
	Lines      []CartLineView
	Empty      bool
	Count      int
	CountLabel string
	Total      string
}

// CartLineView is one resolved cart line.
type CartLineView struct {
	ID        string
	Name      string
	Image     string
	Quantity  int
	Inc       int
	Dec       int
	UnitPrice string
	LineTotal string
}

func (a *app) loadCart(r *http.Request) *cart.Store {
	return cart.Restore(a.catalog, mw.GetSession(r).Cart)
}

func (a *app) saveCart(r *http.Request, store *cart.Store) {
	mw.GetSession(r).SetCart(store.Entries())
}

func (a *app) buildCartView(loc *i18n.Localizer, csrf string, store *cart.Store) CartView {
	lang := loc.Lang()
	currency := a.catalog.Currency()
	lines := store.Lines()
	view := CartView{
		L:          loc,
		CSRF:       csrf,
		Lines:      make([]CartLineView, 0, len(lines)),
		Empty:      len(lines) == 0,
		Count:      store.TotalQuantity(),
		CountLabel: format.Count(store.TotalQuantity()),
		Total:      format.Currency(store.TotalPrice(), currency),
	}
	for _, l := range lines {
		inc := min(l.Quantity+1, cart.MaxQuantity)
		view.Lines = append(view.Lines, CartLineView{
			ID:        l.Item.ID,
			Name:      l.Item.Name.In(lang),
			Image:     l.Item.Image,
			Quantity:  l.Quantity,
			Inc:       inc,
			Dec:       l.Quantity - 1,
			UnitPrice: format.Currency(l.Item.Price, currency),
			LineTotal: format.Currency(l.LineTotal, currency),
		})
	}
	return view
}
