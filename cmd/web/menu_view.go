package main

import (
	"html/template"
	"net/http"
	"time"

	"github.com/hadeerens/ember-bloom-menu/internal/catalog"
	"github.com/hadeerens/ember-bloom-menu/internal/content"
	"github.com/hadeerens/ember-bloom-menu/internal/format"
	"github.com/hadeerens/ember-bloom-menu/internal/i18n"
	mw "github.com/hadeerens/ember-bloom-menu/internal/middleware"
	"github.com/hadeerens/ember-bloom-menu/internal/nav"
	"github.com/hadeerens/ember-bloom-menu/internal/seo"
)

// PageData is the root view model of the single page.
type PageData struct {
	L         *i18n.Localizer
	Lang      string
	Dir       i18n.Direction
	OtherLang string
	LangURL   string
	CSRF      string
	Year      int

	SEO    seo.Meta
	JSONLD []template.JS

	Nav       []nav.RenderedItem
	MobileNav []nav.RenderedItem

	Menu     MenuView
	Cart     CartView
	CartOpen bool
	Product  *ProductView
	Waiter   *WaiterView

	About   *content.Section
	Contact *content.Section
}

// MenuView drives the filter form and the grid.
type MenuView struct {
	L               *i18n.Localizer
	Category        string
	Search          string
	Categories      []CategoryPill
	Items           []CardView
	Empty           bool
	Skeleton        bool
	SkeletonDelayMs int64
	SkeletonCards   []int
}

// CategoryPill is one category radio in the filter form.
type CategoryPill struct {
	ID     string
	Label  string
	Active bool
}

// CardView is a menu item localized for display.
type CardView struct {
	L             *i18n.Localizer
	CSRF          string
	ID            string
	Name          string
	Description   string
	Ingredients   []string
	Category      string
	CategoryLabel string
	Image         string
	Price         string
	Featured      bool
}

// ProductView is the detail modal.
type ProductView struct {
	L      *i18n.Localizer
	CSRF   string
	Item   CardView
	InCart int
}

func (a *app) cardView(loc *i18n.Localizer, csrf string, it catalog.MenuItem) CardView {
	lang := loc.Lang()
	return CardView{
		L:             loc,
		CSRF:          csrf,
		ID:            it.ID,
		Name:          it.Name.In(lang),
		Description:   it.Description.In(lang),
		Ingredients:   it.Ingredients.In(lang),
		Category:      string(it.Category),
		CategoryLabel: a.catalog.CategoryName(it.Category, lang),
		Image:         it.Image,
		Price:         format.Currency(it.Price, a.catalog.Currency()),
		Featured:      it.IsFeatured(),
	}
}

// buildMenuView filters the catalog. skeleton adds the placeholder cards shown
// on first paint.
func (a *app) buildMenuView(loc *i18n.Localizer, csrf string, criteria catalog.Criteria, skeleton bool) MenuView {
	lang := loc.Lang()
	active := criteria.Category
	if active == "" {
		active = catalog.CategoryAll
	}
	labels := a.catalog.Categories()
	pills := make([]CategoryPill, 0, len(labels))
	for _, label := range labels {
		pills = append(pills, CategoryPill{
			ID:     string(label.ID),
			Label:  label.Name.In(lang),
			Active: label.ID == active,
		})
	}

	items := a.catalog.View(criteria)
	cards := make([]CardView, 0, len(items))
	for _, it := range items {
		cards = append(cards, a.cardView(loc, csrf, it))
	}

	view := MenuView{
		L:          loc,
		Category:   string(active),
		Search:     criteria.Search,
		Categories: pills,
		Items:      cards,
		Empty:      len(cards) == 0,
	}
	if skeleton && a.cfg.Menu.SkeletonDelay > 0 && a.cfg.Menu.SkeletonCount > 0 {
		view.Skeleton = true
		view.SkeletonDelayMs = a.cfg.Menu.SkeletonDelay.Milliseconds()
		view.SkeletonCards = make([]int, a.cfg.Menu.SkeletonCount)
		for i := range view.SkeletonCards {
			view.SkeletonCards[i] = i
		}
	}
	return view
}

func criteriaFromRequest(r *http.Request) catalog.Criteria {
	q := r.URL.Query()
	return catalog.ParseCriteria(q.Get("category"), q.Get("q"))
}

// buildPage assembles the full page around the current menu filter and cart.
func (a *app) buildPage(r *http.Request) PageData {
	loc := mw.LocalizerFrom(r.Context())
	if loc == nil {
		loc = i18n.NewLocalizer(a.bundle, a.bundle.Fallback())
	}
	lang := loc.Lang()
	csrf := mw.CSRFToken(r)

	page := PageData{
		L:         loc,
		Lang:      lang,
		Dir:       loc.Dir(),
		OtherLang: loc.Other(),
		LangURL:   nav.LangURL(r.URL, loc.Other()),
		CSRF:      csrf,
		Year:      time.Now().Year(),
		Nav:       nav.Build(nav.Header),
		MobileNav: nav.Build(nav.Mobile),
		Menu:      a.buildMenuView(loc, csrf, criteriaFromRequest(r), true),
		Cart:      a.buildCartView(loc, csrf, a.loadCart(r)),
	}
	if s, err := a.content.Section("about", lang); err == nil {
		page.About = &s
	}
	if s, err := a.content.Section("contact", lang); err == nil {
		page.Contact = &s
	}

	brand := loc.T("brand.name")
	base := baseURL(r)
	page.SEO = seo.Meta{
		Title:       brand + " | " + loc.T("menu.title"),
		Description: loc.T("hero.subtitle"),
		Canonical:   base + "/?hl=" + lang,
	}
	page.SEO.OG = seo.OpenGraph{
		Title:       page.SEO.Title,
		Description: page.SEO.Description,
		Type:        "restaurant",
		Locale:      seo.OGLocale(lang),
	}
	for _, l := range a.bundle.Supported() {
		page.SEO.Alternates = append(page.SEO.Alternates, seo.Alternate{Lang: l, Href: base + "/?hl=" + l})
	}
	var phone, address string
	if page.Contact != nil {
		phone, address = page.Contact.Phone, page.Contact.Address
	}
	page.JSONLD = []template.JS{
		seo.JSON(seo.Restaurant(brand, base+"/", phone, address)),
		seo.JSON(seo.Menu(a.catalog, lang)),
	}
	return page
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
