package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hadeerens/ember-bloom-menu/internal/i18n"
	mw "github.com/hadeerens/ember-bloom-menu/internal/middleware"
	"github.com/hadeerens/ember-bloom-menu/internal/observability"
	"github.com/hadeerens/ember-bloom-menu/internal/waiter"
)

// WaiterView is the call waiter modal.
type WaiterView struct {
	L         *i18n.Localizer
	CSRF      string
	Table     string
	MaxLength int
}

func (a *app) waiterModalFrag(w http.ResponseWriter, r *http.Request) {
	view := &WaiterView{
		L:         mw.LocalizerFrom(r.Context()),
		CSRF:      mw.CSRFToken(r),
		MaxLength: waiter.MaxTableLength,
	}
	if mw.IsHTMX(r.Context()) {
		a.render(w, r, http.StatusOK, "waiter_modal", view)
		return
	}
	page := a.buildPage(r)
	page.Waiter = view
	a.render(w, r, http.StatusOK, "base", page)
}

// waiterCallHandler validates the table number and notifies the staff.
func (a *app) waiterCallHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	logger := observability.FromContext(r.Context())

	call, err := a.waiter.Call(r.Context(), r.FormValue("table"), lang)
	switch {
	case errors.Is(err, waiter.ErrTableRequired):
		a.metrics.WaiterCall("invalid")
		a.fail(w, r, http.StatusUnprocessableEntity, "waiter.enterTable")
		return
	case errors.Is(err, waiter.ErrTableTooLong):
		a.metrics.WaiterCall("invalid")
		a.fail(w, r, http.StatusUnprocessableEntity, "waiter.tableTooLong")
		return
	case err != nil:
		a.metrics.WaiterCall("failed")
		logger.Error("waiter call failed", zap.Error(err))
		a.fail(w, r, http.StatusBadGateway, "waiter.failed")
		return
	}

	a.metrics.WaiterCall("notified")
	logger.Info("waiter called", zap.String("ticket", call.ID), zap.String("table", call.Table))

	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	loc := mw.LocalizerFrom(r.Context())
	events := mw.Events{"waiter:called": map[string]string{"ticket": call.ID}}
	mw.Trigger(w, events.Toast(mw.ToneSuccess, loc.T("waiter.called")))
	w.WriteHeader(http.StatusNoContent)
}
