// Package checkout turns a cart into a WhatsApp order message and deep link.
package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hadeerens/ember-bloom-menu/internal/cart"
	"github.com/hadeerens/ember-bloom-menu/internal/format"
)

// DefaultBaseURL is the WhatsApp click-to-chat endpoint.
const DefaultBaseURL = "https://wa.me/"

// ErrEmptyCart is returned when there is nothing to order.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Translator resolves message keys. *i18n.Bundle satisfies it.
type Translator interface {
	T(lang, key string) string
}

// Order is a formatted order ready to hand to the browser.
type Order struct {
	Message string
	URL     string
	Items   int
	Total   int64
}

// Formatter builds orders for one destination contact.
type Formatter struct {
	BaseURL    string
	Contact    string
	Translator Translator
}

// Build formats the store contents. The store is not modified.
func (f Formatter) Build(store *cart.Store, lang string) (Order, error) {
	if store == nil || store.Empty() {
		return Order{}, ErrEmptyCart
	}
	lines := store.Lines()
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}
	msg := Message(lines, lang, f.Translator)
	var total int64
	qty := 0
	for _, l := range lines {
		total += l.LineTotal
		qty += l.Quantity
	}
	base := f.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return Order{
		Message: msg,
		URL:     linkWith(base, f.Contact, msg),
		Items:   qty,
		Total:   total,
	}, nil
}

// Build is Formatter.Build against the default WhatsApp endpoint.
func Build(store *cart.Store, lang, contact string, tr Translator) (Order, error) {
	return Formatter{BaseURL: DefaultBaseURL, Contact: contact, Translator: tr}.Build(store, lang)
}

// Message renders the order text:
//
//	🍽️ New Order:
//
//	• Truffle Arancini x2 - $36.00
//
//	Total: $36.00
func Message(lines []cart.Line, lang string, tr Translator) string {
	var b strings.Builder
	b.WriteString(tr.T(lang, "order.header"))
	b.WriteString("\n\n")

	var total int64
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s x%d - $%s\n", l.Item.Name.In(lang), l.Quantity, format.Decimal(l.LineTotal))
		total += l.LineTotal
	}
	fmt.Fprintf(&b, "\n%s: $%s", tr.T(lang, "cart.total"), format.Decimal(total))
	return b.String()
}

// Link returns the click-to-chat URL carrying message.
func Link(contact, message string) string {
	return linkWith(DefaultBaseURL, contact, message)
}

func linkWith(base, contact, message string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + contact + "?text=" + encodeURIComponent(message)
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent escapes every byte except A-Z a-z 0-9 and -_.!~*'().
// url.QueryEscape differs: it writes spaces as "+" and escapes !*'().
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
