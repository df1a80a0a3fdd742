// Package cart holds the per-session order selections.
package cart

import (
	"errors"
	"strings"

	"github.com/hadeerens/ember-bloom-menu/internal/catalog"
)

// MaxQuantity caps a single line.
const MaxQuantity = 99

var (
	// ErrUnknownItem is returned when an id does not resolve against the catalog.
	ErrUnknownItem = errors.New("cart: unknown item")
	// ErrQuantityLimit is returned when a line would exceed MaxQuantity.
	ErrQuantityLimit = errors.New("cart: quantity limit reached")
)

// Resolver looks items up by id. *catalog.Catalog satisfies it.
type Resolver interface {
	Lookup(id string) (catalog.MenuItem, bool)
}

// Entry is a raw (id, quantity) pair as stored in the session.
type Entry struct {
	ID       string `json:"id"`
	Quantity int    `json:"q"`
}

// Line is an entry resolved against the catalog.
type Line struct {
	Item      catalog.MenuItem
	Quantity  int
	LineTotal int64
}

// Store maps item ids to quantities of at least one. An id is present iff its
// quantity is positive. Not safe for concurrent use; one store serves one session.
type Store struct {
	resolver   Resolver
	quantities map[string]int
	order      []string
}

// NewStore returns an empty store. A nil resolver disables id validation.
func NewStore(resolver Resolver) *Store {
	return &Store{
		resolver:   resolver,
		quantities: map[string]int{},
	}
}

// Restore rebuilds a store from session entries. Entries with a non-positive
// quantity or a blank id are dropped; larger quantities are clamped to MaxQuantity.
func Restore(resolver Resolver, entries []Entry) *Store {
	s := NewStore(resolver)
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" || e.Quantity <= 0 {
			continue
		}
		s.put(id, min(e.Quantity, MaxQuantity))
	}
	return s
}

// Add inserts id with quantity 1, or increments an existing entry. A line
// already at MaxQuantity is left unchanged and ErrQuantityLimit is returned.
func (s *Store) Add(id string) error {
	if err := s.check(id); err != nil {
		return err
	}
	next := s.quantities[id] + 1
	if next > MaxQuantity {
		return ErrQuantityLimit
	}
	s.put(id, next)
	return nil
}

// SetQuantity overwrites the quantity for id. A quantity of zero or less
// removes it; one above MaxQuantity is rejected.
func (s *Store) SetQuantity(id string, quantity int) error {
	if quantity <= 0 {
		s.Remove(id)
		return nil
	}
	if quantity > MaxQuantity {
		return ErrQuantityLimit
	}
	if err := s.check(id); err != nil {
		return err
	}
	s.put(id, quantity)
	return nil
}

// Remove deletes id. Absent ids are ignored.
func (s *Store) Remove(id string) {
	if _, ok := s.quantities[id]; !ok {
		return
	}
	delete(s.quantities, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear empties the store.
func (s *Store) Clear() {
	s.quantities = map[string]int{}
	s.order = nil
}

// Quantity returns the stored quantity for id, zero when absent.
func (s *Store) Quantity(id string) int { return s.quantities[id] }

// Empty reports whether no entry resolves. Unresolvable entries are still
// kept in Entries.
func (s *Store) Empty() bool { return s.DistinctItems() == 0 }

// DistinctItems counts resolvable entries, not units.
func (s *Store) DistinctItems() int {
	n := 0
	for _, id := range s.order {
		if s.resolves(id) {
			n++
		}
	}
	return n
}

// TotalQuantity sums the quantity of every resolvable entry.
func (s *Store) TotalQuantity() int {
	total := 0
	for _, id := range s.order {
		if s.resolves(id) {
			total += s.quantities[id]
		}
	}
	return total
}

// TotalPrice sums price × quantity in minor units. Entries that no longer
// resolve contribute nothing.
func (s *Store) TotalPrice() int64 {
	var total int64
	for _, line := range s.Lines() {
		total += line.LineTotal
	}
	return total
}

// Lines resolves entries in insertion order, skipping unresolvable ids.
func (s *Store) Lines() []Line {
	if s.resolver == nil {
		return nil
	}
	lines := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		item, ok := s.resolver.Lookup(id)
		if !ok {
			continue
		}
		q := s.quantities[id]
		lines = append(lines, Line{Item: item, Quantity: q, LineTotal: item.Price * int64(q)})
	}
	return lines
}

// Entries snapshots the store in insertion order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Entry{ID: id, Quantity: s.quantities[id]})
	}
	return out
}

func (s *Store) check(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrUnknownItem
	}
	if s.resolver == nil {
		return nil
	}
	if _, ok := s.resolver.Lookup(id); !ok {
		return ErrUnknownItem
	}
	return nil
}

// resolves treats every id as known when no resolver is set.
func (s *Store) resolves(id string) bool {
	if s.resolver == nil {
		return true
	}
	_, ok := s.resolver.Lookup(id)
	return ok
}

func (s *Store) put(id string, quantity int) {
	if _, ok := s.quantities[id]; !ok {
		s.order = append(s.order, id)
	}
	s.quantities[id] = quantity
}
