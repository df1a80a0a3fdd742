package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/menu.yaml
var defaultMenu []byte

// ErrInvalidCatalog wraps every validation failure raised by Load.
var ErrInvalidCatalog = errors.New("catalog: invalid data")

// MaxPrice is the largest accepted price in major units. It keeps minor-unit
// totals for a full cart well inside int64.
const MaxPrice = 1_000_000

// Catalog is the immutable list of menu items loaded at startup.
type Catalog struct {
	version    int
	currency   string
	items      []MenuItem
	index      map[string]int
	categories []CategoryLabel
}

type catalogFile struct {
	Version    int            `yaml:"version"`
	Currency   string         `yaml:"currency"`
	Categories []categoryFile `yaml:"categories"`
	Items      []itemFile     `yaml:"items"`
}

type categoryFile struct {
	ID   string `yaml:"id"`
	Name Text   `yaml:"name"`
}

type itemFile struct {
	ID          string  `yaml:"id"`
	Name        Text    `yaml:"name"`
	Description Text    `yaml:"description"`
	Ingredients List    `yaml:"ingredients"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	Image       string  `yaml:"image"`
	Featured    *bool   `yaml:"featured"`
}

// LoadDefault parses the menu compiled into the binary.
func LoadDefault() (*Catalog, error) {
	return Load(bytes.NewReader(defaultMenu))
}

// Load parses and validates a YAML menu document.
func Load(r io.Reader) (*Catalog, error) {
	var raw catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		version:  raw.Version,
		currency: strings.ToUpper(strings.TrimSpace(raw.Currency)),
		index:    make(map[string]int, len(raw.Items)),
	}
	if c.currency == "" {
		c.currency = "USD"
	}

	for i, it := range raw.Items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: item %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate item id %q", ErrInvalidCatalog, id)
		}
		cat := Category(strings.TrimSpace(it.Category))
		if !cat.Valid() {
			return nil, fmt.Errorf("%w: item %q has unknown category %q", ErrInvalidCatalog, id, it.Category)
		}
		if it.Price < 0 || it.Price > MaxPrice || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			return nil, fmt.Errorf("%w: item %q has invalid price %v", ErrInvalidCatalog, id, it.Price)
		}
		if strings.TrimSpace(it.Name.EN) == "" || strings.TrimSpace(it.Name.AR) == "" {
			return nil, fmt.Errorf("%w: item %q needs a name in every language", ErrInvalidCatalog, id)
		}
		item := MenuItem{
			ID:          id,
			Name:        it.Name,
			Description: it.Description,
			Ingredients: it.Ingredients,
			Price:       int64(math.Round(it.Price * 100)),
			Category:    cat,
			Image:       strings.TrimSpace(it.Image),
		}
		if it.Featured != nil {
			item.Featured = Some(*it.Featured)
		}
		c.index[id] = len(c.items)
		c.items = append(c.items, item)
	}

	seen := map[Category]struct{}{}
	for _, cf := range raw.Categories {
		id := Category(strings.TrimSpace(cf.ID))
		if id != CategoryAll && !id.Valid() {
			return nil, fmt.Errorf("%w: unknown category label %q", ErrInvalidCatalog, cf.ID)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate category label %q", ErrInvalidCatalog, cf.ID)
		}
		seen[id] = struct{}{}
		c.categories = append(c.categories, CategoryLabel{ID: id, Name: cf.Name})
	}
	return c, nil
}

// Version is the data file version.
func (c *Catalog) Version() int { return c.version }

// Currency is the ISO code all prices are expressed in.
func (c *Catalog) Currency() string { return c.currency }

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Items returns a copy of every item in catalog order.
func (c *Catalog) Items() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup resolves an item by id.
func (c *Catalog) Lookup(id string) (MenuItem, bool) {
	if c == nil {
		return MenuItem{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return MenuItem{}, false
	}
	return c.items[i], true
}

// Categories returns the category labels, "all" first when present.
func (c *Catalog) Categories() []CategoryLabel {
	out := make([]CategoryLabel, len(c.categories))
	copy(out, c.categories)
	return out
}

// CategoryName returns the label for id in lang, or the raw id.
func (c *Catalog) CategoryName(id Category, lang string) string {
	for _, cl := range c.categories {
		if cl.ID == id {
			return cl.Name.In(lang)
		}
	}
	return string(id)
}

// Featured returns the items flagged as featured, in catalog order.
func (c *Catalog) Featured() []MenuItem {
	var out []MenuItem
	for _, it := range c.items {
		if it.IsFeatured() {
			out = append(out, it)
		}
	}
	return out
}

// View returns the items matching criteria in catalog order.
func (c *Catalog) View(criteria Criteria) []MenuItem {
	return Filter(c.items, criteria)
}
