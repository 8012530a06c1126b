package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PricePrecision is the number of fractional digits kept for prices and totals.
const PricePrecision int32 = 2

// AvailabilityChecker reports whether a set of requirements can be met.
// *stock.Stock satisfies it.
type AvailabilityChecker interface {
	HasSufficient(reqs []Requirement) bool
}

// MenuItem is a catalog entry. It is a value type: once built its fields
// cannot change, and catalog identity is the name (see Key).
type MenuItem struct {
	id           int64
	name         string
	price        decimal.Decimal
	iconPath     string
	requirements []Requirement
}

// NewMenuItem validates and builds a catalog entry. The requirements are
// copied, and entries naming the same ingredient are folded into one with the
// summed quantity.
func NewMenuItem(id int64, name string, price decimal.Decimal, iconPath string, reqs []Requirement) (MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MenuItem{}, errors.New("menu item name cannot be empty")
	}
	if price.IsNegative() {
		return MenuItem{}, fmt.Errorf("menu item %s: price cannot be negative", name)
	}
	copied := make([]Requirement, 0, len(reqs))
	index := make(map[string]int, len(reqs))
	for _, r := range reqs {
		if r.Quantity.IsNegative() {
			return MenuItem{}, fmt.Errorf("menu item %s: %w: requirement %s", name, ErrInvalidQuantity, r.Name)
		}
		i, seen := index[r.Name]
		if !seen {
			index[r.Name] = len(copied)
			copied = append(copied, r)
			continue
		}
		prev := &copied[i]
		if prev.Unit != "" && r.Unit != "" && prev.Unit != r.Unit {
			return MenuItem{}, fmt.Errorf("menu item %s: requirement %s given in %q and %q", name, r.Name, prev.Unit, r.Unit)
		}
		if prev.Unit == "" {
			prev.Unit = r.Unit
		}
		prev.Quantity = prev.Quantity.Add(r.Quantity)
	}
	return MenuItem{
		id:           id,
		name:         name,
		price:        price.Round(PricePrecision),
		iconPath:     strings.TrimSpace(iconPath),
		requirements: copied,
	}, nil
}

// MustMenuItem is NewMenuItem for static catalogs; it panics on invalid input.
func MustMenuItem(id int64, name string, price decimal.Decimal, iconPath string, reqs []Requirement) MenuItem {
	m, err := NewMenuItem(id, name, price, iconPath, reqs)
	if err != nil {
		panic(err)
	}
	return m
}

func (m MenuItem) ID() int64              { return m.id }
func (m MenuItem) Name() string           { return m.name }
func (m MenuItem) Price() decimal.Decimal { return m.price }
func (m MenuItem) IconPath() string       { return m.iconPath }

// Key is the catalog identity of the entry.
func (m MenuItem) Key() string { return m.name }

// Requirements returns a copy of the ingredient list.
func (m MenuItem) Requirements() []Requirement {
	out := make([]Requirement, len(m.requirements))
	copy(out, m.requirements)
	return out
}

// WithID returns a copy carrying the persisted id.
func (m MenuItem) WithID(id int64) MenuItem {
	m.id = id
	m.requirements = m.Requirements()
	return m
}

// IsAvailable reports whether stock can currently fulfil one unit of the item.
func (m MenuItem) IsAvailable(checker AvailabilityChecker) bool {
	return checker.HasSufficient(m.requirements)
}

type menuItemJSON struct {
	ID           int64           `json:"id"`
	Name         string          `json:"nombre"`
	Price        decimal.Decimal `json:"precio"`
	IconPath     string          `json:"icono_path,omitempty"`
	Requirements []Requirement   `json:"ingredientes"`
}

func (m MenuItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(menuItemJSON{
		ID:           m.id,
		Name:         m.name,
		Price:        m.price,
		IconPath:     m.iconPath,
		Requirements: m.Requirements(),
	})
}

func (m *MenuItem) UnmarshalJSON(data []byte) error {
	var raw menuItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	item, err := NewMenuItem(raw.ID, raw.Name, raw.Price, raw.IconPath, raw.Requirements)
	if err != nil {
		return err
	}
	*m = item
	return nil
}
