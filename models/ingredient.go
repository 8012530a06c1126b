package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// QuantityPrecision is the number of fractional digits kept for ingredient
// quantities. It matches the DECIMAL(10,2) columns in the ingredientes table.
const QuantityPrecision int32 = 2

// ErrInvalidQuantity is returned when a quantity cannot be parsed as a
// non-negative decimal.
var ErrInvalidQuantity = errors.New("invalid quantity")

// Ingredient is one stock-keeping unit held by the stock ledger.
type Ingredient struct {
	ID       int64           `json:"id,omitempty" db:"id"`
	Name     string          `json:"nombre" db:"nombre"`
	Unit     string          `json:"unidad,omitempty" db:"unidad"` // empty when the record has no unit
	Quantity decimal.Decimal `json:"cantidad" db:"cantidad"`
}

// NewIngredient parses quantity and builds an ingredient with the quantity
// normalized to QuantityPrecision.
func NewIngredient(name, unit, quantity string) (Ingredient, error) {
	q, err := ParseQuantity(quantity)
	if err != nil {
		return Ingredient{}, err
	}
	return NewIngredientDecimal(name, unit, q)
}

// NewIngredientDecimal builds an ingredient from an already parsed quantity.
func NewIngredientDecimal(name, unit string, quantity decimal.Decimal) (Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, errors.New("ingredient name cannot be empty")
	}
	if quantity.IsNegative() {
		return Ingredient{}, fmt.Errorf("%w: %s is negative", ErrInvalidQuantity, quantity.String())
	}
	return Ingredient{
		Name:     name,
		Unit:     strings.TrimSpace(unit),
		Quantity: NormalizeQuantity(quantity),
	}, nil
}

// ParseQuantity parses a user supplied quantity. Decimal commas are accepted.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidQuantity)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}
	if q.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidQuantity, raw)
	}
	return NormalizeQuantity(q), nil
}

// NormalizeQuantity rounds q to the canonical precision.
func NormalizeQuantity(q decimal.Decimal) decimal.Decimal {
	return q.Round(QuantityPrecision)
}

// String renders "<name> x <quantity> <unit>".
func (i Ingredient) String() string {
	if i.Unit == "" {
		return fmt.Sprintf("%s x %s", i.Name, i.Quantity.StringFixed(QuantityPrecision))
	}
	return fmt.Sprintf("%s x %s %s", i.Name, i.Quantity.StringFixed(QuantityPrecision), i.Unit)
}

// Requirement is one ingredient a menu item consumes per unit sold.
type Requirement struct {
	Name     string          `json:"nombre"`
	Unit     string          `json:"unidad,omitempty"` // empty matches any stock unit
	Quantity decimal.Decimal `json:"cantidad"`
}

// NewRequirement builds a requirement, rejecting negative quantities.
func NewRequirement(name, unit string, quantity decimal.Decimal) (Requirement, error) {
	if strings.TrimSpace(name) == "" {
		return Requirement{}, errors.New("requirement name cannot be empty")
	}
	if quantity.IsNegative() {
		return Requirement{}, fmt.Errorf("%w: requirement %s is negative", ErrInvalidQuantity, name)
	}
	return Requirement{
		Name:     strings.TrimSpace(name),
		Unit:     strings.TrimSpace(unit),
		Quantity: NormalizeQuantity(quantity),
	}, nil
}

// Times scales a requirement list by n, used when returning several units of
// an order line at once.
func Times(reqs []Requirement, n int) []Requirement {
	out := make([]Requirement, len(reqs))
	factor := decimal.NewFromInt(int64(n))
	for i, r := range reqs {
		out[i] = Requirement{Name: r.Name, Unit: r.Unit, Quantity: r.Quantity.Mul(factor)}
	}
	return out
}
