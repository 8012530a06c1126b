// Package stock is the in-memory ingredient ledger: availability checks and
// reservation of ingredient quantities for order lines.
package stock

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientStock matches any *InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnitMismatch is returned by Add in strict mode when the incoming unit
	// differs from the unit already on record.
	ErrUnitMismatch = errors.New("unit mismatch")
)

// Shortage reasons.
const (
	ReasonMissing      = "missing"
	ReasonInsufficient = "insufficient"
	ReasonUnitMismatch = "unit_mismatch"
)

// Shortage describes one requirement the ledger cannot meet.
type Shortage struct {
	Name      string          `json:"nombre"`
	Unit      string          `json:"unidad,omitempty"`
	Required  decimal.Decimal `json:"requerido"`
	Available decimal.Decimal `json:"disponible"`
	Missing   decimal.Decimal `json:"faltante"`
	Reason    string          `json:"motivo"`
}

func (s Shortage) String() string {
	switch s.Reason {
	case ReasonMissing:
		return fmt.Sprintf("%s: not in stock (need %s)", s.Name, s.Required.String())
	case ReasonUnitMismatch:
		return fmt.Sprintf("%s: unit %q does not match stock", s.Name, s.Unit)
	default:
		return fmt.Sprintf("%s: need %s, have %s (short %s)",
			s.Name, s.Required.String(), s.Available.String(), s.Missing.String())
	}
}

// InsufficientStockError lists every requirement that failed.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortages) == 0 {
		// empty ledger, empty requirement list
		return "insufficient stock: stock is empty"
	}
	parts := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		parts[i] = s.String()
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Option configures a Stock.
type Option func(*Stock)

// WithLenientUnits makes Add accept a unit mismatch: a warning is logged and
// the quantity is summed under the unit already on record.
func WithLenientUnits() Option {
	return func(s *Stock) { s.lenientUnits = true }
}

// WithLogger sets the logger used for merge warnings.
func WithLogger(l *logger.Logger) Option {
	return func(s *Stock) { s.logger = l.WithComponent("stock") }
}

// Stock maps ingredient name to its record. At most one record per name.
type Stock struct {
	mu           sync.RWMutex
	items        map[string]*models.Ingredient
	lenientUnits bool
	logger       *logger.Logger
}

func New(opts ...Option) *Stock {
	s := &Stock{items: make(map[string]*models.Ingredient)}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	return s
}

// Load replaces the ledger contents. Duplicate names are merged with Add
// semantics. On error the previous contents are kept.
func (s *Stock) Load(ings []models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, err := s.stage(nil, ings)
	if err != nil {
		return err
	}
	items := make(map[string]*models.Ingredient, len(staged))
	for name, rec := range staged {
		rec := rec
		items[name] = &rec
	}
	s.items = items
	return nil
}

// Add inserts ing, or merges its quantity into the existing record of the
// same name.
func (s *Stock) Add(ing models.Ingredient) error {
	_, err := s.Merge([]models.Ingredient{ing})
	return err
}

// Merge applies Add to every ingredient as one step: if any of them is
// rejected nothing changes. It returns the resulting records of every name
// touched, sorted by name.
func (s *Stock) Merge(ings []models.Ingredient) ([]models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, err := s.stage(s.items, ings)
	if err != nil {
		return nil, err
	}
	out := make([]models.Ingredient, 0, len(staged))
	for name, rec := range staged {
		rec := rec
		s.items[name] = &rec
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// stage computes the records that merging ings into base would produce
// without touching base.
func (s *Stock) stage(base map[string]*models.Ingredient, ings []models.Ingredient) (map[string]models.Ingredient, error) {
	staged := make(map[string]models.Ingredient, len(ings))
	for _, ing := range ings {
		if ing.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: %s has negative quantity", models.ErrInvalidQuantity, ing.Name)
		}

		cur, ok := staged[ing.Name]
		if !ok {
			if existing, found := base[ing.Name]; found {
				cur, ok = *existing, true
			}
		}
		if !ok {
			rec := ing
			rec.Quantity = models.NormalizeQuantity(ing.Quantity)
			staged[ing.Name] = rec
			continue
		}

		if cur.Unit != ing.Unit {
			if !s.lenientUnits {
				return nil, fmt.Errorf("%w: %s is stocked in %q, got %q", ErrUnitMismatch, ing.Name, cur.Unit, ing.Unit)
			}
			s.logger.Warn("Unit mismatch on stock merge, keeping existing unit",
				"ingredient", ing.Name, "existing_unit", cur.Unit, "incoming_unit", ing.Unit)
		}
		cur.Quantity = models.NormalizeQuantity(cur.Quantity.Add(ing.Quantity))
		staged[ing.Name] = cur
	}
	return staged, nil
}

// Remove deletes the named ingredient. Absent names are ignored.
func (s *Stock) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, name)
}

// HasSufficient reports whether every requirement can be met. It is false for
// an empty ledger and stops at the first failing requirement.
func (s *Stock) HasSufficient(reqs []models.Requirement) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasSufficientLocked(reqs)
}

func (s *Stock) hasSufficientLocked(reqs []models.Requirement) bool {
	if len(s.items) == 0 {
		return false
	}
	for _, r := range s.demandLocked(reqs) {
		ing, ok := s.items[r.Name]
		if !ok {
			return false
		}
		if r.Unit != "" && r.Unit != ing.Unit {
			return false
		}
		if ing.Quantity.LessThan(r.Quantity) {
			return false
		}
	}
	return true
}

// Shortages lists every requirement that cannot be met, without stopping at
// the first one.
func (s *Stock) Shortages(reqs []models.Requirement) []Shortage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shortagesLocked(reqs)
}

func (s *Stock) shortagesLocked(reqs []models.Requirement) []Shortage {
	var out []Shortage
	for _, r := range s.demandLocked(reqs) {
		ing, ok := s.items[r.Name]
		switch {
		case !ok:
			out = append(out, Shortage{
				Name: r.Name, Unit: r.Unit, Required: r.Quantity,
				Available: decimal.Zero, Missing: r.Quantity, Reason: ReasonMissing,
			})
		case r.Unit != "" && r.Unit != ing.Unit:
			out = append(out, Shortage{
				Name: r.Name, Unit: r.Unit, Required: r.Quantity,
				Available: ing.Quantity, Missing: r.Quantity, Reason: ReasonUnitMismatch,
			})
		case ing.Quantity.LessThan(r.Quantity):
			out = append(out, Shortage{
				Name: r.Name, Unit: ing.Unit, Required: r.Quantity,
				Available: ing.Quantity, Missing: r.Quantity.Sub(ing.Quantity), Reason: ReasonInsufficient,
			})
		}
	}
	return out
}

// demandLocked folds requirements naming the same ingredient into one entry
// with the summed quantity, in first-seen order. Of the units given for a
// name, one that disagrees with stock wins so the mismatch is reported.
func (s *Stock) demandLocked(reqs []models.Requirement) []models.Requirement {
	out := make([]models.Requirement, 0, len(reqs))
	index := make(map[string]int, len(reqs))
	for _, r := range reqs {
		i, seen := index[r.Name]
		if !seen {
			index[r.Name] = len(out)
			out = append(out, r)
			continue
		}
		out[i].Quantity = out[i].Quantity.Add(r.Quantity)
		if r.Unit == "" {
			continue
		}
		ing, stocked := s.items[r.Name]
		if out[i].Unit == "" || (stocked && out[i].Unit == ing.Unit) {
			out[i].Unit = r.Unit
		}
	}
	return out
}

// Reserve decrements stock for each requirement without checking bounds.
// Callers must have checked HasSufficient first; TryReserve does both
// atomically. Requirements naming unknown ingredients are skipped.
func (s *Stock) Reserve(reqs []models.Requirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(reqs, -1)
}

// TryReserve checks and reserves under one lock. On failure nothing is
// changed and an *InsufficientStockError is returned.
func (s *Stock) TryReserve(reqs []models.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSufficientLocked(reqs) {
		return &InsufficientStockError{Shortages: s.shortagesLocked(reqs)}
	}
	s.applyLocked(reqs, -1)
	return nil
}

// Return adds the given quantities back. It is the inverse of Reserve.
func (s *Stock) Return(reqs []models.Requirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(reqs, 1)
}

func (s *Stock) applyLocked(reqs []models.Requirement, sign int64) {
	for _, r := range reqs {
		ing, ok := s.items[r.Name]
		if !ok {
			continue
		}
		delta := r.Quantity.Mul(decimal.NewFromInt(sign))
		ing.Quantity = models.NormalizeQuantity(ing.Quantity.Add(delta))
	}
}

// UpdateQuantity sets the absolute quantity of name. It returns false when the
// ingredient is not stocked.
func (s *Stock) UpdateQuantity(name string, quantity decimal.Decimal) bool {
	_, ok := s.SwapQuantity(name, quantity)
	return ok
}

// SwapQuantity sets the quantity of name and returns the one it replaced.
func (s *Stock) SwapQuantity(name string, quantity decimal.Decimal) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing, ok := s.items[name]
	if !ok {
		return decimal.Zero, false
	}
	previous := ing.Quantity
	ing.Quantity = models.NormalizeQuantity(quantity)
	return previous, true
}

// Adjust adds delta (which may be negative) to the quantity of name.
func (s *Stock) Adjust(name string, delta decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing, ok := s.items[name]
	if !ok {
		return false
	}
	ing.Quantity = models.NormalizeQuantity(ing.Quantity.Add(delta))
	return true
}

// Get returns a copy of the named record.
func (s *Stock) Get(name string) (models.Ingredient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, ok := s.items[name]
	if !ok {
		return models.Ingredient{}, false
	}
	return *ing, true
}

// All returns a snapshot of every record, sorted by name.
func (s *Stock) All() []models.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Ingredient, 0, len(s.items))
	for _, ing := range s.items {
		out = append(out, *ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Stock) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
