// Package session holds the state one operator works against: the stock
// ledger and the order being built.
package session

import (
	"errors"
	"sort"
	"sync"

	"restaurante/internal/pedido"
	"restaurante/internal/stock"
	"restaurante/models"

	"github.com/shopspring/decimal"
)

// ErrEmptyOrder is returned when checking out an order with no lines.
var ErrEmptyOrder = errors.New("order has no items")

// Snapshot is a consistent view of the current order.
type Snapshot struct {
	Lines []pedido.LineItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// Session owns one Stock and one Pedido and keeps them in step: every unit
// in the order has its ingredients reserved in the stock.
type Session struct {
	mu     sync.Mutex
	stock  *stock.Stock
	pedido *pedido.Pedido
}

func New(st *stock.Stock) *Session {
	return &Session{stock: st, pedido: pedido.New()}
}

// Stock returns the ledger shared with the rest of the application.
func (s *Session) Stock() *stock.Stock { return s.stock }

// AddItem reserves one unit of item's ingredients and adds it to the order.
// When stock is short the order is left untouched and the returned error
// wraps stock.ErrInsufficientStock.
func (s *Session) AddItem(item models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stock.TryReserve(item.Requirements()); err != nil {
		return err
	}
	s.pedido.AddItem(item)
	return nil
}

// RemoveItem takes one unit of name out of the order and returns its
// ingredients to stock. It returns false when the order has no such line.
func (s *Session) RemoveItem(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.pedido.Line(name)
	if !ok {
		return false
	}
	s.pedido.RemoveItem(name)
	s.stock.Return(line.Item.Requirements())
	return true
}

// Reset discards the order and returns everything it had reserved.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.pedido.Lines() {
		s.stock.Return(models.Times(line.Item.Requirements(), line.Quantity))
	}
	s.pedido.Reset()
}

// Snapshot returns the current lines and total.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Lines: s.pedido.LineItems(), Total: s.pedido.Total()}
}

// Checkout hands the current order to commit while holding the session. When
// commit succeeds the order is cleared and its reservations become final;
// when it fails the order and stock are left as they were.
//
// consumed lists the stock records of every ingredient the order uses, with
// their current quantities, so commit can persist them.
func (s *Session) Checkout(commit func(snap Snapshot, consumed []models.Ingredient) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pedido.IsEmpty() {
		return ErrEmptyOrder
	}
	snap := Snapshot{Lines: s.pedido.LineItems(), Total: s.pedido.Total()}
	if err := commit(snap, s.consumedLocked()); err != nil {
		return err
	}
	s.pedido.Reset()
	return nil
}

func (s *Session) consumedLocked() []models.Ingredient {
	seen := make(map[string]bool)
	var out []models.Ingredient
	for _, line := range s.pedido.Lines() {
		for _, r := range line.Item.Requirements() {
			if seen[r.Name] {
				continue
			}
			seen[r.Name] = true
			if ing, ok := s.stock.Get(r.Name); ok {
				out = append(out, ing)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
