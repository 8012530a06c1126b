// Package pedido aggregates menu selections for one checkout into
// quantity-counted order lines.
package pedido

import (
	"sort"

	"restaurante/models"

	"github.com/shopspring/decimal"
)

// Line is one order entry: the catalog item as it was when first added and
// how many of it the customer wants. Quantity is always >= 1.
type Line struct {
	Item     models.MenuItem
	Quantity int
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineItem is the display snapshot of a line.
type LineItem struct {
	Name       string          `json:"nombre"`
	MenuItemID int64           `json:"menu_id"`
	Quantity   int             `json:"cantidad"`
	UnitPrice  decimal.Decimal `json:"precio_unitario"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Pedido is keyed by menu item name. It is not safe for concurrent use; the
// owning session serializes access.
type Pedido struct {
	lines map[string]Line
}

func New() *Pedido {
	return &Pedido{lines: make(map[string]Line)}
}

// AddItem increments the line for item, creating it with quantity 1 when
// absent. An existing line keeps the item (and price) it was created with.
func (p *Pedido) AddItem(item models.MenuItem) {
	if line, ok := p.lines[item.Key()]; ok {
		line.Quantity++
		p.lines[item.Key()] = line
		return
	}
	p.lines[item.Key()] = Line{Item: item, Quantity: 1}
}

// RemoveItem decrements the named line, deleting it when it reaches zero.
// It returns false when no such line exists.
func (p *Pedido) RemoveItem(name string) bool {
	line, ok := p.lines[name]
	if !ok {
		return false
	}
	if line.Quantity > 1 {
		line.Quantity--
		p.lines[name] = line
		return true
	}
	delete(p.lines, name)
	return true
}

// Line returns the named line.
func (p *Pedido) Line(name string) (Line, bool) {
	line, ok := p.lines[name]
	return line, ok
}

// Quantity returns how many of name are in the order, 0 if none.
func (p *Pedido) Quantity(name string) int {
	return p.lines[name].Quantity
}

// Lines returns every line sorted by name.
func (p *Pedido) Lines() []Line {
	out := make([]Line, 0, len(p.lines))
	for _, line := range p.lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.Name() < out[j].Item.Name() })
	return out
}

// LineItems returns the display snapshot sorted by name.
func (p *Pedido) LineItems() []LineItem {
	lines := p.Lines()
	out := make([]LineItem, len(lines))
	for i, line := range lines {
		out[i] = LineItem{
			Name:       line.Item.Name(),
			MenuItemID: line.Item.ID(),
			Quantity:   line.Quantity,
			UnitPrice:  line.Item.Price(),
			Subtotal:   line.Subtotal(),
		}
	}
	return out
}

// Total sums unit price times quantity over all lines. Zero when empty.
func (p *Pedido) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (p *Pedido) Len() int { return len(p.lines) }

func (p *Pedido) IsEmpty() bool { return len(p.lines) == 0 }

// Reset drops every line.
func (p *Pedido) Reset() {
	p.lines = make(map[string]Line)
}
