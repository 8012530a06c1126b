// Package checkout derives the tax breakdown of a finished order and
// assembles the data a receipt renderer needs.
package checkout

import (
	"time"

	"restaurante/internal/pedido"
	"restaurante/models"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the inclusive IVA rate.
var DefaultTaxRate = decimal.RequireFromString("0.19")

// Breakdown splits a tax-inclusive total. Subtotal + Tax == Total always.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"iva"`
	Total    decimal.Decimal `json:"total"`
	Rate     decimal.Decimal `json:"tasa"`
}

// SplitTax computes subtotal = round(total/(1+rate), 2) and takes tax as the
// residual so the two parts add back to the total exactly. The total itself
// is first rounded to cents.
func SplitTax(total, rate decimal.Decimal) Breakdown {
	total = total.Round(models.PricePrecision)
	subtotal := total.Div(decimal.NewFromInt(1).Add(rate)).Round(models.PricePrecision)
	tax := total.Sub(subtotal).Round(models.PricePrecision)
	return Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
		Rate:     rate,
	}
}

// Receipt is everything a renderer prints.
type Receipt struct {
	OrderID       int64             `json:"pedido_id"`
	CustomerName  string            `json:"cliente"`
	CustomerEmail string            `json:"email"`
	IssuedAt      time.Time         `json:"fecha"`
	Lines         []pedido.LineItem `json:"items"`
	Breakdown
}

// NewReceipt assembles a receipt for a persisted order.
func NewReceipt(orderID int64, customer models.Customer, lines []pedido.LineItem, rate decimal.Decimal, at time.Time) Receipt {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	copied := make([]pedido.LineItem, len(lines))
	copy(copied, lines)
	return Receipt{
		OrderID:       orderID,
		CustomerName:  customer.FullName(),
		CustomerEmail: customer.Email,
		IssuedAt:      at,
		Lines:         copied,
		Breakdown:     SplitTax(total, rate),
	}
}

// PersistItems converts order lines into the rows stored in pedido_items.
func PersistItems(lines []pedido.LineItem) []models.OrderItem {
	out := make([]models.OrderItem, len(lines))
	for i, l := range lines {
		out[i] = models.OrderItem{
			MenuID:    l.MenuItemID,
			MenuName:  l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
	}
	return out
}

// LinesFromItems rebuilds receipt lines from persisted order items.
func LinesFromItems(items []models.OrderItem) []pedido.LineItem {
	out := make([]pedido.LineItem, len(items))
	for i, it := range items {
		out[i] = pedido.LineItem{
			Name:       it.MenuName,
			MenuItemID: it.MenuID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Subtotal:   it.Subtotal,
		}
	}
	return out
}
