package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses stored in pedidos.estado.
const (
	OrderStatusPending   = "pendiente"
	OrderStatusCompleted = "completado"
)

// Delivery types stored in pedidos.tipo_entrega.
const (
	DeliveryLocal = "local"
)

// Receipt statuses stored in boletas.estado.
const (
	ReceiptStatusGenerated = "generada"
	ReceiptStatusVoided    = "anulada"
)

type Customer struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"nombre" db:"nombre"`
	LastName  string `json:"apellido" db:"apellido"`
	Email     string `json:"email" db:"email"`
}

// FullName is the name printed on receipts.
func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Order is a checked-out pedido as persisted.
type Order struct {
	ID           int64           `json:"id" db:"id"`
	CustomerID   int64           `json:"cliente_id" db:"cliente_id"`
	CustomerName string          `json:"cliente,omitempty"`
	Date         time.Time       `json:"fecha" db:"fecha"`
	Status       string          `json:"estado" db:"estado"`
	DeliveryType string          `json:"tipo_entrega" db:"tipo_entrega"`
	Total        decimal.Decimal `json:"total" db:"total"`
	Items        []OrderItem     `json:"items"`
}

type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"pedido_id" db:"pedido_id"`
	MenuID    int64           `json:"menu_id" db:"menu_id"`
	MenuName  string          `json:"menu,omitempty"`
	Quantity  int             `json:"cantidad" db:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario" db:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// ReceiptRecord is a row of the boletas table.
type ReceiptRecord struct {
	ID          int64           `json:"id" db:"id"`
	OrderID     int64           `json:"pedido_id" db:"pedido_id"`
	GeneratedAt time.Time       `json:"fecha_generacion" db:"fecha_generacion"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax         decimal.Decimal `json:"iva" db:"iva"`
	Total       decimal.Decimal `json:"total" db:"total"`
	PDFPath     string          `json:"pdf_path" db:"pdf_path"`
	Status      string          `json:"estado" db:"estado"`
}
