package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurante/internal/checkout"
	"restaurante/internal/events"
	"restaurante/internal/repositories"
	"restaurante/internal/session"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	MenuName string `json:"menu_name"`
}

type CheckoutRequest struct {
	CustomerID int64 `json:"customer_id"`
}

// CheckoutResult is returned once the order is committed. When the receipt
// could not be issued Receipt is nil and ReceiptError says why; the order
// stands and the receipt can be issued later.
type CheckoutResult struct {
	Order        models.Order          `json:"pedido"`
	Breakdown    checkout.Breakdown    `json:"desglose"`
	Receipt      *models.ReceiptRecord `json:"boleta,omitempty"`
	ReceiptError string                `json:"error_boleta,omitempty"`
}

type PedidoServiceInterface interface {
	Current() session.Snapshot
	AddItem(menuName string) (session.Snapshot, error)
	RemoveItem(menuName string) (session.Snapshot, error)
	Reset() session.Snapshot
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error)
}

// PedidoService drives the operator session: building the current order and
// checking it out.
type PedidoService struct {
	session     *session.Session
	menus       MenuLookup
	customers   repositories.CustomerRepositoryInterface
	orders      repositories.OrderRepositoryInterface
	ingredients repositories.IngredientRepositoryInterface
	tx          repositories.Transactor
	receipts    ReceiptServiceInterface
	events      events.Publisher
	taxRate     decimal.Decimal
	now         func() time.Time
	logger      *logger.Logger
}

type PedidoServiceConfig struct {
	Session     *session.Session
	Menus       MenuLookup
	Customers   repositories.CustomerRepositoryInterface
	Orders      repositories.OrderRepositoryInterface
	Ingredients repositories.IngredientRepositoryInterface
	Tx          repositories.Transactor
	Receipts    ReceiptServiceInterface
	Events      events.Publisher
	TaxRate     decimal.Decimal
	Now         func() time.Time
}

func NewPedidoService(cfg PedidoServiceConfig, log *logger.Logger) *PedidoService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Events == nil {
		cfg.Events = events.Noop{}
	}
	return &PedidoService{
		session:     cfg.Session,
		menus:       cfg.Menus,
		customers:   cfg.Customers,
		orders:      cfg.Orders,
		ingredients: cfg.Ingredients,
		tx:          cfg.Tx,
		receipts:    cfg.Receipts,
		events:      cfg.Events,
		taxRate:     cfg.TaxRate,
		now:         cfg.Now,
		logger:      log.WithComponent("pedido_service"),
	}
}

func (s *PedidoService) Current() session.Snapshot {
	return s.session.Snapshot()
}

// AddItem reserves stock for one unit of the named menu and adds it to the
// current order.
func (s *PedidoService) AddItem(menuName string) (session.Snapshot, error) {
	item, err := s.menus.Get(menuName)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := s.session.AddItem(item); err != nil {
		s.logger.Warn("Add item refused", "menu", menuName, "error", err)
		return session.Snapshot{}, err
	}
	s.logger.Debug("Item added to order", "menu", menuName)
	return s.session.Snapshot(), nil
}

// RemoveItem takes one unit of the named menu out of the current order.
func (s *PedidoService) RemoveItem(menuName string) (session.Snapshot, error) {
	if !s.session.RemoveItem(menuName) {
		return session.Snapshot{}, fmt.Errorf("order line %s: %w", menuName, ErrNotFound)
	}
	s.logger.Debug("Item removed from order", "menu", menuName)
	return s.session.Snapshot(), nil
}

func (s *PedidoService) Reset() session.Snapshot {
	s.session.Reset()
	s.logger.Info("Current order discarded")
	return s.session.Snapshot()
}

// Checkout persists the current order and the stock it consumed in one
// transaction, then announces it and issues its receipt. Neither of the
// follow-up steps can undo a committed order.
func (s *PedidoService) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return CheckoutResult{}, err
	}

	var (
		order  models.Order
		levels []models.Ingredient
	)
	err = s.session.Checkout(func(snap session.Snapshot, consumed []models.Ingredient) error {
		levels = consumed
		order = models.Order{
			CustomerID:   customer.ID,
			CustomerName: customer.FullName(),
			Date:         s.now(),
			Status:       models.OrderStatusCompleted,
			DeliveryType: models.DeliveryLocal,
			Total:        snap.Total.Round(models.PricePrecision),
			Items:        checkout.PersistItems(snap.Lines),
		}
		return s.tx.ExecuteInTransaction(ctx, func(tx *sql.Tx) error {
			if err := s.orders.CreateTx(ctx, tx, &order); err != nil {
				return err
			}
			return s.ingredients.SetQuantitiesTx(ctx, tx, consumed)
		})
	})
	if err != nil {
		s.logger.Warn("Checkout failed", "customer_id", req.CustomerID, "error", err)
		return CheckoutResult{}, err
	}
	s.logger.Info("Order checked out", "order_id", order.ID, "customer_id", customer.ID, "total", order.Total.String())

	if err := s.events.PublishOrderCompleted(ctx, events.NewOrderCompleted(order, levels)); err != nil {
		s.logger.Error("Order event not published", "order_id", order.ID, "error", err)
	}

	result := CheckoutResult{
		Order:     order,
		Breakdown: checkout.SplitTax(order.Total, s.taxRate),
	}
	rec, err := s.receipts.Issue(ctx, order, customer)
	if err != nil {
		s.logger.Error("Receipt could not be issued", "order_id", order.ID, "error", err)
		result.ReceiptError = err.Error()
		return result, nil
	}
	result.Receipt = &rec
	return result, nil
}
