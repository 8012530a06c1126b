package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurante/internal/checkout"
	"restaurante/internal/receipt"
	"restaurante/internal/repositories"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/shopspring/decimal"
)

type ReceiptServiceInterface interface {
	Issue(ctx context.Context, order models.Order, customer models.Customer) (models.ReceiptRecord, error)
	IssueForOrder(ctx context.Context, orderID int64) (models.ReceiptRecord, error)
	Get(ctx context.Context, orderID int64) (models.ReceiptRecord, error)
	List(ctx context.Context, status string) ([]models.ReceiptRecord, error)
	Void(ctx context.Context, orderID int64) (models.ReceiptRecord, error)
}

// ReceiptService renders boletas, stores the documents and records them.
type ReceiptService struct {
	receipts  repositories.ReceiptRepositoryInterface
	orders    repositories.OrderRepositoryInterface
	customers repositories.CustomerRepositoryInterface
	renderer  receipt.Renderer
	store     receipt.Store
	taxRate   decimal.Decimal
	now       func() time.Time
	logger    *logger.Logger
}

type ReceiptServiceConfig struct {
	Receipts  repositories.ReceiptRepositoryInterface
	Orders    repositories.OrderRepositoryInterface
	Customers repositories.CustomerRepositoryInterface
	Renderer  receipt.Renderer
	Store     receipt.Store
	TaxRate   decimal.Decimal
	Now       func() time.Time
}

func NewReceiptService(cfg ReceiptServiceConfig, log *logger.Logger) *ReceiptService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ReceiptService{
		receipts:  cfg.Receipts,
		orders:    cfg.Orders,
		customers: cfg.Customers,
		renderer:  cfg.Renderer,
		store:     cfg.Store,
		taxRate:   cfg.TaxRate,
		now:       cfg.Now,
		logger:    log.WithComponent("receipt_service"),
	}
}

// Issue renders and records the receipt of a persisted order.
func (s *ReceiptService) Issue(ctx context.Context, order models.Order, customer models.Customer) (models.ReceiptRecord, error) {
	at := s.now()
	r := checkout.NewReceipt(order.ID, customer, checkout.LinesFromItems(order.Items), s.taxRate, order.Date)

	data, err := s.renderer.Render(ctx, r)
	if err != nil {
		return models.ReceiptRecord{}, fmt.Errorf("render receipt: %w", err)
	}
	name := receipt.FileName(at)
	location, err := s.store.Save(ctx, name, s.renderer.ContentType(), data)
	if err != nil {
		return models.ReceiptRecord{}, fmt.Errorf("store receipt: %w", err)
	}

	rec, err := s.receipts.Create(ctx, models.ReceiptRecord{
		OrderID:     order.ID,
		GeneratedAt: at,
		Subtotal:    r.Subtotal,
		Tax:         r.Tax,
		Total:       r.Total,
		PDFPath:     location,
		Status:      models.ReceiptStatusGenerated,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, name); delErr != nil {
			s.logger.Error("Receipt record failed and stored document is orphaned",
				"error", delErr, "order_id", order.ID, "path", location)
		}
		return models.ReceiptRecord{}, err
	}

	s.logger.Info("Receipt issued", "order_id", order.ID, "path", location,
		"subtotal", r.Subtotal.String(), "iva", r.Tax.String(), "total", r.Total.String())
	return rec, nil
}

// IssueForOrder issues the receipt of an order that has none yet.
func (s *ReceiptService) IssueForOrder(ctx context.Context, orderID int64) (models.ReceiptRecord, error) {
	if _, err := s.receipts.GetByOrderID(ctx, orderID); err == nil {
		return models.ReceiptRecord{}, fmt.Errorf("receipt for order %d: %w", orderID, ErrDuplicate)
	} else if !errors.Is(err, ErrNotFound) {
		return models.ReceiptRecord{}, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return models.ReceiptRecord{}, err
	}
	customer, err := s.customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		return models.ReceiptRecord{}, err
	}
	return s.Issue(ctx, order, customer)
}

func (s *ReceiptService) Get(ctx context.Context, orderID int64) (models.ReceiptRecord, error) {
	return s.receipts.GetByOrderID(ctx, orderID)
}

func (s *ReceiptService) List(ctx context.Context, status string) ([]models.ReceiptRecord, error) {
	switch status {
	case "", models.ReceiptStatusGenerated, models.ReceiptStatusVoided:
	default:
		return nil, fmt.Errorf("%w: estado %q", ErrInvalidInput, status)
	}
	recs, err := s.receipts.GetAll(ctx, status)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.ReceiptRecord{}
	}
	return recs, nil
}

// Void marks the receipt of an order as anulada. Voiding twice is a no-op.
func (s *ReceiptService) Void(ctx context.Context, orderID int64) (models.ReceiptRecord, error) {
	rec, err := s.receipts.GetByOrderID(ctx, orderID)
	if err != nil {
		return models.ReceiptRecord{}, err
	}
	if rec.Status == models.ReceiptStatusVoided {
		return rec, nil
	}
	if err := s.receipts.UpdateStatus(ctx, orderID, models.ReceiptStatusVoided); err != nil {
		return models.ReceiptRecord{}, err
	}
	rec.Status = models.ReceiptStatusVoided
	s.logger.Info("Receipt voided", "order_id", orderID)
	return rec, nil
}
