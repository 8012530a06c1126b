package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurante/models"
	"restaurante/pkg/database"
	"restaurante/pkg/logger"
)

type ReceiptRepositoryInterface interface {
	Create(ctx context.Context, rec models.ReceiptRecord) (models.ReceiptRecord, error)
	GetByOrderID(ctx context.Context, orderID int64) (models.ReceiptRecord, error)
	GetAll(ctx context.Context, status string) ([]models.ReceiptRecord, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

type ReceiptRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewReceiptRepository(logger *logger.Logger, db *database.DB) *ReceiptRepository {
	return &ReceiptRepository{
		logger: logger.WithComponent("receipt_repository"),
		db:     db,
	}
}

const selectReceipts = `SELECT id, pedido_id, fecha_generacion, subtotal, iva, total, pdf_path, estado FROM boletas`

func scanReceipt(row rowScanner) (models.ReceiptRecord, error) {
	var rec models.ReceiptRecord
	err := row.Scan(&rec.ID, &rec.OrderID, &rec.GeneratedAt, &rec.Subtotal, &rec.Tax, &rec.Total, &rec.PDFPath, &rec.Status)
	return rec, err
}

func (r *ReceiptRepository) Create(ctx context.Context, rec models.ReceiptRecord) (models.ReceiptRecord, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO boletas (pedido_id, fecha_generacion, subtotal, iva, total, pdf_path, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rec.OrderID, rec.GeneratedAt, rec.Subtotal, rec.Tax, rec.Total, rec.PDFPath, rec.Status,
	).Scan(&rec.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ReceiptRecord{}, fmt.Errorf("receipt for order %d: %w", rec.OrderID, ErrDuplicate)
		}
		r.logger.Error("Failed to create receipt record", "error", err, "order_id", rec.OrderID)
		return models.ReceiptRecord{}, fmt.Errorf("create receipt: %w", err)
	}
	r.logger.Info("Created receipt record", "receipt_id", rec.ID, "order_id", rec.OrderID)
	return rec, nil
}

func (r *ReceiptRepository) GetByOrderID(ctx context.Context, orderID int64) (models.ReceiptRecord, error) {
	rec, err := scanReceipt(r.db.QueryRowContext(ctx, selectReceipts+` WHERE pedido_id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReceiptRecord{}, fmt.Errorf("receipt for order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return models.ReceiptRecord{}, fmt.Errorf("get receipt for order %d: %w", orderID, err)
	}
	return rec, nil
}

// GetAll lists receipts, newest first. An empty status lists every receipt.
func (r *ReceiptRepository) GetAll(ctx context.Context, status string) ([]models.ReceiptRecord, error) {
	query := selectReceipts
	var args []any
	if status != "" {
		query += ` WHERE estado = $1`
		args = append(args, status)
	}
	rows, err := r.db.QueryContext(ctx, query+` ORDER BY fecha_generacion DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var out []models.ReceiptRecord
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}
	return out, nil
}

func (r *ReceiptRepository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE boletas SET estado = $1 WHERE pedido_id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("update receipt status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("receipt for order %d: %w", orderID, ErrNotFound)
	}
	r.logger.Info("Updated receipt status", "order_id", orderID, "status", status)
	return nil
}
