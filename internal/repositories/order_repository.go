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

type OrderRepositoryInterface interface {
	CreateTx(ctx context.Context, tx *sql.Tx, order *models.Order) error
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (models.Order, error)
	Delete(ctx context.Context, id int64) error
}

type OrderRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewOrderRepository(logger *logger.Logger, db *database.DB) *OrderRepository {
	return &OrderRepository{
		logger: logger.WithComponent("order_repository"),
		db:     db,
	}
}

// CreateTx inserts the order and its items inside tx and fills in the
// generated ids.
func (r *OrderRepository) CreateTx(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO pedidos (cliente_id, fecha, estado, tipo_entrega, total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		order.CustomerID, order.Date, order.Status, order.DeliveryType, order.Total,
	).Scan(&order.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("customer %d: %w", order.CustomerID, ErrNotFound)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO pedido_items (pedido_id, menu_id, cantidad, precio_unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			order.ID, item.MenuID, item.Quantity, item.UnitPrice, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", item.MenuName, err)
		}
	}

	r.logger.Info("Created order", "order_id", order.ID, "customer_id", order.CustomerID,
		"items", len(order.Items), "total", order.Total.String())
	return nil
}

const selectOrders = `
	SELECT p.id, p.cliente_id, TRIM(c.nombre || ' ' || c.apellido), p.fecha, p.estado, p.tipo_entrega, p.total
	FROM pedidos p
	JOIN clientes c ON c.id = p.cliente_id
`

func (r *OrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrders+` ORDER BY p.fecha DESC, p.id DESC`)
	if err != nil {
		r.logger.Error("Failed to query orders", "error", err)
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	index := make(map[int64]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.queryItems(ctx, `ORDER BY pi.pedido_id, m.nombre`)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	r.logger.Debug("Retrieved all orders", "count", len(orders))
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (models.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrders+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Order{}, err
	}

	o.Items, err = r.queryItems(ctx, `WHERE pi.pedido_id = $1 ORDER BY m.nombre`, id)
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// Delete removes the order, its receipt record and its items.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.ExecuteInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM boletas WHERE pedido_id = $1`, id); err != nil {
			return fmt.Errorf("delete receipt of order %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM pedido_items WHERE pedido_id = $1`, id); err != nil {
			return fmt.Errorf("delete items of order %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM pedidos WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete order %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		r.logger.Info("Deleted order", "order_id", id)
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.Date, &o.Status, &o.DeliveryType, &o.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, err
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) queryItems(ctx context.Context, tail string, args ...any) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pi.id, pi.pedido_id, pi.menu_id, m.nombre, pi.cantidad, pi.precio_unitario, pi.subtotal
		FROM pedido_items pi
		JOIN menus m ON m.id = pi.menu_id
		`+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuID, &it.MenuName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}
