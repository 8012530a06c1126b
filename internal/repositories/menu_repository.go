package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"restaurante/models"
	"restaurante/pkg/database"
	"restaurante/pkg/logger"

	"github.com/shopspring/decimal"
)

type MenuRepositoryInterface interface {
	GetAll(ctx context.Context) ([]models.MenuItem, error)
	Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type MenuRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewMenuRepository(logger *logger.Logger, db *database.DB) *MenuRepository {
	return &MenuRepository{
		logger: logger.WithComponent("menu_repository"),
		db:     db,
	}
}

// GetAll returns every menu with its requirements resolved from
// menu_ingredientes.
func (r *MenuRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	query := `
		SELECT m.id, m.nombre, m.precio, COALESCE(m.icono_path, ''),
		       COALESCE(
		           json_agg(
		               json_build_object(
		                   'nombre', i.nombre,
		                   'unidad', COALESCE(i.unidad, ''),
		                   'cantidad', mi.cantidad_necesaria
		               ) ORDER BY i.nombre
		           ) FILTER (WHERE i.id IS NOT NULL), '[]'::json
		       ) AS ingredientes
		FROM menus m
		LEFT JOIN menu_ingredientes mi ON mi.menu_id = m.id
		LEFT JOIN ingredientes i ON i.id = mi.ingrediente_id
		GROUP BY m.id, m.nombre, m.precio, m.icono_path
		ORDER BY m.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query menus", "error", err)
		return nil, fmt.Errorf("query menus: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var (
			id       int64
			name     string
			iconPath string
			price    decimal.Decimal
			raw      []byte
		)
		if err := rows.Scan(&id, &name, &price, &iconPath, &raw); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}

		var reqs []models.Requirement
		if err := json.Unmarshal(raw, &reqs); err != nil {
			r.logger.Error("Failed to parse menu ingredients", "error", err, "menu_id", id)
			return nil, fmt.Errorf("parse ingredients of menu %d: %w", id, err)
		}

		menu, err := models.NewMenuItem(id, name, price, iconPath, reqs)
		if err != nil {
			return nil, fmt.Errorf("menu %d: %w", id, err)
		}
		items = append(items, menu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menus: %w", err)
	}

	r.logger.Debug("Retrieved all menus", "count", len(items))
	return items, nil
}

// Create inserts the menu and its ingredient links. Requirements naming an
// ingredient that is not stocked yet create it with zero quantity.
func (r *MenuRepository) Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	var id int64
	err := r.db.ExecuteInTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO menus (nombre, precio, icono_path) VALUES ($1, $2, $3) RETURNING id`,
			item.Name(), item.Price(), nullString(item.IconPath()),
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("menu %s: %w", item.Name(), ErrDuplicate)
			}
			return fmt.Errorf("insert menu: %w", err)
		}

		for _, req := range item.Requirements() {
			ingredientID, err := ensureIngredient(ctx, tx, req)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO menu_ingredientes (menu_id, ingrediente_id, cantidad_necesaria) VALUES ($1, $2, $3)`,
				id, ingredientID, req.Quantity,
			)
			if err != nil {
				return fmt.Errorf("link ingredient %s: %w", req.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to create menu", "error", err, "menu", item.Name())
		return models.MenuItem{}, err
	}

	r.logger.Info("Created menu", "menu_id", id, "menu", item.Name())
	return item.WithID(id), nil
}

func ensureIngredient(ctx context.Context, tx *sql.Tx, req models.Requirement) (int64, error) {
	if err := ensureIngredientTx(ctx, tx, models.Ingredient{Name: req.Name, Unit: req.Unit}); err != nil {
		return 0, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM ingredientes WHERE nombre = $1`, req.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup ingredient %s: %w", req.Name, err)
	}
	return id, nil
}

func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	return r.db.ExecuteInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM menu_ingredientes WHERE menu_id = $1`, id); err != nil {
			return fmt.Errorf("delete menu ingredients: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM menus WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("menu %d has orders: %w", id, ErrInUse)
			}
			return fmt.Errorf("delete menu %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("menu %d: %w", id, ErrNotFound)
		}
		r.logger.Info("Deleted menu", "menu_id", id)
		return nil
	})
}

func (r *MenuRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menus`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count menus: %w", err)
	}
	return n, nil
}
