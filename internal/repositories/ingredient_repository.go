package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"restaurante/models"
	"restaurante/pkg/database"
	"restaurante/pkg/logger"
)

type IngredientRepositoryInterface interface {
	GetAll(ctx context.Context) ([]models.Ingredient, error)
	Adjust(ctx context.Context, deltas []models.Ingredient) error
	EnsureAll(ctx context.Context, ings []models.Ingredient) error
	SetQuantitiesTx(ctx context.Context, tx *sql.Tx, ings []models.Ingredient) error
	Delete(ctx context.Context, name string) error
}

type IngredientRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewIngredientRepository(logger *logger.Logger, db *database.DB) *IngredientRepository {
	return &IngredientRepository{
		logger: logger.WithComponent("ingredient_repository"),
		db:     db,
	}
}

// adjustIngredient adds $3 to the stored quantity, inserting the row when the
// name is new. The stored unit is kept on conflict.
const adjustIngredient = `
	INSERT INTO ingredientes (nombre, unidad, cantidad)
	VALUES ($1, $2, $3)
	ON CONFLICT (nombre) DO UPDATE SET cantidad = ingredientes.cantidad + EXCLUDED.cantidad
`

func (r *IngredientRepository) GetAll(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre, unidad, cantidad FROM ingredientes ORDER BY nombre`)
	if err != nil {
		r.logger.Error("Failed to query ingredients", "error", err)
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	var items []models.Ingredient
	for rows.Next() {
		var (
			ing  models.Ingredient
			unit sql.NullString
		)
		if err := rows.Scan(&ing.ID, &ing.Name, &unit, &ing.Quantity); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ing.Unit = unit.String
		items = append(items, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}

	r.logger.Debug("Retrieved all ingredients", "count", len(items))
	return items, nil
}

// Adjust applies each quantity as a delta to the stored amount in one
// transaction. A delta may be negative.
func (r *IngredientRepository) Adjust(ctx context.Context, deltas []models.Ingredient) error {
	return r.db.ExecuteInTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, adjustIngredient)
		if err != nil {
			return fmt.Errorf("prepare ingredient adjust: %w", err)
		}
		defer stmt.Close()

		for _, ing := range deltas {
			if _, err := stmt.ExecContext(ctx, ing.Name, nullString(ing.Unit), ing.Quantity); err != nil {
				r.logger.Error("Failed to adjust ingredient", "error", err, "ingredient", ing.Name)
				return fmt.Errorf("adjust ingredient %s: %w", ing.Name, err)
			}
		}
		r.logger.Info("Adjusted ingredients", "count", len(deltas))
		return nil
	})
}

// EnsureAll inserts every ingredient not yet stored. Existing rows are left
// untouched.
func (r *IngredientRepository) EnsureAll(ctx context.Context, ings []models.Ingredient) error {
	return r.db.ExecuteInTransaction(ctx, func(tx *sql.Tx) error {
		for _, ing := range ings {
			if err := ensureIngredientTx(ctx, tx, ing); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureIngredientTx(ctx context.Context, tx *sql.Tx, ing models.Ingredient) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ingredientes (nombre, unidad, cantidad) VALUES ($1, $2, $3) ON CONFLICT (nombre) DO NOTHING`,
		ing.Name, nullString(ing.Unit), ing.Quantity)
	if err != nil {
		return fmt.Errorf("ensure ingredient %s: %w", ing.Name, err)
	}
	return nil
}

// SetQuantitiesTx writes the absolute quantity of each ingredient inside tx.
// Checkout uses it once no reservation is pending, so ledger and table agree.
func (r *IngredientRepository) SetQuantitiesTx(ctx context.Context, tx *sql.Tx, ings []models.Ingredient) error {
	for _, ing := range ings {
		res, err := tx.ExecContext(ctx, `UPDATE ingredientes SET cantidad = $1 WHERE nombre = $2`, ing.Quantity, ing.Name)
		if err != nil {
			return fmt.Errorf("update quantity of %s: %w", ing.Name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			r.logger.Warn("Ingredient missing while persisting stock", "ingredient", ing.Name)
		}
	}
	return nil
}

func (r *IngredientRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredientes WHERE nombre = $1`, name)
	if err != nil {
		r.logger.Error("Failed to delete ingredient", "error", err, "ingredient", name)
		return fmt.Errorf("delete ingredient %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ingredient %s: %w", name, ErrNotFound)
	}
	r.logger.Info("Deleted ingredient", "ingredient", name)
	return nil
}
