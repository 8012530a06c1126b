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

type CustomerRepositoryInterface interface {
	GetAll(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id int64) (models.Customer, error)
	Create(ctx context.Context, c models.Customer) (models.Customer, error)
}

type CustomerRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewCustomerRepository(logger *logger.Logger, db *database.DB) *CustomerRepository {
	return &CustomerRepository{
		logger: logger.WithComponent("customer_repository"),
		db:     db,
	}
}

func (r *CustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre, apellido, email FROM clientes ORDER BY apellido, nombre`)
	if err != nil {
		r.logger.Error("Failed to query customers", "error", err)
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return out, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (models.Customer, error) {
	var c models.Customer
	err := r.db.QueryRowContext(ctx, `SELECT id, nombre, apellido, email FROM clientes WHERE id = $1`, id).
		Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO clientes (nombre, apellido, email) VALUES ($1, $2, $3) RETURNING id`,
		c.FirstName, c.LastName, c.Email,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Customer{}, fmt.Errorf("customer %s: %w", c.Email, ErrDuplicate)
		}
		r.logger.Error("Failed to create customer", "error", err)
		return models.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	r.logger.Info("Created customer", "customer_id", c.ID)
	return c, nil
}
