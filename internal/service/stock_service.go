package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"restaurante/internal/repositories"
	"restaurante/internal/stock"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/shopspring/decimal"
)

// CSV columns accepted by ImportCSV.
const (
	ColumnName     = "nombre"
	ColumnUnit     = "unidad"
	ColumnQuantity = "cantidad"
)

type AddIngredientRequest struct {
	Name     string `json:"nombre"`
	Unit     string `json:"unidad"`
	Quantity string `json:"cantidad"`
}

type ImportResult struct {
	Rows        int                 `json:"filas"`
	Ingredients []models.Ingredient `json:"ingredientes"`
}

type StockServiceInterface interface {
	Load(ctx context.Context) error
	List() []models.Ingredient
	Add(ctx context.Context, req AddIngredientRequest) (models.Ingredient, error)
	SetQuantity(ctx context.Context, name, quantity string) (models.Ingredient, error)
	Delete(ctx context.Context, name string) error
	ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error)
}

// IngredientRegistrar makes sure every ingredient a menu names is stocked,
// at zero quantity when it is new.
type IngredientRegistrar interface {
	Register(ctx context.Context, reqs []models.Requirement) error
}

// StockService keeps the in-memory ledger and the ingredientes table in step.
// The ledger excludes quantities reserved by the open order while the table
// still holds them, so edits are persisted as deltas, never as ledger levels.
type StockService struct {
	stock  *stock.Stock
	repo   repositories.IngredientRepositoryInterface
	logger *logger.Logger
}

func NewStockService(st *stock.Stock, repo repositories.IngredientRepositoryInterface, log *logger.Logger) *StockService {
	return &StockService{
		stock:  st,
		repo:   repo,
		logger: log.WithComponent("stock_service"),
	}
}

// Load replaces the ledger with the persisted stock.
func (s *StockService) Load(ctx context.Context) error {
	ings, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load stock: %w", err)
	}
	if err := s.stock.Load(ings); err != nil {
		return fmt.Errorf("load stock: %w", err)
	}
	s.logger.Info("Stock loaded", "ingredients", len(ings))
	return nil
}

func (s *StockService) List() []models.Ingredient {
	return s.stock.All()
}

// Add merges one ingredient into stock and persists the added quantity.
func (s *StockService) Add(ctx context.Context, req AddIngredientRequest) (models.Ingredient, error) {
	ing, err := models.NewIngredient(req.Name, req.Unit, req.Quantity)
	if err != nil {
		return models.Ingredient{}, invalid(err)
	}
	saved, err := s.mergeAndPersist(ctx, []models.Ingredient{ing})
	if err != nil {
		return models.Ingredient{}, err
	}
	return saved[0], nil
}

// SetQuantity overwrites the available quantity of a stocked ingredient.
func (s *StockService) SetQuantity(ctx context.Context, name, raw string) (models.Ingredient, error) {
	q, err := models.ParseQuantity(raw)
	if err != nil {
		return models.Ingredient{}, invalid(err)
	}
	previous, ok := s.stock.SwapQuantity(name, q)
	if !ok {
		return models.Ingredient{}, fmt.Errorf("ingredient %s: %w", name, ErrNotFound)
	}

	current, _ := s.stock.Get(name)
	delta := current.Quantity.Sub(previous)
	if err := s.repo.Adjust(ctx, []models.Ingredient{{Name: name, Unit: current.Unit, Quantity: delta}}); err != nil {
		s.stock.Adjust(name, delta.Neg())
		s.logger.Error("Failed to persist quantity, ledger reverted", "error", err, "ingredient", name)
		return models.Ingredient{}, err
	}
	s.logger.Info("Stock quantity set", "ingredient", name, "quantity", q.String(), "delta", delta.String())
	return current, nil
}

func (s *StockService) Delete(ctx context.Context, name string) error {
	if _, ok := s.stock.Get(name); !ok {
		return fmt.Errorf("ingredient %s: %w", name, ErrNotFound)
	}
	if err := s.repo.Delete(ctx, name); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	s.stock.Remove(name)
	s.logger.Info("Ingredient removed from stock", "ingredient", name)
	return nil
}

// ImportCSV merges every row of a nombre,unidad,cantidad file into stock. The
// whole file is validated before stock changes.
func (s *StockService) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	ings, err := ParseStockCSV(r)
	if err != nil {
		return ImportResult{}, err
	}
	saved, err := s.mergeAndPersist(ctx, ings)
	if err != nil {
		return ImportResult{}, err
	}
	s.logger.Info("Stock CSV imported", "rows", len(ings), "ingredients", len(saved))
	return ImportResult{Rows: len(ings), Ingredients: saved}, nil
}

// Register adds every ingredient named by reqs that the ledger lacks, at
// zero quantity, to both ledger and table.
func (s *StockService) Register(ctx context.Context, reqs []models.Requirement) error {
	seen := make(map[string]bool, len(reqs))
	var missing []models.Ingredient
	for _, r := range reqs {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		if _, ok := s.stock.Get(r.Name); !ok {
			missing = append(missing, models.Ingredient{Name: r.Name, Unit: r.Unit, Quantity: decimal.Zero})
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if err := s.repo.EnsureAll(ctx, missing); err != nil {
		return fmt.Errorf("register ingredients: %w", err)
	}
	if _, err := s.stock.Merge(missing); err != nil {
		return fmt.Errorf("register ingredients: %w", err)
	}
	s.logger.Info("Registered menu ingredients", "ingredients", len(missing))
	return nil
}

func (s *StockService) mergeAndPersist(ctx context.Context, ings []models.Ingredient) ([]models.Ingredient, error) {
	known := make(map[string]bool)
	for _, ing := range ings {
		if _, ok := s.stock.Get(ing.Name); ok {
			known[ing.Name] = true
		}
	}

	merged, err := s.stock.Merge(ings)
	if err != nil {
		return nil, invalid(err)
	}

	deltas := addedPerName(ings, merged)
	if err := s.repo.Adjust(ctx, deltas); err != nil {
		for _, delta := range deltas {
			if known[delta.Name] {
				s.stock.Adjust(delta.Name, delta.Quantity.Neg())
			} else {
				s.stock.Remove(delta.Name)
			}
		}
		s.logger.Error("Failed to persist stock, ledger reverted", "error", err, "ingredients", len(deltas))
		return nil, err
	}
	return merged, nil
}

// addedPerName sums the incoming quantities per ingredient, in the order of
// merged and carrying the unit stock keeps for it.
func addedPerName(ings, merged []models.Ingredient) []models.Ingredient {
	sum := make(map[string]decimal.Decimal, len(merged))
	for _, ing := range ings {
		sum[ing.Name] = sum[ing.Name].Add(models.NormalizeQuantity(ing.Quantity))
	}
	out := make([]models.Ingredient, 0, len(merged))
	for _, rec := range merged {
		out = append(out, models.Ingredient{Name: rec.Name, Unit: rec.Unit, Quantity: sum[rec.Name]})
	}
	return out
}

// ParseStockCSV reads a header row naming nombre, unidad and cantidad (any
// order, case-insensitive) followed by data rows. unidad may be absent.
func ParseStockCSV(r io.Reader) ([]models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, invalid(fmt.Errorf("read csv header: %w", err))
	}

	cols := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[name] = i
	}
	for _, required := range []string{ColumnName, ColumnQuantity} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	unitCol, hasUnit := cols[ColumnUnit]

	field := func(rec []string, i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var out []models.Ingredient
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid(fmt.Errorf("read csv: %w", err))
		}
		row, _ := reader.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		unit := ""
		if hasUnit {
			unit = field(rec, unitCol)
		}
		ing, err := models.NewIngredient(field(rec, cols[ColumnName]), unit, field(rec, cols[ColumnQuantity]))
		if err != nil {
			return nil, invalid(fmt.Errorf("row %d: %w", row, err))
		}
		out = append(out, ing)
	}
	return out, nil
}

// invalid tags err as a user error unless it already carries a known kind.
func invalid(err error) error {
	if errors.Is(err, models.ErrInvalidQuantity) || errors.Is(err, stock.ErrUnitMismatch) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
