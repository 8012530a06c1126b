package repositories

import (
	"context"

	"restaurante/models"
	"restaurante/pkg/logger"
)

type AggregationRepositoryInterface interface {
	GetAggregationData(ctx context.Context) (orders []models.Order, menus []models.MenuItem, err error)
}

// AggregationRepository gathers what the reports need from the order and
// menu repositories.
type AggregationRepository struct {
	orderRepo OrderRepositoryInterface
	menuRepo  MenuRepositoryInterface
	logger    *logger.Logger
}

func NewAggregationRepository(orderRepo OrderRepositoryInterface, menuRepo MenuRepositoryInterface, log *logger.Logger) *AggregationRepository {
	return &AggregationRepository{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		logger:    log.WithComponent("aggregation_repository"),
	}
}

func (r *AggregationRepository) GetAggregationData(ctx context.Context) ([]models.Order, []models.MenuItem, error) {
	orders, err := r.orderRepo.GetAll(ctx)
	if err != nil {
		r.logger.Error("Failed to get orders for aggregation", "error", err)
		return nil, nil, err
	}

	menus, err := r.menuRepo.GetAll(ctx)
	if err != nil {
		r.logger.Error("Failed to get menus for aggregation", "error", err)
		return nil, nil, err
	}

	r.logger.Debug("Fetched aggregation data", "orders", len(orders), "menus", len(menus))
	return orders, menus, nil
}
