package service

import (
	"context"

	"restaurante/internal/repositories"
	"restaurante/models"
	"restaurante/pkg/logger"
)

// OrderServiceInterface covers the history of checked-out orders.
type OrderServiceInterface interface {
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type OrderService struct {
	orderRepo repositories.OrderRepositoryInterface
	logger    *logger.Logger
}

func NewOrderService(orderRepo repositories.OrderRepositoryInterface, log *logger.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    log.WithComponent("order_service"),
	}
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list orders", "error", err)
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// DeleteOrder removes a persisted order. Stock consumed by it is not returned.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		s.logger.Warn("Delete order failed", "order_id", id, "error", err)
		return err
	}
	s.logger.Info("Order deleted", "order_id", id)
	return nil
}
