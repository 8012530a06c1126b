package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"restaurante/internal/repositories"
	"restaurante/models"
	"restaurante/pkg/logger"
)

type CreateCustomerRequest struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email"`
}

type CustomerServiceInterface interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id int64) (models.Customer, error)
	Create(ctx context.Context, req CreateCustomerRequest) (models.Customer, error)
}

type CustomerService struct {
	repo   repositories.CustomerRepositoryInterface
	logger *logger.Logger
}

func NewCustomerService(repo repositories.CustomerRepositoryInterface, log *logger.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: log.WithComponent("customer_service")}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.repo.GetAll(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (models.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (models.Customer, error) {
	c := models.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if c.FirstName == "" {
		return models.Customer{}, fmt.Errorf("%w: nombre is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return models.Customer{}, fmt.Errorf("%w: email %q", ErrInvalidInput, req.Email)
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		s.logger.Warn("Create customer failed", "error", err)
		return models.Customer{}, err
	}
	return created, nil
}
