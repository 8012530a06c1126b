package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"restaurante/internal/repositories"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/shopspring/decimal"
)

type RequirementRequest struct {
	Name     string `json:"nombre"`
	Unit     string `json:"unidad"`
	Quantity string `json:"cantidad"`
}

type CreateMenuRequest struct {
	Name        string               `json:"nombre"`
	Price       string               `json:"precio"`
	IconPath    string               `json:"icono_path"`
	Ingredients []RequirementRequest `json:"ingredientes"`
}

// MenuLookup resolves a catalog entry by name.
type MenuLookup interface {
	Get(name string) (models.MenuItem, error)
}

type MenuServiceInterface interface {
	MenuLookup
	Load(ctx context.Context, seedDefaults bool) error
	List() []models.MenuItem
	Available() []models.MenuItem
	Create(ctx context.Context, req CreateMenuRequest) (models.MenuItem, error)
	Delete(ctx context.Context, id int64) error
	Card(ctx context.Context) ([]byte, error)
}

// CardRenderer prints the catalog as a menu card document.
type CardRenderer interface {
	RenderCard(ctx context.Context, items []models.MenuItem) ([]byte, error)
}

// MenuService caches the catalog; reads never touch the database.
type MenuService struct {
	repo    repositories.MenuRepositoryInterface
	checker models.AvailabilityChecker
	stocker IngredientRegistrar
	card    CardRenderer
	logger  *logger.Logger

	mu      sync.RWMutex
	catalog []models.MenuItem
}

func NewMenuService(repo repositories.MenuRepositoryInterface, checker models.AvailabilityChecker, log *logger.Logger) *MenuService {
	return &MenuService{
		repo:    repo,
		checker: checker,
		logger:  log.WithComponent("menu_service"),
	}
}

// WithIngredients registers the ingredients of every loaded or created menu
// with r so they show up in stock.
func (s *MenuService) WithIngredients(r IngredientRegistrar) *MenuService {
	s.stocker = r
	return s
}

// WithCard sets the renderer used by Card.
func (s *MenuService) WithCard(r CardRenderer) *MenuService {
	s.card = r
	return s
}

// Card renders the whole catalog, sorted by name.
func (s *MenuService) Card(ctx context.Context) ([]byte, error) {
	if s.card == nil {
		return nil, errors.New("menu card renderer not configured")
	}
	items := s.List()
	sort.Slice(items, func(i, j int) bool { return items[i].Name() < items[j].Name() })
	data, err := s.card.RenderCard(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("menu card: %w", err)
	}
	return data, nil
}

func (s *MenuService) register(ctx context.Context, items ...models.MenuItem) error {
	if s.stocker == nil {
		return nil
	}
	var reqs []models.Requirement
	for _, item := range items {
		reqs = append(reqs, item.Requirements()...)
	}
	return s.stocker.Register(ctx, reqs)
}

// Load reads the catalog, seeding DefaultCatalog first when the table is
// empty and seedDefaults is set.
func (s *MenuService) Load(ctx context.Context, seedDefaults bool) error {
	if seedDefaults {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("load menus: %w", err)
		}
		if n == 0 {
			for _, item := range DefaultCatalog() {
				if _, err := s.repo.Create(ctx, item); err != nil {
					return fmt.Errorf("seed menu %s: %w", item.Name(), err)
				}
			}
			s.logger.Info("Seeded default menu catalog", "menus", len(DefaultCatalog()))
		}
	}
	return s.reload(ctx)
}

func (s *MenuService) reload(ctx context.Context) error {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load menus: %w", err)
	}
	if err := s.register(ctx, items...); err != nil {
		return fmt.Errorf("load menus: %w", err)
	}
	s.mu.Lock()
	s.catalog = items
	s.mu.Unlock()
	s.logger.Info("Menu catalog loaded", "menus", len(items))
	return nil
}

func (s *MenuService) List() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MenuItem, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Available lists the catalog entries stock can currently fulfil one unit of.
func (s *MenuService) Available() []models.MenuItem {
	var out []models.MenuItem
	for _, item := range s.List() {
		if item.IsAvailable(s.checker) {
			out = append(out, item)
		}
	}
	return out
}

func (s *MenuService) Get(name string) (models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.catalog {
		if item.Key() == name {
			return item, nil
		}
	}
	return models.MenuItem{}, fmt.Errorf("menu %s: %w", name, ErrNotFound)
}

func (s *MenuService) Create(ctx context.Context, req CreateMenuRequest) (models.MenuItem, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%w: price %q", ErrInvalidInput, req.Price)
	}

	reqs := make([]models.Requirement, 0, len(req.Ingredients))
	for _, r := range req.Ingredients {
		q, err := models.ParseQuantity(r.Quantity)
		if err != nil {
			return models.MenuItem{}, fmt.Errorf("ingredient %s: %w", r.Name, err)
		}
		requirement, err := models.NewRequirement(r.Name, r.Unit, q)
		if err != nil {
			return models.MenuItem{}, invalid(err)
		}
		reqs = append(reqs, requirement)
	}

	item, err := models.NewMenuItem(0, req.Name, price, req.IconPath, reqs)
	if err != nil {
		return models.MenuItem{}, invalid(err)
	}
	if _, err := s.Get(item.Key()); err == nil {
		return models.MenuItem{}, fmt.Errorf("menu %s: %w", item.Key(), ErrDuplicate)
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return models.MenuItem{}, err
	}
	if err := s.register(ctx, created); err != nil {
		s.logger.Error("Menu created but its ingredients were not registered in stock", "error", err, "menu", created.Name())
	}
	s.mu.Lock()
	s.catalog = append(s.catalog, created)
	s.mu.Unlock()

	s.logger.Info("Menu created", "menu_id", created.ID(), "menu", created.Name())
	return created, nil
}

func (s *MenuService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	for i, item := range s.catalog {
		if item.ID() == id {
			s.catalog = append(s.catalog[:i:i], s.catalog[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.logger.Info("Menu deleted", "menu_id", id)
	return nil
}
