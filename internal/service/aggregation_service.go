package service

import (
	"context"
	"fmt"
	"sort"

	"restaurante/internal/repositories"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/shopspring/decimal"
)

// Report period granularity.
const (
	PeriodDay   = "day"
	PeriodMonth = "month"
)

type AggregationServiceInterface interface {
	GetTotalSales(ctx context.Context) (TotalSales, error)
	GetPopularMenus(ctx context.Context, limit int) ([]PopularMenu, error)
	GetSalesByPeriod(ctx context.Context, period string) ([]PeriodSales, error)
}

type TotalSales struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	OrderCount   int             `json:"order_count"`
	ItemSales    []ItemSale      `json:"item_sales"`
}

type ItemSale struct {
	MenuID       int64           `json:"menu_id"`
	MenuName     string          `json:"menu_name"`
	QuantitySold int             `json:"quantity_sold"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

type PopularMenu struct {
	MenuID     int64           `json:"menu_id"`
	MenuName   string          `json:"menu_name"`
	Price      decimal.Decimal `json:"price"`
	SalesCount int             `json:"sales_count"`
}

type PeriodSales struct {
	Period     string          `json:"period"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type AggregationService struct {
	aggregationRepo repositories.AggregationRepositoryInterface
	logger          *logger.Logger
}

func NewAggregationService(aggregationRepo repositories.AggregationRepositoryInterface, log *logger.Logger) *AggregationService {
	return &AggregationService{
		aggregationRepo: aggregationRepo,
		logger:          log.WithComponent("aggregation_service"),
	}
}

func completed(orders []models.Order) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == models.OrderStatusCompleted {
			out = append(out, o)
		}
	}
	return out
}

// GetTotalSales sums completed orders using the prices stored on each line.
func (s *AggregationService) GetTotalSales(ctx context.Context) (TotalSales, error) {
	orders, _, err := s.aggregationRepo.GetAggregationData(ctx)
	if err != nil {
		s.logger.Error("Failed to get aggregation data for sales report", "error", err)
		return TotalSales{}, err
	}

	report := TotalSales{TotalRevenue: decimal.Zero, ItemSales: []ItemSale{}}
	byMenu := make(map[int64]*ItemSale)
	for _, order := range completed(orders) {
		report.OrderCount++
		for _, item := range order.Items {
			report.TotalRevenue = report.TotalRevenue.Add(item.Subtotal)
			sale, ok := byMenu[item.MenuID]
			if !ok {
				sale = &ItemSale{MenuID: item.MenuID, MenuName: item.MenuName, TotalValue: decimal.Zero}
				byMenu[item.MenuID] = sale
			}
			sale.QuantitySold += item.Quantity
			sale.TotalValue = sale.TotalValue.Add(item.Subtotal)
		}
	}
	for _, sale := range byMenu {
		report.ItemSales = append(report.ItemSales, *sale)
	}
	sort.Slice(report.ItemSales, func(i, j int) bool {
		return report.ItemSales[i].MenuName < report.ItemSales[j].MenuName
	})

	s.logger.Info("Total sales report calculated", "orders", report.OrderCount, "total_revenue", report.TotalRevenue.String())
	return report, nil
}

// GetPopularMenus ranks every catalog menu by units sold, most sold first.
// limit <= 0 returns all of them.
func (s *AggregationService) GetPopularMenus(ctx context.Context, limit int) ([]PopularMenu, error) {
	orders, menus, err := s.aggregationRepo.GetAggregationData(ctx)
	if err != nil {
		s.logger.Error("Failed to get aggregation data for popular menus report", "error", err)
		return nil, err
	}

	counts := make(map[int64]int)
	for _, order := range completed(orders) {
		for _, item := range order.Items {
			counts[item.MenuID] += item.Quantity
		}
	}

	popular := make([]PopularMenu, 0, len(menus))
	for _, m := range menus {
		popular = append(popular, PopularMenu{
			MenuID:     m.ID(),
			MenuName:   m.Name(),
			Price:      m.Price(),
			SalesCount: counts[m.ID()],
		})
	}
	sort.SliceStable(popular, func(i, j int) bool {
		if popular[i].SalesCount != popular[j].SalesCount {
			return popular[i].SalesCount > popular[j].SalesCount
		}
		return popular[i].MenuName < popular[j].MenuName
	})
	if limit > 0 && len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

// GetSalesByPeriod buckets completed orders by day (YYYY-MM-DD) or month
// (YYYY-MM), oldest first.
func (s *AggregationService) GetSalesByPeriod(ctx context.Context, period string) ([]PeriodSales, error) {
	var layout string
	switch period {
	case PeriodDay:
		layout = "2006-01-02"
	case PeriodMonth:
		layout = "2006-01"
	default:
		return nil, fmt.Errorf("%w: invalid period %q (allowed: day, month)", ErrInvalidInput, period)
	}

	orders, _, err := s.aggregationRepo.GetAggregationData(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*PeriodSales)
	for _, order := range completed(orders) {
		key := order.Date.Format(layout)
		b, ok := buckets[key]
		if !ok {
			b = &PeriodSales{Period: key, Revenue: decimal.Zero}
			buckets[key] = b
		}
		b.OrderCount++
		b.Revenue = b.Revenue.Add(order.Total)
	}

	out := make([]PeriodSales, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}
