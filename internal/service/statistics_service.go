package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/period"

	"github.com/shopspring/decimal"
)

// ErrStoreUnavailable indicates an aggregate query could not be executed
// against the store. It is surfaced as-is; this layer never retries.
var ErrStoreUnavailable = errors.New("statistics store unavailable")

// --- DTOs ---

type RevenueSummaryResponse struct {
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int64           `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type PaymentMethodRevenue struct {
	PaymentMethod string          `json:"paymentMethod"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	OrderCount    int64           `json:"orderCount"`
}

type RevenueByPaymentMethodResponse struct {
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	Data      []PaymentMethodRevenue `json:"data"`
}

type StatusBreakdown struct {
	Status     string          `json:"status"`
	OrderCount int64           `json:"orderCount"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

type OrdersByStatusResponse struct {
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Data      []StatusBreakdown `json:"data"`
}

type PaymentStatusBreakdown struct {
	PaymentStatus string          `json:"paymentStatus"`
	OrderCount    int64           `json:"orderCount"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

type OrdersByPaymentStatusResponse struct {
	StartDate string                   `json:"startDate"`
	EndDate   string                   `json:"endDate"`
	Data      []PaymentStatusBreakdown `json:"data"`
}

type OrderFinancialsResponse struct {
	StartDate           string          `json:"startDate"`
	EndDate             string          `json:"endDate"`
	TotalShippingFee    decimal.Decimal `json:"totalShippingFee"`
	TotalDiscountAmount decimal.Decimal `json:"totalDiscountAmount"`
}

// --- Interface ---

// StatisticsService resolves a period selector and runs the revenue and
// order aggregation reads over the resolved window.
type StatisticsService interface {
	RevenueSummary(ctx context.Context, q period.Query) (*RevenueSummaryResponse, error)
	RevenueByPaymentMethod(ctx context.Context, q period.Query) (*RevenueByPaymentMethodResponse, error)
	OrdersByStatus(ctx context.Context, q period.Query) (*OrdersByStatusResponse, error)
	OrdersByPaymentStatus(ctx context.Context, q period.Query) (*OrdersByPaymentStatusResponse, error)
	OrderFinancials(ctx context.Context, q period.Query) (*OrderFinancialsResponse, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
	now  func() time.Time
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo, now: time.Now}
}

// --- Implementation ---

func (s *statisticsService) RevenueSummary(ctx context.Context, q period.Query) (*RevenueSummaryResponse, error) {
	start, end, err := q.Resolve(s.now())
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.RevenueTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	avg := decimal.Zero
	if totals.TotalOrders > 0 {
		avg = totals.TotalRevenue.DivRound(decimal.NewFromInt(totals.TotalOrders), 4)
	}

	return &RevenueSummaryResponse{
		StartDate:         start.Format(time.RFC3339),
		EndDate:           end.Format(time.RFC3339),
		TotalRevenue:      totals.TotalRevenue,
		TotalOrders:       totals.TotalOrders,
		AverageOrderValue: avg,
	}, nil
}

func (s *statisticsService) RevenueByPaymentMethod(ctx context.Context, q period.Query) (*RevenueByPaymentMethodResponse, error) {
	start, end, err := q.Resolve(s.now())
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.RevenueByPaymentMethod(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	filled := fillGroups(model.AllPaymentMethods, rows)
	data := make([]PaymentMethodRevenue, 0, len(filled))
	for _, row := range filled {
		data = append(data, PaymentMethodRevenue{
			PaymentMethod: row.Key,
			TotalRevenue:  row.TotalValue,
			OrderCount:    row.OrderCount,
		})
	}

	return &RevenueByPaymentMethodResponse{
		StartDate: start.Format(time.RFC3339),
		EndDate:   end.Format(time.RFC3339),
		Data:      data,
	}, nil
}

func (s *statisticsService) OrdersByStatus(ctx context.Context, q period.Query) (*OrdersByStatusResponse, error) {
	start, end, err := q.Resolve(s.now())
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.OrdersByStatus(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	filled := fillGroups(model.AllOrderStatuses, rows)
	data := make([]StatusBreakdown, 0, len(filled))
	for _, row := range filled {
		data = append(data, StatusBreakdown{
			Status:     row.Key,
			OrderCount: row.OrderCount,
			TotalValue: row.TotalValue,
		})
	}

	return &OrdersByStatusResponse{
		StartDate: start.Format(time.RFC3339),
		EndDate:   end.Format(time.RFC3339),
		Data:      data,
	}, nil
}

func (s *statisticsService) OrdersByPaymentStatus(ctx context.Context, q period.Query) (*OrdersByPaymentStatusResponse, error) {
	start, end, err := q.Resolve(s.now())
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.OrdersByPaymentStatus(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	filled := fillGroups(model.AllPaymentStatuses, rows)
	data := make([]PaymentStatusBreakdown, 0, len(filled))
	for _, row := range filled {
		data = append(data, PaymentStatusBreakdown{
			PaymentStatus: row.Key,
			OrderCount:    row.OrderCount,
			TotalValue:    row.TotalValue,
		})
	}

	return &OrdersByPaymentStatusResponse{
		StartDate: start.Format(time.RFC3339),
		EndDate:   end.Format(time.RFC3339),
		Data:      data,
	}, nil
}

func (s *statisticsService) OrderFinancials(ctx context.Context, q period.Query) (*OrderFinancialsResponse, error) {
	start, end, err := q.Resolve(s.now())
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.FinancialTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &OrderFinancialsResponse{
		StartDate:           start.Format(time.RFC3339),
		EndDate:             end.Format(time.RFC3339),
		TotalShippingFee:    totals.TotalShippingFee,
		TotalDiscountAmount: totals.TotalDiscountAmount,
	}, nil
}

// fillGroups overlays sparse GROUP BY rows onto the full enum so every
// category appears exactly once, zero-valued when the window had no matching
// orders. Dashboards rely on the constant category set across periods.
func fillGroups(keys []string, rows []repository.GroupTotals) []repository.GroupTotals {
	byKey := make(map[string]repository.GroupTotals, len(keys))
	for _, key := range keys {
		byKey[key] = repository.GroupTotals{Key: key, TotalValue: decimal.Zero}
	}
	for _, row := range rows {
		if _, known := byKey[row.Key]; known {
			byKey[row.Key] = row
		}
	}

	filled := make([]repository.GroupTotals, 0, len(keys))
	for _, key := range keys {
		filled = append(filled, byKey[key])
	}
	return filled
}
