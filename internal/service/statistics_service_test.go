package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/period"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStatisticsRepo struct {
	revenueTotalsFunc          func(ctx context.Context, start, end time.Time) (repository.RevenueTotals, error)
	revenueByPaymentMethodFunc func(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error)
	ordersByStatusFunc         func(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error)
	ordersByPaymentStatusFunc  func(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error)
	financialTotalsFunc        func(ctx context.Context, start, end time.Time) (repository.FinancialTotals, error)
}

func (m *mockStatisticsRepo) RevenueTotals(ctx context.Context, start, end time.Time) (repository.RevenueTotals, error) {
	return m.revenueTotalsFunc(ctx, start, end)
}

func (m *mockStatisticsRepo) RevenueByPaymentMethod(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error) {
	return m.revenueByPaymentMethodFunc(ctx, start, end)
}

func (m *mockStatisticsRepo) OrdersByStatus(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error) {
	return m.ordersByStatusFunc(ctx, start, end)
}

func (m *mockStatisticsRepo) OrdersByPaymentStatus(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error) {
	return m.ordersByPaymentStatusFunc(ctx, start, end)
}

func (m *mockStatisticsRepo) FinancialTotals(ctx context.Context, start, end time.Time) (repository.FinancialTotals, error) {
	return m.financialTotalsFunc(ctx, start, end)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRevenueSummaryAverage(t *testing.T) {
	repo := &mockStatisticsRepo{
		revenueTotalsFunc: func(ctx context.Context, start, end time.Time) (repository.RevenueTotals, error) {
			return repository.RevenueTotals{TotalRevenue: dec("300"), TotalOrders: 2}, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	summary, err := svc.RevenueSummary(context.Background(), period.Query{Period: period.Weekly})
	require.NoError(t, err)
	assert.True(t, summary.TotalRevenue.Equal(dec("300")))
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.True(t, summary.AverageOrderValue.Equal(dec("150")), "got %s", summary.AverageOrderValue)
}

func TestRevenueSummaryZeroOrders(t *testing.T) {
	repo := &mockStatisticsRepo{
		revenueTotalsFunc: func(ctx context.Context, start, end time.Time) (repository.RevenueTotals, error) {
			return repository.RevenueTotals{TotalRevenue: decimal.Zero, TotalOrders: 0}, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	summary, err := svc.RevenueSummary(context.Background(), period.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalOrders)
	assert.True(t, summary.AverageOrderValue.IsZero(), "average must be 0 when there are no orders")
}

func TestRevenueSummaryCustomWindowPassedToRepo(t *testing.T) {
	var gotStart, gotEnd time.Time
	repo := &mockStatisticsRepo{
		revenueTotalsFunc: func(ctx context.Context, start, end time.Time) (repository.RevenueTotals, error) {
			gotStart, gotEnd = start, end
			return repository.RevenueTotals{TotalRevenue: decimal.Zero}, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	_, err := svc.RevenueSummary(context.Background(), period.Query{
		Period:    period.Custom,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	})
	require.NoError(t, err)
	assert.Equal(t, 2026, gotStart.Year())
	assert.Equal(t, time.January, gotStart.Month())
	assert.Equal(t, 1, gotStart.Day())
	assert.Equal(t, 31, gotEnd.Day())
	assert.True(t, gotStart.Before(gotEnd))
}

func TestRevenueSummaryInvalidRange(t *testing.T) {
	called := false
	repo := &mockStatisticsRepo{
		revenueTotalsFunc: func(ctx context.Context, start, end time.Time) (repository.RevenueTotals, error) {
			called = true
			return repository.RevenueTotals{}, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	_, err := svc.RevenueSummary(context.Background(), period.Query{
		Period:    period.Custom,
		StartDate: "2026-02-01",
		EndDate:   "2026-01-01",
	})
	assert.ErrorIs(t, err, period.ErrInvalidRange)
	assert.False(t, called, "repo must not be queried when the range is invalid")
}

func TestRevenueSummaryStoreFailure(t *testing.T) {
	repo := &mockStatisticsRepo{
		revenueTotalsFunc: func(ctx context.Context, start, end time.Time) (repository.RevenueTotals, error) {
			return repository.RevenueTotals{}, errors.New("connection refused")
		},
	}
	svc := service.NewStatisticsService(repo)

	_, err := svc.RevenueSummary(context.Background(), period.Query{})
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)
}

func TestRevenueByPaymentMethodDefaultFilling(t *testing.T) {
	repo := &mockStatisticsRepo{
		revenueByPaymentMethodFunc: func(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error) {
			// Only COD had orders in the window
			return []repository.GroupTotals{
				{Key: model.PaymentMethodCOD, TotalValue: dec("250"), OrderCount: 3},
			}, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	breakdown, err := svc.RevenueByPaymentMethod(context.Background(), period.Query{Period: period.Daily})
	require.NoError(t, err)
	require.Len(t, breakdown.Data, len(model.AllPaymentMethods))

	byMethod := make(map[string]service.PaymentMethodRevenue)
	for _, entry := range breakdown.Data {
		byMethod[entry.PaymentMethod] = entry
	}

	assert.True(t, byMethod[model.PaymentMethodCOD].TotalRevenue.Equal(dec("250")))
	assert.Equal(t, int64(3), byMethod[model.PaymentMethodCOD].OrderCount)
	assert.True(t, byMethod[model.PaymentMethodCreditCard].TotalRevenue.IsZero())
	assert.Equal(t, int64(0), byMethod[model.PaymentMethodCreditCard].OrderCount)
	assert.True(t, byMethod[model.PaymentMethodVNPay].TotalRevenue.IsZero())
}

func TestOrdersByStatusDefaultFilling(t *testing.T) {
	repo := &mockStatisticsRepo{
		ordersByStatusFunc: func(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error) {
			return []repository.GroupTotals{
				{Key: model.OrderStatusConfirmed, TotalValue: dec("100"), OrderCount: 1},
				{Key: model.OrderStatusPending, TotalValue: dec("50"), OrderCount: 1},
				{Key: model.OrderStatusDelivered, TotalValue: dec("200"), OrderCount: 1},
			}, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	breakdown, err := svc.OrdersByStatus(context.Background(), period.Query{Period: period.Monthly})
	require.NoError(t, err)
	require.Len(t, breakdown.Data, len(model.AllOrderStatuses))

	byStatus := make(map[string]service.StatusBreakdown)
	for _, entry := range breakdown.Data {
		byStatus[entry.Status] = entry
	}

	assert.Equal(t, int64(1), byStatus[model.OrderStatusPending].OrderCount)
	assert.Equal(t, int64(1), byStatus[model.OrderStatusConfirmed].OrderCount)
	assert.Equal(t, int64(1), byStatus[model.OrderStatusDelivered].OrderCount)
	assert.Equal(t, int64(0), byStatus[model.OrderStatusShipped].OrderCount)
	assert.Equal(t, int64(0), byStatus[model.OrderStatusCanceled].OrderCount)
	assert.True(t, byStatus[model.OrderStatusShipped].TotalValue.IsZero())
}

func TestOrdersByStatusOrderingIsStable(t *testing.T) {
	repo := &mockStatisticsRepo{
		ordersByStatusFunc: func(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error) {
			return nil, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	first, err := svc.OrdersByStatus(context.Background(), period.Query{Period: period.Daily})
	require.NoError(t, err)
	second, err := svc.OrdersByStatus(context.Background(), period.Query{Period: period.Daily})
	require.NoError(t, err)

	for i := range first.Data {
		assert.Equal(t, first.Data[i].Status, second.Data[i].Status)
		assert.Equal(t, model.AllOrderStatuses[i], first.Data[i].Status)
	}
}

func TestOrdersByPaymentStatusIgnoresUnknownKeys(t *testing.T) {
	repo := &mockStatisticsRepo{
		ordersByPaymentStatusFunc: func(ctx context.Context, start, end time.Time) ([]repository.GroupTotals, error) {
			return []repository.GroupTotals{
				{Key: model.PaymentStatusPaid, TotalValue: dec("40"), OrderCount: 1},
				{Key: "LEGACY_STATE", TotalValue: dec("999"), OrderCount: 9},
			}, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	breakdown, err := svc.OrdersByPaymentStatus(context.Background(), period.Query{Period: period.Daily})
	require.NoError(t, err)
	require.Len(t, breakdown.Data, len(model.AllPaymentStatuses))
	for _, entry := range breakdown.Data {
		assert.NotEqual(t, "LEGACY_STATE", entry.PaymentStatus)
	}
}

func TestOrderFinancials(t *testing.T) {
	repo := &mockStatisticsRepo{
		financialTotalsFunc: func(ctx context.Context, start, end time.Time) (repository.FinancialTotals, error) {
			return repository.FinancialTotals{
				TotalShippingFee:    dec("42.5000"),
				TotalDiscountAmount: dec("17.2500"),
			}, nil
		},
	}
	svc := service.NewStatisticsService(repo)

	financials, err := svc.OrderFinancials(context.Background(), period.Query{Period: period.Yearly})
	require.NoError(t, err)
	assert.True(t, financials.TotalShippingFee.Equal(dec("42.5")))
	assert.True(t, financials.TotalDiscountAmount.Equal(dec("17.25")))
	assert.NotEmpty(t, financials.StartDate)
	assert.NotEmpty(t, financials.EndDate)
}

func TestOrderFinancialsStoreFailure(t *testing.T) {
	repo := &mockStatisticsRepo{
		financialTotalsFunc: func(ctx context.Context, start, end time.Time) (repository.FinancialTotals, error) {
			return repository.FinancialTotals{}, errors.New("timeout")
		},
	}
	svc := service.NewStatisticsService(repo)

	_, err := svc.OrderFinancials(context.Background(), period.Query{})
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)
}
