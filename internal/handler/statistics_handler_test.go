package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/handler"
	"backend/internal/service"
	"backend/pkg/period"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStatisticsService struct {
	revenueSummaryFunc         func(ctx context.Context, q period.Query) (*service.RevenueSummaryResponse, error)
	revenueByPaymentMethodFunc func(ctx context.Context, q period.Query) (*service.RevenueByPaymentMethodResponse, error)
	ordersByStatusFunc         func(ctx context.Context, q period.Query) (*service.OrdersByStatusResponse, error)
	ordersByPaymentStatusFunc  func(ctx context.Context, q period.Query) (*service.OrdersByPaymentStatusResponse, error)
	orderFinancialsFunc        func(ctx context.Context, q period.Query) (*service.OrderFinancialsResponse, error)
}

func (m *mockStatisticsService) RevenueSummary(ctx context.Context, q period.Query) (*service.RevenueSummaryResponse, error) {
	return m.revenueSummaryFunc(ctx, q)
}

func (m *mockStatisticsService) RevenueByPaymentMethod(ctx context.Context, q period.Query) (*service.RevenueByPaymentMethodResponse, error) {
	return m.revenueByPaymentMethodFunc(ctx, q)
}

func (m *mockStatisticsService) OrdersByStatus(ctx context.Context, q period.Query) (*service.OrdersByStatusResponse, error) {
	return m.ordersByStatusFunc(ctx, q)
}

func (m *mockStatisticsService) OrdersByPaymentStatus(ctx context.Context, q period.Query) (*service.OrdersByPaymentStatusResponse, error) {
	return m.ordersByPaymentStatusFunc(ctx, q)
}

func (m *mockStatisticsService) OrderFinancials(ctx context.Context, q period.Query) (*service.OrderFinancialsResponse, error) {
	return m.orderFinancialsFunc(ctx, q)
}

// statsRouter wires the handler without the auth middleware so the
// request handling itself can be exercised.
func statsRouter(svc service.StatisticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewStatisticsHandler(svc)
	r := gin.New()
	r.GET("/stats/revenue/summary", h.GetRevenueSummary)
	r.GET("/stats/revenue/by-payment-method", h.GetRevenueByPaymentMethod)
	r.GET("/stats/revenue/orders/by-status", h.GetOrdersByStatus)
	return r
}

func TestGetRevenueSummaryOK(t *testing.T) {
	svc := &mockStatisticsService{
		revenueSummaryFunc: func(ctx context.Context, q period.Query) (*service.RevenueSummaryResponse, error) {
			assert.Equal(t, period.Weekly, q.Period)
			return &service.RevenueSummaryResponse{
				StartDate:         "2026-03-08T00:00:00Z",
				EndDate:           "2026-03-15T00:00:00Z",
				TotalRevenue:      decimal.NewFromInt(300),
				TotalOrders:       2,
				AverageOrderValue: decimal.NewFromInt(150),
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats/revenue/summary?period=weekly", nil)
	statsRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			TotalRevenue      string `json:"totalRevenue"`
			TotalOrders       int64  `json:"totalOrders"`
			AverageOrderValue string `json:"averageOrderValue"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "300", body.Data.TotalRevenue)
	assert.Equal(t, int64(2), body.Data.TotalOrders)
	assert.Equal(t, "150", body.Data.AverageOrderValue)
}

func TestGetRevenueSummaryInvalidRange(t *testing.T) {
	svc := &mockStatisticsService{
		revenueSummaryFunc: func(ctx context.Context, q period.Query) (*service.RevenueSummaryResponse, error) {
			_, _, err := q.Resolve(time.Now())
			return nil, err
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats/revenue/summary?period=custom&startDate=2026-02-01", nil)
	statsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestGetRevenueSummaryUnknownPeriodRejectedByBinding(t *testing.T) {
	svc := &mockStatisticsService{
		revenueSummaryFunc: func(ctx context.Context, q period.Query) (*service.RevenueSummaryResponse, error) {
			t.Fatal("service must not be called when binding fails")
			return nil, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats/revenue/summary?period=quarterly", nil)
	statsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRevenueSummaryStoreFailure(t *testing.T) {
	svc := &mockStatisticsService{
		revenueSummaryFunc: func(ctx context.Context, q period.Query) (*service.RevenueSummaryResponse, error) {
			return nil, errors.New("statistics store unavailable: connection refused")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats/revenue/summary", nil)
	statsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal detail must not leak to the client
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "Failed to compute statistics")
}

func TestGetOrdersByStatusOK(t *testing.T) {
	svc := &mockStatisticsService{
		ordersByStatusFunc: func(ctx context.Context, q period.Query) (*service.OrdersByStatusResponse, error) {
			return &service.OrdersByStatusResponse{
				StartDate: "2026-03-01T00:00:00Z",
				EndDate:   "2026-03-15T00:00:00Z",
				Data: []service.StatusBreakdown{
					{Status: "PENDING", OrderCount: 1, TotalValue: decimal.NewFromInt(50)},
					{Status: "CONFIRMED", OrderCount: 0, TotalValue: decimal.Zero},
				},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats/revenue/orders/by-status?period=monthly", nil)
	statsRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PENDING")
	assert.Contains(t, w.Body.String(), "CONFIRMED")
}
