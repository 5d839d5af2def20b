package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueTotals is the raw SUM/COUNT over revenue-contributing orders.
type RevenueTotals struct {
	TotalRevenue decimal.Decimal `gorm:"column:total_revenue"`
	TotalOrders  int64           `gorm:"column:total_orders"`
}

// GroupTotals is one GROUP BY row keyed by status/payment status/method.
// Sparse: only groups with matching orders come back from the store.
type GroupTotals struct {
	Key        string          `gorm:"column:group_key"`
	TotalValue decimal.Decimal `gorm:"column:total_value"`
	OrderCount int64           `gorm:"column:order_count"`
}

// FinancialTotals holds the shipping and discount sums over
// revenue-contributing orders.
type FinancialTotals struct {
	TotalShippingFee    decimal.Decimal `gorm:"column:total_shipping_fee"`
	TotalDiscountAmount decimal.Decimal `gorm:"column:total_discount_amount"`
}

// StatisticsRepository issues the read-only aggregate queries over orders.
// All windows are inclusive on both bounds. Implementations never retry.
type StatisticsRepository interface {
	RevenueTotals(ctx context.Context, start, end time.Time) (RevenueTotals, error)
	RevenueByPaymentMethod(ctx context.Context, start, end time.Time) ([]GroupTotals, error)
	OrdersByStatus(ctx context.Context, start, end time.Time) ([]GroupTotals, error)
	OrdersByPaymentStatus(ctx context.Context, start, end time.Time) ([]GroupTotals, error)
	FinancialTotals(ctx context.Context, start, end time.Time) (FinancialTotals, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) inWindow(ctx context.Context, start, end time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at >= ? AND created_at <= ?", start, end)
}

func (r *statisticsRepository) RevenueTotals(ctx context.Context, start, end time.Time) (RevenueTotals, error) {
	var totals RevenueTotals
	err := r.inWindow(ctx, start, end).
		Select("COALESCE(SUM(final_total), 0) as total_revenue, COUNT(*) as total_orders").
		Where("status IN ?", model.RevenueStatuses).
		Scan(&totals).Error
	if err != nil {
		return RevenueTotals{}, fmt.Errorf("failed to query revenue totals: %w", err)
	}
	return totals, nil
}

func (r *statisticsRepository) RevenueByPaymentMethod(ctx context.Context, start, end time.Time) ([]GroupTotals, error) {
	var rows []GroupTotals
	err := r.inWindow(ctx, start, end).
		Select("payment_method as group_key, COALESCE(SUM(final_total), 0) as total_value, COUNT(*) as order_count").
		Where("status IN ?", model.RevenueStatuses).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by payment method: %w", err)
	}
	return rows, nil
}

func (r *statisticsRepository) OrdersByStatus(ctx context.Context, start, end time.Time) ([]GroupTotals, error) {
	var rows []GroupTotals
	err := r.inWindow(ctx, start, end).
		Select("status as group_key, COALESCE(SUM(final_total), 0) as total_value, COUNT(*) as order_count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by status: %w", err)
	}
	return rows, nil
}

func (r *statisticsRepository) OrdersByPaymentStatus(ctx context.Context, start, end time.Time) ([]GroupTotals, error) {
	var rows []GroupTotals
	err := r.inWindow(ctx, start, end).
		Select("payment_status as group_key, COALESCE(SUM(final_total), 0) as total_value, COUNT(*) as order_count").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by payment status: %w", err)
	}
	return rows, nil
}

func (r *statisticsRepository) FinancialTotals(ctx context.Context, start, end time.Time) (FinancialTotals, error) {
	var totals FinancialTotals
	err := r.inWindow(ctx, start, end).
		Select("COALESCE(SUM(shipping_fee), 0) as total_shipping_fee, COALESCE(SUM(discount_amount), 0) as total_discount_amount").
		Where("status IN ?", model.RevenueStatuses).
		Scan(&totals).Error
	if err != nil {
		return FinancialTotals{}, fmt.Errorf("failed to query financial totals: %w", err)
	}
	return totals, nil
}
