package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughTxManager runs the callback directly; unit tests have no DB.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, actorID *uuid.UUID, action, entityID, entityName string, details interface{}) {
}

func (noopAudit) GetAuditLogs(ctx context.Context, page, limit int) ([]service.AuditLogResponse, int64, error) {
	return nil, 0, nil
}

type mockOrderRepo struct {
	createFunc              func(ctx context.Context, order *model.Order) error
	findByIDWithItemsFunc   func(ctx context.Context, id uuid.UUID) (*model.Order, error)
	updateStatusFunc        func(ctx context.Context, id uuid.UUID, status string) error
	updatePaymentStatusFunc func(ctx context.Context, id uuid.UUID, paymentStatus string) error
}

func (m *mockOrderRepo) Create(ctx context.Context, order *model.Order) error {
	return m.createFunc(ctx, order)
}

func (m *mockOrderRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return m.findByIDWithItemsFunc(ctx, id)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.updateStatusFunc(ctx, id, status)
}

func (m *mockOrderRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	return m.updatePaymentStatusFunc(ctx, id, paymentStatus)
}

func (m *mockOrderRepo) List(ctx context.Context, filter repository.OrderFilter, page, limit int) ([]model.Order, int64, error) {
	return nil, 0, nil
}

func (m *mockOrderRepo) HasDeliveredOrderWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return false, nil
}

type mockProductRepo struct {
	findByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*model.Product, error)
	updateStockFunc       func(ctx context.Context, id uuid.UUID, stock int) error
}

func (m *mockProductRepo) Create(ctx context.Context, product *model.Product) error { return nil }
func (m *mockProductRepo) Update(ctx context.Context, product *model.Product) error { return nil }
func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }
func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return nil, errors.New("not implemented")
}
func (m *mockProductRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return nil, errors.New("not implemented")
}
func (m *mockProductRepo) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	return nil, 0, nil
}
func (m *mockProductRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	return m.updateStockFunc(ctx, id, stock)
}
func (m *mockProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return m.findByIDForUpdateFunc(ctx, id)
}
func (m *mockProductRepo) AddImage(ctx context.Context, image *model.ProductImage) error { return nil }
func (m *mockProductRepo) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return nil
}

type mockVoucherRepo struct {
	findByCodeForUpdateFunc func(ctx context.Context, code string) (*model.Voucher, error)
	incrementUsageFunc      func(ctx context.Context, id uuid.UUID) error
	decrementUsageFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVoucherRepo) Create(ctx context.Context, voucher *model.Voucher) error { return nil }
func (m *mockVoucherRepo) Update(ctx context.Context, voucher *model.Voucher) error { return nil }
func (m *mockVoucherRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }
func (m *mockVoucherRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error) {
	return nil, errors.New("not implemented")
}
func (m *mockVoucherRepo) FindByCode(ctx context.Context, code string) (*model.Voucher, error) {
	return nil, errors.New("not implemented")
}
func (m *mockVoucherRepo) FindByCodeForUpdate(ctx context.Context, code string) (*model.Voucher, error) {
	return m.findByCodeForUpdateFunc(ctx, code)
}
func (m *mockVoucherRepo) List(ctx context.Context, page, limit int) ([]model.Voucher, int64, error) {
	return nil, 0, nil
}
func (m *mockVoucherRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return m.incrementUsageFunc(ctx, id)
}
func (m *mockVoucherRepo) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	return m.decrementUsageFunc(ctx, id)
}

func newOrderService(orders *mockOrderRepo, products *mockProductRepo, vouchers *mockVoucherRepo) service.OrderService {
	return service.NewOrderService(orders, products, vouchers, passthroughTxManager{}, noopAudit{}, nil, dec("5"))
}

func activeVoucher(code string) *model.Voucher {
	return &model.Voucher{
		ID:        uuid.New(),
		Code:      code,
		Type:      model.VoucherTypePercent,
		Value:     dec("10"),
		MaxUses:   100,
		StartsAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(time.Hour),
		IsActive:  true,
	}
}

func TestPlaceOrderTotals(t *testing.T) {
	productID := uuid.New()
	product := &model.Product{
		ID:       productID,
		Name:     "Widget",
		Price:    dec("100"),
		Stock:    10,
		IsActive: true,
	}

	var created *model.Order
	var stockAfter int
	orders := &mockOrderRepo{
		createFunc: func(ctx context.Context, order *model.Order) error {
			created = order
			return nil
		},
	}
	products := &mockProductRepo{
		findByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*model.Product, error) {
			return product, nil
		},
		updateStockFunc: func(ctx context.Context, id uuid.UUID, stock int) error {
			stockAfter = stock
			return nil
		},
	}

	svc := newOrderService(orders, products, &mockVoucherRepo{})
	placed, err := svc.PlaceOrder(context.Background(), uuid.New(), service.PlaceOrderRequest{
		Items:           []service.OrderItemRequest{{ProductID: productID, Quantity: 2}},
		PaymentMethod:   model.PaymentMethodCOD,
		ShippingAddress: "12 Elm St",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, 8, stockAfter)
	assert.Equal(t, model.OrderStatusPending, placed.Status)
	assert.Equal(t, model.PaymentStatusPending, placed.PaymentStatus)
	assert.True(t, placed.Subtotal.Equal(dec("200")))
	assert.True(t, placed.DiscountAmount.IsZero())
	assert.True(t, placed.FinalTotal.Equal(dec("205")), "got %s", placed.FinalTotal)
	require.Len(t, placed.Items, 1)
	assert.True(t, placed.Items[0].LineTotal.Equal(dec("200")))
}

func TestPlaceOrderWithVoucher(t *testing.T) {
	productID := uuid.New()
	voucher := activeVoucher("SAVE10")

	incremented := false
	orders := &mockOrderRepo{
		createFunc: func(ctx context.Context, order *model.Order) error { return nil },
	}
	products := &mockProductRepo{
		findByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*model.Product, error) {
			return &model.Product{ID: productID, Name: "Widget", Price: dec("100"), Stock: 10, IsActive: true}, nil
		},
		updateStockFunc: func(ctx context.Context, id uuid.UUID, stock int) error { return nil },
	}
	vouchers := &mockVoucherRepo{
		findByCodeForUpdateFunc: func(ctx context.Context, code string) (*model.Voucher, error) {
			assert.Equal(t, "SAVE10", code)
			return voucher, nil
		},
		incrementUsageFunc: func(ctx context.Context, id uuid.UUID) error {
			incremented = true
			return nil
		},
	}

	svc := newOrderService(orders, products, vouchers)
	placed, err := svc.PlaceOrder(context.Background(), uuid.New(), service.PlaceOrderRequest{
		Items:           []service.OrderItemRequest{{ProductID: productID, Quantity: 2}},
		PaymentMethod:   model.PaymentMethodCreditCard,
		ShippingAddress: "12 Elm St",
		VoucherCode:     "SAVE10",
	})
	require.NoError(t, err)

	// 10% of 200 = 20, final = 200 + 5 - 20
	assert.True(t, placed.DiscountAmount.Equal(dec("20")))
	assert.True(t, placed.FinalTotal.Equal(dec("185")), "got %s", placed.FinalTotal)
	assert.True(t, incremented, "voucher usage must be consumed at placement")
	require.NotNil(t, placed.VoucherID)
	assert.Equal(t, voucher.ID, *placed.VoucherID)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	productID := uuid.New()
	products := &mockProductRepo{
		findByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*model.Product, error) {
			return &model.Product{ID: productID, Name: "Widget", Price: dec("100"), Stock: 1, IsActive: true}, nil
		},
	}

	svc := newOrderService(&mockOrderRepo{}, products, &mockVoucherRepo{})
	_, err := svc.PlaceOrder(context.Background(), uuid.New(), service.PlaceOrderRequest{
		Items:           []service.OrderItemRequest{{ProductID: productID, Quantity: 2}},
		PaymentMethod:   model.PaymentMethodCOD,
		ShippingAddress: "12 Elm St",
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	productID := uuid.New()
	products := &mockProductRepo{
		findByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*model.Product, error) {
			return &model.Product{ID: productID, Name: "Widget", Price: dec("100"), Stock: 5, IsActive: false}, nil
		},
	}

	svc := newOrderService(&mockOrderRepo{}, products, &mockVoucherRepo{})
	_, err := svc.PlaceOrder(context.Background(), uuid.New(), service.PlaceOrderRequest{
		Items:           []service.OrderItemRequest{{ProductID: productID, Quantity: 1}},
		PaymentMethod:   model.PaymentMethodCOD,
		ShippingAddress: "12 Elm St",
	})
	assert.ErrorIs(t, err, service.ErrProductUnavailable)
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to confirmed", model.OrderStatusPending, model.OrderStatusConfirmed, true},
		{"pending to canceled", model.OrderStatusPending, model.OrderStatusCanceled, true},
		{"confirmed to shipped", model.OrderStatusConfirmed, model.OrderStatusShipped, true},
		{"shipped to delivered", model.OrderStatusShipped, model.OrderStatusDelivered, true},
		{"pending to delivered", model.OrderStatusPending, model.OrderStatusDelivered, false},
		{"shipped to canceled", model.OrderStatusShipped, model.OrderStatusCanceled, false},
		{"delivered is terminal", model.OrderStatusDelivered, model.OrderStatusPending, false},
		{"canceled is terminal", model.OrderStatusCanceled, model.OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderID := uuid.New()
			orders := &mockOrderRepo{
				findByIDWithItemsFunc: func(ctx context.Context, id uuid.UUID) (*model.Order, error) {
					return &model.Order{ID: orderID, Status: tt.from}, nil
				},
				updateStatusFunc: func(ctx context.Context, id uuid.UUID, status string) error {
					return nil
				},
			}

			svc := newOrderService(orders, &mockProductRepo{}, &mockVoucherRepo{})
			updated, err := svc.UpdateStatus(context.Background(), nil, orderID, service.UpdateOrderStatusRequest{Status: tt.to})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, updated.Status)
			} else {
				assert.ErrorIs(t, err, service.ErrInvalidTransition)
			}
		})
	}
}

func TestCancelRestocksAndReleasesVoucher(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	voucherID := uuid.New()

	orders := &mockOrderRepo{
		findByIDWithItemsFunc: func(ctx context.Context, id uuid.UUID) (*model.Order, error) {
			return &model.Order{
				ID:        orderID,
				Status:    model.OrderStatusPending,
				VoucherID: &voucherID,
				Items:     []model.OrderItem{{ProductID: productID, Quantity: 3}},
			}, nil
		},
		updateStatusFunc: func(ctx context.Context, id uuid.UUID, status string) error { return nil },
	}

	var restockedTo int
	products := &mockProductRepo{
		findByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*model.Product, error) {
			return &model.Product{ID: productID, Stock: 7, IsActive: true}, nil
		},
		updateStockFunc: func(ctx context.Context, id uuid.UUID, stock int) error {
			restockedTo = stock
			return nil
		},
	}

	released := false
	vouchers := &mockVoucherRepo{
		decrementUsageFunc: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, voucherID, id)
			released = true
			return nil
		},
	}

	svc := newOrderService(orders, products, vouchers)
	updated, err := svc.UpdateStatus(context.Background(), nil, orderID, service.UpdateOrderStatusRequest{Status: model.OrderStatusCanceled})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, updated.Status)
	assert.Equal(t, 10, restockedTo)
	assert.True(t, released)
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	orders := &mockOrderRepo{
		findByIDWithItemsFunc: func(ctx context.Context, id uuid.UUID) (*model.Order, error) {
			return nil, errors.New("record not found")
		},
	}

	svc := newOrderService(orders, &mockProductRepo{}, &mockVoucherRepo{})
	_, err := svc.UpdateStatus(context.Background(), nil, uuid.New(), service.UpdateOrderStatusRequest{Status: model.OrderStatusConfirmed})
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}
