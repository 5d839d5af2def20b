package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrProductUnavailable = errors.New("product is not available")
)

// statusTransitions enumerates the allowed forward edges of the order
// lifecycle. DELIVERED and CANCELED are terminal.
var statusTransitions = map[string][]string{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCanceled},
	model.OrderStatusConfirmed: {model.OrderStatusShipped, model.OrderStatusCanceled},
	model.OrderStatusShipped:   {model.OrderStatusDelivered},
}

// --- DTOs ---

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod   string             `json:"payment_method" binding:"required,oneof=COD CREDIT_CARD VNPAY"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	VoucherCode     string             `json:"voucher_code"`
	Note            string             `json:"note"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELED"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=PENDING PAID FAILED REFUNDED"`
}

// --- Interface ---

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req UpdateOrderStatusRequest) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req UpdatePaymentStatusRequest) (*model.Order, error)
}

type orderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	vouchers    repository.VoucherRepository
	txManager   repository.TransactionManager
	audit       AuditService
	hub         *websocket.Hub
	shippingFee decimal.Decimal
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	vouchers repository.VoucherRepository,
	txManager repository.TransactionManager,
	audit AuditService,
	hub *websocket.Hub,
	shippingFee decimal.Decimal,
) OrderService {
	return &orderService{
		orders:      orders,
		products:    products,
		vouchers:    vouchers,
		txManager:   txManager,
		audit:       audit,
		hub:         hub,
		shippingFee: shippingFee,
	}
}

// --- Implementation ---

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*model.Order, error) {
	var placed *model.Order

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		subtotal := decimal.Zero
		items := make([]model.OrderItem, 0, len(req.Items))

		for _, line := range req.Items {
			product, err := s.products.FindByIDForUpdate(txCtx, line.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", line.ProductID, ErrProductUnavailable)
			}
			if !product.IsActive {
				return fmt.Errorf("product %s: %w", product.Name, ErrProductUnavailable)
			}
			if product.Stock < line.Quantity {
				return fmt.Errorf("product %s: %w", product.Name, ErrInsufficientStock)
			}

			if err := s.products.UpdateStock(txCtx, product.ID, product.Stock-line.Quantity); err != nil {
				return err
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				LineTotal: lineTotal,
			})
		}

		discount := decimal.Zero
		var voucherID *uuid.UUID
		if req.VoucherCode != "" {
			voucher, err := s.vouchers.FindByCodeForUpdate(txCtx, req.VoucherCode)
			if err != nil {
				return ErrVoucherNotFound
			}
			discount, err = VoucherDiscount(voucher, subtotal, time.Now())
			if err != nil {
				return err
			}
			if err := s.vouchers.IncrementUsage(txCtx, voucher.ID); err != nil {
				return err
			}
			voucherID = &voucher.ID
		}

		order := &model.Order{
			UserID:          userID,
			VoucherID:       voucherID,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			PaymentMethod:   req.PaymentMethod,
			Subtotal:        subtotal,
			ShippingFee:     s.shippingFee,
			DiscountAmount:  discount,
			FinalTotal:      subtotal.Add(s.shippingFee).Sub(discount),
			ShippingAddress: req.ShippingAddress,
			Note:            req.Note,
			Items:           items,
		}

		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("order.created", placed)
	return placed, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) ([]model.Order, int64, error) {
	return s.orders.List(ctx, filter, page, limit)
}

func (s *orderService) UpdateStatus(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req UpdateOrderStatusRequest) (*model.Order, error) {
	var updated *model.Order

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.FindByIDWithItems(txCtx, id)
		if err != nil {
			return ErrOrderNotFound
		}

		if !transitionAllowed(order.Status, req.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, req.Status)
		}

		// Canceling returns reserved stock and releases the voucher use.
		if req.Status == model.OrderStatusCanceled {
			for _, item := range order.Items {
				product, err := s.products.FindByIDForUpdate(txCtx, item.ProductID)
				if err != nil {
					return err
				}
				if err := s.products.UpdateStock(txCtx, product.ID, product.Stock+item.Quantity); err != nil {
					return err
				}
			}
			if order.VoucherID != nil {
				if err := s.vouchers.DecrementUsage(txCtx, *order.VoucherID); err != nil {
					return err
				}
			}
		}

		if err := s.orders.UpdateStatus(txCtx, id, req.Status); err != nil {
			return err
		}

		order.Status = req.Status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, model.ActionUpdateOrderStatus, id.String(), "", req)
	s.broadcast("order.status_changed", updated)
	return updated, nil
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req UpdatePaymentStatusRequest) (*model.Order, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if err := s.orders.UpdatePaymentStatus(ctx, id, req.PaymentStatus); err != nil {
		return nil, err
	}
	order.PaymentStatus = req.PaymentStatus

	s.audit.Record(ctx, actorID, model.ActionUpdatePaymentStatus, id.String(), "", req)
	s.broadcast("order.payment_changed", order)
	return order, nil
}

func (s *orderService) broadcast(event string, order *model.Order) {
	if s.hub == nil || order == nil {
		return
	}
	s.hub.BroadcastEvent(event, map[string]interface{}{
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"final_total":    order.FinalTotal,
	})
}

func transitionAllowed(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
