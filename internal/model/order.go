package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enum constants
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCanceled  = "CANCELED"
)

// PaymentStatus enum constants
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// PaymentMethod enum constants
const (
	PaymentMethodCOD        = "COD"
	PaymentMethodCreditCard = "CREDIT_CARD"
	PaymentMethodVNPay      = "VNPAY"
)

// AllOrderStatuses enumerates every order status, in display order.
var AllOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// AllPaymentStatuses enumerates every payment status, in display order.
var AllPaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// AllPaymentMethods enumerates every payment method, in display order.
var AllPaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodCreditCard,
	PaymentMethodVNPay,
}

// RevenueStatuses are the order statuses counted toward revenue and
// financial totals. PENDING and CANCELED orders never contribute.
var RevenueStatuses = []string{
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// Order represents a customer order. Money columns are decimal(18,4) and
// always satisfy final_total = subtotal + shipping_fee - discount_amount.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"-"`
	VoucherID       *uuid.UUID      `gorm:"type:uuid;index" json:"voucher_id"`
	Voucher         *Voucher        `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	Status          string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"payment_status"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null;index" json:"payment_method"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"shipping_fee"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount_amount"`
	FinalTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"final_total"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address"`
	Note            string          `gorm:"type:text" json:"note"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a single product line in an order. UnitPrice is captured at
// order time so later product price changes do not rewrite history.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsRevenueStatus reports whether orders in the given status count toward
// revenue aggregates.
func IsRevenueStatus(status string) bool {
	for _, s := range RevenueStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidOrderStatus reports whether status is a known order status.
func IsValidOrderStatus(status string) bool {
	for _, s := range AllOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidPaymentStatus reports whether status is a known payment status.
func IsValidPaymentStatus(status string) bool {
	for _, s := range AllPaymentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidPaymentMethod reports whether method is a known payment method.
func IsValidPaymentMethod(method string) bool {
	for _, m := range AllPaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
