package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VoucherType enum constants
const (
	VoucherTypePercent = "PERCENT"
	VoucherTypeFixed   = "FIXED"
)

// Voucher is a discount code applied at order placement. MaxUses of 0 means
// unlimited; UsedCount is adjusted inside the order placement transaction.
type Voucher struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code           string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Type           string          `gorm:"type:varchar(20);not null" json:"type"` // PERCENT, FIXED
	Value          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"value"`
	MinOrderAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"min_order_amount"`
	MaxUses        int             `gorm:"not null;default:0" json:"max_uses"`
	UsedCount      int             `gorm:"not null;default:0" json:"used_count"`
	StartsAt       time.Time       `gorm:"not null" json:"starts_at"`
	ExpiresAt      time.Time       `gorm:"not null;index" json:"expires_at"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
