package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Voucher rejection sentinels, surfaced as client errors.
var (
	ErrVoucherNotFound  = errors.New("voucher not found")
	ErrVoucherInactive  = errors.New("voucher is not active")
	ErrVoucherNotYet    = errors.New("voucher is not valid yet")
	ErrVoucherExpired   = errors.New("voucher has expired")
	ErrVoucherExhausted = errors.New("voucher usage limit reached")
	ErrVoucherMinOrder  = errors.New("order subtotal below voucher minimum")
)

// --- DTOs ---

type CreateVoucherRequest struct {
	Code           string          `json:"code" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=PERCENT FIXED"`
	Value          decimal.Decimal `json:"value" binding:"required"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	MaxUses        int             `json:"max_uses" binding:"gte=0"`
	StartsAt       time.Time       `json:"starts_at" binding:"required"`
	ExpiresAt      time.Time       `json:"expires_at" binding:"required"`
	IsActive       *bool           `json:"is_active"`
}

type UpdateVoucherRequest struct {
	Value          *decimal.Decimal `json:"value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	MaxUses        *int             `json:"max_uses"`
	StartsAt       *time.Time       `json:"starts_at"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	IsActive       *bool            `json:"is_active"`
}

// --- Interface ---

type VoucherService interface {
	CreateVoucher(ctx context.Context, actorID *uuid.UUID, req CreateVoucherRequest) (*model.Voucher, error)
	UpdateVoucher(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req UpdateVoucherRequest) (*model.Voucher, error)
	DeleteVoucher(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error
	GetVoucherByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error)
	ListVouchers(ctx context.Context, page, limit int) ([]model.Voucher, int64, error)
	// ValidateCode checks a code against a prospective subtotal and returns
	// the discount it would grant.
	ValidateCode(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Voucher, decimal.Decimal, error)
}

type voucherService struct {
	repo  repository.VoucherRepository
	audit AuditService
}

func NewVoucherService(repo repository.VoucherRepository, audit AuditService) VoucherService {
	return &voucherService{repo: repo, audit: audit}
}

// --- Implementation ---

func (s *voucherService) CreateVoucher(ctx context.Context, actorID *uuid.UUID, req CreateVoucherRequest) (*model.Voucher, error) {
	if req.Value.IsNegative() || req.Value.IsZero() {
		return nil, errors.New("voucher value must be positive")
	}
	if req.Type == model.VoucherTypePercent && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errors.New("percent voucher cannot exceed 100")
	}
	if !req.ExpiresAt.After(req.StartsAt) {
		return nil, errors.New("expires_at must be after starts_at")
	}

	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, errors.New("voucher code already exists")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	voucher := &model.Voucher{
		Code:           req.Code,
		Type:           req.Type,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		StartsAt:       req.StartsAt,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       active,
	}

	if err := s.repo.Create(ctx, voucher); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, model.ActionCreateVoucher, voucher.ID.String(), voucher.Code, req)
	return voucher, nil
}

func (s *voucherService) UpdateVoucher(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req UpdateVoucherRequest) (*model.Voucher, error) {
	voucher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVoucherNotFound
	}

	if req.Value != nil {
		if req.Value.IsNegative() || req.Value.IsZero() {
			return nil, errors.New("voucher value must be positive")
		}
		voucher.Value = *req.Value
	}
	if req.MinOrderAmount != nil {
		voucher.MinOrderAmount = *req.MinOrderAmount
	}
	if req.MaxUses != nil {
		voucher.MaxUses = *req.MaxUses
	}
	if req.StartsAt != nil {
		voucher.StartsAt = *req.StartsAt
	}
	if req.ExpiresAt != nil {
		voucher.ExpiresAt = *req.ExpiresAt
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, voucher); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, model.ActionUpdateVoucher, voucher.ID.String(), voucher.Code, req)
	return voucher, nil
}

func (s *voucherService) DeleteVoucher(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	voucher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrVoucherNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, actorID, model.ActionDeleteVoucher, id.String(), voucher.Code, nil)
	return nil
}

func (s *voucherService) GetVoucherByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *voucherService) ListVouchers(ctx context.Context, page, limit int) ([]model.Voucher, int64, error) {
	return s.repo.List(ctx, page, limit)
}

func (s *voucherService) ValidateCode(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Voucher, decimal.Decimal, error) {
	voucher, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, decimal.Zero, ErrVoucherNotFound
	}

	discount, err := VoucherDiscount(voucher, subtotal, time.Now())
	if err != nil {
		return nil, decimal.Zero, err
	}
	return voucher, discount, nil
}

// VoucherDiscount computes the discount a voucher grants on the given
// subtotal, or a rejection sentinel. PERCENT takes value% of the subtotal;
// FIXED takes the value itself. Either way the discount is capped at the
// subtotal so the order total can never go negative.
func VoucherDiscount(v *model.Voucher, subtotal decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	if !v.IsActive {
		return decimal.Zero, ErrVoucherInactive
	}
	if at.Before(v.StartsAt) {
		return decimal.Zero, ErrVoucherNotYet
	}
	if at.After(v.ExpiresAt) {
		return decimal.Zero, ErrVoucherExpired
	}
	if v.MaxUses > 0 && v.UsedCount >= v.MaxUses {
		return decimal.Zero, ErrVoucherExhausted
	}
	if subtotal.LessThan(v.MinOrderAmount) {
		return decimal.Zero, ErrVoucherMinOrder
	}

	var discount decimal.Decimal
	switch v.Type {
	case model.VoucherTypePercent:
		discount = subtotal.Mul(v.Value).DivRound(decimal.NewFromInt(100), 4)
	case model.VoucherTypeFixed:
		discount = v.Value
	default:
		return decimal.Zero, errors.New("unknown voucher type " + v.Type)
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount, nil
}
