package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoucherRepository interface {
	Create(ctx context.Context, voucher *model.Voucher) error
	Update(ctx context.Context, voucher *model.Voucher) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error)
	FindByCode(ctx context.Context, code string) (*model.Voucher, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*model.Voucher, error)
	List(ctx context.Context, page, limit int) ([]model.Voucher, int64, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	DecrementUsage(ctx context.Context, id uuid.UUID) error
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *model.Voucher) error {
	return GetDB(ctx, r.db).Create(voucher).Error
}

func (r *voucherRepository) Update(ctx context.Context, voucher *model.Voucher) error {
	return GetDB(ctx, r.db).Save(voucher).Error
}

func (r *voucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Voucher{}).Error
}

func (r *voucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error) {
	var voucher model.Voucher
	if err := GetDB(ctx, r.db).First(&voucher, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) FindByCode(ctx context.Context, code string) (*model.Voucher, error) {
	var voucher model.Voucher
	if err := GetDB(ctx, r.db).Where("code = ?", code).First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

// FindByCodeForUpdate locks the voucher row so concurrent orders cannot
// exceed max_uses.
func (r *voucherRepository) FindByCodeForUpdate(ctx context.Context, code string) (*model.Voucher, error) {
	var voucher model.Voucher
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) List(ctx context.Context, page, limit int) ([]model.Voucher, int64, error) {
	var vouchers []model.Voucher
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Voucher{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&vouchers).Error; err != nil {
		return nil, 0, err
	}

	return vouchers, total, nil
}

func (r *voucherRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Voucher{}).Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}

func (r *voucherRepository) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Voucher{}).Where("id = ? AND used_count > 0", id).
		Update("used_count", gorm.Expr("used_count - 1")).Error
}
