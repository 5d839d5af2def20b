package service_test

import (
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherDiscount(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	window := func(v *model.Voucher) *model.Voucher {
		v.StartsAt = now.Add(-24 * time.Hour)
		v.ExpiresAt = now.Add(24 * time.Hour)
		v.IsActive = true
		return v
	}

	tests := []struct {
		name     string
		voucher  *model.Voucher
		subtotal string
		want     string
		wantErr  error
	}{
		{
			name:     "percent of subtotal",
			voucher:  window(&model.Voucher{Type: model.VoucherTypePercent, Value: dec("10")}),
			subtotal: "200",
			want:     "20",
		},
		{
			name:     "percent rounds to four places",
			voucher:  window(&model.Voucher{Type: model.VoucherTypePercent, Value: dec("7.5")}),
			subtotal: "33.33",
			want:     "2.4998",
		},
		{
			name:     "fixed amount",
			voucher:  window(&model.Voucher{Type: model.VoucherTypeFixed, Value: dec("15")}),
			subtotal: "100",
			want:     "15",
		},
		{
			name:     "fixed capped at subtotal",
			voucher:  window(&model.Voucher{Type: model.VoucherTypeFixed, Value: dec("50")}),
			subtotal: "30",
			want:     "30",
		},
		{
			name: "inactive",
			voucher: &model.Voucher{
				Type: model.VoucherTypePercent, Value: dec("10"),
				StartsAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour),
				IsActive: false,
			},
			subtotal: "100",
			wantErr:  service.ErrVoucherInactive,
		},
		{
			name: "not started yet",
			voucher: &model.Voucher{
				Type: model.VoucherTypePercent, Value: dec("10"),
				StartsAt: now.Add(time.Hour), ExpiresAt: now.Add(48 * time.Hour),
				IsActive: true,
			},
			subtotal: "100",
			wantErr:  service.ErrVoucherNotYet,
		},
		{
			name: "expired",
			voucher: &model.Voucher{
				Type: model.VoucherTypePercent, Value: dec("10"),
				StartsAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-time.Hour),
				IsActive: true,
			},
			subtotal: "100",
			wantErr:  service.ErrVoucherExpired,
		},
		{
			name:     "exhausted",
			voucher:  window(&model.Voucher{Type: model.VoucherTypeFixed, Value: dec("5"), MaxUses: 3, UsedCount: 3}),
			subtotal: "100",
			wantErr:  service.ErrVoucherExhausted,
		},
		{
			name:     "zero max uses means unlimited",
			voucher:  window(&model.Voucher{Type: model.VoucherTypeFixed, Value: dec("5"), MaxUses: 0, UsedCount: 9999}),
			subtotal: "100",
			want:     "5",
		},
		{
			name:     "below minimum order",
			voucher:  window(&model.Voucher{Type: model.VoucherTypeFixed, Value: dec("5"), MinOrderAmount: dec("50")}),
			subtotal: "49.99",
			wantErr:  service.ErrVoucherMinOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.VoucherDiscount(tt.voucher, dec(tt.subtotal), now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}
