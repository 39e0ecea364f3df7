// Package settingssvc - service cấu hình đơn giá quy đổi.
package settingssvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "evernet/internal/api/base/service"
	models "evernet/internal/api/settings/models"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/money"

	"go.mongodb.org/mongo-driver/bson"
)

// RateConfigService là service quản lý document cấu hình đơn giá.
type RateConfigService struct {
	*basesvc.BaseServiceMongoImpl[models.RateConfig]
}

// NewRateConfigService tạo mới RateConfigService
func NewRateConfigService() (*RateConfigService, error) {
	collection, exist := global.RegistryCollections.Get(global.ColSettings)
	if !exist {
		return nil, fmt.Errorf("failed to get settings collection: %v", common.ErrNotFound)
	}
	return &RateConfigService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.RateConfig](collection),
	}, nil
}

// Load đọc và validate cấu hình đơn giá, trả về snapshot bất biến.
// Cấu hình thiếu hoặc không hợp lệ trả về ErrInvalidConfiguration — caller
// phải dừng trước khi gây ra bất kỳ side effect nào.
func (s *RateConfigService) Load(ctx context.Context) (*models.RateSnapshot, error) {
	cfg, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"key": models.RateConfigKey}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("chưa có cấu hình đơn giá: %w", common.ErrInvalidConfiguration)
		}
		return nil, err
	}
	return Snapshot(&cfg)
}

// Snapshot validate một RateConfig và dựng RateSnapshot.
func Snapshot(cfg *models.RateConfig) (*models.RateSnapshot, error) {
	rate, err := money.ParseAmount(cfg.PayoutRatePer1000)
	if err != nil {
		return nil, err
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("đơn giá %s âm: %w", cfg.PayoutRatePer1000, common.ErrInvalidConfiguration)
	}
	if cfg.DefaultPremiumSharePercent < 0 || cfg.DefaultPremiumSharePercent > 100 {
		return nil, fmt.Errorf("tỷ lệ premium mặc định %d ngoài khoảng 0-100: %w", cfg.DefaultPremiumSharePercent, common.ErrInvalidConfiguration)
	}
	if cfg.LockPeriodDays <= 0 {
		return nil, fmt.Errorf("số ngày khóa %d phải dương: %w", cfg.LockPeriodDays, common.ErrInvalidConfiguration)
	}
	if cfg.MinWithdrawalCents < 0 {
		return nil, fmt.Errorf("ngưỡng rút tối thiểu %d âm: %w", cfg.MinWithdrawalCents, common.ErrInvalidConfiguration)
	}
	return &models.RateSnapshot{
		RatePer1000:         rate,
		DefaultSharePercent: cfg.DefaultPremiumSharePercent,
		LockPeriodDays:      cfg.LockPeriodDays,
		MinWithdrawalCents:  cfg.MinWithdrawalCents,
	}, nil
}

// UpsertRates ghi đè cấu hình đơn giá (tạo mới nếu chưa có).
// Giá trị mới được validate trước khi ghi.
func (s *RateConfigService) UpsertRates(ctx context.Context, cfg *models.RateConfig) (models.RateConfig, error) {
	cfg.Key = models.RateConfigKey
	if _, err := Snapshot(cfg); err != nil {
		var zero models.RateConfig
		return zero, err
	}
	return s.BaseServiceMongoImpl.Upsert(ctx, bson.M{"key": models.RateConfigKey}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"key":                        models.RateConfigKey,
			"payoutRatePer1000":          cfg.PayoutRatePer1000,
			"defaultPremiumSharePercent": cfg.DefaultPremiumSharePercent,
			"lockPeriodDays":             cfg.LockPeriodDays,
			"minWithdrawalCents":         cfg.MinWithdrawalCents,
		},
	})
}
