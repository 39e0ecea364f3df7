package main

import (
	"context"
	"errors"

	authsvc "evernet/internal/api/auth/service"
	settingsmodels "evernet/internal/api/settings/models"
	settingssvc "evernet/internal/api/settings/service"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/logger"
)

// InitDefaultData tạo dữ liệu mặc định khi khởi động:
// tài khoản admin (khi INITMODE=true) và cấu hình đơn giá nếu chưa có.
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	ctx := context.Background()

	// 1. Tạo tài khoản admin mặc định (chỉ khi INITMODE=true và có mật khẩu)
	cfg := global.ServerConfig
	if cfg.InitMode {
		if cfg.AdminPassword == "" {
			log.Fatal("ADMIN_PASSWORD bắt buộc khi INITMODE=true")
		}

		userService, err := authsvc.NewUserService()
		if err != nil {
			log.Fatalf("Failed to initialize user service: %v", err)
		}
		if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("Failed to ensure admin account: %v", err)
		}
		log.Infof("✅ [INIT] Admin account ensured (%s)", cfg.AdminEmail)
	}

	// 2. Tạo cấu hình đơn giá mặc định nếu chưa có.
	// Đơn giá mặc định chỉ là điểm khởi đầu, admin chỉnh qua PUT /settings/rates.
	rateService, err := settingssvc.NewRateConfigService()
	if err != nil {
		log.Fatalf("Failed to initialize rate config service: %v", err)
	}
	if _, err := rateService.Load(ctx); err != nil {
		if !errors.Is(err, common.ErrInvalidConfiguration) {
			log.Fatalf("Failed to load rate config: %v", err)
		}

		defaultRates := &settingsmodels.RateConfig{
			Key:                        settingsmodels.RateConfigKey,
			PayoutRatePer1000:          "1.50",
			DefaultPremiumSharePercent: 30,
			LockPeriodDays:             int64(cfg.UnlockDelayDays),
			MinWithdrawalCents:         50000,
		}
		if _, err := rateService.UpsertRates(ctx, defaultRates); err != nil {
			log.Fatalf("Failed to seed default rate config: %v", err)
		}
		logger.LogSystemAction("rate_config_seeded", map[string]interface{}{
			"payoutRatePer1000": defaultRates.PayoutRatePer1000,
			"sharePercent":      defaultRates.DefaultPremiumSharePercent,
			"lockPeriodDays":    defaultRates.LockPeriodDays,
		})
		log.Info("✅ [INIT] Default rate config seeded")
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
