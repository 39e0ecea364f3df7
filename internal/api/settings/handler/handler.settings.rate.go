// Package settingshdl - handler cấu hình đơn giá quy đổi.
package settingshdl

import (
	"fmt"

	basehdl "evernet/internal/api/base/handler"
	settingsdto "evernet/internal/api/settings/dto"
	models "evernet/internal/api/settings/models"
	settingssvc "evernet/internal/api/settings/service"
	"evernet/internal/common"
	"evernet/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// RateConfigHandler xử lý các route cấu hình đơn giá.
type RateConfigHandler struct {
	basehdl.BaseHandler[models.RateConfig, settingsdto.RateConfigCreateInput, settingsdto.RateConfigUpdateInput]
	rateService *settingssvc.RateConfigService
}

// NewRateConfigHandler tạo mới RateConfigHandler
func NewRateConfigHandler() (*RateConfigHandler, error) {
	rateService, err := settingssvc.NewRateConfigService()
	if err != nil {
		return nil, err
	}
	handler := &RateConfigHandler{rateService: rateService}
	handler.BaseService = rateService.BaseServiceMongoImpl
	return handler, nil
}

// HandleGetRates trả về cấu hình đơn giá hiện tại.
// @Router /settings/rates [get]
func (h *RateConfigHandler) HandleGetRates(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		cfg, err := h.rateService.FindOne(c.Context(), map[string]interface{}{"key": models.RateConfigKey}, nil)
		h.HandleResponse(c, cfg, err)
		return nil
	})
}

// HandleUpdateRates ghi đè cấu hình đơn giá (tạo mới nếu chưa có).
// @Router /settings/rates [put]
func (h *RateConfigHandler) HandleUpdateRates(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input settingsdto.RateConfigCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		cfg := &models.RateConfig{
			PayoutRatePer1000:          input.PayoutRatePer1000,
			DefaultPremiumSharePercent: input.DefaultPremiumSharePercent,
			LockPeriodDays:             input.LockPeriodDays,
			MinWithdrawalCents:         input.MinWithdrawalCents,
		}
		updated, err := h.rateService.UpsertRates(c.Context(), cfg)
		if err == nil {
			logger.LogAction("rate_config_updated", c, map[string]interface{}{
				"payoutRatePer1000":          updated.PayoutRatePer1000,
				"defaultPremiumSharePercent": updated.DefaultPremiumSharePercent,
				"lockPeriodDays":             updated.LockPeriodDays,
			})
		}
		h.HandleResponse(c, updated, err)
		return nil
	})
}
