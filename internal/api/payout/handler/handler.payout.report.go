// Package payouthdl - handler chốt báo cáo tháng và mở khóa thanh toán.
package payouthdl

import (
	"fmt"
	"time"

	basehdl "evernet/internal/api/base/handler"
	basesvc "evernet/internal/api/base/service"
	models "evernet/internal/api/payout/models"
	payoutsvc "evernet/internal/api/payout/service"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/logger"
	"evernet/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportHandler xử lý các route báo cáo tháng.
type ReportHandler struct {
	basehdl.BaseHandler[models.MonthlyReport, models.MonthlyReport, models.MonthlyReport]
	reports *payoutsvc.ReportService
	unlocks *payoutsvc.UnlockEngine
}

// NewReportHandler tạo mới ReportHandler
func NewReportHandler() (*ReportHandler, error) {
	reports, err := payoutsvc.NewReportService()
	if err != nil {
		return nil, err
	}
	unlocks, err := payoutsvc.NewUnlockEngineDefault()
	if err != nil {
		return nil, err
	}
	reportCollection, exist := global.RegistryCollections.Get(global.ColMonthlyReports)
	if !exist {
		return nil, fmt.Errorf("failed to get monthly_reports collection: %v", common.ErrNotFound)
	}
	handler := &ReportHandler{reports: reports, unlocks: unlocks}
	handler.BaseService = basesvc.NewBaseServiceMongo[models.MonthlyReport](reportCollection)
	return handler, nil
}

// unlockManyInput là body của route mở khóa hàng loạt.
type unlockManyInput struct {
	ReportIDs []primitive.ObjectID `json:"reportIds" validate:"required,min=1"`
}

// HandleGenerateMonthly chốt báo cáo cho một tháng (admin).
// Query param month dạng YYYY-MM, mặc định là tháng trước.
// @Router /reports/generate [post]
func (h *ReportHandler) HandleGenerateMonthly(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		month := c.Query("month")
		if month == "" {
			month = time.Now().AddDate(0, -1, 0).Format("2006-01")
		}

		logger.LogAction("report_generate", c, map[string]interface{}{"month": month})
		result, err := h.reports.GenerateMonthly(c.Context(), month)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleUnlockDue mở khóa mọi báo cáo đã tới hạn (admin).
// @Router /reports/unlock-due [post]
func (h *ReportHandler) HandleUnlockDue(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor := actorFromContext(c)
		logger.LogAction("report_unlock_due", c, nil)
		result, err := h.unlocks.UnlockDue(c.Context(), utility.CurrentTimeInMilli(), actor)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleUnlockOne mở khóa một báo cáo theo id (admin).
// @Router /reports/{id}/unlock [post]
func (h *ReportHandler) HandleUnlockOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		actor := actorFromContext(c)
		logger.LogAction("report_unlock", c, map[string]interface{}{"reportId": id.Hex()})
		item, err := h.unlocks.UnlockOne(c.Context(), id, actor, utility.CurrentTimeInMilli())
		h.HandleResponse(c, item, err)
		return nil
	})
}

// HandleUnlockMany mở khóa một danh sách báo cáo (admin).
// Thu kết quả từng báo cáo, không dừng ở lỗi đầu tiên.
// @Router /reports/unlock-many [post]
func (h *ReportHandler) HandleUnlockMany(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		input := new(unlockManyInput)
		if err := c.Bind().Body(input); err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Danh sách reportIds không hợp lệ",
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		actor := actorFromContext(c)
		logger.LogAction("report_unlock_many", c, map[string]interface{}{"count": len(input.ReportIDs)})
		result := h.unlocks.UnlockMany(c.Context(), input.ReportIDs, actor, utility.CurrentTimeInMilli())
		h.HandleResponse(c, result, nil)
		return nil
	})
}

// actorFromContext lấy danh tính người thao tác từ token đã xác thực.
func actorFromContext(c fiber.Ctx) string {
	if email, ok := c.Locals("userEmail").(string); ok && email != "" {
		return email
	}
	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		return userID
	}
	return "unknown"
}
