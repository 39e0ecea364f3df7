// Package scanhdl - handler chạy quét thủ công và tra cứu nhật ký quét.
package scanhdl

import (
	"fmt"
	"strconv"

	basehdl "evernet/internal/api/base/handler"
	basesvc "evernet/internal/api/base/service"
	models "evernet/internal/api/scan/models"
	scansvc "evernet/internal/api/scan/service"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// ScanHandler xử lý các route quét.
type ScanHandler struct {
	basehdl.BaseHandler[models.ScanLog, models.ScanLog, models.ScanLog]
	engine *scansvc.ScanEngine
}

// NewScanHandler tạo mới ScanHandler
func NewScanHandler() (*ScanHandler, error) {
	engine, err := scansvc.NewScanEngineDefault()
	if err != nil {
		return nil, err
	}
	logCollection, exist := global.RegistryCollections.Get(global.ColScanLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get scan_logs collection: %v", common.ErrNotFound)
	}
	handler := &ScanHandler{engine: engine}
	handler.BaseService = basesvc.NewBaseServiceMongo[models.ScanLog](logCollection)
	return handler, nil
}

// HandleRunScan chạy ngay một đợt quét (admin).
// Query param batchSize giới hạn số video, mặc định theo cấu hình.
// @Router /scan/run [post]
func (h *ScanHandler) HandleRunScan(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		batchSize := int64(global.ServerConfig.ScanBatchSize)
		if raw := c.Query("batchSize"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				h.HandleResponse(c, nil, common.NewError(
					common.ErrCodeValidationInput,
					"batchSize phải là số nguyên dương",
					common.StatusBadRequest,
					err,
				))
				return nil
			}
			batchSize = parsed
		}

		logger.LogAction("scan_run", c, map[string]interface{}{"batchSize": batchSize})
		result, err := h.engine.RunBatch(c.Context(), batchSize)
		h.HandleResponse(c, result, err)
		return nil
	})
}
