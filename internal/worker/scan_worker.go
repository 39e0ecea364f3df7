// Package worker - các tiến trình nền chạy định kỳ: quét lượt xem, mở khóa báo cáo.
package worker

import (
	"context"
	"time"

	scansvc "evernet/internal/api/scan/service"
	"evernet/internal/global"
	"evernet/internal/logger"

	"github.com/sirupsen/logrus"
)

// ScanWorker worker quét lượt xem YouTube định kỳ: chọn batch video đang theo dõi,
// lấy thống kê từ provider và ghi sổ phần tăng lượt xem thành thu nhập tạm khóa.
type ScanWorker struct {
	engine    *scansvc.ScanEngine
	interval  time.Duration // Khoảng thời gian giữa các lần chạy (vd: 24h)
	batchSize int64         // Số video tối đa mỗi lần quét
}

// NewScanWorker tạo worker mới với cấu hình từ ServerConfig.
func NewScanWorker() (*ScanWorker, error) {
	engine, err := scansvc.NewScanEngineDefault()
	if err != nil {
		return nil, err
	}
	interval := time.Duration(global.ServerConfig.ScanIntervalHours) * time.Hour
	if interval < time.Hour {
		interval = 24 * time.Hour
	}
	batchSize := int64(global.ServerConfig.ScanBatchSize)
	if batchSize <= 0 {
		batchSize = 500
	}
	return &ScanWorker{
		engine:    engine,
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

// Start chạy worker trong vòng lặp.
func (w *ScanWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("🔍 [VIEW_SCAN] Starting View Scan Worker...")

	// Chạy ngay lần đầu sau 1 phút (tránh chạy lúc startup)
	time.Sleep(time.Minute)
	w.runOnce(ctx, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("🔍 [VIEW_SCAN] View Scan Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx, log)
		}
	}
}

// runOnce chạy một đợt quét, recover để worker sống qua panic.
func (w *ScanWorker) runOnce(ctx context.Context, log *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🔍 [VIEW_SCAN] Panic khi quét, sẽ tiếp tục lần chạy tiếp theo")
		}
	}()

	result, err := w.engine.RunBatch(ctx, w.batchSize)
	if err != nil {
		log.WithError(err).Error("🔍 [VIEW_SCAN] Đợt quét thất bại")
		return
	}

	log.WithFields(map[string]interface{}{
		"batchId":   result.BatchID,
		"selected":  result.Selected,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"skipped":   result.Skipped,
	}).Info("🔍 [VIEW_SCAN] Đã ghi sổ đợt quét lượt xem")
}
