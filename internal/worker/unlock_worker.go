package worker

import (
	"context"
	"time"

	payoutsvc "evernet/internal/api/payout/service"
	"evernet/internal/global"
	"evernet/internal/logger"
	"evernet/internal/utility"

	"github.com/sirupsen/logrus"
)

// UnlockActorSystem là danh tính ghi vào audit trail khi worker tự mở khóa.
const UnlockActorSystem = "system"

// UnlockWorker worker mở khóa báo cáo tháng đã qua thời gian giữ:
// chuyển tiền từ số dư khóa sang số dư khả dụng của creator.
type UnlockWorker struct {
	engine   *payoutsvc.UnlockEngine
	interval time.Duration // Khoảng thời gian giữa các lần chạy (vd: 1h)
}

// NewUnlockWorker tạo worker mới với cấu hình từ ServerConfig.
func NewUnlockWorker() (*UnlockWorker, error) {
	engine, err := payoutsvc.NewUnlockEngineDefault()
	if err != nil {
		return nil, err
	}
	interval := time.Duration(global.ServerConfig.UnlockIntervalMinutes) * time.Minute
	if interval < time.Minute {
		interval = time.Hour
	}
	return &UnlockWorker{engine: engine, interval: interval}, nil
}

// Start chạy worker trong vòng lặp.
func (w *UnlockWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🔓 [REPORT_UNLOCK] Starting Report Unlock Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔓 [REPORT_UNLOCK] Report Unlock Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx, log)
		}
	}
}

// runOnce chạy một đợt mở khóa, recover để worker sống qua panic.
func (w *UnlockWorker) runOnce(ctx context.Context, log *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🔓 [REPORT_UNLOCK] Panic khi mở khóa, sẽ tiếp tục lần chạy tiếp theo")
		}
	}()

	result, err := w.engine.UnlockDue(ctx, utility.CurrentTimeInMilli(), UnlockActorSystem)
	if err != nil {
		log.WithError(err).Error("🔓 [REPORT_UNLOCK] Đợt mở khóa thất bại")
		return
	}
	if result.Due == 0 {
		return
	}

	log.WithFields(map[string]interface{}{
		"due":      result.Due,
		"unlocked": result.Unlocked,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	}).Info("🔓 [REPORT_UNLOCK] Đã mở khóa báo cáo đến hạn")
}
