// Package scansvc - engine quét lượt xem và ghi sổ thu nhập.
package scansvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "evernet/internal/api/base/service"
	ledgersvc "evernet/internal/api/ledger/service"
	models "evernet/internal/api/scan/models"
	settingsmodels "evernet/internal/api/settings/models"
	settingssvc "evernet/internal/api/settings/service"
	videomodels "evernet/internal/api/video/models"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/logger"
	"evernet/internal/money"
	"evernet/internal/utility"
	"evernet/internal/youtube"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Ledger là phần của ledger service mà engine cần.
type Ledger interface {
	SelectScanBatch(ctx context.Context, batchSize int64) ([]videomodels.TrackedVideo, error)
	ApplyVideoScan(ctx context.Context, videoID string, baselineViews, currentViews, delta, premiumDelta, earningsCents int64, now int64) (*videomodels.TrackedVideo, error)
	CreditCreatorEarnings(ctx context.Context, creatorID primitive.ObjectID, amountCents int64) error
}

// StatsFetcher lấy thống kê lượt xem theo lô.
// Id thuộc chunk gọi API thất bại nằm trong map failed, không làm hỏng cả lô.
type StatsFetcher interface {
	FetchMany(ctx context.Context, videoIDs []string) (map[string]*youtube.VideoStats, map[string]error, error)
}

// RateLoader đọc snapshot cấu hình đơn giá.
type RateLoader interface {
	Load(ctx context.Context) (*settingsmodels.RateSnapshot, error)
}

// ScanLogWriter ghi nhật ký đợt quét (append-only).
type ScanLogWriter interface {
	InsertOne(ctx context.Context, log models.ScanLog) (models.ScanLog, error)
}

// ScanEngine chạy một đợt quét: chọn video, lấy stats, tính delta và ghi sổ.
type ScanEngine struct {
	ledger      Ledger
	fetcher     StatsFetcher
	rates       RateLoader
	logs        ScanLogWriter
	concurrency int
}

// NewScanEngine tạo engine với các collaborator chỉ định (dùng cho test).
func NewScanEngine(ledger Ledger, fetcher StatsFetcher, rates RateLoader, logs ScanLogWriter, concurrency int) *ScanEngine {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ScanEngine{
		ledger:      ledger,
		fetcher:     fetcher,
		rates:       rates,
		logs:        logs,
		concurrency: concurrency,
	}
}

// NewScanEngineDefault dựng engine với các service thật từ registry.
func NewScanEngineDefault() (*ScanEngine, error) {
	ledger, err := ledgersvc.NewLedgerService()
	if err != nil {
		return nil, err
	}
	rates, err := settingssvc.NewRateConfigService()
	if err != nil {
		return nil, err
	}
	logCollection, exist := global.RegistryCollections.Get(global.ColScanLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get scan_logs collection: %v", common.ErrNotFound)
	}
	return NewScanEngine(
		ledger,
		global.YouTubeClient,
		rates,
		basesvc.NewBaseServiceMongo[models.ScanLog](logCollection),
		global.ServerConfig.ScanConcurrency,
	), nil
}

// RunBatch chạy một đợt quét với tối đa batchSize video.
//
// Thứ tự nghiêm ngặt: cấu hình đơn giá được load và validate TRƯỚC khi có bất
// kỳ side effect nào — cấu hình hỏng thì cả đợt dừng sạch. Sau đó mỗi video
// được xử lý độc lập: lỗi của một video không bao giờ làm hỏng cả đợt, các
// video đã ghi sổ trước đó giữ nguyên kết quả.
func (e *ScanEngine) RunBatch(ctx context.Context, batchSize int64) (*models.BatchResult, error) {
	snap, err := e.rates.Load(ctx)
	if err != nil {
		return nil, err
	}

	startedAt := utility.CurrentTimeInMilli()
	videos, err := e.ledger.SelectScanBatch(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	result := &models.BatchResult{
		BatchID:  uuid.NewString(),
		Selected: int64(len(videos)),
		Items:    make([]models.ScanItem, len(videos)),
	}
	if len(videos) == 0 {
		e.writeLog(ctx, result, startedAt)
		return result, nil
	}

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.VideoID
	}
	stats, fetchFailed, err := e.fetcher.FetchMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range videos {
		i := i
		g.Go(func() error {
			id := videos[i].VideoID
			result.Items[i] = e.scanOne(gctx, &videos[i], stats[id], fetchFailed[id], snap)
			return nil
		})
	}
	_ = g.Wait()

	for _, item := range result.Items {
		switch item.Status {
		case models.ScanItemOK:
			result.Succeeded++
		case models.ScanItemSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	e.writeLog(ctx, result, startedAt)
	logrus.WithFields(logrus.Fields{
		"batchId":   result.BatchID,
		"selected":  result.Selected,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"skipped":   result.Skipped,
	}).Info("🔍 Hoàn tất đợt quét lượt xem")
	return result, nil
}

// scanOne xử lý một video: tính delta so với baseline, quy ra lượt xem premium
// và tiền, rồi ghi sổ qua CAS. Không bao giờ panic xuyên qua đợt quét.
func (e *ScanEngine) scanOne(ctx context.Context, video *videomodels.TrackedVideo, stat *youtube.VideoStats, fetchErr error, snap *settingsmodels.RateSnapshot) (item models.ScanItem) {
	item = models.ScanItem{
		VideoID:   video.VideoID,
		CreatorID: video.CreatorID.Hex(),
	}

	// Chunk chứa video này gọi API thất bại — lỗi tạm thời, lần quét sau thử lại
	if fetchErr != nil {
		item.Status = models.ScanItemFailed
		item.Reason = fmt.Sprintf("không lấy được thống kê: %v", fetchErr)
		return item
	}

	if stat == nil {
		item.Status = models.ScanItemFailed
		item.Reason = "video không còn tồn tại trên YouTube"
		return item
	}

	// delta âm (lượt xem bị rút) quy về 0, nhưng baseline vẫn hạ xuống
	delta := stat.ViewCount - video.LastKnownViews
	if delta < 0 {
		delta = 0
	}

	share := video.PremiumSharePercent
	if share == 0 {
		share = snap.DefaultSharePercent
	}
	premiumDelta := money.PremiumViews(delta, share)
	earningsCents := money.EarningsCents(premiumDelta, snap.RatePer1000)

	now := utility.CurrentTimeInMilli()
	if _, err := e.ledger.ApplyVideoScan(ctx, video.VideoID, video.LastKnownViews, stat.ViewCount, delta, premiumDelta, earningsCents, now); err != nil {
		if errors.Is(err, common.ErrLedgerConflict) {
			item.Status = models.ScanItemSkipped
			item.Reason = "lần quét khác đã ghi sổ trước"
			return item
		}
		item.Status = models.ScanItemFailed
		item.Reason = err.Error()
		return item
	}

	item.Delta = delta
	item.PremiumDelta = premiumDelta
	item.EarningsCents = earningsCents

	if earningsCents > 0 {
		if err := e.ledger.CreditCreatorEarnings(ctx, video.CreatorID, earningsCents); err != nil {
			item.Status = models.ScanItemFailed
			item.Reason = fmt.Sprintf("ghi sổ video xong nhưng cộng số dư thất bại: %v", err)
			return item
		}
	}

	item.Status = models.ScanItemOK
	return item
}

// writeLog ghi ScanLog append-only; lỗi ghi log không làm hỏng kết quả đợt quét.
func (e *ScanEngine) writeLog(ctx context.Context, result *models.BatchResult, startedAt int64) {
	if e.logs == nil {
		return
	}
	_, err := e.logs.InsertOne(ctx, models.ScanLog{
		BatchID:    result.BatchID,
		StartedAt:  startedAt,
		FinishedAt: utility.CurrentTimeInMilli(),
		Selected:   result.Selected,
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		Skipped:    result.Skipped,
		Items:      result.Items,
	})
	if err != nil {
		logger.GetErrorLogger().WithError(err).Error("Không ghi được nhật ký đợt quét")
	}
}
