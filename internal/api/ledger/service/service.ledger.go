// Package ledgersvc - sổ cái của hệ thống: nơi DUY NHẤT được ghi baseline
// lượt xem, bộ đếm tích lũy và số dư creator. Mọi cập nhật đều nguyên tử,
// các chuyển trạng thái có điều kiện dùng CAS qua FindOneAndUpdate.
package ledgersvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "evernet/internal/api/base/service"
	creatormodels "evernet/internal/api/creator/models"
	payoutmodels "evernet/internal/api/payout/models"
	videomodels "evernet/internal/api/video/models"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Các field số dư creator mà ledger được phép tăng/giảm.
const (
	FieldLockedBalance    = "lockedBalanceCents"
	FieldAvailableBalance = "availableBalanceCents"
	FieldLifetimeEarnings = "lifetimeEarningsCents"
	FieldTotalWithdrawn   = "totalWithdrawnCents"
)

// LedgerService gom các thao tác ghi nguyên tử lên video, creator và báo cáo.
type LedgerService struct {
	videos   *basesvc.BaseServiceMongoImpl[videomodels.TrackedVideo]
	creators *basesvc.BaseServiceMongoImpl[creatormodels.CreatorAccount]
	reports  *basesvc.BaseServiceMongoImpl[payoutmodels.MonthlyReport]
}

// NewLedgerService tạo mới LedgerService
func NewLedgerService() (*LedgerService, error) {
	videoCollection, exist := global.RegistryCollections.Get(global.ColTrackedVideos)
	if !exist {
		return nil, fmt.Errorf("failed to get tracked_videos collection: %v", common.ErrNotFound)
	}
	creatorCollection, exist := global.RegistryCollections.Get(global.ColCreatorAccounts)
	if !exist {
		return nil, fmt.Errorf("failed to get creator_accounts collection: %v", common.ErrNotFound)
	}
	reportCollection, exist := global.RegistryCollections.Get(global.ColMonthlyReports)
	if !exist {
		return nil, fmt.Errorf("failed to get monthly_reports collection: %v", common.ErrNotFound)
	}
	return &LedgerService{
		videos:   basesvc.NewBaseServiceMongo[videomodels.TrackedVideo](videoCollection),
		creators: basesvc.NewBaseServiceMongo[creatormodels.CreatorAccount](creatorCollection),
		reports:  basesvc.NewBaseServiceMongo[payoutmodels.MonthlyReport](reportCollection),
	}, nil
}

// ApplyVideoScan ghi nhận kết quả quét một video trong MỘT thao tác nguyên tử.
// Filter ghim lastKnownViews == baselineViews: nếu một lần quét khác đã tiến
// baseline lên trước thì filter trượt và trả về ErrLedgerConflict — không có
// side effect nào, tiền không bị cộng trùng.
// Baseline luôn được set về currentViews, kể cả khi delta = 0 (lượt xem giảm).
func (s *LedgerService) ApplyVideoScan(ctx context.Context, videoID string, baselineViews, currentViews, delta, premiumDelta, earningsCents int64, now int64) (*videomodels.TrackedVideo, error) {
	filter := bson.M{
		"videoId":        videoID,
		"lastKnownViews": baselineViews,
	}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"lastKnownViews": currentViews,
			"lastScannedAt":  now,
		},
		Inc: map[string]interface{}{
			"accruedViews":          delta,
			"periodViews":           delta,
			"accruedPremiumViews":   premiumDelta,
			"periodPremiumViews":    premiumDelta,
			"periodEarningsCents":   earningsCents,
			"lifetimeEarningsCents": earningsCents,
		},
	}

	video, err := s.videos.FindOneAndUpdate(ctx, filter, update, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("video %s: baseline %d đã bị lần quét khác vượt qua: %w", videoID, baselineViews, common.ErrLedgerConflict)
		}
		return nil, err
	}
	return &video, nil
}

// CreditCreatorEarnings cộng thu nhập quét vào số dư khóa VÀ thu nhập lũy kế
// của creator trong MỘT update nguyên tử — hai bộ đếm không bao giờ lệch nhau.
// Field chưa tồn tại được Mongo coi là 0. Trả về ErrNotFound khi creator
// không tồn tại.
func (s *LedgerService) CreditCreatorEarnings(ctx context.Context, creatorID primitive.ObjectID, amountCents int64) error {
	if amountCents <= 0 {
		return nil
	}
	_, err := s.creators.FindOneAndUpdate(ctx, bson.M{"_id": creatorID}, &basesvc.UpdateData{
		Inc: map[string]interface{}{
			FieldLockedBalance:    amountCents,
			FieldLifetimeEarnings: amountCents,
		},
	}, nil)
	if err != nil {
		return err
	}

	logger.LogBalance("scan_credit", creatorID.Hex(), amountCents, nil)
	return nil
}

// TransferLockedToAvailable chuyển tiền từ số dư khóa sang số dư khả dụng
// trong MỘT update nguyên tử — tổng hai số dư không đổi tại mọi thời điểm.
func (s *LedgerService) TransferLockedToAvailable(ctx context.Context, creatorID primitive.ObjectID, amountCents int64) error {
	if amountCents <= 0 {
		return common.ErrInvalidInput
	}
	_, err := s.creators.FindOneAndUpdate(ctx, bson.M{"_id": creatorID}, &basesvc.UpdateData{
		Inc: map[string]interface{}{
			FieldLockedBalance:    -amountCents,
			FieldAvailableBalance: amountCents,
		},
	}, nil)
	if err != nil {
		return err
	}

	logger.LogBalance("unlock_transfer", creatorID.Hex(), amountCents, nil)
	return nil
}

// TransitionReport chuyển trạng thái một báo cáo bằng CAS trên status.
// Báo cáo không còn ở trạng thái from → ErrLedgerConflict, không side effect.
func (s *LedgerService) TransitionReport(ctx context.Context, reportID primitive.ObjectID, from, to string, set map[string]interface{}) (*payoutmodels.MonthlyReport, error) {
	if set == nil {
		set = map[string]interface{}{}
	}
	set["status"] = to

	report, err := s.reports.FindOneAndUpdate(ctx, bson.M{"_id": reportID, "status": from}, &basesvc.UpdateData{Set: set}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("báo cáo %s không còn ở trạng thái %s: %w", reportID.Hex(), from, common.ErrLedgerConflict)
		}
		return nil, err
	}
	return &report, nil
}

// DeductVideoPeriod trừ khỏi bộ đếm kỳ của video đúng phần đã được chốt vào
// báo cáo tháng. Trừ theo lượng snapshot thay vì set về 0: phần tích lũy thêm
// giữa lúc chốt và lúc trừ được giữ nguyên cho kỳ sau, tiền không bao giờ mất.
func (s *LedgerService) DeductVideoPeriod(ctx context.Context, videoID string, views, premiumViews, earningsCents int64) error {
	if views == 0 && premiumViews == 0 && earningsCents == 0 {
		return nil
	}
	_, err := s.videos.FindOneAndUpdate(ctx, bson.M{"videoId": videoID}, &basesvc.UpdateData{
		Inc: map[string]interface{}{
			"periodViews":         -views,
			"periodPremiumViews":  -premiumViews,
			"periodEarningsCents": -earningsCents,
		},
	}, nil)
	return err
}

// SelectScanBatch chọn tối đa batchSize video đang bật quét,
// sắp xếp ổn định theo videoId để các batch kế tiếp không giẫm nhau.
func (s *LedgerService) SelectScanBatch(ctx context.Context, batchSize int64) ([]videomodels.TrackedVideo, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "videoId", Value: 1}}).
		SetLimit(batchSize)
	return s.videos.Find(ctx, bson.M{"scanEnabled": true}, opts)
}

// FindDueReports trả về các báo cáo đang khóa đã tới hạn mở.
func (s *LedgerService) FindDueReports(ctx context.Context, now int64) ([]payoutmodels.MonthlyReport, error) {
	return s.reports.Find(ctx, bson.M{
		"status":      payoutmodels.ReportStatusLocked,
		"lockedUntil": bson.M{"$lte": now},
	}, nil)
}
