// Package payoutsvc - chốt báo cáo tháng và mở khóa số dư.
package payoutsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basesvc "evernet/internal/api/base/service"
	ledgersvc "evernet/internal/api/ledger/service"
	models "evernet/internal/api/payout/models"
	settingssvc "evernet/internal/api/settings/service"
	videomodels "evernet/internal/api/video/models"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dayMillis là số mili giây trong một ngày.
const dayMillis = int64(24 * time.Hour / time.Millisecond)

// GenerateItem là kết quả chốt báo cáo cho một creator.
type GenerateItem struct {
	CreatorID         string `json:"creatorId"`
	ReportID          string `json:"reportId,omitempty"`
	PayoutAmountCents int64  `json:"payoutAmountCents"`
	Status            string `json:"status"` // created | exists | skipped | failed
	Reason            string `json:"reason,omitempty"`
}

// GenerateResult tóm tắt một lần chạy chốt báo cáo tháng.
type GenerateResult struct {
	Month   string         `json:"month"`
	Created int64          `json:"created"`
	Exists  int64          `json:"exists"`
	Skipped int64          `json:"skipped"`
	Failed  int64          `json:"failed"`
	Items   []GenerateItem `json:"items"`
}

// ReportService chốt báo cáo doanh thu tháng cho các creator.
type ReportService struct {
	*basesvc.BaseServiceMongoImpl[models.MonthlyReport]
	videos *basesvc.BaseServiceMongoImpl[videomodels.TrackedVideo]
	ledger *ledgersvc.LedgerService
	rates  *settingssvc.RateConfigService
}

// NewReportService tạo mới ReportService
func NewReportService() (*ReportService, error) {
	reportCollection, exist := global.RegistryCollections.Get(global.ColMonthlyReports)
	if !exist {
		return nil, fmt.Errorf("failed to get monthly_reports collection: %v", common.ErrNotFound)
	}
	videoCollection, exist := global.RegistryCollections.Get(global.ColTrackedVideos)
	if !exist {
		return nil, fmt.Errorf("failed to get tracked_videos collection: %v", common.ErrNotFound)
	}
	ledger, err := ledgersvc.NewLedgerService()
	if err != nil {
		return nil, err
	}
	rates, err := settingssvc.NewRateConfigService()
	if err != nil {
		return nil, err
	}
	return &ReportService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.MonthlyReport](reportCollection),
		videos:               basesvc.NewBaseServiceMongo[videomodels.TrackedVideo](videoCollection),
		ledger:               ledger,
		rates:                rates,
	}, nil
}

// GenerateMonthly chốt báo cáo tháng cho mọi creator có thu nhập trong kỳ.
//
// Idempotent theo cặp (creatorId, month): unique index chặn báo cáo trùng,
// chạy lại chỉ trả về "exists" và không đụng vào bộ đếm kỳ. payoutAmountCents
// bất biến sau khi tạo. Sau khi tạo thành công, phần đã chốt được trừ khỏi
// bộ đếm kỳ của từng video qua ledger.
func (s *ReportService) GenerateMonthly(ctx context.Context, month string) (*GenerateResult, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Tháng %q không đúng định dạng YYYY-MM", month),
			common.StatusBadRequest,
			err,
		)
	}

	snap, err := s.rates.Load(ctx)
	if err != nil {
		return nil, err
	}

	creatorIDs, err := s.videos.Distinct(ctx, "creatorId", bson.M{})
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Month: month}
	for _, raw := range creatorIDs {
		creatorID, ok := raw.(primitive.ObjectID)
		if !ok {
			continue
		}
		item := s.generateForCreator(ctx, creatorID, month, snap.LockPeriodDays)
		switch item.Status {
		case "created":
			result.Created++
		case "exists":
			result.Exists++
		case "skipped":
			result.Skipped++
		default:
			result.Failed++
		}
		result.Items = append(result.Items, item)
	}

	logrus.WithFields(logrus.Fields{
		"month":   month,
		"created": result.Created,
		"exists":  result.Exists,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	}).Info("📊 Hoàn tất chốt báo cáo tháng")
	return result, nil
}

// generateForCreator chốt báo cáo cho một creator. Không bao giờ làm hỏng
// cả lần chạy: mọi lỗi được gói vào item.
func (s *ReportService) generateForCreator(ctx context.Context, creatorID primitive.ObjectID, month string, lockPeriodDays int64) GenerateItem {
	item := GenerateItem{CreatorID: creatorID.Hex()}

	videos, err := s.videos.Find(ctx, bson.M{"creatorId": creatorID}, nil)
	if err != nil {
		item.Status = "failed"
		item.Reason = err.Error()
		return item
	}

	var totalViews, totalPremium, totalEarnings int64
	for _, v := range videos {
		totalViews += v.PeriodViews
		totalPremium += v.PeriodPremiumViews
		totalEarnings += v.PeriodEarningsCents
	}
	if totalEarnings == 0 && totalViews == 0 {
		item.Status = "skipped"
		item.Reason = "không có thu nhập trong kỳ"
		return item
	}

	now := utility.CurrentTimeInMilli()
	report := models.MonthlyReport{
		CreatorID:         creatorID,
		Month:             month,
		PayoutAmountCents: totalEarnings,
		TotalViews:        totalViews,
		TotalPremiumViews: totalPremium,
		Status:            models.ReportStatusLocked,
		LockedUntil:       now + lockPeriodDays*dayMillis,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, report)
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			// Unique index (creatorId, month): báo cáo đã được chốt trước đó
			item.Status = "exists"
			return item
		}
		item.Status = "failed"
		item.Reason = err.Error()
		return item
	}

	// Trừ phần đã chốt khỏi bộ đếm kỳ của từng video
	for _, v := range videos {
		if err := s.ledger.DeductVideoPeriod(ctx, v.VideoID, v.PeriodViews, v.PeriodPremiumViews, v.PeriodEarningsCents); err != nil {
			logrus.WithError(err).WithField("videoId", v.VideoID).Error("Không trừ được bộ đếm kỳ sau khi chốt báo cáo")
		}
	}

	item.ReportID = created.ID.Hex()
	item.PayoutAmountCents = created.PayoutAmountCents
	item.Status = "created"
	return item
}
