package payoutsvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "evernet/internal/api/base/service"
	ledgersvc "evernet/internal/api/ledger/service"
	models "evernet/internal/api/payout/models"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnlockLedger là phần của ledger service mà unlock engine cần.
type UnlockLedger interface {
	TransitionReport(ctx context.Context, reportID primitive.ObjectID, from, to string, set map[string]interface{}) (*models.MonthlyReport, error)
	TransferLockedToAvailable(ctx context.Context, creatorID primitive.ObjectID, amountCents int64) error
	FindDueReports(ctx context.Context, now int64) ([]models.MonthlyReport, error)
}

// ReportReader đọc báo cáo theo id.
type ReportReader interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (models.MonthlyReport, error)
}

// AuditWriter ghi audit trail append-only.
type AuditWriter interface {
	InsertOne(ctx context.Context, entry models.AuditLogEntry) (models.AuditLogEntry, error)
}

// Kết quả mở khóa từng báo cáo.
const (
	UnlockOK      = "unlocked"
	UnlockSkipped = "skipped"
	UnlockFailed  = "failed"
)

// UnlockItem là kết quả mở khóa một báo cáo.
type UnlockItem struct {
	ReportID    string `json:"reportId"`
	CreatorID   string `json:"creatorId,omitempty"`
	AmountCents int64  `json:"amountCents"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// UnlockResult tóm tắt một lần chạy mở khóa.
type UnlockResult struct {
	Due      int64        `json:"due"`
	Unlocked int64        `json:"unlocked"`
	Skipped  int64        `json:"skipped"`
	Failed   int64        `json:"failed"`
	Items    []UnlockItem `json:"items"`
}

func (r *UnlockResult) add(item UnlockItem) {
	switch item.Status {
	case UnlockOK:
		r.Unlocked++
	case UnlockSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
	r.Items = append(r.Items, item)
}

// UnlockEngine mở khóa các báo cáo tháng đã tới hạn: chuyển trạng thái bằng
// CAS rồi chuyển tiền từ số dư khóa sang số dư khả dụng.
type UnlockEngine struct {
	ledger  UnlockLedger
	reports ReportReader
	audits  AuditWriter
}

// NewUnlockEngine tạo engine với các collaborator chỉ định (dùng cho test).
func NewUnlockEngine(ledger UnlockLedger, reports ReportReader, audits AuditWriter) *UnlockEngine {
	return &UnlockEngine{ledger: ledger, reports: reports, audits: audits}
}

// NewUnlockEngineDefault dựng engine với các service thật từ registry.
func NewUnlockEngineDefault() (*UnlockEngine, error) {
	ledger, err := ledgersvc.NewLedgerService()
	if err != nil {
		return nil, err
	}
	reportCollection, exist := global.RegistryCollections.Get(global.ColMonthlyReports)
	if !exist {
		return nil, fmt.Errorf("failed to get monthly_reports collection: %v", common.ErrNotFound)
	}
	auditCollection, exist := global.RegistryCollections.Get(global.ColAuditLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get audit_logs collection: %v", common.ErrNotFound)
	}
	return NewUnlockEngine(
		ledger,
		basesvc.NewBaseServiceMongo[models.MonthlyReport](reportCollection),
		basesvc.NewBaseServiceMongo[models.AuditLogEntry](auditCollection),
	), nil
}

// UnlockOne mở khóa một báo cáo cụ thể.
// Từ chối với lý do rõ ràng và KHÔNG side effect khi báo cáo đã mở khóa
// hoặc chưa tới hạn.
func (e *UnlockEngine) UnlockOne(ctx context.Context, reportID primitive.ObjectID, actor string, now int64) (*UnlockItem, error) {
	report, err := e.reports.FindOneById(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.Status != models.ReportStatusLocked {
		return nil, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Báo cáo %s đã được mở khóa trước đó", reportID.Hex()),
			common.StatusConflict,
			nil,
		)
	}
	if now < report.LockedUntil {
		return nil, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Báo cáo %s chưa tới hạn mở khóa", reportID.Hex()),
			common.StatusBadRequest,
			nil,
		)
	}

	item := e.unlock(ctx, &report, actor, now)
	if item.Status == UnlockFailed {
		return &item, errors.New(item.Reason)
	}
	return &item, nil
}

// UnlockMany mở khóa một danh sách báo cáo, thu kết quả từng cái,
// không bao giờ dừng ở lỗi đầu tiên.
func (e *UnlockEngine) UnlockMany(ctx context.Context, reportIDs []primitive.ObjectID, actor string, now int64) *UnlockResult {
	result := &UnlockResult{Due: int64(len(reportIDs))}
	for _, id := range reportIDs {
		item, err := e.UnlockOne(ctx, id, actor, now)
		if err != nil && item == nil {
			item = &UnlockItem{ReportID: id.Hex(), Status: UnlockFailed, Reason: err.Error()}
		}
		result.add(*item)
	}
	return result
}

// UnlockDue mở khóa mọi báo cáo đã tới hạn.
// Báo cáo bị lần chạy khác mở trước (CAS trượt) được bỏ qua im lặng.
func (e *UnlockEngine) UnlockDue(ctx context.Context, now int64, actor string) (*UnlockResult, error) {
	due, err := e.ledger.FindDueReports(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &UnlockResult{Due: int64(len(due))}
	for i := range due {
		result.add(e.unlock(ctx, &due[i], actor, now))
	}

	logrus.WithFields(logrus.Fields{
		"due":      result.Due,
		"unlocked": result.Unlocked,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	}).Info("🔓 Hoàn tất mở khóa báo cáo đến hạn")
	return result, nil
}

// unlock thực hiện CAS locked→unlocked rồi chuyển tiền. CAS trượt nghĩa là
// một lần chạy song song đã mở báo cáo này — bỏ qua, tiền chỉ chuyển một lần.
func (e *UnlockEngine) unlock(ctx context.Context, report *models.MonthlyReport, actor string, now int64) UnlockItem {
	item := UnlockItem{
		ReportID:    report.ID.Hex(),
		CreatorID:   report.CreatorID.Hex(),
		AmountCents: report.PayoutAmountCents,
	}

	updated, err := e.ledger.TransitionReport(ctx, report.ID, models.ReportStatusLocked, models.ReportStatusUnlocked, map[string]interface{}{
		"unlockedAt": now,
		"unlockedBy": actor,
	})
	if err != nil {
		if errors.Is(err, common.ErrLedgerConflict) {
			item.Status = UnlockSkipped
			item.Reason = "đã được mở khóa bởi lần chạy khác"
			return item
		}
		item.Status = UnlockFailed
		item.Reason = err.Error()
		return item
	}

	// Báo cáo 0 đồng (tháng chỉ có view không đủ quy ra cent) vẫn mở khóa
	// bình thường, chỉ không có gì để chuyển.
	if updated.PayoutAmountCents == 0 {
		e.writeAudit(ctx, updated, actor)
		item.Status = UnlockOK
		return item
	}

	if err := e.ledger.TransferLockedToAvailable(ctx, updated.CreatorID, updated.PayoutAmountCents); err != nil {
		// Trạng thái đã chuyển nhưng tiền chưa — lỗi nghiêm trọng cần điều tra tay
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"reportId":  updated.ID.Hex(),
			"creatorId": updated.CreatorID.Hex(),
		}).Error("Mở khóa báo cáo nhưng chuyển số dư thất bại")
		item.Status = UnlockFailed
		item.Reason = fmt.Sprintf("chuyển số dư thất bại: %v", err)
		return item
	}

	e.writeAudit(ctx, updated, actor)
	item.Status = UnlockOK
	return item
}

// writeAudit ghi một dòng audit trail cho việc mở khóa.
func (e *UnlockEngine) writeAudit(ctx context.Context, report *models.MonthlyReport, actor string) {
	if e.audits == nil {
		return
	}
	_, err := e.audits.InsertOne(ctx, models.AuditLogEntry{
		Action:       "report_unlocked",
		Actor:        actor,
		CreatorID:    report.CreatorID,
		ReportID:     report.ID,
		AmountCents:  report.PayoutAmountCents,
		StatusBefore: models.ReportStatusLocked,
		StatusAfter:  models.ReportStatusUnlocked,
	})
	if err != nil {
		logger.GetErrorLogger().WithError(err).Error("Không ghi được audit log mở khóa")
	}

	logger.LogBalance("report_unlock", report.CreatorID.Hex(), report.PayoutAmountCents, map[string]interface{}{
		"reportId": report.ID.Hex(),
		"month":    report.Month,
		"actor":    actor,
	})
}
