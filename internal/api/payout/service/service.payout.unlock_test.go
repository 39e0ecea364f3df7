package payoutsvc

import (
	"context"
	"sync"
	"testing"

	models "evernet/internal/api/payout/models"
	"evernet/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUnlockLedger mô phỏng ledger trong bộ nhớ với đúng ngữ nghĩa CAS:
// TransitionReport chỉ thành công khi status đang là from.
type fakeUnlockLedger struct {
	mu       sync.Mutex
	reports  map[primitive.ObjectID]*models.MonthlyReport
	balances map[string]int64 // key: creatorID.Hex() + "/locked" hoặc "/available"
}

func newFakeUnlockLedger(reports ...*models.MonthlyReport) *fakeUnlockLedger {
	l := &fakeUnlockLedger{
		reports:  make(map[primitive.ObjectID]*models.MonthlyReport),
		balances: make(map[string]int64),
	}
	for _, r := range reports {
		l.reports[r.ID] = r
	}
	return l
}

func (l *fakeUnlockLedger) TransitionReport(ctx context.Context, reportID primitive.ObjectID, from, to string, set map[string]interface{}) (*models.MonthlyReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.reports[reportID]
	if !ok || r.Status != from {
		return nil, common.ErrLedgerConflict
	}
	r.Status = to
	if v, ok := set["unlockedAt"].(int64); ok {
		r.UnlockedAt = v
	}
	if v, ok := set["unlockedBy"].(string); ok {
		r.UnlockedBy = v
	}
	copied := *r
	return &copied, nil
}

func (l *fakeUnlockLedger) TransferLockedToAvailable(ctx context.Context, creatorID primitive.ObjectID, amountCents int64) error {
	if amountCents <= 0 {
		return common.ErrInvalidInput
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[creatorID.Hex()+"/locked"] -= amountCents
	l.balances[creatorID.Hex()+"/available"] += amountCents
	return nil
}

func (l *fakeUnlockLedger) FindDueReports(ctx context.Context, now int64) ([]models.MonthlyReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var due []models.MonthlyReport
	for _, r := range l.reports {
		if r.Status == models.ReportStatusLocked && r.LockedUntil <= now {
			due = append(due, *r)
		}
	}
	return due, nil
}

func (l *fakeUnlockLedger) FindOneById(ctx context.Context, id primitive.ObjectID) (models.MonthlyReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.reports[id]
	if !ok {
		var zero models.MonthlyReport
		return zero, common.ErrNotFound
	}
	return *r, nil
}

func (l *fakeUnlockLedger) available(creatorID primitive.ObjectID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[creatorID.Hex()+"/available"]
}

func (l *fakeUnlockLedger) locked(creatorID primitive.ObjectID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[creatorID.Hex()+"/locked"]
}

// fakeAuditWriter thu các AuditLogEntry đã ghi.
type fakeAuditWriter struct {
	mu      sync.Mutex
	entries []models.AuditLogEntry
}

func (w *fakeAuditWriter) InsertOne(ctx context.Context, entry models.AuditLogEntry) (models.AuditLogEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, entry)
	return entry, nil
}

func lockedReport(creatorID primitive.ObjectID, amountCents int64, lockedUntil int64) *models.MonthlyReport {
	return &models.MonthlyReport{
		ID:                primitive.NewObjectID(),
		CreatorID:         creatorID,
		Month:             "2026-07",
		PayoutAmountCents: amountCents,
		Status:            models.ReportStatusLocked,
		LockedUntil:       lockedUntil,
	}
}

func TestUnlockDueTransfersBalance(t *testing.T) {
	creator := primitive.NewObjectID()
	report := lockedReport(creator, 3150, 1000) // $31.50
	ledger := newFakeUnlockLedger(report)
	audits := &fakeAuditWriter{}
	engine := NewUnlockEngine(ledger, ledger, audits)

	result, err := engine.UnlockDue(context.Background(), 2000, "system")
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Unlocked)
	assert.Equal(t, int64(3150), ledger.available(creator))
	assert.Equal(t, int64(-3150), ledger.locked(creator))
	assert.Equal(t, models.ReportStatusUnlocked, ledger.reports[report.ID].Status)
	assert.Equal(t, "system", ledger.reports[report.ID].UnlockedBy)
	assert.Equal(t, int64(2000), ledger.reports[report.ID].UnlockedAt)

	require.Len(t, audits.entries, 1)
	assert.Equal(t, "report_unlocked", audits.entries[0].Action)
	assert.Equal(t, int64(3150), audits.entries[0].AmountCents)
	assert.Equal(t, models.ReportStatusLocked, audits.entries[0].StatusBefore)
	assert.Equal(t, models.ReportStatusUnlocked, audits.entries[0].StatusAfter)
}

func TestUnlockOneZeroPayoutReport(t *testing.T) {
	// Tháng có view nhưng thu nhập làm tròn xuống 0 cent vẫn tạo báo cáo.
	// Mở khóa phải thành công: không chuyển gì nhưng vẫn ghi audit trail.
	creator := primitive.NewObjectID()
	report := lockedReport(creator, 0, 1000)
	ledger := newFakeUnlockLedger(report)
	audits := &fakeAuditWriter{}
	engine := NewUnlockEngine(ledger, ledger, audits)

	item, err := engine.UnlockOne(context.Background(), report.ID, "admin@evernet.local", 2000)
	require.NoError(t, err)

	assert.Equal(t, UnlockOK, item.Status)
	assert.Equal(t, models.ReportStatusUnlocked, ledger.reports[report.ID].Status)
	assert.Equal(t, int64(0), ledger.available(creator))
	assert.Equal(t, int64(0), ledger.locked(creator))
	require.Len(t, audits.entries, 1, "báo cáo 0 đồng vẫn phải có đúng một dòng audit")
	assert.Equal(t, int64(0), audits.entries[0].AmountCents)
}

func TestUnlockDueIsExactlyOnce(t *testing.T) {
	creator := primitive.NewObjectID()
	report := lockedReport(creator, 3150, 1000)
	ledger := newFakeUnlockLedger(report)
	engine := NewUnlockEngine(ledger, ledger, &fakeAuditWriter{})

	_, err := engine.UnlockDue(context.Background(), 2000, "system")
	require.NoError(t, err)

	// Lần chạy thứ hai: báo cáo đã unlocked, không còn due → tiền chỉ chuyển một lần
	result, err := engine.UnlockDue(context.Background(), 2000, "system")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Due)
	assert.Equal(t, int64(3150), ledger.available(creator))
}

func TestUnlockDueSkipsConcurrentWinner(t *testing.T) {
	creator := primitive.NewObjectID()
	report := lockedReport(creator, 500, 1000)
	ledger := newFakeUnlockLedger(report)
	engine := NewUnlockEngine(ledger, ledger, &fakeAuditWriter{})

	// Lấy danh sách due rồi để lần chạy khác thắng CAS trước
	due, err := ledger.FindDueReports(context.Background(), 2000)
	require.NoError(t, err)
	require.Len(t, due, 1)
	_, err = ledger.TransitionReport(context.Background(), report.ID, models.ReportStatusLocked, models.ReportStatusUnlocked, map[string]interface{}{})
	require.NoError(t, err)
	availableBefore := ledger.available(creator)

	item := engine.unlock(context.Background(), &due[0], "system", 2000)
	assert.Equal(t, UnlockSkipped, item.Status)
	assert.Equal(t, availableBefore, ledger.available(creator), "CAS trượt không được chuyển tiền lần nữa")
}

func TestUnlockOneRejectsEarlyUnlock(t *testing.T) {
	creator := primitive.NewObjectID()
	report := lockedReport(creator, 500, 5000)
	ledger := newFakeUnlockLedger(report)
	engine := NewUnlockEngine(ledger, ledger, &fakeAuditWriter{})

	// now < lockedUntil: từ chối, không side effect
	_, err := engine.UnlockOne(context.Background(), report.ID, "admin@evernet.local", 4000)
	assert.Error(t, err)
	assert.Equal(t, models.ReportStatusLocked, ledger.reports[report.ID].Status)
	assert.Equal(t, int64(0), ledger.available(creator))
}

func TestUnlockOneRejectsAlreadyUnlocked(t *testing.T) {
	creator := primitive.NewObjectID()
	report := lockedReport(creator, 500, 1000)
	report.Status = models.ReportStatusUnlocked
	ledger := newFakeUnlockLedger(report)
	engine := NewUnlockEngine(ledger, ledger, &fakeAuditWriter{})

	_, err := engine.UnlockOne(context.Background(), report.ID, "admin@evernet.local", 2000)
	assert.Error(t, err)
	assert.Equal(t, int64(0), ledger.available(creator), "mở khóa lại không được chuyển tiền lần nữa")
}

func TestUnlockManyCollectsPerReportOutcomes(t *testing.T) {
	creator := primitive.NewObjectID()
	ok := lockedReport(creator, 1000, 1000)
	early := lockedReport(creator, 2000, 9999)
	ledger := newFakeUnlockLedger(ok, early)
	engine := NewUnlockEngine(ledger, ledger, &fakeAuditWriter{})

	missing := primitive.NewObjectID()
	result := engine.UnlockMany(context.Background(), []primitive.ObjectID{ok.ID, early.ID, missing}, "admin@evernet.local", 2000)

	assert.Equal(t, int64(1), result.Unlocked)
	assert.Equal(t, int64(2), result.Failed, "báo cáo chưa tới hạn và id không tồn tại đều phải ghi nhận lỗi riêng")
	assert.Len(t, result.Items, 3)
	assert.Equal(t, int64(1000), ledger.available(creator), "báo cáo hợp lệ trong danh sách vẫn phải được xử lý")
}
