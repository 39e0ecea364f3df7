package scansvc

import (
	"context"
	"sync"
	"testing"

	ledgersvc "evernet/internal/api/ledger/service"
	models "evernet/internal/api/scan/models"
	settingsmodels "evernet/internal/api/settings/models"
	videomodels "evernet/internal/api/video/models"
	"evernet/internal/common"
	"evernet/internal/youtube"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeLedger mô phỏng ledger trong bộ nhớ với đúng ngữ nghĩa CAS của bản thật:
// ApplyVideoScan chỉ thành công khi baseline khớp lastKnownViews đang lưu.
type fakeLedger struct {
	mu       sync.Mutex
	videos   map[string]*videomodels.TrackedVideo
	balances map[string]int64 // key: creatorID.Hex() + "/" + field
}

func newFakeLedger(videos ...*videomodels.TrackedVideo) *fakeLedger {
	l := &fakeLedger{
		videos:   make(map[string]*videomodels.TrackedVideo),
		balances: make(map[string]int64),
	}
	for _, v := range videos {
		l.videos[v.VideoID] = v
	}
	return l
}

func (l *fakeLedger) SelectScanBatch(ctx context.Context, batchSize int64) ([]videomodels.TrackedVideo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []videomodels.TrackedVideo
	for _, v := range l.videos {
		if int64(len(out)) >= batchSize {
			break
		}
		out = append(out, *v)
	}
	return out, nil
}

func (l *fakeLedger) ApplyVideoScan(ctx context.Context, videoID string, baselineViews, currentViews, delta, premiumDelta, earningsCents int64, now int64) (*videomodels.TrackedVideo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.videos[videoID]
	if !ok || v.LastKnownViews != baselineViews {
		return nil, common.ErrLedgerConflict
	}
	v.LastKnownViews = currentViews
	v.AccruedViews += delta
	v.AccruedPremiumViews += premiumDelta
	v.PeriodViews += delta
	v.PeriodPremiumViews += premiumDelta
	v.LifetimeEarningsCents += earningsCents
	v.PeriodEarningsCents += earningsCents
	v.LastScannedAt = now
	copied := *v
	return &copied, nil
}

func (l *fakeLedger) CreditCreatorEarnings(ctx context.Context, creatorID primitive.ObjectID, amountCents int64) error {
	if amountCents <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[creatorID.Hex()+"/"+ledgersvc.FieldLockedBalance] += amountCents
	l.balances[creatorID.Hex()+"/"+ledgersvc.FieldLifetimeEarnings] += amountCents
	return nil
}

func (l *fakeLedger) balance(creatorID primitive.ObjectID, field string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[creatorID.Hex()+"/"+field]
}

// fakeFetcher trả về stats cố định; id vắng mặt trong map nghĩa là video đã
// biến mất, id trong failed nghĩa là chunk chứa nó gọi API thất bại.
type fakeFetcher struct {
	stats  map[string]*youtube.VideoStats
	failed map[string]error
}

func (f *fakeFetcher) FetchMany(ctx context.Context, videoIDs []string) (map[string]*youtube.VideoStats, map[string]error, error) {
	return f.stats, f.failed, nil
}

// fakeRates trả về snapshot cố định hoặc lỗi cấu hình.
type fakeRates struct {
	snap *settingsmodels.RateSnapshot
	err  error
}

func (r *fakeRates) Load(ctx context.Context) (*settingsmodels.RateSnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.snap, nil
}

// fakeLogWriter thu các ScanLog đã ghi.
type fakeLogWriter struct {
	mu   sync.Mutex
	logs []models.ScanLog
}

func (w *fakeLogWriter) InsertOne(ctx context.Context, log models.ScanLog) (models.ScanLog, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logs = append(w.logs, log)
	return log, nil
}

func defaultSnapshot() *settingsmodels.RateSnapshot {
	return &settingsmodels.RateSnapshot{
		RatePer1000:         decimal.RequireFromString("0.30"),
		DefaultSharePercent: 7,
		LockPeriodDays:      30,
		MinWithdrawalCents:  0,
	}
}

func trackedVideo(videoID string, creatorID primitive.ObjectID, lastKnown int64) *videomodels.TrackedVideo {
	return &videomodels.TrackedVideo{
		ID:             primitive.NewObjectID(),
		VideoID:        videoID,
		CreatorID:      creatorID,
		LastKnownViews: lastKnown,
		ScanEnabled:    true,
	}
}

func itemByVideo(t *testing.T, result *models.BatchResult, videoID string) models.ScanItem {
	t.Helper()
	for _, item := range result.Items {
		if item.VideoID == videoID {
			return item
		}
	}
	t.Fatalf("không tìm thấy item cho video %s", videoID)
	return models.ScanItem{}
}

func TestRunBatchCreditsEarnings(t *testing.T) {
	creator := primitive.NewObjectID()
	ledger := newFakeLedger(trackedVideo("vid-1", creator, 0))
	fetcher := &fakeFetcher{stats: map[string]*youtube.VideoStats{
		"vid-1": {VideoID: "vid-1", ViewCount: 150000},
	}}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{snap: defaultSnapshot()}, &fakeLogWriter{}, 2)

	result, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err)

	// 150.000 lượt mới × 7% = 10.500 premium × $0.30/1000 = $3.15
	item := itemByVideo(t, result, "vid-1")
	assert.Equal(t, models.ScanItemOK, item.Status)
	assert.Equal(t, int64(150000), item.Delta)
	assert.Equal(t, int64(10500), item.PremiumDelta)
	assert.Equal(t, int64(315), item.EarningsCents)

	assert.Equal(t, int64(1), result.Succeeded)
	assert.Equal(t, int64(315), ledger.balance(creator, ledgersvc.FieldLockedBalance))
	assert.Equal(t, int64(315), ledger.balance(creator, ledgersvc.FieldLifetimeEarnings))
	assert.Equal(t, int64(150000), ledger.videos["vid-1"].LastKnownViews, "baseline phải tiến tới lượt xem hiện tại")
}

func TestRunBatchRescanWithoutNewViews(t *testing.T) {
	creator := primitive.NewObjectID()
	ledger := newFakeLedger(trackedVideo("vid-1", creator, 0))
	fetcher := &fakeFetcher{stats: map[string]*youtube.VideoStats{
		"vid-1": {VideoID: "vid-1", ViewCount: 150000},
	}}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{snap: defaultSnapshot()}, &fakeLogWriter{}, 1)

	_, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err)

	// Quét lại khi lượt xem không đổi: delta 0, không cộng thêm tiền
	result, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err)

	item := itemByVideo(t, result, "vid-1")
	assert.Equal(t, models.ScanItemOK, item.Status)
	assert.Equal(t, int64(0), item.Delta)
	assert.Equal(t, int64(0), item.EarningsCents)
	assert.Equal(t, int64(315), ledger.balance(creator, ledgersvc.FieldLockedBalance), "số dư không được cộng hai lần")
}

func TestRunBatchNegativeDeltaLowersBaseline(t *testing.T) {
	creator := primitive.NewObjectID()
	ledger := newFakeLedger(trackedVideo("vid-1", creator, 200000))
	fetcher := &fakeFetcher{stats: map[string]*youtube.VideoStats{
		"vid-1": {VideoID: "vid-1", ViewCount: 180000}, // YouTube rút lượt xem
	}}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{snap: defaultSnapshot()}, &fakeLogWriter{}, 1)

	result, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err)

	item := itemByVideo(t, result, "vid-1")
	assert.Equal(t, models.ScanItemOK, item.Status)
	assert.Equal(t, int64(0), item.Delta, "delta âm quy về 0")
	assert.Equal(t, int64(0), ledger.balance(creator, ledgersvc.FieldLockedBalance))
	assert.Equal(t, int64(180000), ledger.videos["vid-1"].LastKnownViews, "baseline vẫn phải hạ theo lượt xem hiện tại")
}

func TestRunBatchSkipsOnLedgerConflict(t *testing.T) {
	creator := primitive.NewObjectID()
	video := trackedVideo("vid-1", creator, 100)
	ledger := newFakeLedger(video)
	fetcher := &fakeFetcher{stats: map[string]*youtube.VideoStats{
		"vid-1": {VideoID: "vid-1", ViewCount: 5000},
	}}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{snap: defaultSnapshot()}, &fakeLogWriter{}, 1)

	// Một lần quét song song đã tiến baseline sau khi batch được chọn
	batch, err := ledger.SelectScanBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	_, err = ledger.ApplyVideoScan(context.Background(), "vid-1", 100, 5000, 4900, 343, 10, 1)
	require.NoError(t, err)
	balanceBefore := ledger.balance(creator, ledgersvc.FieldLockedBalance)

	result, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err)

	item := itemByVideo(t, result, "vid-1")
	assert.Equal(t, models.ScanItemSkipped, item.Status)
	assert.Equal(t, int64(1), result.Skipped)
	assert.Equal(t, balanceBefore, ledger.balance(creator, ledgersvc.FieldLockedBalance), "CAS trượt không được gây side effect số dư")
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	creator := primitive.NewObjectID()
	ledger := newFakeLedger(
		trackedVideo("vid-ok", creator, 0),
		trackedVideo("vid-gone", creator, 0),
	)
	// vid-gone vắng mặt trong response: video đã bị xóa/ẩn
	fetcher := &fakeFetcher{stats: map[string]*youtube.VideoStats{
		"vid-ok": {VideoID: "vid-ok", ViewCount: 1000},
	}}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{snap: defaultSnapshot()}, &fakeLogWriter{}, 2)

	result, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Succeeded)
	assert.Equal(t, int64(1), result.Failed)
	assert.Equal(t, models.ScanItemOK, itemByVideo(t, result, "vid-ok").Status)
	assert.Equal(t, models.ScanItemFailed, itemByVideo(t, result, "vid-gone").Status)
}

func TestRunBatchContinuesPastProviderFailures(t *testing.T) {
	// Chunk gọi API thất bại chỉ làm fail các video trong chunk đó,
	// các video lấy được stats vẫn phải ghi sổ và đợt quét vẫn có ScanLog.
	creator := primitive.NewObjectID()
	ledger := newFakeLedger(
		trackedVideo("vid-ok", creator, 0),
		trackedVideo("vid-unreachable", creator, 0),
	)
	fetcher := &fakeFetcher{
		stats: map[string]*youtube.VideoStats{
			"vid-ok": {VideoID: "vid-ok", ViewCount: 150000},
		},
		failed: map[string]error{
			"vid-unreachable": common.ErrProviderUnavailable,
		},
	}
	logs := &fakeLogWriter{}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{snap: defaultSnapshot()}, logs, 2)

	result, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err, "lỗi nhà cung cấp không được làm hỏng cả đợt quét")

	assert.Equal(t, int64(1), result.Succeeded)
	assert.Equal(t, int64(1), result.Failed)
	assert.Equal(t, models.ScanItemOK, itemByVideo(t, result, "vid-ok").Status)
	assert.Equal(t, models.ScanItemFailed, itemByVideo(t, result, "vid-unreachable").Status)
	assert.Equal(t, int64(315), ledger.balance(creator, ledgersvc.FieldLockedBalance), "video lấy được stats vẫn phải được ghi sổ")
	assert.Equal(t, int64(0), ledger.videos["vid-unreachable"].LastKnownViews, "video lỗi tạm thời giữ nguyên baseline để lần sau quét lại")
	require.Len(t, logs.logs, 1, "đợt quét có lỗi từng video vẫn phải ghi ScanLog")
}

func TestRunBatchAbortsOnInvalidConfig(t *testing.T) {
	creator := primitive.NewObjectID()
	ledger := newFakeLedger(trackedVideo("vid-1", creator, 0))
	fetcher := &fakeFetcher{stats: map[string]*youtube.VideoStats{
		"vid-1": {VideoID: "vid-1", ViewCount: 1000},
	}}
	logs := &fakeLogWriter{}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{err: common.ErrInvalidConfiguration}, logs, 1)

	_, err := engine.RunBatch(context.Background(), 10)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
	assert.Equal(t, int64(0), ledger.videos["vid-1"].LastKnownViews, "cấu hình hỏng phải dừng trước mọi side effect")
	assert.Empty(t, logs.logs)
}

func TestRunBatchUsesPerVideoShareOverride(t *testing.T) {
	creator := primitive.NewObjectID()
	video := trackedVideo("vid-1", creator, 0)
	video.PremiumSharePercent = 50
	ledger := newFakeLedger(video)
	fetcher := &fakeFetcher{stats: map[string]*youtube.VideoStats{
		"vid-1": {VideoID: "vid-1", ViewCount: 1000},
	}}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{snap: defaultSnapshot()}, &fakeLogWriter{}, 1)

	result, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err)

	item := itemByVideo(t, result, "vid-1")
	assert.Equal(t, int64(500), item.PremiumDelta, "override 50% phải thắng mặc định 7%")
}

func TestRunBatchWritesScanLog(t *testing.T) {
	creator := primitive.NewObjectID()
	ledger := newFakeLedger(trackedVideo("vid-1", creator, 0))
	fetcher := &fakeFetcher{stats: map[string]*youtube.VideoStats{
		"vid-1": {VideoID: "vid-1", ViewCount: 1000},
	}}
	logs := &fakeLogWriter{}
	engine := NewScanEngine(ledger, fetcher, &fakeRates{snap: defaultSnapshot()}, logs, 1)

	result, err := engine.RunBatch(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, logs.logs, 1)
	assert.Equal(t, result.BatchID, logs.logs[0].BatchID)
	assert.Equal(t, int64(1), logs.logs[0].Selected)
	assert.Len(t, logs.logs[0].Items, 1)
	assert.NotZero(t, logs.logs[0].StartedAt)
}
