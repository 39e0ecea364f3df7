package settingssvc

import (
	"testing"

	models "evernet/internal/api/settings/models"
	"evernet/internal/common"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRateConfig() *models.RateConfig {
	return &models.RateConfig{
		Key:                        models.RateConfigKey,
		PayoutRatePer1000:          "0.30",
		DefaultPremiumSharePercent: 7,
		LockPeriodDays:             30,
		MinWithdrawalCents:         50000,
	}
}

func TestSnapshotValid(t *testing.T) {
	snap, err := Snapshot(validRateConfig())
	require.NoError(t, err)

	assert.True(t, snap.RatePer1000.Equal(decimal.RequireFromString("0.30")))
	assert.Equal(t, int64(7), snap.DefaultSharePercent)
	assert.Equal(t, int64(30), snap.LockPeriodDays)
	assert.Equal(t, int64(50000), snap.MinWithdrawalCents)
}

func TestSnapshotRejectsBadRate(t *testing.T) {
	cfg := validRateConfig()
	cfg.PayoutRatePer1000 = "không phải số"
	_, err := Snapshot(cfg)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	cfg.PayoutRatePer1000 = "-0.10"
	_, err = Snapshot(cfg)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestSnapshotRejectsShareOutOfRange(t *testing.T) {
	cfg := validRateConfig()
	cfg.DefaultPremiumSharePercent = 101
	_, err := Snapshot(cfg)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	cfg.DefaultPremiumSharePercent = -1
	_, err = Snapshot(cfg)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestSnapshotRejectsNonPositiveLockPeriod(t *testing.T) {
	cfg := validRateConfig()
	cfg.LockPeriodDays = 0
	_, err := Snapshot(cfg)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestSnapshotRejectsNegativeMinWithdrawal(t *testing.T) {
	cfg := validRateConfig()
	cfg.MinWithdrawalCents = -1
	_, err := Snapshot(cfg)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}
