package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("0.30")
	assert.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("0.30")), "parse phải giữ nguyên giá trị thập phân")

	_, err = ParseAmount("abc")
	assert.Error(t, err, "chuỗi không phải số phải bị từ chối")

	_, err = ParseAmount("-0.10")
	assert.Error(t, err, "số tiền âm phải bị từ chối")
}

func TestPremiumViews(t *testing.T) {
	// Ví dụ chuẩn: 150.000 lượt xem mới, 7% premium → 10.500 lượt premium
	assert.Equal(t, int64(10500), PremiumViews(150000, 7))

	// Làm tròn xuống: 99 lượt × 7% = 6.93 → 6
	assert.Equal(t, int64(6), PremiumViews(99, 7))

	// Delta 0 hoặc share 0 → 0
	assert.Equal(t, int64(0), PremiumViews(0, 7))
	assert.Equal(t, int64(0), PremiumViews(1000, 0))
	assert.Equal(t, int64(0), PremiumViews(-50, 7))
}

func TestEarningsCents(t *testing.T) {
	rate := decimal.RequireFromString("0.30")

	// 10.500 lượt premium × $0.30/1000 = $3.15 = 315 cents, chính xác tuyệt đối
	assert.Equal(t, int64(315), EarningsCents(10500, rate))

	// Làm tròn xuống cent: 1 lượt × $0.30/1000 = $0.0003 → 0 cents
	assert.Equal(t, int64(0), EarningsCents(1, rate))

	// 34 lượt × $0.30/1000 = $0.0102 → 1 cent
	assert.Equal(t, int64(1), EarningsCents(34, rate))

	// Rate 0 hoặc âm → 0
	assert.Equal(t, int64(0), EarningsCents(10500, decimal.Zero))
	assert.Equal(t, int64(0), EarningsCents(-5, rate))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "3.15", FormatCents(315))
	assert.Equal(t, "31.50", FormatCents(3150))
	assert.Equal(t, "0.00", FormatCents(0))
}
