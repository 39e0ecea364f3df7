// Package money xử lý tiền tệ cho hệ thống chia sẻ doanh thu.
// Số tiền được lưu trữ dưới dạng cents (int64) để các thao tác $inc của MongoDB
// luôn chính xác; shopspring/decimal chỉ dùng ở biên parse/tính toán/hiển thị.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"evernet/internal/common"
)

var (
	oneHundred  = decimal.NewFromInt(100)
	oneThousand = decimal.NewFromInt(1000)
)

// ParseAmount parse chuỗi số tiền USD (ví dụ "0.30") thành decimal.
// Trả về ErrInvalidConfiguration nếu chuỗi không hợp lệ hoặc âm.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("không parse được số tiền %q: %w", s, common.ErrInvalidConfiguration)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("số tiền %q âm: %w", s, common.ErrInvalidConfiguration)
	}
	return d, nil
}

// PremiumViews tính số lượt xem premium từ delta lượt xem và phần trăm premium.
// Kết quả làm tròn xuống: floor(delta × sharePercent / 100).
func PremiumViews(delta int64, sharePercent int64) int64 {
	if delta <= 0 || sharePercent <= 0 {
		return 0
	}
	return delta * sharePercent / 100
}

// EarningsCents tính số tiền (cents) từ số lượt xem premium và đơn giá mỗi 1000 lượt.
// Kết quả làm tròn xuống cent: floor(premiumViews × ratePer1000 / 1000 × 100).
//
// Ví dụ: 10.500 lượt premium × $0.30/1000 = $3.15 = 315 cents.
func EarningsCents(premiumViews int64, ratePer1000 decimal.Decimal) int64 {
	if premiumViews <= 0 || !ratePer1000.IsPositive() {
		return 0
	}
	dollars := decimal.NewFromInt(premiumViews).Mul(ratePer1000).Div(oneThousand)
	return dollars.Mul(oneHundred).Floor().IntPart()
}

// CentsToDecimal chuyển cents thành số tiền USD dạng decimal
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(oneHundred)
}

// FormatCents hiển thị cents dưới dạng chuỗi USD với 2 chữ số thập phân, ví dụ "3.15"
func FormatCents(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}
