// Package dto - input cho domain settings.
package dto

// RateConfigCreateInput dùng khi tạo document cấu hình đơn giá.
type RateConfigCreateInput struct {
	PayoutRatePer1000          string `json:"payoutRatePer1000" validate:"required"`
	DefaultPremiumSharePercent int64  `json:"defaultPremiumSharePercent" validate:"gte=0,lte=100"`
	LockPeriodDays             int64  `json:"lockPeriodDays" validate:"gt=0"`
	MinWithdrawalCents         int64  `json:"minWithdrawalCents" validate:"gte=0"`
}

// RateConfigUpdateInput dùng khi cập nhật cấu hình đơn giá.
// Các field bỏ trống sẽ giữ nguyên giá trị cũ.
type RateConfigUpdateInput struct {
	PayoutRatePer1000          string `json:"payoutRatePer1000,omitempty" validate:"omitempty"`
	DefaultPremiumSharePercent *int64 `json:"defaultPremiumSharePercent,omitempty" validate:"omitempty"`
	LockPeriodDays             *int64 `json:"lockPeriodDays,omitempty" validate:"omitempty"`
	MinWithdrawalCents         *int64 `json:"minWithdrawalCents,omitempty" validate:"omitempty"`
}
