// Package models - model cấu hình đơn giá quy đổi (RateConfig) thuộc domain settings.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopspring/decimal"
)

// RateConfigKey là key cố định của document cấu hình đơn giá trong collection settings.
const RateConfigKey = "payout_rates"

// RateConfig là document cấu hình quy đổi lượt xem premium sang tiền.
// Hệ thống chỉ có một document với key = RateConfigKey.
type RateConfig struct {
	ID                         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key                        string             `json:"key" bson:"key"`
	PayoutRatePer1000          string             `json:"payoutRatePer1000" bson:"payoutRatePer1000"`                   // đơn giá cho 1000 lượt xem premium, chuỗi decimal ("0.30")
	DefaultPremiumSharePercent int64              `json:"defaultPremiumSharePercent" bson:"defaultPremiumSharePercent"` // tỷ lệ premium mặc định (0-100)
	LockPeriodDays             int64              `json:"lockPeriodDays" bson:"lockPeriodDays"`                         // số ngày khóa báo cáo tháng
	MinWithdrawalCents         int64              `json:"minWithdrawalCents" bson:"minWithdrawalCents"`                 // ngưỡng rút tối thiểu (cents)
	CreatedAt                  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt                  int64              `json:"updatedAt" bson:"updatedAt"`
}

// RateSnapshot là bản chụp bất biến của RateConfig đã được validate.
// Mọi phép tính trong một batch quét dùng chung một snapshot; thay đổi cấu hình
// chỉ có hiệu lực từ lần Load kế tiếp.
type RateSnapshot struct {
	RatePer1000         decimal.Decimal
	DefaultSharePercent int64
	LockPeriodDays      int64
	MinWithdrawalCents  int64
}
