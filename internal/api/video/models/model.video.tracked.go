// Package models - model video theo dõi (TrackedVideo) thuộc domain video.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackedVideo là một video YouTube đang được quét định kỳ.
// lastKnownViews là baseline chống cộng trùng: mỗi lần quét chỉ ghi nhận
// phần chênh lệch so với baseline, và baseline chỉ tiến lên qua CAS
// trong ledger service.
type TrackedVideo struct {
	ID                    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	VideoID               string             `json:"videoId" bson:"videoId" index:"unique"`
	CreatorID             primitive.ObjectID `json:"creatorId" bson:"creatorId"`
	Title                 string             `json:"title" bson:"title"`
	ChannelID             string             `json:"channelId,omitempty" bson:"channelId,omitempty"`
	LastKnownViews        int64              `json:"lastKnownViews" bson:"lastKnownViews"`
	AccruedViews          int64              `json:"accruedViews" bson:"accruedViews"`
	AccruedPremiumViews   int64              `json:"accruedPremiumViews" bson:"accruedPremiumViews"`
	PeriodViews           int64              `json:"periodViews" bson:"periodViews"`
	PeriodPremiumViews    int64              `json:"periodPremiumViews" bson:"periodPremiumViews"`
	LifetimeEarningsCents int64              `json:"lifetimeEarningsCents" bson:"lifetimeEarningsCents"`
	PeriodEarningsCents   int64              `json:"periodEarningsCents" bson:"periodEarningsCents"`
	PremiumSharePercent   int64              `json:"premiumSharePercent" bson:"premiumSharePercent"` // 0 ⇒ dùng tỷ lệ mặc định từ RateConfig
	ScanEnabled           bool               `json:"scanEnabled" bson:"scanEnabled"`
	LastScannedAt         int64              `json:"lastScannedAt" bson:"lastScannedAt"`
	CreatedAt             int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt             int64              `json:"updatedAt" bson:"updatedAt"`
}
