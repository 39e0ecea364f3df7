// Package models - model báo cáo doanh thu tháng (MonthlyReport) thuộc domain payout.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái báo cáo tháng. Chuyển trạng thái một chiều locked → unlocked,
// được gác bằng CAS trong ledger service.
const (
	ReportStatusLocked   = "locked"
	ReportStatusUnlocked = "unlocked"
)

// MonthlyReport chốt doanh thu của một creator trong một tháng.
// Cặp (creatorId, month) là duy nhất; payoutAmountCents bất biến sau khi tạo.
type MonthlyReport struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CreatorID         primitive.ObjectID `json:"creatorId" bson:"creatorId"`
	Month             string             `json:"month" bson:"month"` // định dạng "2006-01"
	PayoutAmountCents int64              `json:"payoutAmountCents" bson:"payoutAmountCents"`
	TotalViews        int64              `json:"totalViews" bson:"totalViews"`
	TotalPremiumViews int64              `json:"totalPremiumViews" bson:"totalPremiumViews"`
	Status            string             `json:"status" bson:"status"`
	LockedUntil       int64              `json:"lockedUntil" bson:"lockedUntil"` // thời điểm đủ điều kiện mở khóa (ms)
	UnlockedAt        int64              `json:"unlockedAt,omitempty" bson:"unlockedAt,omitempty"`
	UnlockedBy        string             `json:"unlockedBy,omitempty" bson:"unlockedBy,omitempty"`
	CreatedAt         int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt         int64              `json:"updatedAt" bson:"updatedAt"`
}
