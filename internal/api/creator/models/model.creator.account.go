// Package models - model tài khoản creator (CreatorAccount) thuộc domain creator.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái tài khoản creator.
const (
	CreatorStatusActive    = "active"
	CreatorStatusSuspended = "suspended"
)

// CreatorAccount là tài khoản thu nhập của một creator.
// Số dư chia hai phần: lockedBalanceCents tích lũy trong kỳ và chờ mở khóa,
// availableBalanceCents là phần đã mở khóa có thể rút.
// Chỉ ledger service được ghi các field số dư.
type CreatorAccount struct {
	ID                    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DisplayName           string             `json:"displayName" bson:"displayName"`
	ChannelID             string             `json:"channelId,omitempty" bson:"channelId,omitempty" index:"unique,sparse"`
	Email                 string             `json:"email,omitempty" bson:"email,omitempty"`
	LockedBalanceCents    int64              `json:"lockedBalanceCents" bson:"lockedBalanceCents"`
	AvailableBalanceCents int64              `json:"availableBalanceCents" bson:"availableBalanceCents"`
	LifetimeEarningsCents int64              `json:"lifetimeEarningsCents" bson:"lifetimeEarningsCents"`
	TotalWithdrawnCents   int64              `json:"totalWithdrawnCents" bson:"totalWithdrawnCents"`
	Status                string             `json:"status" bson:"status"`
	CreatedAt             int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt             int64              `json:"updatedAt" bson:"updatedAt"`
}
