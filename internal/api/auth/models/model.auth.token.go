// Package models - AccessToken thuộc domain auth.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessToken là token đã phát hành còn hiệu lực.
// Xóa document là revoke token; TTL index trên expiredAt tự dọn token hết hạn.
// expiredAt lưu dạng date (không phải ms) vì TTL index yêu cầu kiểu date.
type AccessToken struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Token     string             `json:"token" bson:"token" index:"unique"`
	ExpiredAt time.Time          `json:"expiredAt" bson:"expiredAt"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
