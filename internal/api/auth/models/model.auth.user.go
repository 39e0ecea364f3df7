// Package models - model người dùng dashboard (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các role của user dashboard.
const (
	RoleAdmin   = "admin"   // vận hành hệ thống, chạy quét/mở khóa thủ công
	RoleCreator = "creator" // creator xem số dư và báo cáo của mình
)

// User định nghĩa mô hình người dùng dashboard.
// Creator đăng nhập được liên kết tới creator_accounts qua CreatorID.
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email" index:"unique"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	CreatorID primitive.ObjectID `json:"creatorId,omitempty" bson:"creatorId,omitempty"`
	IsBlock   bool               `json:"-" bson:"isBlock"`
	BlockNote string             `json:"-" bson:"blockNote,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
