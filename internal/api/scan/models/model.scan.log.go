// Package models - nhật ký đợt quét (ScanLog) thuộc domain scan.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kết quả xử lý từng video trong một đợt quét.
const (
	ScanItemOK      = "ok"      // đã ghi sổ thành công
	ScanItemFailed  = "failed"  // lỗi (video biến mất, lỗi ghi sổ)
	ScanItemSkipped = "skipped" // CAS trượt: lần quét khác đã tiến baseline
)

// ScanItem là kết quả quét một video.
type ScanItem struct {
	VideoID       string `json:"videoId" bson:"videoId"`
	CreatorID     string `json:"creatorId,omitempty" bson:"creatorId,omitempty"`
	Status        string `json:"status" bson:"status"`
	Reason        string `json:"reason,omitempty" bson:"reason,omitempty"`
	Delta         int64  `json:"delta" bson:"delta"`
	PremiumDelta  int64  `json:"premiumDelta" bson:"premiumDelta"`
	EarningsCents int64  `json:"earningsCents" bson:"earningsCents"`
}

// ScanLog là document append-only tóm tắt một đợt quét.
type ScanLog struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BatchID    string             `json:"batchId" bson:"batchId"`
	StartedAt  int64              `json:"startedAt" bson:"startedAt"`
	FinishedAt int64              `json:"finishedAt" bson:"finishedAt"`
	Selected   int64              `json:"selected" bson:"selected"`
	Succeeded  int64              `json:"succeeded" bson:"succeeded"`
	Failed     int64              `json:"failed" bson:"failed"`
	Skipped    int64              `json:"skipped" bson:"skipped"`
	Items      []ScanItem         `json:"items" bson:"items"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}

// BatchResult là kết quả trả về của một lần RunBatch.
type BatchResult struct {
	BatchID   string     `json:"batchId"`
	Selected  int64      `json:"selected"`
	Succeeded int64      `json:"succeeded"`
	Failed    int64      `json:"failed"`
	Skipped   int64      `json:"skipped"`
	Items     []ScanItem `json:"items"`
}
