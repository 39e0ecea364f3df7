// Package models - AuditLogEntry ghi lại các biến động số dư và thao tác quản trị.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogEntry là một dòng audit trail append-only.
// Không bao giờ update hay xóa document này.
type AuditLogEntry struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Action       string             `json:"action" bson:"action"`
	Actor        string             `json:"actor" bson:"actor"` // user id hoặc "system"
	CreatorID    primitive.ObjectID `json:"creatorId,omitempty" bson:"creatorId,omitempty"`
	ReportID     primitive.ObjectID `json:"reportId,omitempty" bson:"reportId,omitempty"`
	AmountCents  int64              `json:"amountCents" bson:"amountCents"`
	StatusBefore string             `json:"statusBefore,omitempty" bson:"statusBefore,omitempty"`
	StatusAfter  string             `json:"statusAfter,omitempty" bson:"statusAfter,omitempty"`
	Note         string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt    int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64              `json:"updatedAt" bson:"updatedAt"`
}
