package payouthdl

import (
	"fmt"

	basehdl "evernet/internal/api/base/handler"
	basesvc "evernet/internal/api/base/service"
	models "evernet/internal/api/payout/models"
	"evernet/internal/common"
	"evernet/internal/global"
)

// AuditHandler phục vụ tra cứu audit trail (chỉ đọc).
type AuditHandler struct {
	basehdl.BaseHandler[models.AuditLogEntry, models.AuditLogEntry, models.AuditLogEntry]
}

// NewAuditHandler tạo mới AuditHandler
func NewAuditHandler() (*AuditHandler, error) {
	auditCollection, exist := global.RegistryCollections.Get(global.ColAuditLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get audit_logs collection: %v", common.ErrNotFound)
	}
	handler := &AuditHandler{}
	handler.BaseService = basesvc.NewBaseServiceMongo[models.AuditLogEntry](auditCollection)
	return handler, nil
}
