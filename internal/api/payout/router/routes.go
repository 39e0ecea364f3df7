// Package router đăng ký các route thuộc domain payout: báo cáo tháng, mở khóa, audit trail.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"evernet/internal/api/middleware"
	payouthdl "evernet/internal/api/payout/handler"
	apirouter "evernet/internal/api/router"
)

// Register đăng ký tất cả route payout lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	reportHandler, err := payouthdl.NewReportHandler()
	if err != nil {
		return fmt.Errorf("create report handler: %w", err)
	}
	auditHandler, err := payouthdl.NewAuditHandler()
	if err != nil {
		return fmt.Errorf("create audit handler: %w", err)
	}

	authMW := []fiber.Handler{middleware.AuthMiddleware()}
	adminMW := []fiber.Handler{middleware.AuthMiddleware(), middleware.RequireRole("admin")}

	apirouter.RegisterRouteWithMiddleware(v1, "/reports", "POST", "/generate", adminMW, reportHandler.HandleGenerateMonthly)
	apirouter.RegisterRouteWithMiddleware(v1, "/reports", "POST", "/unlock-due", adminMW, reportHandler.HandleUnlockDue)
	apirouter.RegisterRouteWithMiddleware(v1, "/reports", "POST", "/unlock-many", adminMW, reportHandler.HandleUnlockMany)
	apirouter.RegisterRouteWithMiddleware(v1, "/reports", "POST", "/:id/unlock", adminMW, reportHandler.HandleUnlockOne)

	r.RegisterCRUDRoutes(v1, "/reports", reportHandler, apirouter.ReadOnlyConfig, authMW, adminMW)
	r.RegisterCRUDRoutes(v1, "/audit-logs", auditHandler, apirouter.ReadOnlyConfig, adminMW, adminMW)
	return nil
}
