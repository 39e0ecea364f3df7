// Package router đăng ký các route thuộc domain scan: chạy quét thủ công, nhật ký quét.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"evernet/internal/api/middleware"
	apirouter "evernet/internal/api/router"
	scanhdl "evernet/internal/api/scan/handler"
)

// Register đăng ký tất cả route scan lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	scanHandler, err := scanhdl.NewScanHandler()
	if err != nil {
		return fmt.Errorf("create scan handler: %w", err)
	}

	authMW := []fiber.Handler{middleware.AuthMiddleware()}
	adminMW := []fiber.Handler{middleware.AuthMiddleware(), middleware.RequireRole("admin")}

	apirouter.RegisterRouteWithMiddleware(v1, "/scan", "POST", "/run", adminMW, scanHandler.HandleRunScan)
	r.RegisterCRUDRoutes(v1, "/scan/logs", scanHandler, apirouter.ReadOnlyConfig, authMW, adminMW)
	return nil
}
