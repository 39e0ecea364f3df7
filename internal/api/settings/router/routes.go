// Package router đăng ký các route thuộc domain settings: cấu hình đơn giá (admin).
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"evernet/internal/api/middleware"
	apirouter "evernet/internal/api/router"
	settingshdl "evernet/internal/api/settings/handler"
)

// Register đăng ký tất cả route settings lên v1. Chỉ admin được truy cập.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	rateHandler, err := settingshdl.NewRateConfigHandler()
	if err != nil {
		return fmt.Errorf("create rate config handler: %w", err)
	}

	adminMW := []fiber.Handler{middleware.AuthMiddleware(), middleware.RequireRole("admin")}
	apirouter.RegisterRouteWithMiddleware(v1, "/settings", "GET", "/rates", adminMW, rateHandler.HandleGetRates)
	apirouter.RegisterRouteWithMiddleware(v1, "/settings", "PUT", "/rates", adminMW, rateHandler.HandleUpdateRates)
	return nil
}
