// Package router đăng ký các route thuộc domain creator: số dư và quản trị tài khoản.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	creatorhdl "evernet/internal/api/creator/handler"
	"evernet/internal/api/middleware"
	apirouter "evernet/internal/api/router"
)

// Register đăng ký tất cả route creator lên v1.
// CRUD quản trị chỉ dành cho admin; /me/balance cho creator đăng nhập.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	creatorHandler, err := creatorhdl.NewCreatorHandler()
	if err != nil {
		return fmt.Errorf("create creator handler: %w", err)
	}

	authMW := []fiber.Handler{middleware.AuthMiddleware()}
	adminMW := []fiber.Handler{middleware.AuthMiddleware(), middleware.RequireRole("admin")}

	apirouter.RegisterRouteWithMiddleware(v1, "/creators", "GET", "/me/balance", authMW, creatorHandler.HandleMyBalance)
	r.RegisterCRUDRoutes(v1, "/creators", creatorHandler, apirouter.ReadWriteConfig, adminMW, adminMW)
	return nil
}
