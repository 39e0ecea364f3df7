// Package router đăng ký các route thuộc domain auth: đăng nhập, phiên làm việc, quản lý user.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "evernet/internal/api/auth/handler"
	"evernet/internal/api/middleware"
	apirouter "evernet/internal/api/router"
)

// Register đăng ký tất cả route auth lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("create user handler: %w", err)
	}

	authMW := []fiber.Handler{middleware.AuthMiddleware()}
	adminMW := []fiber.Handler{middleware.AuthMiddleware(), middleware.RequireRole("admin")}

	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/login", nil, userHandler.HandleLogin)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/logout", authMW, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "GET", "/me", authMW, userHandler.HandleMe)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/change-password", authMW, userHandler.HandleChangePassword)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/users", adminMW, userHandler.HandleCreateUser)
	return nil
}
