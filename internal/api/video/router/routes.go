// Package router đăng ký các route thuộc domain video: đăng ký, tra cứu, tắt quét.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"evernet/internal/api/middleware"
	apirouter "evernet/internal/api/router"
	videohdl "evernet/internal/api/video/handler"
	"evernet/internal/global"
)

// Register đăng ký tất cả route video lên v1.
// Xóa video là soft-disable: route delete chuẩn không mở, thay bằng /disable/:id.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	videoHandler, err := videohdl.NewVideoHandler(global.YouTubeClient)
	if err != nil {
		return fmt.Errorf("create video handler: %w", err)
	}

	authMW := []fiber.Handler{middleware.AuthMiddleware()}
	adminMW := []fiber.Handler{middleware.AuthMiddleware(), middleware.RequireRole("admin")}

	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "POST", "/register", adminMW, videoHandler.HandleRegister)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "DELETE", "/disable/:id", adminMW, videoHandler.HandleDisable)

	crudConfig := apirouter.CRUDConfig{
		FindOne: true, FindById: true, Paginate: true,
		UpdById: true, Count: true,
	}
	r.RegisterCRUDRoutes(v1, "/videos", videoHandler, crudConfig, authMW, adminMW)
	return nil
}
