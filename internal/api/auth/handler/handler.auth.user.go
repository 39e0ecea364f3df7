// Package authhdl - handler đăng nhập / phiên làm việc.
package authhdl

import (
	"fmt"
	"strings"

	authdto "evernet/internal/api/auth/dto"
	models "evernet/internal/api/auth/models"
	authsvc "evernet/internal/api/auth/service"
	basehdl "evernet/internal/api/base/handler"
	"evernet/internal/common"
	"evernet/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler xử lý các route auth.
type UserHandler struct {
	basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserCreateInput]
	userService *authsvc.UserService
}

// NewUserHandler tạo mới UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}
	handler := &UserHandler{userService: userService}
	handler.BaseService = userService.BaseServiceMongoImpl
	return handler, nil
}

// HandleLogin đăng nhập bằng email/mật khẩu, trả về access token.
// @Router /auth/login [post]
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UserLoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		token, user, err := h.userService.Login(c.Context(), &input)
		if err != nil {
			logger.LogAuth("login_failed", c, map[string]interface{}{"email": input.Email})
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogAuth("login", c, map[string]interface{}{"email": user.Email})
		h.HandleResponse(c, fiber.Map{"token": token, "user": user}, nil)
		return nil
	})
}

// HandleLogout revoke token hiện tại.
// @Router /auth/logout [post]
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		auth := c.Get("Authorization")
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		if err := h.userService.Logout(c.Context(), strings.TrimSpace(parts[1])); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogAuth("logout", c, nil)
		h.HandleResponse(c, fiber.Map{"loggedOut": true}, nil)
		return nil
	})
}

// HandleMe trả về thông tin người dùng hiện tại.
// @Router /auth/me [get]
func (h *UserHandler) HandleMe(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userIDStr, _ := c.Locals("userID").(string)
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}

		user, err := h.userService.FindOneById(c.Context(), userID)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleCreateUser tạo người dùng mới (admin).
// @Router /auth/users [post]
func (h *UserHandler) HandleCreateUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UserCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.CreateUser(c.Context(), &input)
		if err == nil {
			logger.LogAction("user_created", c, map[string]interface{}{"email": input.Email, "role": input.Role})
		}
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleChangePassword đổi mật khẩu người dùng hiện tại.
// @Router /auth/change-password [post]
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userIDStr, _ := c.Locals("userID").(string)
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}

		var input authdto.UserChangePasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if err := h.userService.ChangePassword(c.Context(), userID, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogAuth("change_password", c, nil)
		h.HandleResponse(c, fiber.Map{"changed": true}, nil)
		return nil
	})
}
