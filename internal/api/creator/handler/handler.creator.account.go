// Package creatorhdl - handler tài khoản creator.
package creatorhdl

import (
	basehdl "evernet/internal/api/base/handler"
	creatordto "evernet/internal/api/creator/dto"
	models "evernet/internal/api/creator/models"
	creatorsvc "evernet/internal/api/creator/service"
	"evernet/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatorHandler xử lý các route tài khoản creator.
type CreatorHandler struct {
	basehdl.BaseHandler[models.CreatorAccount, creatordto.CreatorCreateInput, creatordto.CreatorUpdateInput]
	creatorService *creatorsvc.CreatorService
}

// NewCreatorHandler tạo mới CreatorHandler
func NewCreatorHandler() (*CreatorHandler, error) {
	creatorService, err := creatorsvc.NewCreatorService()
	if err != nil {
		return nil, err
	}
	handler := &CreatorHandler{creatorService: creatorService}
	handler.BaseService = creatorService.BaseServiceMongoImpl
	return handler, nil
}

// HandleMyBalance trả về số dư của creator đang đăng nhập.
// Yêu cầu user có liên kết creator (claim creatorId trong phiên đăng nhập).
// @Router /creators/me/balance [get]
func (h *CreatorHandler) HandleMyBalance(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		creatorIDStr, _ := c.Locals("creatorID").(string)
		creatorID, err := primitive.ObjectIDFromHex(creatorIDStr)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeAuthRole,
				"Tài khoản chưa được liên kết với creator nào",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		balance, err := h.creatorService.GetBalance(c.Context(), creatorID)
		h.HandleResponse(c, balance, err)
		return nil
	})
}
