// Package videohdl - handler video theo dõi.
package videohdl

import (
	"fmt"

	basehdl "evernet/internal/api/base/handler"
	videodto "evernet/internal/api/video/dto"
	models "evernet/internal/api/video/models"
	videosvc "evernet/internal/api/video/service"
	"evernet/internal/common"
	"evernet/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// VideoHandler xử lý các route video theo dõi.
type VideoHandler struct {
	basehdl.BaseHandler[models.TrackedVideo, videodto.VideoRegisterInput, videodto.VideoUpdateInput]
	videoService *videosvc.VideoService
}

// NewVideoHandler tạo mới VideoHandler
func NewVideoHandler(fetcher videosvc.StatsFetcher) (*VideoHandler, error) {
	videoService, err := videosvc.NewVideoService(fetcher)
	if err != nil {
		return nil, err
	}
	handler := &VideoHandler{videoService: videoService}
	handler.BaseService = videoService.BaseServiceMongoImpl
	return handler, nil
}

// HandleRegister đăng ký video mới sau khi kiểm tra tồn tại trên YouTube.
// @Router /videos/register [post]
func (h *VideoHandler) HandleRegister(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input videodto.VideoRegisterInput
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

		video, err := h.videoService.Register(c.Context(), &input)
		if err == nil {
			logger.LogAction("video_registered", c, map[string]interface{}{
				"videoId":   video.VideoID,
				"creatorId": video.CreatorID.Hex(),
			})
		}
		h.HandleResponse(c, video, err)
		return nil
	})
}

// HandleDisable tắt quét một video (soft delete, giữ dữ liệu tích lũy).
// @Router /videos/disable/:id [delete]
func (h *VideoHandler) HandleDisable(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		video, err := h.videoService.Disable(c.Context(), id)
		if err == nil {
			logger.LogAction("video_disabled", c, map[string]interface{}{"videoId": video.VideoID})
		}
		h.HandleResponse(c, video, err)
		return nil
	})
}
