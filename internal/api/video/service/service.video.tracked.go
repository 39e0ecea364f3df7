// Package videosvc - service video theo dõi.
package videosvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "evernet/internal/api/base/service"
	videodto "evernet/internal/api/video/dto"
	models "evernet/internal/api/video/models"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/youtube"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsFetcher là phần của metadata client mà video service cần.
type StatsFetcher interface {
	FetchOne(ctx context.Context, videoID string) (*youtube.VideoStats, error)
}

// VideoService là service quản lý video theo dõi.
type VideoService struct {
	*basesvc.BaseServiceMongoImpl[models.TrackedVideo]
	fetcher StatsFetcher
}

// NewVideoService tạo mới VideoService
func NewVideoService(fetcher StatsFetcher) (*VideoService, error) {
	collection, exist := global.RegistryCollections.Get(global.ColTrackedVideos)
	if !exist {
		return nil, fmt.Errorf("failed to get tracked_videos collection: %v", common.ErrNotFound)
	}
	return &VideoService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.TrackedVideo](collection),
		fetcher:              fetcher,
	}, nil
}

// Register đăng ký một video mới vào hệ thống quét.
// Video phải còn tồn tại trên YouTube; baseline lượt xem khởi tạo bằng
// lượt xem hiện tại nên thu nhập chỉ tích lũy từ thời điểm đăng ký.
func (s *VideoService) Register(ctx context.Context, input *videodto.VideoRegisterInput) (*models.TrackedVideo, error) {
	creatorID, err := primitive.ObjectIDFromHex(input.CreatorID)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}

	stats, err := s.fetcher.FetchOne(ctx, input.VideoID)
	if err != nil {
		if errors.Is(err, common.ErrVideoNotFound) {
			return nil, common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Video %s không tồn tại trên YouTube", input.VideoID),
				common.StatusBadRequest,
				err,
			)
		}
		return nil, err
	}

	video := models.TrackedVideo{
		VideoID:             input.VideoID,
		CreatorID:           creatorID,
		Title:               stats.Title,
		ChannelID:           stats.ChannelID,
		LastKnownViews:      stats.ViewCount,
		PremiumSharePercent: input.PremiumSharePercent,
		ScanEnabled:         true,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, video)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"videoId":   created.VideoID,
		"creatorId": created.CreatorID.Hex(),
		"baseline":  created.LastKnownViews,
	}).Info("Đã đăng ký video theo dõi")
	return &created, nil
}

// Disable tắt quét một video (soft delete).
// Dữ liệu tích lũy giữ nguyên, video không được chọn vào batch quét nữa.
func (s *VideoService) Disable(ctx context.Context, id primitive.ObjectID) (models.TrackedVideo, error) {
	return s.BaseServiceMongoImpl.UpdateById(ctx, id, &basesvc.UpdateData{
		Set: map[string]interface{}{"scanEnabled": false},
	})
}

// FindByCreator liệt kê video của một creator.
func (s *VideoService) FindByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.TrackedVideo, error) {
	return s.BaseServiceMongoImpl.Find(ctx, bson.M{"creatorId": creatorID}, nil)
}
