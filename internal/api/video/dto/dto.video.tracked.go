// Package dto - input cho domain video.
package dto

// VideoRegisterInput dữ liệu đăng ký một video vào hệ thống quét.
type VideoRegisterInput struct {
	VideoID             string `json:"videoId" validate:"required,youtube_video_id"`
	CreatorID           string `json:"creatorId" validate:"required,exists=creator_accounts"`
	PremiumSharePercent int64  `json:"premiumSharePercent" validate:"gte=0,lte=100"` // 0 ⇒ dùng tỷ lệ mặc định
}

// VideoUpdateInput dữ liệu cập nhật video theo dõi.
// Các field thống kê/baseline không nằm ở đây: chỉ ledger service được ghi.
type VideoUpdateInput struct {
	Title               string `json:"title,omitempty" validate:"omitempty"`
	PremiumSharePercent *int64 `json:"premiumSharePercent,omitempty" validate:"omitempty"`
	ScanEnabled         *bool  `json:"scanEnabled,omitempty" validate:"omitempty"`
}
