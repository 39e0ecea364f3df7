// Package dto - input cho domain creator.
package dto

// CreatorCreateInput dữ liệu tạo tài khoản creator.
type CreatorCreateInput struct {
	DisplayName string `json:"displayName" validate:"required"`
	ChannelID   string `json:"channelId,omitempty" validate:"omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

// CreatorUpdateInput dữ liệu cập nhật tài khoản creator.
// Các field số dư không nằm ở đây: chỉ ledger service được ghi số dư.
type CreatorUpdateInput struct {
	DisplayName string `json:"displayName,omitempty" validate:"omitempty"`
	ChannelID   string `json:"channelId,omitempty" validate:"omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active suspended"`
}
