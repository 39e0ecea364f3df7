// Package dto - input cho domain auth.
package dto

// UserLoginInput dữ liệu đăng nhập.
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserCreateInput dữ liệu tạo người dùng (admin tạo tài khoản creator).
type UserCreateInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,strong_password"`
	Role      string `json:"role" validate:"required,oneof=admin creator"`
	CreatorID string `json:"creatorId,omitempty" validate:"omitempty,exists=creator_accounts"`
}

// UserChangePasswordInput dữ liệu đổi mật khẩu.
type UserChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}
