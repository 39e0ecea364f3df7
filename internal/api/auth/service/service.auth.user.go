// Package authsvc - service người dùng dashboard và access token.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdto "evernet/internal/api/auth/dto"
	models "evernet/internal/api/auth/models"
	basesvc "evernet/internal/api/base/service"
	"evernet/internal/api/middleware"
	"evernet/internal/common"
	"evernet/internal/global"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL là thời hạn của access token.
const tokenTTL = 24 * time.Hour

// UserService là service quản lý người dùng và phiên đăng nhập.
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	tokenService *basesvc.BaseServiceMongoImpl[models.AccessToken]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.ColAuthUsers)
	if !exist {
		return nil, fmt.Errorf("failed to get auth_users collection: %v", common.ErrNotFound)
	}
	tokenCollection, exist := global.RegistryCollections.Get(global.ColAccessTokens)
	if !exist {
		return nil, fmt.Errorf("failed to get access_tokens collection: %v", common.ErrNotFound)
	}
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		tokenService:         basesvc.NewBaseServiceMongo[models.AccessToken](tokenCollection),
	}, nil
}

// Login xác thực email/mật khẩu và phát hành access token mới.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (string, *models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.IsBlock {
		return "", nil, common.NewError(common.ErrCodeAuthCredentials, "Tài khoản đã bị khóa", common.StatusUnauthorized, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", nil, common.ErrInvalidCredentials
	}

	tokenStr, expiredAt, err := s.issueToken(&user)
	if err != nil {
		return "", nil, err
	}
	if _, err := s.tokenService.InsertOne(ctx, models.AccessToken{
		UserID:    user.ID,
		Token:     tokenStr,
		ExpiredAt: expiredAt,
	}); err != nil {
		return "", nil, err
	}

	logrus.WithFields(logrus.Fields{"userId": user.ID.Hex(), "role": user.Role}).Info("Người dùng đăng nhập thành công")
	return tokenStr, &user, nil
}

// issueToken ký JWT HS256 chứa uid/email/role.
func (s *UserService) issueToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiredAt := now.Add(tokenTTL)
	creatorID := ""
	if !user.CreatorID.IsZero() {
		creatorID = user.CreatorID.Hex()
	}
	claims := &middleware.TokenClaims{
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		Role:      user.Role,
		CreatorID: creatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiredAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(global.ServerConfig.JwtSecret))
	if err != nil {
		return "", time.Time{}, common.NewError(common.ErrCodeAuthToken, "Không ký được token", common.StatusInternalServerError, err)
	}
	return signed, expiredAt, nil
}

// Logout revoke access token hiện tại.
func (s *UserService) Logout(ctx context.Context, tokenStr string) error {
	return s.tokenService.DeleteOne(ctx, bson.M{"token": tokenStr})
}

// CreateUser tạo người dùng mới với mật khẩu đã hash.
func (s *UserService) CreateUser(ctx context.Context, input *authdto.UserCreateInput) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Role:     input.Role,
	}
	if input.CreatorID != "" {
		creatorID, err := primitive.ObjectIDFromHex(input.CreatorID)
		if err != nil {
			return nil, common.ErrInvalidFormat
		}
		user.CreatorID = creatorID
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ChangePassword đổi mật khẩu sau khi xác nhận mật khẩu cũ.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return common.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, &basesvc.UpdateData{
		Set: map[string]interface{}{"password": string(hashed)},
	}); err != nil {
		return err
	}

	// Revoke toàn bộ phiên cũ sau khi đổi mật khẩu
	if _, err := s.tokenService.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		logrus.WithError(err).Warn("Không revoke được các phiên cũ sau khi đổi mật khẩu")
	}
	return nil
}

// EnsureAdmin tạo tài khoản admin mặc định nếu email chưa tồn tại.
// Dùng khi khởi động server lần đầu.
func (s *UserService) EnsureAdmin(ctx context.Context, email string, password string) error {
	_, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	if _, err := s.CreateUser(ctx, &authdto.UserCreateInput{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	}); err != nil {
		return err
	}
	logrus.WithField("email", email).Info("Đã tạo tài khoản admin mặc định")
	return nil
}
