package middleware

import (
	"context"
	"strings"
	"time"

	"evernet/internal/common"
	"evernet/internal/global"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
)

// TokenClaims là claims của access token JWT.
// CreatorID chỉ có với user role creator (liên kết creator_accounts).
type TokenClaims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatorID string `json:"cid,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware xác thực JWT bearer token cho các route cần đăng nhập.
// Token phải hợp lệ về chữ ký, còn hạn và còn tồn tại trong collection
// access_tokens (cho phép revoke phía server khi logout).
// Khi thành công, userID / userEmail / userRole được lưu vào Locals.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		tokenStr := extractBearerToken(c)
		if tokenStr == "" {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		claims := &TokenClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, common.ErrTokenInvalid
			}
			return []byte(global.ServerConfig.JwtSecret), nil
		})
		if err != nil || !token.Valid {
			if err != nil && strings.Contains(err.Error(), "expired") {
				HandleErrorResponse(c, common.ErrTokenExpired)
				return nil
			}
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Token phải còn trong DB (chưa bị revoke, TTL index dọn token hết hạn)
		if err := verifyTokenActive(c.Context(), tokenStr); err != nil {
			HandleErrorResponse(c, err)
			return nil
		}

		c.Locals("userID", claims.UserID)
		c.Locals("userEmail", claims.Email)
		c.Locals("userRole", claims.Role)
		if claims.CreatorID != "" {
			c.Locals("creatorID", claims.CreatorID)
		}
		return c.Next()
	}
}

// RequireRole chỉ cho phép request đi tiếp khi user có một trong các role chỉ định.
// Phải đặt sau AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		userRole, _ := c.Locals("userRole").(string)
		for _, r := range roles {
			if userRole == r {
				return c.Next()
			}
		}
		HandleErrorResponse(c, common.ErrNoPermission)
		return nil
	}
}

// extractBearerToken đọc token từ header Authorization dạng "Bearer <token>".
func extractBearerToken(c fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// verifyTokenActive kiểm tra token còn tồn tại và chưa hết hạn trong DB.
func verifyTokenActive(ctx context.Context, tokenStr string) error {
	col, exists := global.RegistryCollections.Get(global.ColAccessTokens)
	if !exists {
		return common.ErrConnection
	}

	// expiredAt lưu dạng date để TTL index tự dọn token hết hạn
	count, err := col.CountDocuments(ctx, bson.M{
		"token":     tokenStr,
		"expiredAt": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if count == 0 {
		return common.ErrTokenExpired
	}
	return nil
}
