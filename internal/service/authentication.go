// File: internal/service/authentication.go
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"store-rating/internal/common"
	"store-rating/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL 登入後存取令牌的有效期間
const AccessTokenTTL = 24 * time.Hour

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// jwtSecret 由 SetJWTSecret 設定；未設定時退回讀取 JWT_SECRET
var jwtSecret string

// SetJWTSecret 設定簽發與驗證 token 使用的密鑰，啟動時以設定值呼叫
func SetJWTSecret(secret string) {
	jwtSecret = secret
}

func signingSecret() string {
	if jwtSecret != "" {
		return jwtSecret
	}
	return os.Getenv("JWT_SECRET")
}

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID int        `json:"id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Requester 回傳 token 所代表的呼叫者
func (c *CustomClaims) Requester() Requester {
	return Requester{UserID: c.UserID, Role: c.Role}
}

// AuthenticateUser 以 bcrypt 比對使用者密碼，失敗回傳 common.ErrUnauthorized
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return fmt.Errorf("AuthenticateUser: %w", common.ErrUnauthorized)
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return fmt.Errorf("AuthenticateUser: %w", common.ErrUnauthorized)
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := signingSecret()
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := signingSecret()
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(timeNow))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == 0 || !claims.Role.Valid() {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
