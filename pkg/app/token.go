package app

import (
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "fast-note-pad"

// ContextUserTokenKey gin 上下文中保存已解析 Token 的键
const ContextUserTokenKey = "user_token"

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        // JWT 签名密钥
	Expiry    time.Duration // Token 过期时间，默认 7 天
	Issuer    string        // Token 签发者
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	Generate(uid, email, name, ip string) (string, error)
	Parse(token string) (*UserEntity, error)
	Validate(token string) error
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserEntity is the claim set carried by a sign-in token.
type UserEntity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	IP    string `json:"ip"`
	jwt.RegisteredClaims
}

func (t *tokenManager) signingKey() []byte {
	return []byte(t.config.SecretKey + "_" + util.GetMachineID())
}

// Generate 生成一个新的 JWT Token
func (t *tokenManager) Generate(uid, email, name, ip string) (string, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:   uid,
		Email: email,
		Name:  name,
		IP:    ip,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   "user-token",
			ID:        uid,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.signingKey())
}

// Parse 解析 JWT Token 并返回用户信息
func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	claims := &UserEntity{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey(), nil
	}, jwt.WithIssuer(t.config.Issuer))
	if err != nil {
		return nil, err
	}
	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Validate 验证 Token 是否有效
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// GetUser returns the claims the auth middleware stored on the request, if any.
// GetUser 获取鉴权中间件写入上下文的用户信息
func GetUser(ctx *gin.Context) (*UserEntity, bool) {
	v, exist := ctx.Get(ContextUserTokenKey)
	if !exist {
		return nil, false
	}
	u, ok := v.(*UserEntity)
	return u, ok
}

// GetUID extracts the user ID from the request context.
func GetUID(ctx *gin.Context) string {
	if u, ok := GetUser(ctx); ok {
		return u.UID
	}
	return ""
}
