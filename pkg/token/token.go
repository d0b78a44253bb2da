package token

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/hertz-contrib/jwt"

	"MindBalance/config"
	"MindBalance/pkg/errors"
)

const (
	IdentityKey = "uid"
	RoleKey     = "role"
)

var (
	// 这个实例会被 middleware 和 token 包共同使用
	sharedGenerator *jwt.HertzJWTMiddleware
)

func Init() error {
	var err error
	sharedGenerator, err = jwt.New(&jwt.HertzJWTMiddleware{
		Key:         []byte(config.Cfg.JWTSecret),
		Timeout:     time.Duration(config.Cfg.JWTExpireMinutes) * time.Minute,
		MaxRefresh:  time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour,
		IdentityKey: IdentityKey,
		TimeFunc:    time.Now,
	})

	if err != nil {
		return fmt.Errorf("failed to initialize token generator: %w", err)
	}

	return nil
}

// GetGenerator 获取共享的 token 生成器（供 middleware 使用）
func GetGenerator() *jwt.HertzJWTMiddleware {
	return sharedGenerator
}

// GenerateAccessToken 为登录用户签发 access token，角色写入 claims 供管理端鉴权
func GenerateAccessToken(userID, role string) (accessToken string, expiresIn int, err error) {
	if sharedGenerator == nil {
		return "", 0, errors.ErrTokenGeneratorNotInitialized
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(config.Cfg.JWTExpireMinutes) * time.Minute)

	claims := jwtv5.MapClaims{
		IdentityKey: userID,
		RoleKey:     role,
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
		"orig_iat":  now.Unix(),
	}

	tokenObj := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	accessToken, err = tokenObj.SignedString(sharedGenerator.Key)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	expiresIn = int(time.Until(expiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	return accessToken, expiresIn, nil
}

// Claims 是从 token 中解析出的身份信息
type Claims struct {
	UserID string
	Role   string
}

// Parse 校验 access token 并返回身份信息
func Parse(tokenString string) (Claims, error) {
	if sharedGenerator == nil {
		return Claims{}, errors.ErrTokenGeneratorNotInitialized
	}

	parsed, err := jwtv5.ParseWithClaims(tokenString, jwtv5.MapClaims{}, func(t *jwtv5.Token) (interface{}, error) {
		if t.Method != jwtv5.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: %v, expected HS256", errors.ErrUnexpectedSigningMethod, t.Header["alg"])
		}
		return sharedGenerator.Key, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if !parsed.Valid {
		return Claims{}, errors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwtv5.MapClaims)
	if !ok {
		return Claims{}, errors.ErrInvalidTokenClaims
	}

	return ClaimsFromMap(mapClaims)
}

// ClaimsFromMap 从 MapClaims 中读取 uid 与 role
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	uid, ok := m[IdentityKey].(string)
	if !ok || uid == "" {
		return Claims{}, errors.ErrUserIDNotFound
	}

	role, _ := m[RoleKey].(string)
	return Claims{UserID: uid, Role: role}, nil
}
