package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"MindBalance/internal/model/dto"
	"MindBalance/internal/repository"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/logger"
	"MindBalance/utils"
)

type AuthService struct {
	deps Dependencies
}

func NewAuthService(deps Dependencies) *AuthService {
	return &AuthService{deps: deps.withDefaults()}
}

// Login 邮箱密码登录，密码按明文比对，成功后签发 JWT
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.deps.Store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.UserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !utils.SecretEqual(user.Password, req.Password) {
		logger.Logger.Info("Login rejected: wrong password", zap.String("user_id", user.ID))
		return nil, errors.WrongPassword
	}

	accessToken, expiresIn, err := s.deps.IssueToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Logger.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	return &dto.LoginResponse{
		Token:     accessToken,
		User:      user.Public(),
		ExpiresIn: expiresIn,
		Success:   true,
	}, nil
}
