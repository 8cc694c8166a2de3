package service

import (
	"context"

	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// UserService 定义用户业务服务接口
type UserService interface {
	// SignIn 模拟登录，返回用户与访问 Token
	SignIn(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error)

	// SignOut 退出登录
	SignOut(ctx context.Context) error

	// Current 获取当前会话用户
	Current(ctx context.Context) (*dto.UserDTO, error)

	// Authorize resolves a token to its claims and checks it belongs to the current session.
	// Authorize 校验 Token 且必须属于当前会话用户
	Authorize(token string) (*app.UserEntity, error)
}

// userService 实现 UserService 接口
type userService struct {
	store        SessionStore
	tokenManager app.TokenManager
	logger       *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(store SessionStore, tokenManager app.TokenManager, lg *zap.Logger) UserService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &userService{
		store:        store,
		tokenManager: tokenManager,
		logger:       lg,
	}
}

func (s *userService) SignIn(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error) {
	user, err := s.store.SignIn(ctx, params.Email)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenManager.Generate(user.ID, user.Email, user.Name, clientIP)
	if err != nil {
		s.logger.Error("token generate failed", zap.String(logger.FieldUID, user.ID), zap.Error(err))
		return nil, errors.Wrap(code.ErrorTokenGenerate.WithDetails(err.Error()), "sign in")
	}

	out, err := userToDTO(user)
	if err != nil {
		return nil, errors.Wrap(code.ErrorServerInternal.WithDetails(err.Error()), "sign in")
	}
	out.Token = token
	return out, nil
}

func (s *userService) SignOut(ctx context.Context) error {
	return s.store.SignOut(ctx)
}

func (s *userService) Current(ctx context.Context) (*dto.UserDTO, error) {
	u, err := requireUser(s.store)
	if err != nil {
		return nil, err
	}
	out, err := userToDTO(u)
	if err != nil {
		return nil, errors.Wrap(code.ErrorServerInternal.WithDetails(err.Error()), "current user")
	}
	return out, nil
}

func (s *userService) Authorize(token string) (*app.UserEntity, error) {
	if token == "" {
		return nil, code.ErrorNotUserAuthToken
	}
	claims, err := s.tokenManager.Parse(token)
	if err != nil {
		return nil, code.ErrorInvalidUserAuthToken.WithDetails(err.Error())
	}
	u, ok := s.store.CurrentUser()
	if !ok {
		return nil, code.ErrorNotSignedIn
	}
	if u.ID != claims.UID {
		return nil, code.ErrorInvalidUserAuthToken.WithDetails("token does not belong to the current session")
	}
	return claims, nil
}
