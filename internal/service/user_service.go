package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"match-system/internal/model"
	"match-system/internal/repository"
	"match-system/pkg/jwt"
	"match-system/pkg/password"

	"gorm.io/gorm"
)

// UserService 用户服务：管理后台登录与通用的列表/封禁操作
type UserService struct {
	repo       *repository.UserRepository
	jwtService *jwt.JWTService
}

// NewUserService 创建UserService实例
func NewUserService(repo *repository.UserRepository, jwtService *jwt.JWTService) *UserService {
	return &UserService{repo: repo, jwtService: jwtService}
}

// Login 登录
// 校验邮箱与密码，签发携带管理员标记的访问令牌
func (s *UserService) Login(email, plainPassword string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || plainPassword == "" {
		return nil, "", errors.New("邮箱和密码不能为空")
	}

	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, "", errors.New("邮箱或密码错误")
	}
	if !password.Verify(plainPassword, user.PasswordHash) {
		return nil, "", errors.New("邮箱或密码错误")
	}
	if user.Banned {
		return nil, "", errors.New("账号已被封禁")
	}

	token, err := s.jwtService.GenerateToken(
		strconv.FormatUint(uint64(user.ID), 10),
		map[string]interface{}{"is_admin": user.IsAdmin},
	)
	if err != nil {
		return nil, "", fmt.Errorf("签发令牌失败: %w", err)
	}

	return user, token, nil
}

// List 分页获取用户列表（排序字段经允许表校验）
func (s *UserService) List(q *repository.UserListQuery) ([]*model.User, int64, error) {
	return s.repo.List(q)
}

// GetByID 获取单个用户
func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetBanned 更新封禁状态
func (s *UserService) SetBanned(id uint, banned bool) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.repo.SetBanned(id, banned)
}
