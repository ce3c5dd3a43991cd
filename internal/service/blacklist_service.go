package service

import (
	"errors"
	"fmt"

	"match-system/internal/model"
	"match-system/internal/repository"
	"match-system/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrAlreadyBlacklisted 用户已有激活的黑名单记录
var ErrAlreadyBlacklisted = errors.New("用户已在黑名单中")

// ErrUserNotFound 用户不存在
var ErrUserNotFound = errors.New("用户不存在")

// BlacklistRequest 加入黑名单请求
type BlacklistRequest struct {
	UserID    uint
	AdminID   uint
	Reason    string
	Notes     string
	IP        string
	UserAgent string
}

// BlacklistService 黑名单服务
// 黑名单只记录，不删除用户，也不自动触发删除
type BlacklistService struct {
	userRepo      *repository.UserRepository
	lifecycleRepo *repository.LifecycleRepository
}

// NewBlacklistService 创建BlacklistService实例
func NewBlacklistService(userRepo *repository.UserRepository, lifecycleRepo *repository.LifecycleRepository) *BlacklistService {
	return &BlacklistService{
		userRepo:      userRepo,
		lifecycleRepo: lifecycleRepo,
	}
}

// Blacklist 将用户加入黑名单
// 已存在激活记录时拒绝（不做upsert）
func (s *BlacklistService) Blacklist(req *BlacklistRequest) (*model.BlacklistEntry, error) {
	if req.UserID == 0 {
		return nil, errors.New("用户ID不能为空")
	}
	if req.Reason == "" {
		return nil, errors.New("黑名单原因不能为空")
	}

	// 用户必须存在
	if _, err := s.userRepo.GetByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	// 已有激活记录时拒绝
	exists, err := s.lifecycleRepo.HasActiveBlacklistEntry(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("查询黑名单记录失败: %w", err)
	}
	if exists {
		return nil, ErrAlreadyBlacklisted
	}

	entry := &model.BlacklistEntry{
		UserID:    req.UserID,
		AdminID:   req.AdminID,
		Reason:    req.Reason,
		Notes:     req.Notes,
		IP:        req.IP,
		UserAgent: req.UserAgent,
		Active:    true,
	}
	if err := s.lifecycleRepo.CreateBlacklistEntry(entry); err != nil {
		return nil, fmt.Errorf("写入黑名单记录失败: %w", err)
	}

	logger.Info("用户已加入黑名单",
		zap.Uint("user_id", req.UserID),
		zap.Uint("admin_id", req.AdminID),
		zap.String("reason", req.Reason),
	)

	return entry, nil
}
