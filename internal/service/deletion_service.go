package service

import (
	"errors"
	"fmt"
	"strings"

	"match-system/internal/integrity"
	"match-system/internal/model"
	"match-system/internal/repository"
	"match-system/pkg/janitor"
	"match-system/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeactivationNotifier 删除提交后向曾经的会话对象推送账号注销事件
// 由WebSocket管理器实现；推送是尽力而为的，不影响删除结果
type DeactivationNotifier interface {
	NotifyAccountDeactivated(receiverID, deletedUserID uint, realName string)
}

// ProfileCacheInvalidator 删除提交后使用户资料缓存失效
type ProfileCacheInvalidator func(userID uint) error

// DeleteResult 删除结果
type DeleteResult struct {
	Success           bool `json:"success"`
	ReceiversNotified int  `json:"receivers_notified"`
}

// DeletionService 用户删除编排器
// 单个请求内同步执行：整个级联过程持有一个事务连接，提交或回滚后才返回
// 对已不存在用户的删除请求按成功空操作处理
type DeletionService struct {
	db              *gorm.DB
	caps            *integrity.Capabilities
	janitor         *janitor.Janitor
	notifier        DeactivationNotifier    // 可为nil
	invalidateCache ProfileCacheInvalidator // 可为nil

	// beforeCommit 提交前注入点，仅测试使用；返回错误触发整体回滚
	beforeCommit func(tx *gorm.DB) error
}

// NewDeletionService 创建删除编排器
func NewDeletionService(db *gorm.DB, caps *integrity.Capabilities, j *janitor.Janitor, notifier DeactivationNotifier) *DeletionService {
	return &DeletionService{
		db:       db,
		caps:     caps,
		janitor:  j,
		notifier: notifier,
	}
}

// SetProfileCacheInvalidator 设置资料缓存失效回调
func (s *DeletionService) SetProfileCacheInvalidator(fn ProfileCacheInvalidator) {
	s.invalidateCache = fn
}

// DeleteUser 删除用户
// 事务内顺序：快照身份 -> 枚举会话对象 -> 写墓碑 -> 写接收方映射 ->
// 级联清除从属行 -> 回收指向该用户的旧映射 -> 最后删除用户行 -> 提交
// 提交前任何失败整体回滚（包括墓碑与映射），不留下任何痕迹
// 文件删除在事务之外执行，失败只记录日志
func (s *DeletionService) DeleteUser(userID uint, initiator string) (*DeleteResult, error) {
	if userID == 0 {
		return nil, errors.New("用户ID不能为空")
	}
	if initiator != model.InitiatorUser && initiator != model.InitiatorAdmin {
		return nil, fmt.Errorf("非法的删除发起方: %s", initiator)
	}

	run := &deletionRun{userID: userID, state: stateRequested}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("开启事务失败: %w", tx.Error)
	}

	result, filePaths, err := s.deleteInTx(tx, run, userID, initiator)
	if err != nil {
		tx.Rollback()
		_ = run.advance(stateRolledBack)
		logger.Error("删除用户失败，事务已回滚",
			zap.Uint("user_id", userID),
			zap.String("state", run.state.String()),
			zap.Error(err),
		)
		return nil, err
	}

	// 用户不存在：成功空操作，无需提交任何内容
	if result == nil {
		tx.Rollback()
		logger.Info("删除请求的用户不存在，按成功空操作处理", zap.Uint("user_id", userID))
		return &DeleteResult{Success: true, ReceiversNotified: 0}, nil
	}

	// 提交前注入点（测试用）
	if s.beforeCommit != nil {
		if err := s.beforeCommit(tx); err != nil {
			tx.Rollback()
			_ = run.advance(stateRolledBack)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		_ = run.advance(stateRolledBack)
		return nil, fmt.Errorf("提交删除事务失败: %w", err)
	}

	// 事务外：删除磁盘文件（尽力而为，文件系统无法回滚）
	if err := run.advance(stateFilesPurged); err != nil {
		return nil, err
	}
	if s.janitor != nil && len(filePaths) > 0 {
		removed := s.janitor.RemoveFiles(filePaths)
		logger.Info("已清理用户文件",
			zap.Uint("user_id", userID),
			zap.Int("referenced", len(filePaths)),
			zap.Int("removed", removed),
		)
	}

	if err := run.advance(stateCommitted); err != nil {
		return nil, err
	}

	// 事务外：缓存失效与注销事件推送（尽力而为）
	s.afterCommit(userID, result)

	logger.Info("用户删除完成",
		zap.Uint("user_id", userID),
		zap.String("initiator", initiator),
		zap.Int("receivers_notified", result.ReceiversNotified),
	)

	return result, nil
}

// deleteInTx 事务内的删除步骤
// 用户不存在时返回 (nil, nil, nil)
func (s *DeletionService) deleteInTx(tx *gorm.DB, run *deletionRun, userID uint, initiator string) (*DeleteResult, []string, error) {
	// 1. 快照身份：严格先于任何其他步骤，墓碑必须携带真实的原始身份
	q := tx
	if tx.Dialector.Name() == "mysql" {
		// 行锁避免并发删除同一用户时快照与清除互相交错
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user model.User
	if err := q.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("快照用户身份失败: %w", err)
	}
	if err := run.advance(stateIdentitySnapshotted); err != nil {
		return nil, nil, err
	}

	msgRepo := repository.NewMessageRepository(tx)
	userRepo := repository.NewUserRepository(tx)
	lifecycleRepo := repository.NewLifecycleRepository(tx)

	// 2. 枚举会话对象：必须在消息清除前完成，之后该关系不可恢复
	var partners []uint
	if s.caps.Has("message") {
		var err error
		partners, err = msgRepo.GetDistinctPartnerIDs(userID)
		if err != nil {
			return nil, nil, fmt.Errorf("枚举会话对象失败: %w", err)
		}
	}

	// 收集文件路径：相册图片 + 会话附件（清除后无从查询）
	var filePaths []string
	if s.caps.Has("user_image") {
		paths, err := userRepo.GetImagePaths(userID)
		if err != nil {
			return nil, nil, fmt.Errorf("收集相册文件路径失败: %w", err)
		}
		filePaths = append(filePaths, paths...)
	}
	if s.caps.Has("message_attachment") && s.caps.Has("message") {
		paths, err := msgRepo.GetAttachmentPaths(userID)
		if err != nil {
			return nil, nil, fmt.Errorf("收集附件文件路径失败: %w", err)
		}
		filePaths = append(filePaths, paths...)
	}

	// 3. 写墓碑（upsert）：重复删除收敛而非报错
	tombstone := &model.DeletedUser{
		DeletedUserID: user.ID,
		RealName:      user.RealName,
		Email:         user.Email,
		Initiator:     initiator,
	}
	if err := lifecycleRepo.UpsertTombstone(tombstone); err != nil {
		return nil, nil, fmt.Errorf("写入墓碑失败: %w", err)
	}
	if err := run.advance(stateTombstoned); err != nil {
		return nil, nil, err
	}

	// 4. 写接收方映射（冲突忽略，幂等）
	if err := lifecycleRepo.InsertReceiverMappings(user.ID, partners); err != nil {
		return nil, nil, fmt.Errorf("写入接收方映射失败: %w", err)
	}
	if err := run.advance(stateReceiverMapped); err != nil {
		return nil, nil, err
	}

	// 5. 级联清除全部从属行
	if err := s.cascadePurge(tx, msgRepo, userID); err != nil {
		return nil, nil, err
	}

	// 6. 回收旧映射：该用户自身作为 receiver 的映射不再有观察者
	if err := lifecycleRepo.DeleteMappingsByReceiver(userID); err != nil {
		return nil, nil, fmt.Errorf("回收旧接收方映射失败: %w", err)
	}

	// 7. 最后删除用户行：从属行已全部清除，外键约束不会中途断裂
	if err := tx.Delete(&model.User{}, userID).Error; err != nil {
		return nil, nil, fmt.Errorf("删除用户行失败: %w", err)
	}
	if err := run.advance(stateCascadePurged); err != nil {
		return nil, nil, err
	}

	return &DeleteResult{Success: true, ReceiversNotified: len(partners)}, filePaths, nil
}

// cascadePurge 清除登记表中全部从属表的相关行
// 每张表的清除独立容忍缺表（由能力描述符在启动时判定）
func (s *DeletionService) cascadePurge(tx *gorm.DB, msgRepo *repository.MessageRepository, userID uint) error {
	// 附件先于消息本体删除（附件通过消息归属到用户）
	if s.caps.Has("message_attachment") && s.caps.Has("message") {
		if err := msgRepo.DeleteAttachmentsForUser(userID); err != nil {
			return fmt.Errorf("清除消息附件失败: %w", err)
		}
	}

	for _, dep := range integrity.DependentTables {
		if dep.Parent != "user" {
			continue // 非直接从属于用户的表（附件）已单独处理
		}
		if !s.caps.Has(dep.Name) {
			continue
		}

		conditions := make([]string, 0, len(dep.Columns))
		args := make([]interface{}, 0, len(dep.Columns))
		for _, col := range dep.Columns {
			conditions = append(conditions, col+" = ?")
			args = append(args, userID)
		}

		sql := fmt.Sprintf("DELETE FROM %s WHERE %s", dep.Name, strings.Join(conditions, " OR "))
		if err := tx.Exec(sql, args...).Error; err != nil {
			return fmt.Errorf("清除表 %s 失败: %w", dep.Name, err)
		}
	}

	return nil
}

// afterCommit 提交后的尽力而为副作用：缓存失效与注销事件推送
func (s *DeletionService) afterCommit(userID uint, result *DeleteResult) {
	if s.invalidateCache != nil {
		if err := s.invalidateCache(userID); err != nil {
			logger.Warn("用户资料缓存失效失败", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	if s.notifier == nil {
		return
	}

	lifecycleRepo := repository.NewLifecycleRepository(s.db)
	tombstone, err := lifecycleRepo.GetTombstone(userID)
	if err != nil {
		return
	}
	mappings, err := lifecycleRepo.GetReceiverMappings(userID)
	if err != nil {
		return
	}
	for _, m := range mappings {
		s.notifier.NotifyAccountDeactivated(m.ReceiverID, userID, tombstone.RealName)
	}
}
