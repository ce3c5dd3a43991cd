package repository

import (
	"match-system/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LifecycleRepository 用户生命周期仓储：墓碑、接收方映射、黑名单
type LifecycleRepository struct {
	db *gorm.DB
}

// NewLifecycleRepository 创建LifecycleRepository实例
func NewLifecycleRepository(db *gorm.DB) *LifecycleRepository {
	return &LifecycleRepository{db: db}
}

// UpsertTombstone 写入墓碑；同一 deleted_user_id 的重复删除做更新而非报错
func (r *LifecycleRepository) UpsertTombstone(t *model.DeletedUser) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "deleted_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"real_name", "email", "initiator", "updated_at"}),
	}).Create(t).Error
}

// GetTombstone 按被删除用户ID获取墓碑
func (r *LifecycleRepository) GetTombstone(deletedUserID uint) (*model.DeletedUser, error) {
	var t model.DeletedUser
	if err := r.db.Where("deleted_user_id = ?", deletedUserID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// InsertReceiverMappings 批量写入接收方映射；冲突时忽略（幂等）
func (r *LifecycleRepository) InsertReceiverMappings(deletedUserID uint, receiverIDs []uint) error {
	if len(receiverIDs) == 0 {
		return nil
	}

	mappings := make([]model.DeletedUserReceiver, 0, len(receiverIDs))
	for _, receiverID := range receiverIDs {
		mappings = append(mappings, model.DeletedUserReceiver{
			DeletedUserID: deletedUserID,
			ReceiverID:    receiverID,
		})
	}

	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&mappings).Error
}

// DeleteMappingsByReceiver 回收接收方映射：receiver 自身被删除后，
// 指向它的映射不再有观察者
func (r *LifecycleRepository) DeleteMappingsByReceiver(receiverID uint) error {
	return r.db.Where("receiver_id = ?", receiverID).
		Delete(&model.DeletedUserReceiver{}).Error
}

// GetReceiverMappings 获取某个被删除用户的全部接收方映射
func (r *LifecycleRepository) GetReceiverMappings(deletedUserID uint) ([]model.DeletedUserReceiver, error) {
	var mappings []model.DeletedUserReceiver
	err := r.db.Where("deleted_user_id = ?", deletedUserID).
		Order("receiver_id").
		Find(&mappings).Error
	return mappings, err
}

// HasActiveBlacklistEntry 用户是否已有激活的黑名单记录
func (r *LifecycleRepository) HasActiveBlacklistEntry(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.BlacklistEntry{}).
		Where("user_id = ? AND active = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateBlacklistEntry 新增黑名单记录
func (r *LifecycleRepository) CreateBlacklistEntry(entry *model.BlacklistEntry) error {
	return r.db.Create(entry).Error
}
