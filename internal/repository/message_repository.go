package repository

import (
	"match-system/internal/model"

	"gorm.io/gorm"
)

// MessageRepository 消息数据仓储
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建MessageRepository实例
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetDistinctPartnerIDs 获取与指定用户有过私信往来的全部对方用户ID（去重）
// 删除编排器在清除消息之前调用：消息删除后该关系不可恢复
func (r *MessageRepository) GetDistinctPartnerIDs(userID uint) ([]uint, error) {
	var partnerIDs []uint
	err := r.db.Raw(`
		SELECT DISTINCT receiver_id AS partner_id FROM message WHERE sender_id = ?
		UNION
		SELECT DISTINCT sender_id AS partner_id FROM message WHERE receiver_id = ?
		ORDER BY partner_id`, userID, userID).
		Scan(&partnerIDs).Error
	if err != nil {
		return nil, err
	}

	// 排除自己给自己的脏数据
	filtered := partnerIDs[:0]
	for _, id := range partnerIDs {
		if id != userID {
			filtered = append(filtered, id)
		}
	}
	return filtered, nil
}

// GetAttachmentPaths 获取指定用户全部会话消息的附件文件路径
// 在清除消息与附件之前调用，供文件清理器使用
func (r *MessageRepository) GetAttachmentPaths(userID uint) ([]string, error) {
	var paths []string
	err := r.db.Model(&model.MessageAttachment{}).
		Where("message_id IN (SELECT id FROM message WHERE sender_id = ? OR receiver_id = ?)", userID, userID).
		Order("id").
		Pluck("file_path", &paths).Error
	return paths, err
}

// DeleteAttachmentsForUser 清除指定用户全部会话消息的附件记录
// 必须先于消息本体删除执行，否则子查询失去依据
func (r *MessageRepository) DeleteAttachmentsForUser(userID uint) error {
	return r.db.Where("message_id IN (SELECT id FROM message WHERE sender_id = ? OR receiver_id = ?)", userID, userID).
		Delete(&model.MessageAttachment{}).Error
}
