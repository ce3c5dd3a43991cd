package redis

import (
	"encoding/json"
	"fmt"
	"time"
)

// DeactivationNotice 账号注销通知
// 对方用户不在线时暂存于Redis，下次连接时推送
type DeactivationNotice struct {
	DeletedUserID uint      `json:"deleted_user_id"`
	RealName      string    `json:"real_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// 注销通知相关常量
const (
	DeactivationKeyPrefix = "match:deactivated:" // 注销通知key前缀
	DeactivationTTL       = 7 * 24 * time.Hour   // 7天过期
)

// AddDeactivationNotice 添加注销通知
func AddDeactivationNotice(receiverID uint, notice *DeactivationNotice) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf("%s%d", DeactivationKeyPrefix, receiverID)

	// 将通知序列化为JSON
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("序列化注销通知失败: %w", err)
	}

	// 使用LPUSH添加到列表头部（最新的通知在前面）
	if err := client.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("添加注销通知失败: %w", err)
	}

	// 设置TTL
	if err := client.Expire(ctx, key, DeactivationTTL).Err(); err != nil {
		return fmt.Errorf("设置注销通知TTL失败: %w", err)
	}

	// 限制通知数量（最多保存100条）
	if err := client.LTrim(ctx, key, 0, 99).Err(); err != nil {
		return fmt.Errorf("限制注销通知数量失败: %w", err)
	}

	return nil
}

// GetDeactivationNotices 获取用户的注销通知
func GetDeactivationNotices(receiverID uint, limit int) ([]*DeactivationNotice, error) {
	if client == nil {
		return nil, fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf("%s%d", DeactivationKeyPrefix, receiverID)

	results, err := client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("获取注销通知失败: %w", err)
	}

	var notices []*DeactivationNotice
	for _, result := range results {
		var notice DeactivationNotice
		if err := json.Unmarshal([]byte(result), &notice); err != nil {
			continue // 跳过无法解析的通知
		}
		notices = append(notices, &notice)
	}

	return notices, nil
}

// ClearDeactivationNotices 清空用户的注销通知
func ClearDeactivationNotices(receiverID uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf("%s%d", DeactivationKeyPrefix, receiverID)

	if err := client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("清空注销通知失败: %w", err)
	}

	return nil
}
