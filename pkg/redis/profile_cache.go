package redis

import (
	"encoding/json"
	"fmt"
	"time"
)

// CachedProfile 缓存的用户资料（列表与详情页使用）
type CachedProfile struct {
	UserID   uint      `json:"user_id"`
	Email    string    `json:"email"`
	RealName string    `json:"real_name"`
	Gender   string    `json:"gender"`
	Banned   bool      `json:"banned"`
	CachedAt time.Time `json:"cached_at"`
}

// 用户资料缓存相关常量
const (
	ProfileKeyPrefix = "match:profile:user:" // 用户资料缓存key前缀
	ProfileTTL       = 30 * time.Minute      // 资料缓存TTL
)

// CacheUserProfile 缓存用户资料
func CacheUserProfile(profile *CachedProfile) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf("%s%d", ProfileKeyPrefix, profile.UserID)

	profile.CachedAt = time.Now()
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("序列化用户资料失败: %w", err)
	}

	if err := Set(key, data, ProfileTTL); err != nil {
		return fmt.Errorf("缓存用户资料失败: %w", err)
	}

	return nil
}

// GetCachedUserProfile 获取缓存的用户资料
func GetCachedUserProfile(userID uint) (*CachedProfile, error) {
	if client == nil {
		return nil, fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf("%s%d", ProfileKeyPrefix, userID)

	data, err := Get(key)
	if err != nil {
		return nil, fmt.Errorf("获取用户资料缓存失败: %w", err)
	}

	var profile CachedProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("反序列化用户资料失败: %w", err)
	}

	return &profile, nil
}

// InvalidateUserProfile 删除用户资料缓存
// 用户被更新、封禁或删除后调用，保证后续读取回源数据库
func InvalidateUserProfile(userID uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf("%s%d", ProfileKeyPrefix, userID)

	if err := Del(key); err != nil {
		return fmt.Errorf("删除用户资料缓存失败: %w", err)
	}

	return nil
}
