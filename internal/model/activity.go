package model

import (
	"time"
)

// 辅助性从属表：活动日志、兼容度缓存、会话移除标记、改名历史，
// 以及部分部署可选的设置表（notification_setting / privacy_setting）。
// 这些表在个别部署中可能不存在，完整性检查与级联清除均需容忍缺表。

// ActivityLog 用户活动日志
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index;comment:用户ID"`
	Action    string    `gorm:"type:varchar(64);comment:动作"`
	Detail    string    `gorm:"type:varchar(255);comment:详情"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (ActivityLog) TableName() string { return "activity_log" }

// CompatibilityScore 两名用户之间的兼容度缓存
type CompatibilityScore struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index;comment:用户ID"`
	OtherUserID uint      `gorm:"not null;index;comment:对方用户ID"`
	Score       float64   `gorm:"comment:兼容度分值"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

func (CompatibilityScore) TableName() string { return "compatibility_score" }

// ConversationRemoval 会话移除标记（用户从列表中隐藏某个会话）
type ConversationRemoval struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index;comment:用户ID"`
	OtherUserID uint      `gorm:"not null;index;comment:对方用户ID"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (ConversationRemoval) TableName() string { return "conversation_removal" }

// NameChange 改名历史
type NameChange struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index;comment:用户ID"`
	OldName   string    `gorm:"type:varchar(64);comment:原姓名"`
	NewName   string    `gorm:"type:varchar(64);comment:新姓名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (NameChange) TableName() string { return "name_change" }

// NotificationSetting 通知设置（部署可选表）
type NotificationSetting struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex;comment:用户ID"`
	EmailEnabled bool      `gorm:"default:true;comment:邮件通知"`
	PushEnabled  bool      `gorm:"default:true;comment:推送通知"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (NotificationSetting) TableName() string { return "notification_setting" }

// PrivacySetting 隐私设置（部署可选表）
type PrivacySetting struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;uniqueIndex;comment:用户ID"`
	HideLastSeen  bool      `gorm:"default:false;comment:隐藏最近在线"`
	HideFromLists bool      `gorm:"default:false;comment:不出现在列表"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

func (PrivacySetting) TableName() string { return "privacy_setting" }
