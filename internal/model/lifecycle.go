package model

import (
	"time"
)

// 用户生命周期相关表：删除墓碑、删除接收方映射、黑名单。
// 墓碑与接收方映射仅由删除编排器写入。

// 删除发起方取值
const (
	InitiatorUser  = "user"  // 用户自行注销
	InitiatorAdmin = "admin" // 管理员删除
)

// DeletedUser 删除墓碑
// 按 deleted_user_id 唯一，保存删除前捕获的原始姓名与邮箱
// 追加写入：对同一ID的重复删除做 upsert，不产生重复行

type DeletedUser struct {
	ID            uint      `gorm:"primaryKey"`
	DeletedUserID uint      `gorm:"not null;uniqueIndex;comment:被删除用户ID"`
	RealName      string    `gorm:"type:varchar(64);comment:删除前的真实姓名"`
	Email         string    `gorm:"type:varchar(128);comment:删除前的邮箱"`
	Initiator     string    `gorm:"type:varchar(16);not null;comment:发起方(user/admin)"`
	CreatedAt     time.Time `gorm:"comment:删除时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

func (DeletedUser) TableName() string { return "deleted_user" }

// DeletedUserReceiver 删除接收方映射
// (deleted_user_id, receiver_id) 唯一，每个曾经的会话对象一行
// 使对方在消息被清除后仍能看到"账号已注销"；当 receiver 自身被删除时回收

type DeletedUserReceiver struct {
	ID            uint      `gorm:"primaryKey"`
	DeletedUserID uint      `gorm:"not null;uniqueIndex:idx_deleted_receiver,priority:1;comment:被删除用户ID"`
	ReceiverID    uint      `gorm:"not null;uniqueIndex:idx_deleted_receiver,priority:2;index;comment:接收方用户ID"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
}

func (DeletedUserReceiver) TableName() string { return "deleted_user_receiver" }

// BlacklistEntry 黑名单记录
// 同一用户存在激活记录时拒绝再次加入（不做 upsert）
// 黑名单不自动触发删除

type BlacklistEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index;comment:用户ID"`
	AdminID   uint      `gorm:"not null;comment:操作管理员ID"`
	Reason    string    `gorm:"type:varchar(255);comment:原因"`
	Notes     string    `gorm:"type:text;comment:备注"`
	IP        string    `gorm:"type:varchar(64);comment:请求IP"`
	UserAgent string    `gorm:"type:varchar(255);comment:User-Agent"`
	Active    bool      `gorm:"default:true;comment:是否激活"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (BlacklistEntry) TableName() string { return "blacklist_entry" }
