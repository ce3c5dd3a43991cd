package model

import (
	"time"
)

// Message 私信消息
// 发送者与接收者均引用 user 表；用户删除时本表按双向清除

type Message struct {
	ID         uint      `gorm:"primaryKey"`
	SenderID   uint      `gorm:"not null;index;comment:发送者ID"`
	ReceiverID uint      `gorm:"not null;index;comment:接收者ID"`
	Content    string    `gorm:"type:text;not null;comment:消息内容"`
	IsRead     bool      `gorm:"default:false;comment:是否已读"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

func (Message) TableName() string { return "message" }

// MessageAttachment 消息附件
// FilePath 为相对上传根目录的文件路径，删除用户时由文件清理器删除磁盘文件

type MessageAttachment struct {
	ID        uint      `gorm:"primaryKey"`
	MessageID uint      `gorm:"not null;index;comment:所属消息ID"`
	FilePath  string    `gorm:"type:varchar(255);not null;comment:文件相对路径"`
	FileSize  int64     `gorm:"comment:文件大小(字节)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (MessageAttachment) TableName() string { return "message_attachment" }
