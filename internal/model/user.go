package model

import (
	"time"
)

// User 用户模型
// 索引与唯一约束：邮箱唯一
// 位置三级外键：country_id -> state_id -> city_id
// 不变式：country_id 与 state_id 均存在时，state 所属国家必须等于 country_id（city 与 state 同理）
// 说明：密码仅存储哈希（PasswordHash），不存储明文
// 本系统中用户删除为硬删除（由删除编排器执行），故不使用 gorm 软删除字段

type User struct {
	ID              uint       `gorm:"primaryKey"`
	Email           string     `gorm:"type:varchar(128);index;comment:邮箱"`
	RealName        string     `gorm:"type:varchar(64);comment:真实姓名"`
	Gender          string     `gorm:"type:varchar(16);comment:性别"`
	Birthdate       *time.Time `gorm:"comment:出生日期"`
	CountryID       *uint      `gorm:"index;comment:国家ID"`
	StateID         *uint      `gorm:"index;comment:州/省ID"`
	CityID          *uint      `gorm:"index;comment:城市ID"`
	Banned          bool       `gorm:"default:false;comment:是否封禁"`
	EmailVerified   bool       `gorm:"default:false;comment:邮箱是否已验证"`
	ProfileVerified bool       `gorm:"default:false;comment:资料是否已审核"`
	IsAdmin         bool       `gorm:"default:false;comment:是否管理员"`
	PasswordHash    string     `gorm:"type:varchar(255);comment:密码哈希"`
	CreatedAt       time.Time  `gorm:"comment:创建时间"`
	UpdatedAt       time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名（因全局配置使用单数表名，这里与结构体名一致为 user）
func (User) TableName() string { return "user" }
