package model

import (
	"time"
)

// UserPreferences 用户偏好（与用户1:1）
// 不变式：AgeMin <= AgeMax

type UserPreferences struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;uniqueIndex;comment:用户ID"`
	AgeMin          int       `gorm:"default:18;comment:最小年龄"`
	AgeMax          int       `gorm:"default:65;comment:最大年龄"`
	PreferredGender string    `gorm:"type:varchar(16);default:'any';comment:偏好性别"`
	SearchRadius    int       `gorm:"default:0;comment:搜索半径(公里,0为不限)"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

func (UserPreferences) TableName() string { return "user_preferences" }

// UserAttributes 用户扩展资料（与用户1:1），自由文本字段
type UserAttributes struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;uniqueIndex;comment:用户ID"`
	AboutMe    string    `gorm:"type:text;comment:自我介绍"`
	Occupation string    `gorm:"type:varchar(128);comment:职业"`
	Education  string    `gorm:"type:varchar(128);comment:学历"`
	Interests  string    `gorm:"type:text;comment:兴趣爱好"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

func (UserAttributes) TableName() string { return "user_attributes" }
