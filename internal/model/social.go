package model

import (
	"time"
)

// 用户间关系与个人资源表（均 N:1 归属某个用户）
// 这些行仅在所属用户存在时有意义，用户删除时级联清除

// UserImage 用户相册图片
// FilePath 为相对上传根目录的路径，磁盘上可能存在同名缩略图变体
type UserImage struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index;comment:用户ID"`
	FilePath  string    `gorm:"type:varchar(255);not null;comment:文件相对路径"`
	IsProfile bool      `gorm:"default:false;comment:是否头像"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (UserImage) TableName() string { return "user_image" }

// UserLike 喜欢记录
type UserLike struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index;comment:发起用户ID"`
	LikedUserID uint      `gorm:"not null;index;comment:被喜欢用户ID"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (UserLike) TableName() string { return "user_like" }

// UserFavorite 收藏记录
type UserFavorite struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"not null;index;comment:发起用户ID"`
	FavoriteUserID uint      `gorm:"not null;index;comment:被收藏用户ID"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
}

func (UserFavorite) TableName() string { return "user_favorite" }

// UserBlock 屏蔽记录
type UserBlock struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;index;comment:发起用户ID"`
	BlockedUserID uint      `gorm:"not null;index;comment:被屏蔽用户ID"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
}

func (UserBlock) TableName() string { return "user_block" }

// UserReport 举报记录
type UserReport struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"not null;index;comment:举报人ID"`
	ReportedUserID uint      `gorm:"not null;index;comment:被举报人ID"`
	Reason         string    `gorm:"type:varchar(255);comment:举报原因"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
}

func (UserReport) TableName() string { return "user_report" }

// UserMatch 配对记录（双方互相喜欢后生成）
type UserMatch struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;index;comment:用户ID"`
	MatchedUserID uint      `gorm:"not null;index;comment:配对用户ID"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
}

func (UserMatch) TableName() string { return "user_match" }

// UserSession 登录会话
type UserSession struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index;comment:用户ID"`
	Token     string    `gorm:"type:varchar(255);comment:会话令牌"`
	IP        string    `gorm:"type:varchar(64);comment:登录IP"`
	UserAgent string    `gorm:"type:varchar(255);comment:User-Agent"`
	ExpiresAt time.Time `gorm:"comment:过期时间"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (UserSession) TableName() string { return "user_session" }
