package repository

import (
	"match-system/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建UserRepository实例
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID 根据ID获取用户
func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var u model.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail 根据邮箱获取用户
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var u model.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// List 按结构化查询参数分页获取用户列表
func (r *UserRepository) List(q *UserListQuery) ([]*model.User, int64, error) {
	q.Normalize()

	order, err := q.OrderClause()
	if err != nil {
		return nil, 0, err
	}

	base := r.db.Model(&model.User{})
	if q.Banned != nil {
		base = base.Where("banned = ?", *q.Banned)
	}
	if q.Gender != "" {
		base = base.Where("gender = ?", q.Gender)
	}
	if q.Email != "" {
		base = base.Where("email LIKE ?", "%"+q.Email+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	err = base.
		Order(order).
		Limit(q.PageSize).
		Offset(q.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// SetBanned 更新封禁状态
func (r *UserRepository) SetBanned(id uint, banned bool) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("banned", banned).Error
}

// GetImagePaths 获取用户全部相册图片的文件路径
// 删除用户前调用，供文件清理器使用
func (r *UserRepository) GetImagePaths(userID uint) ([]string, error) {
	var paths []string
	err := r.db.Model(&model.UserImage{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("file_path", &paths).Error
	return paths, err
}
