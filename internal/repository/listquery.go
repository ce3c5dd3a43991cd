package repository

import (
	"fmt"
)

// 用户列表查询的结构化构建器
// 排序字段与方向均通过显式允许表校验，杜绝把请求参数直接拼进SQL标识符

// SortField 允许的排序字段
type SortField string

const (
	SortByID        SortField = "id"
	SortByEmail     SortField = "email"
	SortByRealName  SortField = "real_name"
	SortByBirthdate SortField = "birthdate"
	SortByCreatedAt SortField = "created_at"
)

// allowedSortColumns 排序字段到实际列名的允许表
var allowedSortColumns = map[SortField]string{
	SortByID:        "id",
	SortByEmail:     "email",
	SortByRealName:  "real_name",
	SortByBirthdate: "birthdate",
	SortByCreatedAt: "created_at",
}

// SortDir 排序方向
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// UserListQuery 用户列表查询参数
type UserListQuery struct {
	Page     int
	PageSize int
	Sort     SortField
	Dir      SortDir
	Banned   *bool  // 按封禁状态过滤（nil为不过滤）
	Gender   string // 按性别过滤（空为不过滤）
	Email    string // 按邮箱模糊匹配（空为不过滤）
}

// Normalize 规范化分页参数
func (q *UserListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Sort == "" {
		q.Sort = SortByID
	}
	if q.Dir == "" {
		q.Dir = SortAsc
	}
}

// OrderClause 构建ORDER BY子句；字段或方向不在允许表内时返回错误
func (q *UserListQuery) OrderClause() (string, error) {
	column, ok := allowedSortColumns[q.Sort]
	if !ok {
		return "", fmt.Errorf("不允许的排序字段: %s", q.Sort)
	}
	switch q.Dir {
	case SortAsc:
		return column + " ASC", nil
	case SortDesc:
		return column + " DESC", nil
	default:
		return "", fmt.Errorf("不允许的排序方向: %s", q.Dir)
	}
}

// Offset 计算分页偏移
func (q *UserListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
