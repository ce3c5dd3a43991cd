package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserListQueryNormalize(t *testing.T) {
	q := &UserListQuery{}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.Equal(t, SortByID, q.Sort)
	assert.Equal(t, SortAsc, q.Dir)

	// 超出上限的页大小回落到默认值
	q = &UserListQuery{Page: 3, PageSize: 500}
	q.Normalize()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 20, q.PageSize)
}

func TestUserListQueryOrderClause(t *testing.T) {
	q := &UserListQuery{Sort: SortByEmail, Dir: SortDesc}
	order, err := q.OrderClause()
	assert.NoError(t, err)
	assert.Equal(t, "email DESC", order)

	q = &UserListQuery{Sort: SortByCreatedAt, Dir: SortAsc}
	order, err = q.OrderClause()
	assert.NoError(t, err)
	assert.Equal(t, "created_at ASC", order)
}

// 排序字段与方向只接受允许表内的值，请求参数不会被拼进SQL标识符
func TestUserListQueryRejectsUnknownSort(t *testing.T) {
	q := &UserListQuery{Sort: "password_hash; DROP TABLE user", Dir: SortAsc}
	_, err := q.OrderClause()
	assert.Error(t, err)

	q = &UserListQuery{Sort: SortByID, Dir: "sideways"}
	_, err = q.OrderClause()
	assert.Error(t, err)
}

func TestUserListQueryOffset(t *testing.T) {
	q := &UserListQuery{Page: 1, PageSize: 20}
	assert.Equal(t, 0, q.Offset())

	q = &UserListQuery{Page: 4, PageSize: 25}
	assert.Equal(t, 75, q.Offset())
}
