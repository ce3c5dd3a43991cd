package service

import (
	"testing"

	"match-system/internal/model"
	"match-system/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBlacklistService(db *gorm.DB) *BlacklistService {
	return NewBlacklistService(
		repository.NewUserRepository(db),
		repository.NewLifecycleRepository(db),
	)
}

func TestBlacklistUser(t *testing.T) {
	db := newTestDB(t)
	u := newTestUser(t, db, "bad@example.com", "甲")
	svc := newBlacklistService(db)

	entry, err := svc.Blacklist(&BlacklistRequest{
		UserID:    u.ID,
		AdminID:   1,
		Reason:    "发布垃圾信息",
		Notes:     "多次举报",
		IP:        "203.0.113.7",
		UserAgent: "curl/8.0",
	})
	require.NoError(t, err)
	assert.True(t, entry.Active)
	assert.Equal(t, u.ID, entry.UserID)

	// 记录落库，用户本身不受影响
	assert.Equal(t, int64(1), countRows(t, db, &model.BlacklistEntry{}))
	assert.NoError(t, db.First(&model.User{}, u.ID).Error)
}

func TestBlacklistRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	u := newTestUser(t, db, "dup@example.com", "甲")
	svc := newBlacklistService(db)

	req := &BlacklistRequest{UserID: u.ID, AdminID: 1, Reason: "违规"}
	_, err := svc.Blacklist(req)
	require.NoError(t, err)

	_, err = svc.Blacklist(req)
	assert.ErrorIs(t, err, ErrAlreadyBlacklisted)
	assert.Equal(t, int64(1), countRows(t, db, &model.BlacklistEntry{}))
}

func TestBlacklistAllowsAfterDeactivation(t *testing.T) {
	db := newTestDB(t)
	u := newTestUser(t, db, "again@example.com", "甲")
	svc := newBlacklistService(db)

	_, err := svc.Blacklist(&BlacklistRequest{UserID: u.ID, AdminID: 1, Reason: "违规"})
	require.NoError(t, err)

	// 旧记录失活后允许再次加入
	require.NoError(t, db.Model(&model.BlacklistEntry{}).
		Where("user_id = ?", u.ID).
		Update("active", false).Error)

	_, err = svc.Blacklist(&BlacklistRequest{UserID: u.ID, AdminID: 2, Reason: "再次违规"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), countRows(t, db, &model.BlacklistEntry{}))
}

func TestBlacklistUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newBlacklistService(db)

	_, err := svc.Blacklist(&BlacklistRequest{UserID: 9999, AdminID: 1, Reason: "违规"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBlacklistRequiresReason(t *testing.T) {
	db := newTestDB(t)
	u := newTestUser(t, db, "noreason@example.com", "甲")
	svc := newBlacklistService(db)

	_, err := svc.Blacklist(&BlacklistRequest{UserID: u.ID, AdminID: 1})
	assert.Error(t, err)
}
