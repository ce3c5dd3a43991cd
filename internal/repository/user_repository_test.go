package repository

import (
	"testing"

	"match-system/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glog.Default.LogMode(glog.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Message{}, &model.MessageAttachment{},
		&model.UserImage{},
		&model.DeletedUser{}, &model.DeletedUserReceiver{},
		&model.BlacklistEntry{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, gender string, banned bool) *model.User {
	t.Helper()
	u := &model.User{Email: email, RealName: "测试用户", Gender: gender, Banned: banned}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestUserRepositoryList(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice@example.com", "female", false)
	seedUser(t, db, "bob@example.com", "male", true)
	seedUser(t, db, "carol@example.com", "female", true)

	repo := NewUserRepository(db)

	// 不过滤
	users, total, err := repo.List(&UserListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 3)

	// 按封禁状态过滤
	banned := true
	users, total, err = repo.List(&UserListQuery{Banned: &banned})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// 组合过滤：封禁 + 性别
	users, total, err = repo.List(&UserListQuery{Banned: &banned, Gender: "female"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "carol@example.com", users[0].Email)

	// 邮箱模糊匹配 + 降序
	users, _, err = repo.List(&UserListQuery{Email: "example.com", Sort: SortByEmail, Dir: SortDesc})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "carol@example.com", users[0].Email)
}

func TestUserRepositoryListPagination(t *testing.T) {
	db := newTestDB(t)
	for _, email := range []string{"u1@example.com", "u2@example.com", "u3@example.com"} {
		seedUser(t, db, email, "male", false)
	}

	repo := NewUserRepository(db)
	users, total, err := repo.List(&UserListQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 1)
	assert.Equal(t, "u3@example.com", users[0].Email)
}

func TestUserRepositorySetBanned(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "ban@example.com", "male", false)

	repo := NewUserRepository(db)
	require.NoError(t, repo.SetBanned(u.ID, true))

	got, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.Banned)
}

func TestMessageRepositoryPartners(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, "a@example.com", "male", false)
	b := seedUser(t, db, "b@example.com", "female", false)
	c := seedUser(t, db, "c@example.com", "female", false)

	require.NoError(t, db.Create(&model.Message{SenderID: a.ID, ReceiverID: b.ID, Content: "1"}).Error)
	require.NoError(t, db.Create(&model.Message{SenderID: b.ID, ReceiverID: a.ID, Content: "2"}).Error)
	require.NoError(t, db.Create(&model.Message{SenderID: c.ID, ReceiverID: a.ID, Content: "3"}).Error)
	// 自己发给自己的脏数据不算会话对象
	require.NoError(t, db.Create(&model.Message{SenderID: a.ID, ReceiverID: a.ID, Content: "4"}).Error)

	repo := NewMessageRepository(db)
	partners, err := repo.GetDistinctPartnerIDs(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, c.ID}, partners)
}

func TestMessageRepositoryAttachments(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, "a@example.com", "male", false)
	b := seedUser(t, db, "b@example.com", "female", false)

	msg := &model.Message{SenderID: a.ID, ReceiverID: b.ID, Content: "带附件"}
	require.NoError(t, db.Create(msg).Error)
	require.NoError(t, db.Create(&model.MessageAttachment{MessageID: msg.ID, FilePath: "att/1.pdf"}).Error)
	require.NoError(t, db.Create(&model.MessageAttachment{MessageID: msg.ID, FilePath: "att/2.pdf"}).Error)

	repo := NewMessageRepository(db)
	paths, err := repo.GetAttachmentPaths(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"att/1.pdf", "att/2.pdf"}, paths)

	require.NoError(t, repo.DeleteAttachmentsForUser(a.ID))
	var n int64
	require.NoError(t, db.Model(&model.MessageAttachment{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestLifecycleRepositoryTombstoneUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewLifecycleRepository(db)

	first := &model.DeletedUser{DeletedUserID: 7, RealName: "甲", Email: "a@example.com", Initiator: model.InitiatorUser}
	require.NoError(t, repo.UpsertTombstone(first))

	// 同一ID重复写入收敛为更新
	second := &model.DeletedUser{DeletedUserID: 7, RealName: "甲", Email: "a@example.com", Initiator: model.InitiatorAdmin}
	require.NoError(t, repo.UpsertTombstone(second))

	var n int64
	require.NoError(t, db.Model(&model.DeletedUser{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetTombstone(7)
	require.NoError(t, err)
	assert.Equal(t, model.InitiatorAdmin, got.Initiator)
}

func TestLifecycleRepositoryReceiverMappings(t *testing.T) {
	db := newTestDB(t)
	repo := NewLifecycleRepository(db)

	require.NoError(t, repo.InsertReceiverMappings(7, []uint{2, 3}))
	// 重复写入冲突忽略
	require.NoError(t, repo.InsertReceiverMappings(7, []uint{3, 4}))

	mappings, err := repo.GetReceiverMappings(7)
	require.NoError(t, err)
	require.Len(t, mappings, 3)

	require.NoError(t, repo.DeleteMappingsByReceiver(3))
	mappings, err = repo.GetReceiverMappings(7)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, uint(2), mappings[0].ReceiverID)
	assert.Equal(t, uint(4), mappings[1].ReceiverID)
}
