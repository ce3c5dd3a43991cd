package service

import (
	"testing"
	"time"

	"match-system/config"
	"match-system/internal/repository"
	"match-system/pkg/jwt"
	"match-system/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	jwtSvc := jwt.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		ExpireTime: time.Hour,
		Issuer:     "match-system-test",
	})
	return NewUserService(repository.NewUserRepository(db), jwtSvc)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	u := newTestUser(t, db, "admin@example.com", "管理员")
	hash, err := password.Hash("s3cret")
	require.NoError(t, err)
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{
		"password_hash": hash,
		"is_admin":      true,
	}).Error)

	svc := newUserService(db)
	got, token, err := svc.Login("admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	u := newTestUser(t, db, "user@example.com", "甲")
	hash, err := password.Hash("right")
	require.NoError(t, err)
	require.NoError(t, db.Model(u).Update("password_hash", hash).Error)

	svc := newUserService(db)
	_, _, err = svc.Login("user@example.com", "wrong")
	assert.Error(t, err)

	_, _, err = svc.Login("nobody@example.com", "whatever")
	assert.Error(t, err)
}

func TestLoginBannedUser(t *testing.T) {
	db := newTestDB(t)
	u := newTestUser(t, db, "banned@example.com", "甲")
	hash, err := password.Hash("s3cret")
	require.NoError(t, err)
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{
		"password_hash": hash,
		"banned":        true,
	}).Error)

	svc := newUserService(db)
	_, _, err = svc.Login("banned@example.com", "s3cret")
	assert.Error(t, err)
}

func TestSetBannedUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	assert.ErrorIs(t, svc.SetBanned(9999, true), ErrUserNotFound)
}
