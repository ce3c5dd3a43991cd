package integrity

import (
	"testing"
	"time"

	"match-system/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"
)

// newTestDB 创建内存数据库并迁移全部表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glog.Default.LogMode(glog.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Country{}, &model.State{}, &model.City{},
		&model.UserPreferences{}, &model.UserAttributes{},
		&model.Message{}, &model.MessageAttachment{},
		&model.UserImage{}, &model.UserLike{}, &model.UserFavorite{},
		&model.UserBlock{}, &model.UserReport{}, &model.UserMatch{},
		&model.UserSession{},
		&model.ActivityLog{}, &model.CompatibilityScore{},
		&model.ConversationRemoval{}, &model.NameChange{},
		&model.NotificationSetting{}, &model.PrivacySetting{},
		&model.DeletedUser{}, &model.DeletedUserReceiver{},
		&model.BlacklistEntry{},
	))
	return db
}

// createUser 创建一个各项字段均合法的用户
func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	birthdate := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	u := &model.User{
		Email:     email,
		RealName:  "张三",
		Gender:    "male",
		Birthdate: &birthdate,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// issuesOfType 按类型过滤问题列表
func issuesOfType(report *Report, issueType string) []Issue {
	var out []Issue
	for _, issue := range report.Issues {
		if issue.Type == issueType {
			out = append(out, issue)
		}
	}
	return out
}

func TestScanCleanDatabase(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "clean@example.com")

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	assert.True(t, report.IsClean())
	assert.Equal(t, 0, report.Summary.Total)
	assert.Empty(t, report.Summary.SkippedChecks)
}

func TestScanOrphanedLocationRefs(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "orphan@example.com")
	missing := uint(9999)
	require.NoError(t, db.Model(u).Update("country_id", missing).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeOrphanedCountryReference)
	require.Len(t, found, 1)
	assert.Equal(t, u.ID, found[0].UserID)
	assert.Equal(t, SeverityHigh, found[0].Severity)
}

func TestScanLocationHierarchyMismatch(t *testing.T) {
	db := newTestDB(t)
	c1 := &model.Country{Name: "中国"}
	c2 := &model.Country{Name: "日本"}
	require.NoError(t, db.Create(c1).Error)
	require.NoError(t, db.Create(c2).Error)
	// 州属于 c2，但用户国家是 c1
	s := &model.State{CountryID: c2.ID, Name: "东京都"}
	require.NoError(t, db.Create(s).Error)

	u := createUser(t, db, "mismatch@example.com")
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{
		"country_id": c1.ID,
		"state_id":   s.ID,
	}).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeInvalidLocationReference)
	require.Len(t, found, 1)
	assert.Equal(t, u.ID, found[0].UserID)
	assert.Equal(t, SeverityHigh, found[0].Severity)
}

func TestScanCityHierarchyMismatch(t *testing.T) {
	db := newTestDB(t)
	c := &model.Country{Name: "中国"}
	require.NoError(t, db.Create(c).Error)
	s1 := &model.State{CountryID: c.ID, Name: "广东省"}
	s2 := &model.State{CountryID: c.ID, Name: "浙江省"}
	require.NoError(t, db.Create(s1).Error)
	require.NoError(t, db.Create(s2).Error)
	// 城市属于 s2，但用户州是 s1
	city := &model.City{StateID: s2.ID, Name: "杭州"}
	require.NoError(t, db.Create(city).Error)

	u := createUser(t, db, "city@example.com")
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{
		"country_id": c.ID,
		"state_id":   s1.ID,
		"city_id":    city.ID,
	}).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeInvalidLocationReference)
	require.Len(t, found, 1)
	assert.Equal(t, u.ID, found[0].UserID)
}

func TestScanBirthdateInFuture(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "future@example.com")
	future := time.Now().AddDate(2, 0, 0)
	require.NoError(t, db.Model(u).Update("birthdate", future).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeBirthdateInFuture)
	require.Len(t, found, 1)
	assert.Equal(t, SeverityHigh, found[0].Severity)
	// 未来出生日期同时意味着计算年龄为负
	assert.Len(t, issuesOfType(report, TypeInvalidAge), 1)
}

func TestScanBirthdateBefore1900(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "ancient@example.com")
	ancient := time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(u).Update("birthdate", ancient).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeBirthdateBefore1900)
	require.Len(t, found, 1)
	assert.Equal(t, SeverityMedium, found[0].Severity)
	// 1850年出生意味着计算年龄超过120
	assert.Len(t, issuesOfType(report, TypeInvalidAge), 1)
}

func TestScanMissingRequiredFields(t *testing.T) {
	db := newTestDB(t)
	birthdate := time.Date(1992, 3, 1, 0, 0, 0, 0, time.UTC)
	u := &model.User{Gender: "female", Birthdate: &birthdate}
	require.NoError(t, db.Create(u).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	assert.Len(t, issuesOfType(report, TypeMissingEmail), 1)
	assert.Len(t, issuesOfType(report, TypeMissingRealName), 1)
}

func TestScanDuplicateEmails(t *testing.T) {
	db := newTestDB(t)
	u1 := createUser(t, db, "dup@example.com")
	u2 := createUser(t, db, "dup@example.com")
	createUser(t, db, "unique@example.com")

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeDuplicateEmail)
	require.Len(t, found, 2)
	assert.Equal(t, u1.ID, found[0].UserID)
	assert.Equal(t, u2.ID, found[1].UserID)
}

func TestScanInvalidGender(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "gender@example.com")
	require.NoError(t, db.Model(u).Update("gender", "unknown").Error)
	// 大小写不同但属于允许值，不应报告
	ok := createUser(t, db, "upper@example.com")
	require.NoError(t, db.Model(ok).Update("gender", "MALE").Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeInvalidGender)
	require.Len(t, found, 1)
	assert.Equal(t, u.ID, found[0].UserID)
	assert.Equal(t, SeverityLow, found[0].Severity)
}

func TestScanOrphanedDependents(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "owner@example.com")
	// 发送者已不存在的消息
	require.NoError(t, db.Create(&model.Message{SenderID: 9999, ReceiverID: u.ID, Content: "你好"}).Error)
	// 所属用户已不存在的相册图片
	require.NoError(t, db.Create(&model.UserImage{UserID: 8888, FilePath: "img/a.jpg"}).Error)
	// 所属消息已不存在的附件
	require.NoError(t, db.Create(&model.MessageAttachment{MessageID: 7777, FilePath: "att/b.pdf"}).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeOrphanedDependent)
	require.Len(t, found, 3)
	// 附件的父表不是 user，归属用户ID为0
	var attachmentIssues int
	for _, issue := range found {
		if issue.UserID == 0 {
			attachmentIssues++
		}
	}
	assert.Equal(t, 1, attachmentIssues)
}

func TestScanAuxiliaryOrphansAreLowSeverity(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "aux@example.com")
	require.NoError(t, db.Create(&model.ActivityLog{UserID: 9999, Action: "login"}).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	found := issuesOfType(report, TypeOrphanedDependent)
	require.Len(t, found, 1)
	assert.Equal(t, SeverityLow, found[0].Severity)
}

func TestScanCrossEntityConsistency(t *testing.T) {
	db := newTestDB(t)
	u1 := createUser(t, db, "attrs@example.com")
	require.NoError(t, db.Create(&model.UserAttributes{UserID: u1.ID, AboutMe: "自我介绍"}).Error)

	u2 := createUser(t, db, "bounds@example.com")
	require.NoError(t, db.Create(&model.UserPreferences{UserID: u2.ID, AgeMin: 40, AgeMax: 25}).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	missing := issuesOfType(report, TypeAttributesWithoutPreferences)
	require.Len(t, missing, 1)
	assert.Equal(t, u1.ID, missing[0].UserID)

	bounds := issuesOfType(report, TypeInvalidAgeRange)
	require.Len(t, bounds, 1)
	assert.Equal(t, u2.ID, bounds[0].UserID)
	assert.Equal(t, SeverityMedium, bounds[0].Severity)
}

func TestScanExcludesTombstonedUsers(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "ghost@example.com")
	require.NoError(t, db.Model(u).Update("gender", "invalid").Error)
	require.NoError(t, db.Create(&model.DeletedUser{
		DeletedUserID: u.ID,
		RealName:      u.RealName,
		Email:         u.Email,
		Initiator:     model.InitiatorAdmin,
	}).Error)

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	assert.Empty(t, issuesOfType(report, TypeInvalidGender))
}

func TestScanMaxIssuesPerCheck(t *testing.T) {
	db := newTestDB(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		u := createUser(t, db, email)
		require.NoError(t, db.Model(u).Update("gender", "unknown").Error)
	}

	scanner := NewScanner(db, DetectCapabilities(db))
	scanner.MaxIssuesPerCheck = 2
	report := scanner.Scan()

	assert.Len(t, issuesOfType(report, TypeInvalidGender), 2)
}

func TestScanSummary(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "same@example.com")
	createUser(t, db, "same@example.com")

	report := NewScanner(db, DetectCapabilities(db)).Scan()

	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.BySeverity[SeverityHigh])
	assert.Equal(t, 2, report.Summary.ByType[TypeDuplicateEmail])
	assert.Equal(t, 2, report.Summary.AffectedUsers)
}

func TestYearsBetween(t *testing.T) {
	base := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 25, yearsBetween(base, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, yearsBetween(base, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, yearsBetween(base, time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)))
}
