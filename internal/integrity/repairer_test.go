package integrity

import (
	"testing"

	"match-system/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairLocationMismatch(t *testing.T) {
	db := newTestDB(t)
	c1 := &model.Country{Name: "中国"}
	c2 := &model.Country{Name: "美国"}
	require.NoError(t, db.Create(c1).Error)
	require.NoError(t, db.Create(c2).Error)
	s := &model.State{CountryID: c2.ID, Name: "加州"}
	require.NoError(t, db.Create(s).Error)

	u := createUser(t, db, "fix@example.com")
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{
		"country_id": c1.ID,
		"state_id":   s.ID,
	}).Error)

	report, err := NewRepairer(db, DetectCapabilities(db)).Repair()
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.StatesCleared)
	assert.Equal(t, int64(0), report.CitiesCleared)

	// state_id 被置空，country_id 保留
	var fixed model.User
	require.NoError(t, db.First(&fixed, u.ID).Error)
	assert.Nil(t, fixed.StateID)
	require.NotNil(t, fixed.CountryID)
	assert.Equal(t, c1.ID, *fixed.CountryID)

	assert.Empty(t, issuesOfType(report.Residual, TypeInvalidLocationReference))
}

func TestRepairCityMismatch(t *testing.T) {
	db := newTestDB(t)
	c := &model.Country{Name: "中国"}
	require.NoError(t, db.Create(c).Error)
	s1 := &model.State{CountryID: c.ID, Name: "广东省"}
	s2 := &model.State{CountryID: c.ID, Name: "浙江省"}
	require.NoError(t, db.Create(s1).Error)
	require.NoError(t, db.Create(s2).Error)
	city := &model.City{StateID: s2.ID, Name: "杭州"}
	require.NoError(t, db.Create(city).Error)

	u := createUser(t, db, "cityfix@example.com")
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{
		"country_id": c.ID,
		"state_id":   s1.ID,
		"city_id":    city.ID,
	}).Error)

	report, err := NewRepairer(db, DetectCapabilities(db)).Repair()
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.CitiesCleared)

	var fixed model.User
	require.NoError(t, db.First(&fixed, u.ID).Error)
	assert.Nil(t, fixed.CityID)
	assert.NotNil(t, fixed.StateID)
}

func TestRepairTransposedAgeBounds(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "bounds@example.com")
	require.NoError(t, db.Create(&model.UserPreferences{UserID: u.ID, AgeMin: 40, AgeMax: 25}).Error)

	report, err := NewRepairer(db, DetectCapabilities(db)).Repair()
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.BoundsSwapped)

	var prefs model.UserPreferences
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&prefs).Error)
	assert.Equal(t, 25, prefs.AgeMin)
	assert.Equal(t, 40, prefs.AgeMax)

	assert.Empty(t, issuesOfType(report.Residual, TypeInvalidAgeRange))
}

func TestRepairCreatesMissingPreferences(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "noprefs@example.com")
	require.NoError(t, db.Create(&model.UserAttributes{UserID: u.ID, AboutMe: "你好"}).Error)

	report, err := NewRepairer(db, DetectCapabilities(db)).Repair()
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.PreferencesCreated)

	var prefs model.UserPreferences
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&prefs).Error)
	assert.Equal(t, defaultAgeMin, prefs.AgeMin)
	assert.Equal(t, defaultAgeMax, prefs.AgeMax)
	assert.Equal(t, defaultGender, prefs.PreferredGender)

	assert.Empty(t, issuesOfType(report.Residual, TypeAttributesWithoutPreferences))
}

// 修复是幂等的：紧接着的第二次运行各计数均为0
func TestRepairIdempotent(t *testing.T) {
	db := newTestDB(t)
	c1 := &model.Country{Name: "中国"}
	c2 := &model.Country{Name: "美国"}
	require.NoError(t, db.Create(c1).Error)
	require.NoError(t, db.Create(c2).Error)
	s := &model.State{CountryID: c2.ID, Name: "加州"}
	require.NoError(t, db.Create(s).Error)

	u := createUser(t, db, "twice@example.com")
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{
		"country_id": c1.ID,
		"state_id":   s.ID,
	}).Error)
	require.NoError(t, db.Create(&model.UserPreferences{UserID: u.ID, AgeMin: 50, AgeMax: 20}).Error)
	require.NoError(t, db.Create(&model.UserAttributes{UserID: u.ID}).Error)

	caps := DetectCapabilities(db)
	first, err := NewRepairer(db, caps).Repair()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.StatesCleared)
	assert.Equal(t, int64(1), first.BoundsSwapped)

	second, err := NewRepairer(db, caps).Repair()
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.StatesCleared)
	assert.Equal(t, int64(0), second.CitiesCleared)
	assert.Equal(t, int64(0), second.BoundsSwapped)
	assert.Equal(t, int64(0), second.PreferencesCreated)
}

// 悬空外键不在修复范围内，修复后仍出现在残余报告中
func TestRepairLeavesOrphanedRefsAlone(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "dangling@example.com")
	require.NoError(t, db.Model(u).Update("country_id", uint(9999)).Error)

	report, err := NewRepairer(db, DetectCapabilities(db)).Repair()
	require.NoError(t, err)

	assert.Equal(t, int64(0), report.StatesCleared)
	assert.Len(t, issuesOfType(report.Residual, TypeOrphanedCountryReference), 1)
}
