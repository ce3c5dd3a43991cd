package integrity

import (
	"fmt"

	"match-system/internal/model"
	"match-system/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 新建偏好记录时的默认值
const (
	defaultAgeMin       = 18
	defaultAgeMax       = 65
	defaultGender       = "any"
	defaultSearchRadius = 0
)

// FixReport 修复结果
// 各计数为本次实际修改的行数；修复是幂等的，紧接着的第二次运行各计数均为0
type FixReport struct {
	StatesCleared      int64   `json:"states_cleared"`      // 置空的 state_id 数
	CitiesCleared      int64   `json:"cities_cleared"`      // 置空的 city_id 数
	BoundsSwapped      int64   `json:"bounds_swapped"`      // 交换的年龄区间数
	PreferencesCreated int64   `json:"preferences_created"` // 补建的偏好记录数
	Residual           *Report `json:"residual"`            // 修复后重新扫描的残余报告
}

// Repairer 数据完整性修复器
// 只应用固定的一小组确定性修复，全部幂等且保守：
// 不删除用户、不伪造身份数据
// 重复邮箱、非法性别、非法年龄、缺失邮箱/姓名等问题不自动修复，留给人工判断

type Repairer struct {
	db   *gorm.DB
	caps *Capabilities
}

// NewRepairer 创建修复器
func NewRepairer(db *gorm.DB, caps *Capabilities) *Repairer {
	return &Repairer{db: db, caps: caps}
}

// Repair 应用全部修复，随后重新扫描并返回残余报告
func (r *Repairer) Repair() (*FixReport, error) {
	report := &FixReport{}

	// 1. 位置层级不一致：置空更具体的一级（父级优先于子级）
	// 先处理 state 与 country 的冲突，再处理 city 与 state 的冲突
	if err := r.fixLocationMismatches(report); err != nil {
		return nil, fmt.Errorf("修复位置层级失败: %w", err)
	}

	// 2. 年龄区间颠倒：按(最小值,最大值)交换回来（视为录入时写反）
	if err := r.fixTransposedAgeBounds(report); err != nil {
		return nil, fmt.Errorf("修复年龄区间失败: %w", err)
	}

	// 3. 有扩展资料但无偏好：补建默认偏好
	if err := r.createMissingPreferences(report); err != nil {
		return nil, fmt.Errorf("补建偏好记录失败: %w", err)
	}

	logger.Info("完整性修复完成",
		zap.Int64("states_cleared", report.StatesCleared),
		zap.Int64("cities_cleared", report.CitiesCleared),
		zap.Int64("bounds_swapped", report.BoundsSwapped),
		zap.Int64("preferences_created", report.PreferencesCreated),
	)

	// 重新扫描确认修复效果
	scanner := NewScanner(r.db, r.caps)
	report.Residual = scanner.Scan()

	return report, nil
}

// fixLocationMismatches 置空与父级不一致的位置外键
// state 与用户 country 冲突时置空 state_id；city 与用户 state 冲突时置空 city_id
// 注意：悬空外键（指向不存在的行）不在修复范围内，留给人工处理
func (r *Repairer) fixLocationMismatches(report *FixReport) error {
	res := r.db.Exec(`UPDATE user SET state_id = NULL
		WHERE country_id IS NOT NULL AND state_id IS NOT NULL
		AND EXISTS (SELECT 1 FROM state WHERE state.id = user.state_id AND state.country_id <> user.country_id)`)
	if res.Error != nil {
		return res.Error
	}
	report.StatesCleared = res.RowsAffected

	res = r.db.Exec(`UPDATE user SET city_id = NULL
		WHERE state_id IS NOT NULL AND city_id IS NOT NULL
		AND EXISTS (SELECT 1 FROM city WHERE city.id = user.city_id AND city.state_id <> user.state_id)`)
	if res.Error != nil {
		return res.Error
	}
	report.CitiesCleared = res.RowsAffected

	return nil
}

// fixTransposedAgeBounds 交换颠倒的年龄区间
func (r *Repairer) fixTransposedAgeBounds(report *FixReport) error {
	if !r.caps.Has("user_preferences") {
		return nil
	}

	var rows []model.UserPreferences
	if err := r.db.Where("age_min > age_max").Order("id").Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		res := r.db.Model(&model.UserPreferences{}).
			Where("id = ? AND age_min > age_max", row.ID).
			Updates(map[string]interface{}{
				"age_min": row.AgeMax,
				"age_max": row.AgeMin,
			})
		if res.Error != nil {
			return res.Error
		}
		report.BoundsSwapped += res.RowsAffected
	}

	return nil
}

// createMissingPreferences 为有扩展资料但无偏好记录的用户补建默认偏好
func (r *Repairer) createMissingPreferences(report *FixReport) error {
	if !r.caps.Has("user_attributes") || !r.caps.Has("user_preferences") {
		return nil
	}

	var userIDs []uint
	err := r.db.Table("user_attributes").
		Where("user_id IN (SELECT id FROM user)").
		Where("user_id NOT IN (SELECT user_id FROM user_preferences)").
		Order("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		prefs := &model.UserPreferences{
			UserID:          userID,
			AgeMin:          defaultAgeMin,
			AgeMax:          defaultAgeMax,
			PreferredGender: defaultGender,
			SearchRadius:    defaultSearchRadius,
		}
		if err := r.db.Create(prefs).Error; err != nil {
			return err
		}
		report.PreferencesCreated++
	}

	return nil
}
