package integrity

import (
	"fmt"
	"strings"
	"time"

	"match-system/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 性别允许值（大小写不敏感）
var allowedGenders = []string{"male", "female", "other"}

// 年龄合理区间
const (
	minValidAge = 0
	maxValidAge = 120
)

// Scanner 数据完整性扫描器
// 只读：按固定顺序执行一组相互独立的检查，返回问题报告
// 单项检查失败（例如当前部署缺表）只记录日志并跳过，其余检查继续执行

type Scanner struct {
	db   *gorm.DB
	caps *Capabilities

	// MaxIssuesPerCheck 单项检查最多报告的问题数，0为不限制
	MaxIssuesPerCheck int
}

// NewScanner 创建扫描器
func NewScanner(db *gorm.DB, caps *Capabilities) *Scanner {
	return &Scanner{db: db, caps: caps}
}

// namedCheck 一项检查：名称 + 执行函数
type namedCheck struct {
	name string
	fn   func() ([]Issue, error)
}

// Scan 执行全部检查并返回报告
// 报告是数据库状态的纯函数，多次并发调用互不影响
func (s *Scanner) Scan() *Report {
	checks := []namedCheck{
		{"orphaned_location_refs", s.checkOrphanedLocationRefs},
		{"invalid_dates", s.checkInvalidDates},
		{"invalid_age", s.checkInvalidAge},
		{"missing_required_fields", s.checkMissingRequiredFields},
		{"duplicate_emails", s.checkDuplicateEmails},
		{"invalid_gender", s.checkInvalidGender},
		{"orphaned_dependents", s.checkOrphanedDependents},
		{"invalid_location_hierarchy", s.checkLocationHierarchy},
		{"cross_entity_consistency", s.checkCrossEntityConsistency},
	}

	var issues []Issue
	var skipped []string

	for _, check := range checks {
		found, err := check.fn()
		if err != nil {
			// 尽力而为：单项失败不中断整体扫描
			logger.Warn("完整性检查执行失败，已跳过",
				zap.String("check", check.name),
				zap.Error(err),
			)
			skipped = append(skipped, check.name)
			continue
		}
		if s.MaxIssuesPerCheck > 0 && len(found) > s.MaxIssuesPerCheck {
			found = found[:s.MaxIssuesPerCheck]
		}
		issues = append(issues, found...)
	}

	return &Report{
		Issues:  issues,
		Summary: buildSummary(issues, skipped),
	}
}

// userRow 检查结果行（id + email）
type userRow struct {
	ID    uint
	Email string
}

// excludeTombstoned 排除已有墓碑记录的用户
// col 为用户ID列（联表查询时需带表前缀）
func (s *Scanner) excludeTombstoned(q *gorm.DB, col string) *gorm.DB {
	if s.caps.Has("deleted_user") {
		return q.Where(fmt.Sprintf("%s NOT IN (SELECT deleted_user_id FROM deleted_user)", col))
	}
	return q
}

// users 构建基础的用户表查询（排除墓碑用户）
func (s *Scanner) users() *gorm.DB {
	return s.excludeTombstoned(s.db.Table("user"), "user.id")
}

// checkOrphanedLocationRefs 悬空位置外键：country_id/state_id/city_id 指向不存在的行
func (s *Scanner) checkOrphanedLocationRefs() ([]Issue, error) {
	refs := []struct {
		column    string
		refTable  string
		issueType string
	}{
		{"country_id", "country", TypeOrphanedCountryReference},
		{"state_id", "state", TypeOrphanedStateReference},
		{"city_id", "city", TypeOrphanedCityReference},
	}

	var issues []Issue
	for _, ref := range refs {
		var rows []userRow
		err := s.users().
			Select("user.id, user.email").
			Where(fmt.Sprintf("user.%s IS NOT NULL AND user.%s NOT IN (SELECT id FROM %s)", ref.column, ref.column, ref.refTable)).
			Order("user.id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			issues = append(issues, Issue{
				Type:     ref.issueType,
				Severity: SeverityHigh,
				UserID:   row.ID,
				Email:    row.Email,
				Message:  fmt.Sprintf("%s 指向不存在的 %s 记录", ref.column, ref.refTable),
			})
		}
	}
	return issues, nil
}

// checkInvalidDates 非法日期：出生日期在未来(high)或早于1900年(medium)
func (s *Scanner) checkInvalidDates() ([]Issue, error) {
	now := time.Now()
	cutoff := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

	var issues []Issue

	var future []userRow
	err := s.users().
		Select("user.id, user.email").
		Where("user.birthdate IS NOT NULL AND user.birthdate > ?", now).
		Order("user.id").
		Scan(&future).Error
	if err != nil {
		return nil, err
	}
	for _, row := range future {
		issues = append(issues, Issue{
			Type:     TypeBirthdateInFuture,
			Severity: SeverityHigh,
			UserID:   row.ID,
			Email:    row.Email,
			Message:  "出生日期在未来",
		})
	}

	var tooOld []userRow
	err = s.users().
		Select("user.id, user.email").
		Where("user.birthdate IS NOT NULL AND user.birthdate < ?", cutoff).
		Order("user.id").
		Scan(&tooOld).Error
	if err != nil {
		return nil, err
	}
	for _, row := range tooOld {
		issues = append(issues, Issue{
			Type:     TypeBirthdateBefore1900,
			Severity: SeverityMedium,
			UserID:   row.ID,
			Email:    row.Email,
			Message:  "出生日期早于1900年",
		})
	}

	return issues, nil
}

// checkInvalidAge 计算年龄超出[0,120]区间
func (s *Scanner) checkInvalidAge() ([]Issue, error) {
	type birthRow struct {
		ID        uint
		Email     string
		Birthdate *time.Time
	}

	var rows []birthRow
	err := s.users().
		Select("user.id, user.email, user.birthdate").
		Where("user.birthdate IS NOT NULL").
		Order("user.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var issues []Issue
	for _, row := range rows {
		if row.Birthdate == nil {
			continue
		}
		age := yearsBetween(*row.Birthdate, now)
		if age < minValidAge || age > maxValidAge {
			issues = append(issues, Issue{
				Type:     TypeInvalidAge,
				Severity: SeverityHigh,
				UserID:   row.ID,
				Email:    row.Email,
				Message:  fmt.Sprintf("计算年龄为 %d，超出[%d,%d]区间", age, minValidAge, maxValidAge),
			})
		}
	}
	return issues, nil
}

// checkMissingRequiredFields 必填字段缺失：邮箱(high)、真实姓名(medium)
func (s *Scanner) checkMissingRequiredFields() ([]Issue, error) {
	var issues []Issue

	var noEmail []userRow
	err := s.users().
		Select("user.id, user.email").
		Where("user.email IS NULL OR user.email = ''").
		Order("user.id").
		Scan(&noEmail).Error
	if err != nil {
		return nil, err
	}
	for _, row := range noEmail {
		issues = append(issues, Issue{
			Type:     TypeMissingEmail,
			Severity: SeverityHigh,
			UserID:   row.ID,
			Message:  "邮箱为空",
		})
	}

	var noName []userRow
	err = s.users().
		Select("user.id, user.email").
		Where("user.real_name IS NULL OR user.real_name = ''").
		Order("user.id").
		Scan(&noName).Error
	if err != nil {
		return nil, err
	}
	for _, row := range noName {
		issues = append(issues, Issue{
			Type:     TypeMissingRealName,
			Severity: SeverityMedium,
			UserID:   row.ID,
			Email:    row.Email,
			Message:  "真实姓名为空",
		})
	}

	return issues, nil
}

// checkDuplicateEmails 重复邮箱：同一邮箱出现多次时，每个成员都被标记
func (s *Scanner) checkDuplicateEmails() ([]Issue, error) {
	var dupEmails []string
	err := s.users().
		Where("user.email IS NOT NULL AND user.email <> ''").
		Group("user.email").
		Having("COUNT(*) > 1").
		Pluck("user.email", &dupEmails).Error
	if err != nil {
		return nil, err
	}
	if len(dupEmails) == 0 {
		return nil, nil
	}

	var rows []userRow
	err = s.users().
		Select("user.id, user.email").
		Where("user.email IN ?", dupEmails).
		Order("user.email, user.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, row := range rows {
		issues = append(issues, Issue{
			Type:     TypeDuplicateEmail,
			Severity: SeverityHigh,
			UserID:   row.ID,
			Email:    row.Email,
			Message:  fmt.Sprintf("邮箱 %s 被多个用户使用", row.Email),
		})
	}
	return issues, nil
}

// checkInvalidGender 性别不在允许值内（大小写不敏感）
func (s *Scanner) checkInvalidGender() ([]Issue, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(allowedGenders)), ",")
	args := make([]interface{}, 0, len(allowedGenders))
	for _, g := range allowedGenders {
		args = append(args, g)
	}

	var rows []struct {
		ID     uint
		Email  string
		Gender string
	}
	err := s.users().
		Select("user.id, user.email, user.gender").
		Where(fmt.Sprintf("user.gender <> '' AND LOWER(user.gender) NOT IN (%s)", placeholders), args...).
		Order("user.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, row := range rows {
		issues = append(issues, Issue{
			Type:     TypeInvalidGender,
			Severity: SeverityLow,
			UserID:   row.ID,
			Email:    row.Email,
			Message:  fmt.Sprintf("性别值 %q 不在允许范围内", row.Gender),
		})
	}
	return issues, nil
}

// checkOrphanedDependents 孤儿从属行：所属用户（或所属消息）已不存在
// 核心表严重程度为 medium，辅助表为 low
func (s *Scanner) checkOrphanedDependents() ([]Issue, error) {
	var issues []Issue

	for _, dep := range DependentTables {
		if !s.caps.Has(dep.Name) || !s.caps.Has(dep.Parent) {
			continue
		}

		severity := SeverityMedium
		if dep.Auxiliary {
			severity = SeverityLow
		}

		for _, col := range dep.Columns {
			type orphanRow struct {
				Owner uint
				Cnt   int64
			}
			var rows []orphanRow
			err := s.db.Table(dep.Name).
				Select(fmt.Sprintf("%s AS owner, COUNT(*) AS cnt", col)).
				Where(fmt.Sprintf("%s NOT IN (SELECT id FROM %s)", col, dep.Parent)).
				Group(col).
				Order(col).
				Scan(&rows).Error
			if err != nil {
				return nil, err
			}
			for _, row := range rows {
				userID := row.Owner
				if dep.Parent != "user" {
					// 父表不是 user（如附件的父表是 message），无法直接归属到用户
					userID = 0
				}
				issues = append(issues, Issue{
					Type:     TypeOrphanedDependent,
					Severity: severity,
					UserID:   userID,
					Message:  fmt.Sprintf("表 %s 存在 %d 行孤儿记录（%s=%d 已不存在于 %s）", dep.Name, row.Cnt, col, row.Owner, dep.Parent),
				})
			}
		}
	}

	return issues, nil
}

// checkLocationHierarchy 位置层级不一致：state所属国家≠用户国家，或city所属州≠用户州
func (s *Scanner) checkLocationHierarchy() ([]Issue, error) {
	var issues []Issue

	var stateMismatch []userRow
	err := s.users().
		Select("user.id, user.email").
		Joins("JOIN state ON state.id = user.state_id").
		Where("user.country_id IS NOT NULL AND state.country_id <> user.country_id").
		Order("user.id").
		Scan(&stateMismatch).Error
	if err != nil {
		return nil, err
	}
	for _, row := range stateMismatch {
		issues = append(issues, Issue{
			Type:     TypeInvalidLocationReference,
			Severity: SeverityHigh,
			UserID:   row.ID,
			Email:    row.Email,
			Message:  "state_id 所属国家与用户 country_id 不一致",
		})
	}

	var cityMismatch []userRow
	err = s.users().
		Select("user.id, user.email").
		Joins("JOIN city ON city.id = user.city_id").
		Where("user.state_id IS NOT NULL AND city.state_id <> user.state_id").
		Order("user.id").
		Scan(&cityMismatch).Error
	if err != nil {
		return nil, err
	}
	for _, row := range cityMismatch {
		issues = append(issues, Issue{
			Type:     TypeInvalidLocationReference,
			Severity: SeverityHigh,
			UserID:   row.ID,
			Email:    row.Email,
			Message:  "city_id 所属州/省与用户 state_id 不一致",
		})
	}

	return issues, nil
}

// checkCrossEntityConsistency 跨实体一致性：
// 有扩展资料但无偏好记录(low)；偏好 age_min > age_max(medium)
func (s *Scanner) checkCrossEntityConsistency() ([]Issue, error) {
	var issues []Issue

	if s.caps.Has("user_attributes") && s.caps.Has("user_preferences") {
		var rows []userRow
		err := s.excludeTombstoned(
			s.db.Table("user_attributes").
				Select("user_attributes.user_id AS id, user.email").
				Joins("JOIN user ON user.id = user_attributes.user_id").
				Where("user_attributes.user_id NOT IN (SELECT user_id FROM user_preferences)"),
			"user.id",
		).Order("user_attributes.user_id").Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			issues = append(issues, Issue{
				Type:     TypeAttributesWithoutPreferences,
				Severity: SeverityLow,
				UserID:   row.ID,
				Email:    row.Email,
				Message:  "用户有扩展资料但缺少偏好记录",
			})
		}
	}

	if s.caps.Has("user_preferences") {
		var rows []struct {
			UserID uint
			AgeMin int
			AgeMax int
		}
		err := s.db.Table("user_preferences").
			Select("user_id, age_min, age_max").
			Where("age_min > age_max").
			Order("user_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			issues = append(issues, Issue{
				Type:     TypeInvalidAgeRange,
				Severity: SeverityMedium,
				UserID:   row.UserID,
				Message:  fmt.Sprintf("偏好年龄区间无效：age_min=%d > age_max=%d", row.AgeMin, row.AgeMax),
			})
		}
	}

	return issues, nil
}

// yearsBetween 计算两个日期之间的整年数
func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	// 未到周年日则减一
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	return years
}
