package integrity

// Severity 问题严重程度
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// 问题类型常量
const (
	TypeOrphanedCountryReference     = "orphaned_country_reference"
	TypeOrphanedStateReference       = "orphaned_state_reference"
	TypeOrphanedCityReference        = "orphaned_city_reference"
	TypeBirthdateInFuture            = "birthdate_in_future"
	TypeBirthdateBefore1900          = "birthdate_before_1900"
	TypeInvalidAge                   = "invalid_age"
	TypeMissingEmail                 = "missing_email"
	TypeMissingRealName              = "missing_real_name"
	TypeDuplicateEmail               = "duplicate_email"
	TypeInvalidGender                = "invalid_gender"
	TypeOrphanedDependent            = "orphaned_dependent"
	TypeInvalidLocationReference     = "invalid_location_reference"
	TypeAttributesWithoutPreferences = "attributes_without_preferences"
	TypeInvalidAgeRange              = "invalid_age_range"
)

// Issue 单个完整性问题（临时对象，不落库）
type Issue struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	UserID   uint     `json:"user_id"`
	Email    string   `json:"email,omitempty"`
	Message  string   `json:"message"`
}

// Summary 检查结果汇总
type Summary struct {
	Total         int              `json:"total"`
	BySeverity    map[Severity]int `json:"by_severity"`
	ByType        map[string]int   `json:"by_type"`
	AffectedUsers int              `json:"affected_users"`
	SkippedChecks []string         `json:"skipped_checks,omitempty"`
}

// Report 一次完整扫描的结果
// 扫描是数据库状态的纯函数：每次调用构建新的Report，不共享累积状态
type Report struct {
	Issues  []Issue `json:"issues"`
	Summary Summary `json:"summary"`
}

// IsClean 是否未发现任何问题
func (r *Report) IsClean() bool {
	return len(r.Issues) == 0
}

// buildSummary 根据问题列表构建汇总
func buildSummary(issues []Issue, skipped []string) Summary {
	summary := Summary{
		Total:         len(issues),
		BySeverity:    make(map[Severity]int),
		ByType:        make(map[string]int),
		SkippedChecks: skipped,
	}

	affected := make(map[uint]struct{})
	for _, issue := range issues {
		summary.BySeverity[issue.Severity]++
		summary.ByType[issue.Type]++
		if issue.UserID != 0 {
			affected[issue.UserID] = struct{}{}
		}
	}
	summary.AffectedUsers = len(affected)

	return summary
}
