package integrity

import (
	"match-system/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DependentTable 描述一张从属表
// Columns 为指向父表主键的列；Parent 为父表名（绝大多数为 user）
// Auxiliary 为辅助表，孤儿行严重程度降为 low

type DependentTable struct {
	Name      string
	Columns   []string
	Parent    string
	Auxiliary bool
}

// DependentTables 用户数据图中全部从属表的登记表
// 扫描器的孤儿检查与删除编排器的级联清除均以此为准
var DependentTables = []DependentTable{
	{Name: "message", Columns: []string{"sender_id", "receiver_id"}, Parent: "user"},
	{Name: "message_attachment", Columns: []string{"message_id"}, Parent: "message"},
	{Name: "user_image", Columns: []string{"user_id"}, Parent: "user"},
	{Name: "user_like", Columns: []string{"user_id", "liked_user_id"}, Parent: "user"},
	{Name: "user_favorite", Columns: []string{"user_id", "favorite_user_id"}, Parent: "user"},
	{Name: "user_block", Columns: []string{"user_id", "blocked_user_id"}, Parent: "user"},
	{Name: "user_report", Columns: []string{"user_id", "reported_user_id"}, Parent: "user"},
	{Name: "user_session", Columns: []string{"user_id"}, Parent: "user"},
	{Name: "user_match", Columns: []string{"user_id", "matched_user_id"}, Parent: "user"},
	{Name: "user_preferences", Columns: []string{"user_id"}, Parent: "user"},
	{Name: "user_attributes", Columns: []string{"user_id"}, Parent: "user"},
	{Name: "activity_log", Columns: []string{"user_id"}, Parent: "user", Auxiliary: true},
	{Name: "compatibility_score", Columns: []string{"user_id", "other_user_id"}, Parent: "user", Auxiliary: true},
	{Name: "conversation_removal", Columns: []string{"user_id", "other_user_id"}, Parent: "user", Auxiliary: true},
	{Name: "name_change", Columns: []string{"user_id"}, Parent: "user", Auxiliary: true},
	{Name: "notification_setting", Columns: []string{"user_id"}, Parent: "user", Auxiliary: true},
	{Name: "privacy_setting", Columns: []string{"user_id"}, Parent: "user", Auxiliary: true},
	{Name: "blacklist_entry", Columns: []string{"user_id"}, Parent: "user", Auxiliary: true},
}

// Capabilities 表能力描述符
// 启动时探测一次各表是否存在，之后所有检查与级联清除只查询该描述符，
// 不在运行期反复试探表是否存在

type Capabilities struct {
	tables map[string]bool
}

// DetectCapabilities 探测当前部署中各表的存在情况
func DetectCapabilities(db *gorm.DB) *Capabilities {
	caps := &Capabilities{tables: make(map[string]bool)}

	// 固定表集合：父表、生命周期表与全部从属表
	names := []string{"user", "country", "state", "city", "deleted_user", "deleted_user_receiver"}
	for _, dep := range DependentTables {
		names = append(names, dep.Name)
	}

	migrator := db.Migrator()
	for _, name := range names {
		exists := migrator.HasTable(name)
		caps.tables[name] = exists
		if !exists {
			logger.Info("部署缺少数据表，相关检查与清除将跳过", zap.String("table", name))
		}
	}

	return caps
}

// Has 表是否存在于当前部署
func (c *Capabilities) Has(table string) bool {
	return c.tables[table]
}
