package service

import (
	"match-system/internal/integrity"

	"gorm.io/gorm"
)

// IntegrityService 完整性扫描与修复服务
// 对管理接口暴露扫描器与修复器的能力
type IntegrityService struct {
	db   *gorm.DB
	caps *integrity.Capabilities

	maxIssuesPerCheck int
}

// NewIntegrityService 创建IntegrityService实例
func NewIntegrityService(db *gorm.DB, caps *integrity.Capabilities, maxIssuesPerCheck int) *IntegrityService {
	return &IntegrityService{
		db:                db,
		caps:              caps,
		maxIssuesPerCheck: maxIssuesPerCheck,
	}
}

// Scan 执行只读完整性扫描
func (s *IntegrityService) Scan() *integrity.Report {
	scanner := integrity.NewScanner(s.db, s.caps)
	scanner.MaxIssuesPerCheck = s.maxIssuesPerCheck
	return scanner.Scan()
}

// Repair 应用固定修复集并返回残余报告
func (s *IntegrityService) Repair() (*integrity.FixReport, error) {
	repairer := integrity.NewRepairer(s.db, s.caps)
	return repairer.Repair()
}
