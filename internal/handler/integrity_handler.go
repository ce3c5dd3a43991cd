package handler

import (
	"match-system/internal/service"
	"match-system/pkg/response"

	"github.com/gin-gonic/gin"
)

// IntegrityHandler 数据完整性管理接口处理器
type IntegrityHandler struct {
	integrityService *service.IntegrityService
}

// NewIntegrityHandler 创建IntegrityHandler实例
func NewIntegrityHandler(integrityService *service.IntegrityService) *IntegrityHandler {
	return &IntegrityHandler{integrityService: integrityService}
}

// Scan 只读扫描，不修改任何数据
func (h *IntegrityHandler) Scan(c *gin.Context) {
	report := h.integrityService.Scan()
	response.SuccessWithMessage(c, "扫描完成", gin.H{
		"summary":  report.Summary,
		"issues":   report.Issues,
		"is_clean": report.IsClean(),
	})
}

// Repair 执行自动修复并返回残余问题报告
func (h *IntegrityHandler) Repair(c *gin.Context) {
	fixReport, err := h.integrityService.Repair()
	if err != nil {
		response.ErrorWithDetails(c, 500, "修复失败", err)
		return
	}
	response.SuccessWithMessage(c, "修复完成", fixReport)
}
