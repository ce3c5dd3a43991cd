package handler

import (
	"errors"
	"strconv"

	"match-system/internal/model"
	"match-system/internal/repository"
	"match-system/internal/service"
	"match-system/pkg/jwt"
	"match-system/pkg/redis"
	"match-system/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminUserHandler 管理后台用户操作处理器
type AdminUserHandler struct {
	userService      *service.UserService
	deletionService  *service.DeletionService
	blacklistService *service.BlacklistService
}

// NewAdminUserHandler 创建AdminUserHandler实例
func NewAdminUserHandler(userService *service.UserService, deletionService *service.DeletionService, blacklistService *service.BlacklistService) *AdminUserHandler {
	return &AdminUserHandler{
		userService:      userService,
		deletionService:  deletionService,
		blacklistService: blacklistService,
	}
}

// ListUsers 分页获取用户列表
func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	q := &repository.UserListQuery{
		Sort: repository.SortField(c.DefaultQuery("sort", "id")),
		Dir:  repository.SortDir(c.DefaultQuery("dir", "asc")),
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		q.PageSize = pageSize
	}
	if banned := c.Query("banned"); banned != "" {
		v := banned == "true" || banned == "1"
		q.Banned = &v
	}
	q.Gender = c.Query("gender")
	q.Email = c.Query("email")

	users, total, err := h.userService.List(q)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	infos := make([]*response.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, response.FilterUserInfo(user))
	}

	response.SuccessWithMessage(c, "获取用户列表成功", &response.UserListResponse{
		Users:    infos,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}

// GetUser 获取单个用户详情，优先读取Redis资料缓存
func (h *AdminUserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if cached, err := redis.GetCachedUserProfile(userID); err == nil && cached != nil {
		response.Success(c, cached)
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.InternalError(c, "查询用户失败")
		return
	}

	// 回填缓存（尽力而为）
	_ = redis.CacheUserProfile(&redis.CachedProfile{
		UserID:   user.ID,
		Email:    user.Email,
		RealName: user.RealName,
		Gender:   user.Gender,
		Banned:   user.Banned,
	})

	response.Success(c, response.FilterUserInfo(user))
}

// BanUser 更新用户封禁状态
func (h *AdminUserHandler) BanUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	type req struct {
		Banned *bool `json:"banned" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.SetBanned(userID, *r.Banned); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.InternalError(c, "更新封禁状态失败")
		return
	}

	// 封禁状态变更后使资料缓存失效（尽力而为）
	_ = redis.InvalidateUserProfile(userID)

	response.SuccessWithMessage(c, "封禁状态已更新", gin.H{
		"user_id": userID,
		"banned":  *r.Banned,
	})
}

// DeleteUser 删除用户（墓碑 + 级联清除 + 文件清理）
// 对已不存在用户的删除请求按成功空操作处理
func (h *AdminUserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	result, err := h.deletionService.DeleteUser(userID, model.InitiatorAdmin)
	if err != nil {
		response.ErrorWithDetails(c, 500, "删除用户失败", err)
		return
	}

	response.SuccessWithMessage(c, "用户已删除", &response.DeleteUserResponse{
		Success:           result.Success,
		ReceiversNotified: result.ReceiversNotified,
	})
}

// BlacklistUser 将用户加入黑名单
func (h *AdminUserHandler) BlacklistUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	type req struct {
		Reason string `json:"reason" binding:"required"`
		Notes  string `json:"notes"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// 操作管理员ID来自认证中间件
	adminID, err := strconv.ParseUint(jwt.GetUserID(c), 10, 32)
	if err != nil {
		response.Unauthorized(c, "管理员身份无效")
		return
	}

	_, err = h.blacklistService.Blacklist(&service.BlacklistRequest{
		UserID:    userID,
		AdminID:   uint(adminID),
		Reason:    r.Reason,
		Notes:     r.Notes,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyBlacklisted):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.SuccessWithMessage(c, "已加入黑名单", &response.BlacklistResponse{
		Success: true,
		Message: "用户已加入黑名单",
	})
}

// parseUserID 从路径参数解析用户ID
func parseUserID(c *gin.Context) (uint, bool) {
	userIDStr := c.Param("user_id")
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil || userID == 0 {
		response.BadRequest(c, "invalid user_id")
		return 0, false
	}
	return uint(userID), true
}
