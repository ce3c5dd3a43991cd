package handler

import (
	"match-system/internal/service"
	"match-system/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler 登录认证处理器
type AuthHandler struct {
	service *service.UserService
}

// NewAuthHandler 创建AuthHandler实例
func NewAuthHandler(s *service.UserService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	type req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.service.Login(r.Email, r.Password)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "登录成功", &response.LoginResponse{
		User:        response.FilterUserInfo(user),
		AccessToken: token,
	})
}
