package jwt

import (
	"strings"

	"match-system/pkg/logger"
	"match-system/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ContextUserIDKey 用户ID在gin.Context中的键名
	ContextUserIDKey = "user_id"
	// ContextIsAdminKey 管理员标记在gin.Context中的键名
	ContextIsAdminKey = "is_admin"
	// ContextClaimsKey JWT声明在gin.Context中的键名
	ContextClaimsKey = "jwt_claims"
)

// AuthMiddleware JWT认证中间件
// 从请求头中提取Authorization: Bearer <token>
// 验证token并将用户信息存入gin.Context
func (s *JWTService) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从请求头获取Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少Authorization请求头")
			c.Abort()
			return
		}

		// 检查Bearer前缀
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "Authorization格式错误，应为Bearer <token>")
			c.Abort()
			return
		}

		// 提取token
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			response.Unauthorized(c, "token不能为空")
			c.Abort()
			return
		}

		// 验证token
		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			logger.Warn("JWT验证失败",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			response.Unauthorized(c, "token无效或已过期")
			c.Abort()
			return
		}

		// 提取用户信息
		userID := claims.Subject
		isAdmin := false
		if claims.Data != nil {
			if v, ok := claims.Data["is_admin"].(bool); ok {
				isAdmin = v
			}
		}

		// 将用户信息存入Context
		c.Set(ContextUserIDKey, userID)
		c.Set(ContextIsAdminKey, isAdmin)
		c.Set(ContextClaimsKey, claims)

		c.Next()
	}
}

// AdminMiddleware 管理员权限中间件（在AuthMiddleware之后使用）
// 管理后台的所有操作都要求令牌携带管理员标记
func (s *JWTService) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			logger.Warn("非管理员访问管理接口",
				zap.String("user_id", GetUserID(c)),
				zap.String("path", c.Request.URL.Path),
			)
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID 从gin.Context中获取用户ID
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// IsAdmin 从gin.Context中获取管理员标记
func IsAdmin(c *gin.Context) bool {
	if isAdmin, exists := c.Get(ContextIsAdminKey); exists {
		if v, ok := isAdmin.(bool); ok {
			return v
		}
	}
	return false
}

// GetClaims 从gin.Context中获取JWT声明
func GetClaims(c *gin.Context) *CustomClaims {
	if claims, exists := c.Get(ContextClaimsKey); exists {
		if cl, ok := claims.(*CustomClaims); ok {
			return cl
		}
	}
	return nil
}
